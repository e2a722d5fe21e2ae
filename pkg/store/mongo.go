package store

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "idef0"
	DefaultMongoCollection = "diagrams"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	// Timeout bounds connecting and each operation. Zero means 5s.
	Timeout time.Duration `toml:"timeout"`
}

// artifact is the stored document shape. Variant has a unique index.
type artifact struct {
	Variant   string    `bson:"variant"`
	XML       string    `bson:"xml"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps documents in a MongoDB collection, one per variant.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	closed  atomic.Bool
}

// NewMongoStore connects, verifies the connection with a ping (retrying
// transient network failures) and ensures the unique variant index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo store: uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo store: connect: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		return classifyMongo(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo store: ping: %w", err)
	}

	s := &MongoStore{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
	}

	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "variant", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo store: create index: %w", err)
	}
	return s, nil
}

// Name returns "mongo".
func (s *MongoStore) Name() string { return BackendMongo }

// Get loads the document for variant.
func (s *MongoStore) Get(ctx context.Context, variant string) (data []byte, err error) {
	start := time.Now()
	defer func() { observe(ctx, BackendMongo, variant, start, data, err) }()

	if err := s.check(variant); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var a artifact
	err = s.coll.FindOne(ctx, bson.M{"variant": variant}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, NotFound(variant)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", variant, classifyMongo(err))
	}
	return []byte(a.XML), nil
}

// Put upserts the document for variant.
func (s *MongoStore) Put(ctx context.Context, variant string, data []byte) error {
	if err := s.check(variant); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := artifact{Variant: variant, XML: string(data), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"variant": variant},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", variant, classifyMongo(err))
	}
	return nil
}

// List returns the distinct stored variants.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, cache.ErrClosed
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.coll.Distinct(ctx, "variant", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", classifyMongo(err))
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close disconnects the client. It is safe to call more than once.
func (s *MongoStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) check(variant string) error {
	if s.closed.Load() {
		return cache.ErrClosed
	}
	return errors.ValidateVariant(variant)
}

// classifyMongo marks network failures and timeouts as retryable.
func classifyMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	return err
}

var _ Store = (*MongoStore)(nil)
