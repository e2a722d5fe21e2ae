package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/internal/server"
	"github.com/PigStep/vibe-idef0-front/pkg/config"
	"github.com/PigStep/vibe-idef0-front/pkg/observability"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Settings come from the built-in defaults, the optional --config TOML file, a
.env file in the working directory and IDEF0_* environment variables, in that
order. --addr and --data-dir override everything else.

Endpoints:
  GET  /health
  GET  /api/v1/diagram?variant=simple
  GET  /api/v1/diagrams
  POST /api/v1/diagram/convert
  POST /api/v1/diagram/preview?format=svg
  POST /api/v1/diagram/layout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dataDir != "" {
				cfg.Store.DataDir = dataDir
			}
			if f := cmd.Flag("verbose"); f == nil || !f.Changed {
				c.SetLogLevel(cfg.LogLevel())
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8000\")")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory of stored documents (file store)")

	return cmd
}

// runServe opens the configured cache and store and serves until ctx is done.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	observability.NewLogHooks(logger).Register()

	fallback, _ := cacheDir()
	cch, err := cfg.OpenCache(ctx, fallback)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(cch, cfg.Keyer(), logger)
	defer runner.Close()

	st, err := cfg.OpenStore(ctx, cch)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	printInfo("Starting %s", server.ServiceName)
	printKeyValue("address", cfg.Server.Addr)
	printKeyValue("store", st.Name())
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("variants", strings.Join(cfg.Store.Variants, ", "))
	printNewline()

	return server.New(cfg, runner, st, logger).ListenAndServe(ctx)
}
