package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/pkg/config"
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		configPath string
		variant    string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "publish [diagram.json]",
		Short: "Convert a diagram and store it for the HTTP API",
		Long: `Convert a diagram and store it for the HTTP API.

The document is stored under the variant name in the configured store (the
data directory by default, or MongoDB) and served by
GET /api/v1/diagram?variant=<name>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateVariant(variant); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Store.DataDir = dataDir
			}
			return c.runPublish(cmd.Context(), cfg, args[0], variant)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&variant, "variant", "", "name to store the document under")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory of stored documents (file store)")
	_ = cmd.MarkFlagRequired("variant")

	return cmd
}

func (c *CLI) runPublish(ctx context.Context, cfg *config.Config, input, variant string) error {
	d, err := readDiagram(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Convert(ctx, d, cfg.PipelineOptions())
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	st, err := cfg.OpenStore(ctx, nil)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Storing %s in %s", store.Filename(variant), st.Name()))
	spin.Start()
	err = st.Put(ctx, variant, result.Document)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("store %s: %w", variant, err)
	}

	printSuccess("Published %s", store.Filename(variant))
	printDetail("Store: %s", st.Name())
	if !cfg.AllowsVariant(variant) {
		printWarning("%q is not in store.variants; the API will not serve it", variant)
	}
	return nil
}
