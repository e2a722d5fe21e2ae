package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
)

// cacheCommand groups the commands that manage the local conversion cache.
// Documents and previews are cached under $XDG_CACHE_HOME/idef0 (or
// ~/.cache/idef0) keyed by diagram content and options.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local conversion cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached documents and previews",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				n, err := cache.ClearDir(dir)
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				if n == 0 {
					printInfo("Cache is empty")
					return nil
				}
				printSuccess("Removed %d cached entries", n)
				printDetail("Directory: %s", dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show how many entries the cache holds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				st, err := cache.StatDir(dir)
				if err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "directory  %s\nentries    %d\nexpired    %d\nsize       %d bytes\n",
					dir, st.Entries, st.Expired, st.Bytes)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
	)
	return cmd
}
