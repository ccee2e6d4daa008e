package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/subseq/configs"
	"github.com/Aman-CERP/subseq/internal/config"
	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// newConfigCmd creates the config command, which prints the effective
// configuration after files, environment and flags are applied.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	var showPath bool
	var showExample bool
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration a search would use, after layering the user
config file, --config, SUBSEQ_* environment variables and flags.

Use --example for a commented template, or --write to save the effective
configuration as a starting point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showExample {
				_, err := fmt.Fprint(cmd.OutOrStdout(), configs.ConfigTemplate)
				return err
			}

			if showPath {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
				return err
			}

			if writePath != "" {
				if err := os.MkdirAll(filepath.Dir(writePath), 0o755); err != nil {
					return suberrors.New(suberrors.ErrCodeOutputWrite, "failed to create config directory", err)
				}
				if err := opts.cfg.WriteYAML(writePath); err != nil {
					return suberrors.New(suberrors.ErrCodeOutputWrite, err.Error(), err).
						WithDetail("path", writePath)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", writePath)
				return err
			}

			return opts.cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&showExample, "example", false, "Print a commented example config file")
	cmd.Flags().BoolVar(&showPath, "path", false, "Print the user config file path")
	cmd.Flags().StringVar(&writePath, "write", "", "Write the effective configuration to this file")

	return cmd
}
