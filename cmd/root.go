// Package cmd wires the command-line surface of rexsync.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dhelbig/rexsync/pkg/buildinfo"
	"github.com/dhelbig/rexsync/pkg/config"
	"github.com/dhelbig/rexsync/pkg/plog"
)

// NewRootCommand creates the root cobra command and its subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   buildinfo.Name,
		Short: "One-directional, pattern-filtered directory synchronizer",
		Long: `rexsync copies files from a source tree to a destination tree in one
direction. Files are selected by case-insensitive regular expressions
matched against their base names; a file is copied when it is missing
from the destination or strictly newer in the source, and skipped
otherwise. Deletion never happens.`,
		Version: buildinfo.Version,
		// Errors are rendered once in main; suppress cobra's own echo.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", config.ConfigFileName, "Path to the configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().Bool("quiet", false, "Suppress informational output; warnings and errors still print")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			parsed, err := plog.ParseLevel(level)
			if err != nil {
				return err
			}
			plog.SetLevel(parsed)
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			plog.SetQuiet(true)
		}
		return nil
	}

	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
