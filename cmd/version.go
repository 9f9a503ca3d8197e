package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhelbig/rexsync/pkg/buildinfo"
)

// NewVersionCommand creates the version subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit %s)\n",
				buildinfo.Name, buildinfo.Version, buildinfo.Commit)
		},
	}
}
