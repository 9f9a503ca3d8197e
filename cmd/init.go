package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhelbig/rexsync/pkg/config"
)

// NewInitCommand creates the init subcommand, which writes a commented
// starter configuration file.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := config.WriteTemplate(path); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("Configuration written to %s\n", path)
			return nil
		},
	}
}
