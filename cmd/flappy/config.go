package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default world configuration",
	Long: `Print the built-in world constants as YAML. Save the output, edit it
and pass it back with --config, or drop it at ~/.flappy/configs/flappy.yaml.

Examples:
  flappy config > my-flappy.yaml
  flappy play --config my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	},
}
