package cmd

import (
	"fmt"

	"github.com/kitreg/kitreg/internal/cli"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/kitreg/kitreg/internal/installed"
	"github.com/spf13/cobra"
)

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "Show kits installed in the local environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		source := installed.Open(cfg.Client.InstalledFile)
		kits, err := source.List()
		if err != nil {
			return err
		}

		fmt.Print(cli.RenderInstalled(kits))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installedCmd)
}
