package cmd

import (
	"fmt"

	"github.com/kitreg/kitreg/internal/cli"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/spf13/cobra"
)

var publishToken string

var publishCmd = &cobra.Command{
	Use:   "publish <archive.tar.gz>",
	Short: "Publish a kit archive to the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token := publishToken
		if token == "" {
			token = cfg.Client.Token
		}

		client := cli.NewClient(cfg.Client.RegistryURL, token)
		result, err := client.Publish(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&publishToken, "token", "", "bearer token (overrides client.token from config)")
}
