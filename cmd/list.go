package cmd

import (
	"fmt"

	"github.com/kitreg/kitreg/internal/cli"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/kitreg/kitreg/internal/installed"
	"github.com/kitreg/kitreg/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	listOwner string
	listLimit int
	listSkip  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List kits in the catalog, grouped by package",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client := cli.NewClient(cfg.Client.RegistryURL, cfg.Client.Token)
		page, err := client.List(cmd.Context(), listOwner, listLimit, listSkip)
		if err != nil {
			return err
		}

		source := installed.Open(cfg.Client.InstalledFile)
		installedKits, err := source.List()
		if err != nil {
			return err
		}

		groups := resolve.Group(page.Records)
		fmt.Print(cli.RenderGroups(groups, installedKits))
		fmt.Printf("%d of %d records\n", page.Returned, page.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listOwner, "owner", "", "filter by kit owner")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "page size (default 50)")
	listCmd.Flags().IntVar(&listSkip, "skip", 0, "records to skip")
}
