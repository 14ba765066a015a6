package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/kitreg/kitreg/internal/server"
	"github.com/kitreg/kitreg/internal/server/handlers"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		app, err := server.NewApp(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Error("Failed to close app", "error", err)
			}
		}()

		e := server.NewEcho()
		handlers.RegisterRoutes(e, app)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Run(ctx, e, cfg.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
