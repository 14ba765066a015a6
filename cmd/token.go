package cmd

import (
	"fmt"
	"time"

	"github.com/kitreg/kitreg/internal/auth"
	"github.com/kitreg/kitreg/internal/config"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/spf13/cobra"
)

var (
	tokenID     string
	tokenEmail  string
	tokenExpiry time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed bearer token for a publisher identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("%w: auth.jwt_secret is not set", domain.ErrInvalidConfig)
		}

		token, err := auth.SignIdentity(cfg.Auth.JWTSecret,
			auth.Identity{ID: tokenID, Email: tokenEmail}, tokenExpiry)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenID, "id", "", "identity id (sub claim)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "identity email")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 24*time.Hour, "token lifetime (0 for no expiry)")
	tokenCmd.MarkFlagRequired("id")
}
