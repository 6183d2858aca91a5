package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"newsdesk/internal/activity"
	"newsdesk/internal/content/store/item"
	"newsdesk/internal/jwttoken"
	"newsdesk/internal/permissions"
	"newsdesk/internal/platform/config"
	"newsdesk/internal/platform/database"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsdeskctl",
		Short:         "Operator tooling for the newsdesk item service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newTokenCmd(),
		newPermissionsCmd(),
		newActivitiesCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		Long: `Apply pending schema migrations to the configured database.

Reads NEWSDESK_DB_DRIVER and NEWSDESK_DB_DSN like the server does.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := item.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", db.Dialect.Driver)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		userID     string
		ttl        time.Duration
		signingKey string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		Long: `Mint a bearer token for a user.

The token carries the user id that namespaces the user's opened set.

Examples:
  newsdeskctl token --user editor-1
  newsdeskctl token --user editor-1 --ttl 8h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			key := cfg.Auth.SigningKey
			if signingKey != "" {
				key = signingKey
			}
			if key == "" {
				return errors.New("no signing key: set NEWSDESK_AUTH_SIGNING_KEY or --signing-key")
			}
			token, err := jwttoken.NewJWTService(key, cfg.Auth.Issuer, cfg.Auth.Audience).
				GenerateAccessToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "HMAC key, overrides NEWSDESK_AUTH_SIGNING_KEY")
	return cmd
}

func newPermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "Print the built-in permission descriptors as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := permissions.NewRegistry()
			permissions.RegisterDefaults(registry)
			return printJSON(cmd.OutOrStdout(), registry.All())
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	var menuOnly bool
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Print the activity catalog as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := activity.NewCatalog()
			if err := activity.RegisterDefaults(catalog); err != nil {
				return err
			}
			if menuOnly {
				return printJSON(cmd.OutOrStdout(), catalog.Menu())
			}
			return printJSON(cmd.OutOrStdout(), catalog.Activities())
		},
	}
	cmd.Flags().BoolVar(&menuOnly, "menu", false, "only activities shown in the navigation menu")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
