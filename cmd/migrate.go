package main

import (
	"context"
	"fmt"

	"github.com/AnthoniusHendriyanto/realm-auth/config"
	"github.com/AnthoniusHendriyanto/realm-auth/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.StoreDriverPostgres)
			}
			return runMigrate(cmd.Context(), cfg.DBURL)
		},
	}
}

func runMigrate(ctx context.Context, dbURL string) error {
	pool, err := db.NewPostgresPool(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return db.Migrate(ctx, pool)
}
