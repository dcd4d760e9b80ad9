package main

import (
	"fmt"
	"log"

	"github.com/abgdnv/shoecatalog/internal/config"
	"github.com/abgdnv/shoecatalog/internal/store"
	"github.com/abgdnv/shoecatalog/pkg/config/configloader"
	"github.com/spf13/cobra"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configloader.Load[*config.Config](serviceName, configloader.WithConfigFile(*configFile))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.Database.Validate(); err != nil {
				return fmt.Errorf("invalid database configuration: %w", err)
			}
			if err := store.Migrate(cfg.Database.URL); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}
