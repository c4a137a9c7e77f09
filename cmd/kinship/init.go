package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/infrastructure/config"
	"github.com/ersonp/kinship/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new kinship workspace",
		Long:  "Creates a .kinship directory with default configuration and the SQLite schema.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	base, err := workspaceDir()
	if err != nil {
		return err
	}

	handler := handlers.NewInitHandler(openSchema)
	result, err := handler.Handle(ctx, base)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created database: %s\n", result.DatabasePath)
	fmt.Println("Kinship initialized successfully!")

	return nil
}

func openSchema(cfg *config.Config) (handlers.SchemaManager, error) {
	repo, err := sqlite.NewRepository(cfg.SQLite, entities.DefaultCatalog())
	if err != nil {
		return nil, err
	}
	return repo, nil
}
