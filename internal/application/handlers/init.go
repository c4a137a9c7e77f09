package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/kinship/internal/infrastructure/config"
)

// SchemaManager creates the storage schema.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
	Close() error
}

// SchemaOpener opens the storage described by the configuration.
type SchemaOpener func(cfg *config.Config) (SchemaManager, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	open SchemaOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open SchemaOpener) *InitHandler {
	return &InitHandler{open: open}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
}

// Handle writes the default configuration and creates the database schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("kinship already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	schema, err := h.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer schema.Close()

	if err := schema.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		DatabasePath: cfg.SQLite.Path,
	}, nil
}
