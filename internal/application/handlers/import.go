package handlers

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/parsers"
)

// defaultRefreshConcurrency bounds parallel refreshes after an import.
const defaultRefreshConcurrency = 4

// ImportHandler handles importing family files.
type ImportHandler struct {
	service   *services.ImportService
	refresher Refresher
	logger    *zap.Logger
}

// NewImportHandler creates a new import handler. refresher may be nil when
// imports never refresh suggestions.
func NewImportHandler(service *services.ImportService, refresher Refresher, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{
		service:   service,
		refresher: refresher,
		logger:    logger,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing people and edges
	// Refresh regenerates suggestions for every imported person.
	Refresh     bool
	Concurrency int
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	PeopleImported        int
	RelationshipsImported int
	Skipped               int
	Errors                []services.ImportError
	// Refreshed and SuggestionsSaved are set when Refresh was requested.
	Refreshed        int
	SuggestionsSaved int
}

// Handle imports people and relationships from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	family, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(family.People) == 0 && len(family.Relationships) == 0 {
		return &ImportResult{}, nil
	}

	serviceOpts := services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	}

	serviceResult, err := h.service.Import(ctx, family, serviceOpts)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		PeopleImported:        serviceResult.PeopleImported,
		RelationshipsImported: serviceResult.RelationshipsImported,
		Skipped:               serviceResult.Skipped,
		Errors:                serviceResult.Errors,
	}

	if opts.Refresh && !opts.DryRun && h.refresher != nil {
		saved, err := h.refreshAll(ctx, serviceResult.PersonIDs, opts.Concurrency)
		if err != nil {
			return nil, err
		}
		result.Refreshed = len(serviceResult.PersonIDs)
		result.SuggestionsSaved = saved
	}

	return result, nil
}

// refreshAll refreshes every person in parallel. The first failure cancels
// the refreshes not yet started.
func (h *ImportHandler) refreshAll(ctx context.Context, personIDs []string, concurrency int) (int, error) {
	if concurrency < 1 {
		concurrency = defaultRefreshConcurrency
	}

	var saved atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, id := range personIDs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			n, err := h.refresher.Refresh(gCtx, id, nil)
			if err != nil {
				return fmt.Errorf("refreshing suggestions for %s: %w", id, err)
			}
			saved.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	h.logger.Info("refreshed suggestions after import",
		zap.Int("people", len(personIDs)),
		zap.Int64("saved", saved.Load()))
	return int(saved.Load()), nil
}
