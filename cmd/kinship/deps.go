package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/config"
	"github.com/ersonp/kinship/internal/infrastructure/lock"
	"github.com/ersonp/kinship/internal/infrastructure/logger"
	"github.com/ersonp/kinship/internal/infrastructure/metrics"
	"github.com/ersonp/kinship/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/kinship/internal/infrastructure/worker"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	Config        *config.Config
	Logger        *zap.Logger
	People        *handlers.PeopleHandler
	Relationships *handlers.RelationshipHandler
	Suggestions   *handlers.SuggestionHandler
	Import        *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	dispatcher *worker.Dispatcher
}

// workspaceDir returns the --dir flag value or the current directory.
func workspaceDir() (string, error) {
	if globalDir != "" {
		return globalDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// Background suggestion tasks started by fn are drained before it returns.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	base, err := workspaceDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(base)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globalLogLevel != "" {
		cfg.Log.Level = globalLogLevel
	}
	if globalMetricsTextfile != "" {
		cfg.Metrics.Textfile = globalMetricsTextfile
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	catalog := entities.DefaultCatalog()

	repo, err := sqlite.NewRepository(cfg.SQLite, catalog)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	composer, err := services.NewRelationComposer(catalog)
	if err != nil {
		return fmt.Errorf("building relation rules: %w", err)
	}

	m := metrics.New()
	generator := services.NewSuggestionGenerator(repo, repo, repo, composer, catalog, log.Named("generator"), cfg.Scheduler.Limit)

	dispatcher := worker.NewDispatcher(worker.Config{
		Concurrency: cfg.Worker.Concurrency,
		MaxAttempts: cfg.Worker.MaxAttempts,
		RetryDelay:  cfg.Worker.RetryDelay,
	}, worker.SystemClock{}, log.Named("worker"), m)

	scheduler := services.NewSuggestionScheduler(services.SchedulerDeps{
		Generator:  generator,
		Store:      repo,
		Locker:     locker,
		Dispatcher: dispatcher,
		Clock:      worker.SystemClock{},
		Metrics:    m,
		Logger:     log.Named("scheduler"),
	}, services.SchedulerConfig{
		NewMemberDelay: cfg.Scheduler.NewMemberDelay,
		AddedByDelay:   cfg.Scheduler.AddedByDelay,
		Retention:      cfg.Scheduler.Retention,
	})

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Logger:        log,
			People:        handlers.NewPeopleHandler(repo, repo, catalog),
			Relationships: handlers.NewRelationshipHandler(repo, repo, repo, catalog, scheduler),
			Suggestions: handlers.NewSuggestionHandler(handlers.SuggestionDeps{
				Directory: repo,
				Store:     repo,
				Edges:     repo,
				Generator: generator,
				Refresher: scheduler,
				Catalog:   catalog,
				Events:    scheduler,
			}),
			Import: handlers.NewImportHandler(
				services.NewImportService(repo, repo, catalog),
				scheduler,
				log.Named("import"),
			),
		},
		dispatcher: dispatcher,
	}

	runErr := fn(deps)
	drain(ctx, dispatcher, log)

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("writing metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}

	return runErr
}

// newLocker builds the configured per-subject lock backend.
func newLocker(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.SubjectLocker, func(), error) {
	if cfg.Lock.Backend != config.LockBackendRedis {
		return lock.NewMemoryLocker(), func() {}, nil
	}

	client, err := lock.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	locker := lock.NewRedisLocker(client, lock.RedisConfig{
		TTL:           cfg.Lock.TTL,
		RetryInterval: cfg.Lock.RetryInterval,
		WaitTimeout:   cfg.Lock.WaitTimeout,
	}, log.Named("lock"))

	return locker, func() { closeRedis(client, log) }, nil
}

func closeRedis(client *redis.Client, log *zap.Logger) {
	if err := client.Close(); err != nil {
		log.Warn("closing redis client", zap.Error(err))
	}
}

// drain waits for scheduled suggestion tasks, including delayed ones, unless
// the command is interrupted.
func drain(ctx context.Context, dispatcher *worker.Dispatcher, log *zap.Logger) {
	defer dispatcher.Close()

	if n := dispatcher.Pending(); n > 0 {
		log.Info("waiting for suggestion tasks", zap.Int("pending", n))
	}

	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("interrupted, abandoning suggestion tasks", zap.Int("pending", dispatcher.Pending()))
	}
}

// newComposeHandler builds a ComposeHandler over the built-in catalog.
// It needs no workspace.
func newComposeHandler() (*handlers.ComposeHandler, error) {
	catalog := entities.DefaultCatalog()
	composer, err := services.NewRelationComposer(catalog)
	if err != nil {
		return nil, fmt.Errorf("building relation rules: %w", err)
	}
	return handlers.NewComposeHandler(composer, catalog), nil
}
