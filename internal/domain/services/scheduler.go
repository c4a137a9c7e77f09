package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// Default scheduling parameters.
const (
	DefaultNewMemberDelay = 5 * time.Second
	DefaultAddedByDelay   = 10 * time.Second
	DefaultRetention      = 7 * 24 * time.Hour
)

// Trigger names used in logs, task names and metrics.
const (
	TriggerRelationshipAccepted = "relationship_accepted"
	TriggerMemberAdded          = "member_added"
	TriggerManual               = "manual"
)

// SchedulerConfig holds the scheduler timings.
type SchedulerConfig struct {
	// NewMemberDelay postpones the new member's refresh so that the edge
	// that added them is visible to the graph first.
	NewMemberDelay time.Duration
	// AddedByDelay postpones the adder's refresh.
	AddedByDelay time.Duration
	// Retention is how long a pending suggestion lives.
	Retention time.Duration
}

// DefaultSchedulerConfig returns the production timings.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		NewMemberDelay: DefaultNewMemberDelay,
		AddedByDelay:   DefaultAddedByDelay,
		Retention:      DefaultRetention,
	}
}

// SuggestionScheduler turns membership events into background suggestion
// refreshes.
type SuggestionScheduler struct {
	generator  Generator
	store      ports.SuggestionStore
	locker     ports.SubjectLocker
	dispatcher ports.TaskDispatcher
	clock      ports.Clock
	metrics    ports.SuggestionMetrics
	logger     *zap.Logger
	cfg        SchedulerConfig
}

// SchedulerDeps groups the scheduler collaborators.
type SchedulerDeps struct {
	Generator  Generator
	Store      ports.SuggestionStore
	Locker     ports.SubjectLocker
	Dispatcher ports.TaskDispatcher
	Clock      ports.Clock
	Metrics    ports.SuggestionMetrics
	Logger     *zap.Logger
}

// NewSuggestionScheduler creates a scheduler. Metrics and Logger are optional.
func NewSuggestionScheduler(deps SchedulerDeps, cfg SchedulerConfig) *SuggestionScheduler {
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	return &SuggestionScheduler{
		generator:  deps.Generator,
		store:      deps.Store,
		locker:     deps.Locker,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// OnRelationshipAccepted schedules an immediate refresh of both parties.
// The requester is refreshed first; a failure for one party does not stop
// the other.
func (s *SuggestionScheduler) OnRelationshipAccepted(ctx context.Context, evt entities.RelationshipAccepted) error {
	if evt.RequesterID == "" || evt.TargetID == "" {
		return errors.New("relationship accepted event requires both parties")
	}

	log := s.logger.With(
		zap.String("trigger", TriggerRelationshipAccepted),
		zap.String("requester_id", evt.RequesterID),
		zap.String("target_id", evt.TargetID),
		zap.String("relation", evt.RelationTypeCode),
	)

	task := ports.Task{
		Name: TriggerRelationshipAccepted,
		Run: func(ctx context.Context) error {
			var errs []error
			for _, subjectID := range []string{evt.RequesterID, evt.TargetID} {
				if _, err := s.refresh(ctx, subjectID, nil, TriggerRelationshipAccepted); err != nil {
					log.Error("refreshing suggestions failed", zap.String("subject_id", subjectID), zap.Error(err))
					errs = append(errs, fmt.Errorf("refreshing %s: %w", subjectID, err))
				}
			}
			return errors.Join(errs...)
		},
	}

	if err := s.dispatcher.Dispatch(ctx, task); err != nil {
		return fmt.Errorf("dispatching %s refresh: %w", TriggerRelationshipAccepted, err)
	}
	log.Debug("scheduled suggestion refresh")
	return nil
}

// OnMemberAdded schedules two independent refreshes seeded with the edge the
// event states: one for the new member after NewMemberDelay, one for the
// adder after AddedByDelay.
func (s *SuggestionScheduler) OnMemberAdded(ctx context.Context, evt entities.MemberAdded) error {
	if evt.NewMemberID == "" || evt.AddedByID == "" {
		return errors.New("member added event requires both members")
	}

	seed := evt.SeedEdge()
	log := s.logger.With(
		zap.String("trigger", TriggerMemberAdded),
		zap.String("new_member_id", evt.NewMemberID),
		zap.String("added_by_id", evt.AddedByID),
		zap.String("relation", evt.RelationTypeCode),
	)

	tasks := []struct {
		name    string
		subject string
		delay   time.Duration
	}{
		{TriggerMemberAdded + ".new_member", evt.NewMemberID, s.cfg.NewMemberDelay},
		{TriggerMemberAdded + ".added_by", evt.AddedByID, s.cfg.AddedByDelay},
	}

	var errs []error
	for _, t := range tasks {
		subjectID := t.subject
		err := s.dispatcher.Dispatch(ctx, ports.Task{
			Name:  t.name,
			Delay: t.delay,
			Run: func(ctx context.Context) error {
				_, err := s.refresh(ctx, subjectID, &seed, TriggerMemberAdded)
				if err != nil {
					log.Error("refreshing suggestions failed", zap.String("subject_id", subjectID), zap.Error(err))
				}
				return err
			},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("dispatching %s: %w", t.name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Debug("scheduled suggestion refreshes",
		zap.Duration("new_member_delay", s.cfg.NewMemberDelay),
		zap.Duration("added_by_delay", s.cfg.AddedByDelay))
	return nil
}

// Refresh regenerates the subject's suggestions synchronously and returns
// how many new suggestions were saved.
func (s *SuggestionScheduler) Refresh(ctx context.Context, subjectID string, seed *entities.RelationshipEdge) (int, error) {
	return s.refresh(ctx, subjectID, seed, TriggerManual)
}

// PurgeStale deletes the subject's pending suggestions older than the
// retention period.
func (s *SuggestionScheduler) PurgeStale(ctx context.Context, subjectID string) (int, error) {
	unlock, err := s.locker.Lock(ctx, subjectID)
	if err != nil {
		return 0, fmt.Errorf("locking %s: %w", subjectID, err)
	}
	defer unlock()

	purged, err := s.store.PurgeStalePending(ctx, subjectID, s.clock.Now().Add(-s.cfg.Retention))
	if err != nil {
		return 0, fmt.Errorf("purging stale suggestions: %w", err)
	}
	s.metrics.SuggestionsPurged(purged)
	return purged, nil
}

func (s *SuggestionScheduler) refresh(ctx context.Context, subjectID string, seed *entities.RelationshipEdge, trigger string) (saved int, err error) {
	start := s.clock.Now()
	defer func() {
		s.metrics.RefreshDuration(s.clock.Now().Sub(start))
		if err != nil {
			s.metrics.RefreshFailed(trigger)
		}
	}()

	unlock, err := s.locker.Lock(ctx, subjectID)
	if err != nil {
		return 0, fmt.Errorf("locking %s: %w", subjectID, err)
	}
	defer unlock()

	purged, err := s.store.PurgeStalePending(ctx, subjectID, start.Add(-s.cfg.Retention))
	if err != nil {
		return 0, fmt.Errorf("purging stale suggestions: %w", err)
	}
	s.metrics.SuggestionsPurged(purged)

	candidates, err := s.generator.Generate(ctx, subjectID, seed)
	if err != nil {
		return 0, fmt.Errorf("generating suggestions: %w", err)
	}
	s.metrics.SuggestionsGenerated(len(candidates))

	saved, err = s.store.SaveAll(ctx, subjectID, candidates)
	if err != nil {
		return 0, fmt.Errorf("saving suggestions: %w", err)
	}
	s.metrics.SuggestionsSaved(saved)

	s.logger.Info("refreshed suggestions",
		zap.String("subject_id", subjectID),
		zap.String("trigger", trigger),
		zap.Int("purged", purged),
		zap.Int("generated", len(candidates)),
		zap.Int("saved", saved))

	return saved, nil
}
