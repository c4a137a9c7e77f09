package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
)

var schedulerEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type schedulerFixture struct {
	*generatorFixture
	clock      *mocks.Clock
	dispatcher *mocks.Dispatcher
	locker     *mocks.Locker
	metrics    *mocks.Metrics
	scheduler  *SuggestionScheduler
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		generatorFixture: newFamilyFixture(t),
		clock:            mocks.NewClock(schedulerEpoch),
		dispatcher:       &mocks.Dispatcher{},
		locker:           &mocks.Locker{},
		metrics:          mocks.NewMetrics(),
	}
	f.store.Now = f.clock.Now
	f.scheduler = NewSuggestionScheduler(SchedulerDeps{
		Generator:  f.generator,
		Store:      f.store,
		Locker:     f.locker,
		Dispatcher: f.dispatcher,
		Clock:      f.clock,
		Metrics:    f.metrics,
		Logger:     zap.NewNop(),
	}, DefaultSchedulerConfig())
	return f
}

func TestSuggestionScheduler_OnRelationshipAccepted(t *testing.T) {
	f := newSchedulerFixture(t)

	err := f.scheduler.OnRelationshipAccepted(context.Background(), entities.RelationshipAccepted{
		RequesterID: "ahmed", TargetID: "leila", RelationTypeCode: "daughter_in_law",
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.Tasks, 1)
	task := f.dispatcher.Tasks[0]
	assert.Equal(t, TriggerRelationshipAccepted, task.Name)
	assert.Zero(t, task.Delay)

	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, []string{"ahmed", "leila"}, f.locker.Locked)
	assert.Equal(t, f.locker.Locked, f.locker.Unlocked)

	list, err := f.store.ListSuggestions(context.Background(), "ahmed", entities.SuggestionPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "daughter_in_law", list[0].SuggestedCode)

	list, err = f.store.ListSuggestions(context.Background(), "leila", entities.SuggestionPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "father_in_law", list[0].SuggestedCode)
}

func TestSuggestionScheduler_OnRelationshipAccepted_IsolatesFailures(t *testing.T) {
	f := newSchedulerFixture(t)
	f.store.SubjectErrs["ahmed"] = errors.New("ahmed's rows are locked")

	require.NoError(t, f.scheduler.OnRelationshipAccepted(context.Background(), entities.RelationshipAccepted{
		RequesterID: "ahmed", TargetID: "leila",
	}))

	err := f.dispatcher.Tasks[0].Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refreshing ahmed")

	// Leila was still refreshed.
	list, err := f.store.ListSuggestions(context.Background(), "leila", entities.SuggestionPending)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, f.metrics.Failures[TriggerRelationshipAccepted])
}

func TestSuggestionScheduler_OnRelationshipAccepted_Validation(t *testing.T) {
	f := newSchedulerFixture(t)
	err := f.scheduler.OnRelationshipAccepted(context.Background(), entities.RelationshipAccepted{RequesterID: "ahmed"})
	require.Error(t, err)
	assert.Empty(t, f.dispatcher.Tasks)
}

func TestSuggestionScheduler_OnRelationshipAccepted_DispatchError(t *testing.T) {
	f := newSchedulerFixture(t)
	f.dispatcher.Err = errors.New("closed")

	err := f.scheduler.OnRelationshipAccepted(context.Background(), entities.RelationshipAccepted{RequesterID: "a", TargetID: "b"})
	require.Error(t, err)
}

func TestSuggestionScheduler_OnMemberAdded(t *testing.T) {
	f := newSchedulerFixture(t)
	// Leila joins; the edge Mohamed -wife-> Leila is not in the graph yet.
	f.graph.Edges = f.graph.Edges[:1]

	err := f.scheduler.OnMemberAdded(context.Background(), entities.MemberAdded{
		NewMemberID: "leila", AddedByID: "mohamed", RelationTypeCode: "wife",
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.Tasks, 2)
	assert.Equal(t, DefaultNewMemberDelay, f.dispatcher.Tasks[0].Delay)
	assert.Equal(t, DefaultAddedByDelay, f.dispatcher.Tasks[1].Delay)

	errs := f.dispatcher.RunAll(context.Background())
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"leila", "mohamed"}, f.locker.Locked)

	list, err := f.store.ListSuggestions(context.Background(), "leila", entities.SuggestionPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ahmed", list[0].CandidateID)
	assert.Equal(t, "father_in_law", list[0].SuggestedCode)
}

func TestSuggestionScheduler_OnMemberAdded_TasksAreIndependent(t *testing.T) {
	f := newSchedulerFixture(t)
	f.store.SubjectErrs["leila"] = errors.New("boom")

	require.NoError(t, f.scheduler.OnMemberAdded(context.Background(), entities.MemberAdded{
		NewMemberID: "leila", AddedByID: "mohamed", RelationTypeCode: "wife",
	}))

	errs := f.dispatcher.RunAll(context.Background())
	require.Len(t, errs, 2)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestSuggestionScheduler_Refresh_PurgesWithRetention(t *testing.T) {
	f := newSchedulerFixture(t)

	saved, err := f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	require.Len(t, f.store.PurgeCalls, 1)
	assert.Equal(t, schedulerEpoch.Add(-DefaultRetention), f.store.PurgeCalls[0])

	// Running again is a no-op: the pending suggestion is kept.
	saved, err = f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.NoError(t, err)
	assert.Zero(t, saved)

	// Eight days later the stale suggestion is purged and proposed again.
	f.clock.Advance(8 * 24 * time.Hour)
	saved, err = f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Equal(t, 1, f.metrics.Purged)
	assert.Equal(t, 2, f.metrics.Saved)
}

func TestSuggestionScheduler_Refresh_LockError(t *testing.T) {
	f := newSchedulerFixture(t)
	f.locker.Err = errors.New("timeout")

	_, err := f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.Error(t, err)
	assert.Equal(t, 1, f.metrics.Failures[TriggerManual])
	assert.Empty(t, f.store.PurgeCalls)
}

func TestSuggestionScheduler_Refresh_PurgeError(t *testing.T) {
	f := newSchedulerFixture(t)
	f.store.PurgeErr = errors.New("purge failed")

	_, err := f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.Error(t, err)
	assert.Equal(t, 0, f.store.SaveCalls)
}

func TestSuggestionScheduler_Refresh_SaveError(t *testing.T) {
	f := newSchedulerFixture(t)
	f.store.SaveErr = errors.New("disk full")

	_, err := f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving suggestions")
	assert.Equal(t, []string{"ahmed"}, f.locker.Unlocked)
}

func TestSuggestionScheduler_PurgeStale(t *testing.T) {
	f := newSchedulerFixture(t)
	_, err := f.scheduler.Refresh(context.Background(), "ahmed", nil)
	require.NoError(t, err)

	purged, err := f.scheduler.PurgeStale(context.Background(), "ahmed")
	require.NoError(t, err)
	assert.Zero(t, purged)

	f.clock.Advance(DefaultRetention + time.Minute)
	purged, err = f.scheduler.PurgeStale(context.Background(), "ahmed")
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}
