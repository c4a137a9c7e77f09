package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/infrastructure/config"
)

// useWorkspace points the global flags at a fresh directory for one test.
func useWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	prevDir, prevLevel, prevTextfile := globalDir, globalLogLevel, globalMetricsTextfile
	globalDir, globalLogLevel, globalMetricsTextfile = dir, "error", ""
	t.Cleanup(func() {
		globalDir, globalLogLevel, globalMetricsTextfile = prevDir, prevLevel, prevTextfile
	})
	return dir
}

func initWorkspace(t *testing.T) {
	t.Helper()

	cmd := newInitCmd()
	cmd.SetContext(t.Context())
	require.NoError(t, runInit(cmd, nil))
}

func TestRunInit(t *testing.T) {
	dir := useWorkspace(t)

	initWorkspace(t)

	assert.FileExists(t, config.ConfigFilePath(dir))
	assert.FileExists(t, config.DatabasePath(dir))

	cmd := newInitCmd()
	cmd.SetContext(t.Context())
	err := runInit(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestWithDeps_NotInitialized(t *testing.T) {
	useWorkspace(t)

	called := false
	err := withDeps(t.Context(), func(d *Deps) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kinship init")
	assert.False(t, called)
}

func TestWithDeps_InvalidLogLevel(t *testing.T) {
	useWorkspace(t)
	initWorkspace(t)
	globalLogLevel = "loud"

	err := withDeps(t.Context(), func(d *Deps) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating logger")
}

func TestNewLocker_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Lock.Backend = config.LockBackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	_, _, err := newLocker(t.Context(), cfg, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to redis")
}

func TestNewLocker_Memory(t *testing.T) {
	locker, closeFn, err := newLocker(t.Context(), config.Default(), zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	unlock, err := locker.Lock(t.Context(), "ahmed")
	require.NoError(t, err)
	unlock()
}

// TestWorkspace_SuggestionFlow runs the family through the real wiring:
// Mohamed states Ahmed is his father, then adds his wife Leila.
func TestWorkspace_SuggestionFlow(t *testing.T) {
	dir := useWorkspace(t)
	initWorkspace(t)

	cfg := config.Default()
	cfg.Scheduler.NewMemberDelay = 10 * time.Millisecond
	cfg.Scheduler.AddedByDelay = 20 * time.Millisecond
	require.NoError(t, config.Write(dir, cfg))

	textfile := filepath.Join(dir, "kinship.prom")
	globalMetricsTextfile = textfile

	ctx := t.Context()

	err := withDeps(ctx, func(d *Deps) error {
		for _, in := range []handlers.AddPersonInput{
			{ID: "ahmed", Name: "Ahmed", Gender: "male"},
			{ID: "mohamed", Name: "Mohamed", Gender: "male"},
		} {
			if _, err := d.People.HandleAdd(ctx, in); err != nil {
				return err
			}
		}

		if _, err := d.Relationships.HandleRelate(ctx, "mohamed", "father", "ahmed", handlers.RelateOptions{}); err != nil {
			return err
		}

		_, err := d.Relationships.HandleAddMember(ctx, "mohamed", "wife", handlers.AddPersonInput{
			ID:     "leila",
			Name:   "Leila",
			Gender: "female",
		})
		return err
	})
	require.NoError(t, err)

	err = withDeps(ctx, func(d *Deps) error {
		// Leila's delayed refresh ran before the previous command returned.
		views, err := d.Suggestions.HandleList(ctx, "leila", "pending")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "ahmed", views[0].Suggestion.CandidateID)
		assert.Equal(t, "father_in_law", views[0].Suggestion.SuggestedCode)
		assert.Equal(t, 90, views[0].Suggestion.Confidence)

		result, err := d.Suggestions.HandleSuggest(ctx, "Ahmed", false)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		require.Len(t, result.Suggestions, 1)
		s := result.Suggestions[0].Suggestion
		assert.Equal(t, "leila", s.CandidateID)
		assert.Equal(t, "daughter_in_law", s.SuggestedCode)
		assert.Equal(t, "Via Mohamed : fils → épouse ⇒ belle-fille", s.Rationale)
		assert.Equal(t, entities.SuggestionPending, s.Status)

		again, err := d.Suggestions.HandleSuggest(ctx, "ahmed", false)
		require.NoError(t, err)
		assert.Zero(t, again.Saved)
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kinship_suggestions_generated_total")
}

func TestCommandTree(t *testing.T) {
	root := &cobra.Command{Use: "kinship"}
	root.AddCommand(newPeopleCmd(), newSuggestionsCmd(), newRequestsCmd())

	for _, path := range [][]string{
		{"people", "add"},
		{"people", "show"},
		{"suggestions", "accept"},
		{"suggestions", "reject"},
		{"requests", "accept"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
