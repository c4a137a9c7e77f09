package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
	"github.com/ersonp/kinship/internal/domain/services"
)

func newTestSuggestionHandler(t *testing.T, f *family, refresher Refresher) *SuggestionHandler {
	t.Helper()
	generator := services.NewSuggestionGenerator(f.rels, f.directory, f.store, f.composer, f.catalog, nil, 0)
	if refresher == nil {
		refresher = services.NewSuggestionScheduler(services.SchedulerDeps{
			Generator:  generator,
			Store:      f.store,
			Locker:     &mocks.Locker{},
			Dispatcher: &mocks.Dispatcher{},
			Clock:      mocks.NewClock(handlerEpoch),
		}, services.DefaultSchedulerConfig())
	}
	return NewSuggestionHandler(SuggestionDeps{
		Directory: f.directory,
		Store:     f.store,
		Edges:     f.rels,
		Generator: generator,
		Refresher: refresher,
		Catalog:   f.catalog,
		Events:    f.events,
	})
}

func TestSuggestionHandler_HandleSuggest_DryRun(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)

	result, err := h.HandleSuggest(t.Context(), "Ahmed", true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	require.Len(t, result.Candidates, 1)

	c := result.Candidates[0]
	assert.Equal(t, "leila", c.Person.ID)
	assert.Equal(t, "daughter_in_law", c.Candidate.Code)
	assert.Equal(t, 90, c.Candidate.Confidence)
	assert.Equal(t, "belle-fille", c.Label)
	assert.Equal(t, "Via Mohamed : fils → épouse ⇒ belle-fille", c.Candidate.Rationale)

	// Nothing is saved on a dry run.
	assert.Empty(t, f.store.Suggestions)
}

func TestSuggestionHandler_HandleSuggest_Saves(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)

	result, err := h.HandleSuggest(t.Context(), "ahmed", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Leila", result.Suggestions[0].Candidate.Name)
	assert.Equal(t, entities.SuggestionPending, result.Suggestions[0].Suggestion.Status)

	// A second run finds the pending suggestion and saves nothing.
	result, err = h.HandleSuggest(t.Context(), "ahmed", false)
	require.NoError(t, err)
	assert.Zero(t, result.Saved)
	assert.Len(t, result.Suggestions, 1)
}

func TestSuggestionHandler_HandleSuggest_RefreshError(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, &mocks.Refresher{Err: errors.New("lock wait timed out")})

	_, err := h.HandleSuggest(t.Context(), "ahmed", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timed out")
}

func TestSuggestionHandler_HandleAccept(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)
	ctx := t.Context()

	_, err := h.HandleSuggest(ctx, "ahmed", false)
	require.NoError(t, err)
	id := f.store.Suggestions[0].ID

	result, err := h.HandleAccept(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.SuggestionAccepted, result.Suggestion.Status)
	require.NotNil(t, result.Edge)
	assert.Equal(t, "ahmed", result.Edge.SubjectID)
	assert.Equal(t, "leila", result.Edge.ObjectID)
	assert.Equal(t, "daughter_in_law", result.Edge.TypeCode)

	code, found, err := f.rels.EdgeBetween(ctx, "leila", "ahmed")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "father_in_law", code)

	assert.Equal(t, []entities.RelationshipAccepted{
		{RequesterID: "ahmed", TargetID: "leila", RelationTypeCode: "daughter_in_law"},
	}, f.events.Accepted)

	_, err = h.HandleAccept(ctx, id)
	assert.ErrorIs(t, err, entities.ErrInvalidTransition)
}

func TestSuggestionHandler_HandleAccept_AlreadyLinked(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)
	ctx := t.Context()

	_, err := h.HandleSuggest(ctx, "ahmed", false)
	require.NoError(t, err)
	// A request between them arrived in the meantime.
	f.rels.AddWithStatus("leila", "father_in_law", "ahmed", entities.EdgePending)

	result, err := h.HandleAccept(ctx, f.store.Suggestions[0].ID)
	require.NoError(t, err)
	assert.Nil(t, result.Edge)
	assert.Empty(t, f.events.Accepted)
}

func TestSuggestionHandler_HandleReject(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)
	ctx := t.Context()

	_, err := h.HandleSuggest(ctx, "ahmed", false)
	require.NoError(t, err)

	s, err := h.HandleReject(ctx, f.store.Suggestions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SuggestionRejected, s.Status)
	assert.Equal(t, entities.SuggestionRejected, f.store.Suggestions[0].Status)

	_, err = h.HandleReject(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSuggestionHandler_HandleList(t *testing.T) {
	f := newFamily(t)
	h := newTestSuggestionHandler(t, f, nil)
	ctx := t.Context()

	_, err := h.HandleSuggest(ctx, "ahmed", false)
	require.NoError(t, err)
	_, err = h.HandleReject(ctx, f.store.Suggestions[0].ID)
	require.NoError(t, err)

	tests := []struct {
		status  string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"all", 1, false},
		{"pending", 0, false},
		{"Rejected", 1, false},
		{"maybe", 0, true},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			views, err := h.HandleList(ctx, "ahmed", tt.status)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, views, tt.want)
		})
	}
}

func TestSuggestionHandler_HandlePurge(t *testing.T) {
	f := newFamily(t)
	refresher := &mocks.Refresher{}
	h := newTestSuggestionHandler(t, f, refresher)

	_, err := h.HandlePurge(t.Context(), "Leila")
	require.NoError(t, err)
	assert.Equal(t, []string{"leila"}, refresher.Purged)
}
