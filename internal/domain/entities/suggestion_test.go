package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestion_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    SuggestionStatus
		to      SuggestionStatus
		wantErr bool
	}{
		{"pending to accepted", SuggestionPending, SuggestionAccepted, false},
		{"pending to rejected", SuggestionPending, SuggestionRejected, false},
		{"pending to pending", SuggestionPending, SuggestionPending, true},
		{"accepted is terminal", SuggestionAccepted, SuggestionRejected, true},
		{"rejected is terminal", SuggestionRejected, SuggestionAccepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Suggestion{Status: tt.from}
			err := s.Transition(tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, s.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, s.Status)
		})
	}
}

func TestParseSuggestionStatus(t *testing.T) {
	st, err := ParseSuggestionStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, SuggestionAccepted, st)

	_, err = ParseSuggestionStatus("purged")
	assert.Error(t, err)
}

func TestRuleClass_ConfidenceAndPriority(t *testing.T) {
	assert.Equal(t, 100, ClassDirect.Confidence())
	assert.Equal(t, 90, ClassMarriage.Confidence())
	assert.Equal(t, 90, ClassAdoption.Confidence())
	assert.Equal(t, 70, ClassExtended.Confidence())

	assert.Less(t, ClassDirect.Priority(), ClassMarriage.Priority())
	assert.Less(t, ClassMarriage.Priority(), ClassAdoption.Priority())
	assert.Less(t, ClassAdoption.Priority(), ClassExtended.Priority())
}

func TestMemberAdded_SeedEdge(t *testing.T) {
	evt := MemberAdded{NewMemberID: "leila", AddedByID: "mohamed", RelationTypeCode: "wife"}
	edge := evt.SeedEdge()

	assert.Equal(t, "mohamed", edge.SubjectID)
	assert.Equal(t, "leila", edge.ObjectID)
	assert.Equal(t, "wife", edge.TypeCode)
	assert.Equal(t, EdgeAccepted, edge.Status)
	assert.True(t, edge.Touches("leila"))
	assert.Equal(t, "mohamed", edge.Other("leila"))
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderMale, ParseGender(" Male "))
	assert.Equal(t, GenderFemale, ParseGender("femme"))
	assert.Equal(t, GenderUnknown, ParseGender(""))

	var p *Person
	assert.Equal(t, "", p.DisplayName())
	assert.Equal(t, "p1", (&Person{ID: "p1"}).DisplayName())
	assert.Equal(t, "Leila", (&Person{ID: "p1", Name: "Leila"}).DisplayName())
}
