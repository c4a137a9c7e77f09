package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
)

func newTestComposer(t *testing.T) *RelationComposer {
	t.Helper()
	c, err := NewRelationComposer(entities.DefaultCatalog())
	require.NoError(t, err)
	return c
}

func TestValidateRules_DefaultCatalog(t *testing.T) {
	require.NoError(t, ValidateRules(entities.DefaultCatalog()))
	assert.Equal(t, len(compositionRules), newTestComposer(t).RuleCount())
}

func TestValidateRules_GenerationDeltaAddsUp(t *testing.T) {
	catalog := entities.DefaultCatalog()
	for _, r := range compositionRules {
		ab, _ := catalog.Lookup(r.ab)
		bc, _ := catalog.Lookup(r.bc)
		res, _ := catalog.Lookup(r.result)
		assert.Equal(t, ab.GenerationDelta+bc.GenerationDelta, res.GenerationDelta, "(%s, %s) -> %s", r.ab, r.bc, r.result)
	}
}

func TestValidateRules_RejectsUnknownCode(t *testing.T) {
	catalog, err := entities.NewRelationCatalog([]entities.RelationshipTypeDef{
		{Code: "parent", Kind: "parent", Gender: entities.GenderUnknown, Category: entities.CategoryDirect, GenerationDelta: -1, InverseCode: "child"},
		{Code: "child", Kind: "child", Gender: entities.GenderUnknown, Category: entities.CategoryDirect, GenerationDelta: 1, InverseCode: "parent"},
	})
	require.NoError(t, err)

	err = ValidateRules(catalog)
	require.ErrorIs(t, err, entities.ErrUnknownRelation)
}

func TestRelationComposer_Compose(t *testing.T) {
	c := newTestComposer(t)

	tests := []struct {
		name       string
		ab, bc     string
		code       string
		confidence int
		class      entities.RuleClass
	}{
		// B is A's son, C is B's wife: C is A's daughter-in-law.
		{"son's wife", "son", "wife", "daughter_in_law", 90, entities.ClassMarriage},
		{"daughter's husband", "daughter", "husband", "son_in_law", 90, entities.ClassMarriage},
		{"father's wife", "father", "wife", "mother", 90, entities.ClassMarriage},
		{"wife's father", "wife", "father", "father_in_law", 90, entities.ClassMarriage},
		{"husband's sister", "husband", "sister", "sister_in_law", 90, entities.ClassMarriage},
		{"father's father", "father", "father", "grandfather", 100, entities.ClassDirect},
		{"mother's mother's mother", "grandmother", "mother", "great_grandmother", 100, entities.ClassDirect},
		{"son's daughter", "son", "daughter", "granddaughter", 100, entities.ClassDirect},
		{"brother's brother", "brother", "brother", "brother", 100, entities.ClassDirect},
		{"sister's mother", "sister", "mother", "mother", 100, entities.ClassDirect},
		{"brother's son", "brother", "son", "nephew", 70, entities.ClassExtended},
		{"mother's sister", "mother", "sister", "aunt", 70, entities.ClassExtended},
		{"uncle's daughter", "uncle", "daughter", "cousin", 70, entities.ClassExtended},
		{"sister-in-law's son", "sister_in_law", "son", "nephew", 70, entities.ClassExtended},
		{"adoptive father's son", "adoptive_father", "son", "brother", 90, entities.ClassAdoption},
		{"adoptive mother's husband", "adoptive_mother", "husband", "adoptive_father", 90, entities.ClassAdoption},
		{"spouse's adopted daughter", "spouse", "adopted_daughter", "adopted_daughter", 90, entities.ClassAdoption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Compose(tt.ab, tt.bc)
			require.True(t, ok)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.class, got.Class)
		})
	}
}

func TestRelationComposer_Compose_DaughterInLawRationale(t *testing.T) {
	c := newTestComposer(t)

	got, ok := c.Compose("son", "wife")
	require.True(t, ok)
	assert.Equal(t, "daughter_in_law", got.Code)
	assert.Equal(t, 90, got.Confidence)
	assert.Contains(t, got.Rationale, "belle-fille")
	assert.Equal(t, "fils → épouse ⇒ belle-fille", got.Rationale)
}

func TestRelationComposer_Compose_SiblingsThroughParent(t *testing.T) {
	c := newTestComposer(t)
	catalog := entities.DefaultCatalog()

	// Parent -son-> Child1 and Parent -daughter-> Child2, seen from Child1.
	parentOfChild1, ok := catalog.Inverse("son", entities.GenderUnknown)
	require.True(t, ok)

	got, ok := c.Compose(parentOfChild1, "daughter")
	require.True(t, ok)
	assert.Equal(t, "sister", got.Code)
	assert.Equal(t, 100, got.Confidence)

	got, ok = c.Compose(parentOfChild1, "son")
	require.True(t, ok)
	assert.Equal(t, "brother", got.Code)
}

func TestRelationComposer_Compose_Unresolvable(t *testing.T) {
	c := newTestComposer(t)

	tests := []struct {
		name   string
		ab, bc string
	}{
		{"unknown codes", "unknown_relation", "another_unknown_relation"},
		{"unknown first code", "ally", "father"},
		{"unknown second code", "father", "ally"},
		{"child's parent is ambiguous", "son", "mother"},
		{"grandparent's child is ambiguous", "grandfather", "son"},
		{"uncle's sibling is ambiguous", "uncle", "brother"},
		{"three generations away", "great_grandfather", "father"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Compose(tt.ab, tt.bc)
			assert.False(t, ok)
		})
	}
}

func TestRelationComposer_Compose_NeutralWhenGenderUnknown(t *testing.T) {
	c := newTestComposer(t)

	got, ok := c.Compose("son", "spouse")
	require.True(t, ok)
	assert.Equal(t, "child_in_law", got.Code)

	got, ok = c.Compose("parent", "sibling")
	require.True(t, ok)
	assert.Equal(t, "parent_sibling", got.Code)
}

func TestRelationComposer_ComposePath(t *testing.T) {
	c := newTestComposer(t)

	t.Run("self reference", func(t *testing.T) {
		_, ok := c.ComposePath("ahmed", "ahmed", "son", "father", entities.GenderMale)
		assert.False(t, ok)
	})

	t.Run("candidate gender wins", func(t *testing.T) {
		got, ok := c.ComposePath("a", "c", "son", "spouse", entities.GenderFemale)
		require.True(t, ok)
		assert.Equal(t, "daughter_in_law", got.Code)
	})

	t.Run("falls back to the code's gender", func(t *testing.T) {
		got, ok := c.ComposePath("a", "c", "father", "brother", entities.GenderUnknown)
		require.True(t, ok)
		assert.Equal(t, "uncle", got.Code)
	})
}

func TestRelationComposer_Deterministic(t *testing.T) {
	c := newTestComposer(t)
	first, ok := c.Compose("wife", "mother")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := c.Compose("wife", "mother")
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}
