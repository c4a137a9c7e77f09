package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/mocks"
	"github.com/ersonp/kinship/internal/infrastructure/parsers"
)

func newTestImportService() (*ImportService, *mocks.Directory, *mocks.Relationships) {
	directory := mocks.NewDirectory()
	edges := mocks.NewRelationships()
	return NewImportService(directory, edges, entities.DefaultCatalog()), directory, edges
}

func TestImportService_Import_ValidFile(t *testing.T) {
	service, directory, edges := newTestImportService()
	file := &parsers.FamilyFile{
		People: []parsers.RawPerson{
			{ID: "ahmed", Name: "Ahmed", Gender: "male"},
			{ID: "mohamed", Name: "Mohamed", Gender: "m"},
			{Name: "Leila", Gender: "femme"},
		},
		Relationships: []parsers.RawRelationship{
			{Subject: "mohamed", Type: "father", Object: "ahmed"},
			{Subject: "Mohamed", Type: "Wife", Object: "leila"},
		},
	}

	result, err := service.Import(context.Background(), file, ImportOptions{OnConflict: ConflictSkip})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.PeopleImported)
	assert.Equal(t, 2, result.RelationshipsImported)
	assert.Len(t, result.PersonIDs, 3)

	require.Len(t, edges.Edges, 2)
	assert.Equal(t, "wife", edges.Edges[1].TypeCode)
	assert.Equal(t, entities.EdgeAccepted, edges.Edges[1].Status)

	leila := directory.People[edges.Edges[1].ObjectID]
	require.NotNil(t, leila)
	assert.Equal(t, "Leila", leila.Name)
	assert.Equal(t, entities.GenderFemale, leila.Gender)
}

func TestImportService_Import_ValidationErrors(t *testing.T) {
	service, _, edges := newTestImportService()
	file := &parsers.FamilyFile{
		People: []parsers.RawPerson{
			{ID: "a", Name: "A"},
			{Gender: "male", LineNum: 3},
			{ID: "a", Name: "Again"},
		},
		Relationships: []parsers.RawRelationship{
			{Subject: "a", Type: "ally", Object: "a"},
			{Subject: "a", Type: "", Object: "b"},
			{Subject: "a", Type: "son", Object: "ghost"},
			{Subject: "a", Type: "son", Object: "a"},
		},
	}

	result, err := service.Import(context.Background(), file, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 6)

	assert.Equal(t, 3, result.Errors[0].Line)
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Equal(t, "id", result.Errors[1].Field)
	assert.Contains(t, result.Errors[2].Message, "unknown relation code")
	assert.Equal(t, "type", result.Errors[3].Field)
	assert.Contains(t, result.Errors[4].Message, "person not found")
	assert.Contains(t, result.Errors[5].Message, "themselves")

	assert.Equal(t, 1, result.PeopleImported)
	assert.Empty(t, edges.Edges)
}

func TestImportService_Import_ResolvesExistingPeople(t *testing.T) {
	service, directory, edges := newTestImportService()
	directory.Add("ahmed", "Ahmed", entities.GenderMale)

	file := &parsers.FamilyFile{
		People:        []parsers.RawPerson{{ID: "omar", Name: "Omar"}},
		Relationships: []parsers.RawRelationship{{Subject: "ahmed", Type: "son", Object: "omar"}},
	}

	result, err := service.Import(context.Background(), file, ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"omar", "ahmed"}, result.PersonIDs)
	require.Len(t, edges.Edges, 1)
	assert.Equal(t, "ahmed", edges.Edges[0].SubjectID)
}

func TestImportService_Import_DryRun(t *testing.T) {
	service, directory, edges := newTestImportService()
	file := &parsers.FamilyFile{
		People:        []parsers.RawPerson{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Relationships: []parsers.RawRelationship{{Subject: "a", Type: "brother", Object: "b"}},
	}

	result, err := service.Import(context.Background(), file, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PeopleImported)
	assert.Equal(t, 1, result.RelationshipsImported)
	assert.Empty(t, directory.People)
	assert.Empty(t, edges.Edges)
}

func TestImportService_Import_ConflictStrategies(t *testing.T) {
	file := &parsers.FamilyFile{
		People:        []parsers.RawPerson{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Relationships: []parsers.RawRelationship{{Subject: "b", Type: "sister", Object: "a"}},
	}

	t.Run("skip", func(t *testing.T) {
		service, directory, edges := newTestImportService()
		directory.Add("a", "Old A", entities.GenderUnknown)
		edges.Add("a", "brother", "b")

		result, err := service.Import(context.Background(), file, ImportOptions{OnConflict: ConflictSkip})
		require.NoError(t, err)
		assert.Equal(t, 1, result.PeopleImported)
		assert.Equal(t, 0, result.RelationshipsImported)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, "Old A", directory.People["a"].Name)
		assert.Equal(t, "brother", edges.Edges[0].TypeCode)
	})

	t.Run("overwrite", func(t *testing.T) {
		service, directory, edges := newTestImportService()
		directory.Add("a", "Old A", entities.GenderUnknown)
		edges.Add("a", "brother", "b")

		result, err := service.Import(context.Background(), file, ImportOptions{OnConflict: ConflictOverwrite})
		require.NoError(t, err)
		assert.Equal(t, 2, result.PeopleImported)
		assert.Equal(t, 1, result.RelationshipsImported)
		assert.Equal(t, "A", directory.People["a"].Name)
		require.Len(t, edges.Edges, 1)
		assert.Equal(t, "sister", edges.Edges[0].TypeCode)
		assert.Equal(t, "b", edges.Edges[0].SubjectID)
	})
}

func TestImportService_Import_SaveError(t *testing.T) {
	service, directory, _ := newTestImportService()
	directory.Err = errors.New("db closed")

	_, err := service.Import(context.Background(), &parsers.FamilyFile{
		People: []parsers.RawPerson{{ID: "a", Name: "A"}},
	}, ImportOptions{OnConflict: ConflictOverwrite})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db closed")
}

func TestImportService_Import_NilFile(t *testing.T) {
	service, _, _ := newTestImportService()
	result, err := service.Import(context.Background(), nil, ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.PeopleImported)
}
