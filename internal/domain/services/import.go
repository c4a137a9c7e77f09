package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
	"github.com/ersonp/kinship/internal/infrastructure/parsers"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// ConflictStrategy defines how to handle existing data during import.
type ConflictStrategy string

const (
	// ConflictSkip keeps existing people and edges.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite overwrites existing people and edge codes.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing data
}

// ImportError represents an error for a specific record during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	PeopleImported        int
	RelationshipsImported int
	Skipped               int
	Errors                []ImportError
	// PersonIDs lists every person touched by the import, in file order.
	PersonIDs []string
}

// ImportService loads people and accepted relationships from a family file.
type ImportService struct {
	directory ports.PersonDirectory
	edges     ports.RelationshipRepository
	catalog   *entities.RelationCatalog
}

// NewImportService creates a new import service.
func NewImportService(
	directory ports.PersonDirectory,
	edges ports.RelationshipRepository,
	catalog *entities.RelationCatalog,
) *ImportService {
	return &ImportService{
		directory: directory,
		edges:     edges,
		catalog:   catalog,
	}
}

// Import validates and imports a parsed family file. Invalid records are
// reported in the result and do not abort the import.
func (s *ImportService) Import(ctx context.Context, file *parsers.FamilyFile, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}
	if file == nil {
		return result, nil
	}

	people, refs := s.convertPeople(file.People, result)
	edges := s.convertRelationships(ctx, file.Relationships, refs, result)

	touched := make(map[string]bool)
	for _, p := range people {
		if !touched[p.ID] {
			touched[p.ID] = true
			result.PersonIDs = append(result.PersonIDs, p.ID)
		}
	}
	for _, e := range edges {
		for _, id := range []string{e.SubjectID, e.ObjectID} {
			if !touched[id] {
				touched[id] = true
				result.PersonIDs = append(result.PersonIDs, id)
			}
		}
	}

	if opts.DryRun {
		result.PeopleImported = len(people)
		result.RelationshipsImported = len(edges)
		return result, nil
	}

	for _, p := range people {
		saved, err := s.savePerson(ctx, p, opts.OnConflict)
		if err != nil {
			return nil, err
		}
		if saved {
			result.PeopleImported++
		} else {
			result.Skipped++
		}
	}

	for _, e := range edges {
		saved, err := s.saveEdge(ctx, e, opts.OnConflict)
		if err != nil {
			return nil, err
		}
		if saved {
			result.RelationshipsImported++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// convertPeople validates raw people and builds the reference table used to
// resolve relationship ends by ID or by name.
func (s *ImportService) convertPeople(raw []parsers.RawPerson, result *ImportResult) ([]*entities.Person, map[string]string) {
	people := make([]*entities.Person, 0, len(raw))
	refs := make(map[string]string, len(raw)*2)
	now := timeNow()

	for i := range raw {
		rp := &raw[i]
		line := lineOr(rp.LineNum, i+1)

		name := strings.TrimSpace(rp.Name)
		id := strings.TrimSpace(rp.ID)
		if name == "" && id == "" {
			result.Errors = append(result.Errors, ImportError{Line: line, Field: "name", Message: "missing required field: name or id"})
			continue
		}
		if id == "" {
			id = uuid.New().String()
		}
		if _, dup := refs[id]; dup {
			result.Errors = append(result.Errors, ImportError{Line: line, Field: "id", Value: id, Message: fmt.Sprintf("duplicate person id %q", id)})
			continue
		}

		people = append(people, &entities.Person{
			ID:        id,
			Name:      name,
			Gender:    entities.ParseGender(rp.Gender),
			CreatedAt: now,
		})
		refs[id] = id
		if name != "" {
			refs[strings.ToLower(name)] = id
		}
	}

	return people, refs
}

func (s *ImportService) convertRelationships(
	ctx context.Context,
	raw []parsers.RawRelationship,
	refs map[string]string,
	result *ImportResult,
) []*entities.RelationshipEdge {
	edges := make([]*entities.RelationshipEdge, 0, len(raw))
	now := timeNow()

	for i := range raw {
		rr := &raw[i]
		line := lineOr(rr.LineNum, i+1)

		code := strings.ToLower(strings.TrimSpace(rr.Type))
		if code == "" {
			result.Errors = append(result.Errors, ImportError{Line: line, Field: "type", Message: "missing required field: type"})
			continue
		}
		if !s.catalog.Has(code) {
			result.Errors = append(result.Errors, ImportError{
				Line:    line,
				Field:   "type",
				Value:   rr.Type,
				Message: fmt.Sprintf("%v: %q (see 'kinship types')", entities.ErrUnknownRelation, rr.Type),
			})
			continue
		}

		subjectID, errItem := s.resolve(ctx, rr.Subject, refs, line, "subject")
		if errItem != nil {
			result.Errors = append(result.Errors, *errItem)
			continue
		}
		objectID, errItem := s.resolve(ctx, rr.Object, refs, line, "object")
		if errItem != nil {
			result.Errors = append(result.Errors, *errItem)
			continue
		}
		if subjectID == objectID {
			result.Errors = append(result.Errors, ImportError{Line: line, Field: "object", Value: rr.Object, Message: "a person cannot be related to themselves"})
			continue
		}

		edges = append(edges, &entities.RelationshipEdge{
			ID:        uuid.New().String(),
			SubjectID: subjectID,
			ObjectID:  objectID,
			TypeCode:  code,
			Status:    entities.EdgeAccepted,
			CreatedAt: now,
		})
	}

	return edges
}

// resolve maps a reference from the file to a person ID: first the people in
// the file (by ID, then by name), then the directory by ID.
func (s *ImportService) resolve(ctx context.Context, ref string, refs map[string]string, line int, field string) (string, *ImportError) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &ImportError{Line: line, Field: field, Message: "missing required field: " + field}
	}
	if id, ok := refs[ref]; ok {
		return id, nil
	}
	if id, ok := refs[strings.ToLower(ref)]; ok {
		return id, nil
	}

	p, err := s.directory.FindPerson(ctx, ref)
	if err != nil {
		return "", &ImportError{Line: line, Field: field, Value: ref, Message: fmt.Sprintf("looking up %q: %v", ref, err)}
	}
	if p == nil {
		return "", &ImportError{Line: line, Field: field, Value: ref, Message: fmt.Sprintf("%v: %q", entities.ErrPersonNotFound, ref)}
	}
	return p.ID, nil
}

func (s *ImportService) savePerson(ctx context.Context, p *entities.Person, strategy ConflictStrategy) (bool, error) {
	if strategy == ConflictSkip {
		existing, err := s.directory.FindPerson(ctx, p.ID)
		if err != nil {
			return false, fmt.Errorf("checking person %s: %w", p.ID, err)
		}
		if existing != nil {
			return false, nil
		}
	}
	if err := s.directory.SavePerson(ctx, p); err != nil {
		return false, fmt.Errorf("saving person %s: %w", p.ID, err)
	}
	return true, nil
}

func (s *ImportService) saveEdge(ctx context.Context, e *entities.RelationshipEdge, strategy ConflictStrategy) (bool, error) {
	existing, err := s.edges.FindRelationshipBetween(ctx, e.SubjectID, e.ObjectID)
	if err != nil {
		return false, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil {
		if strategy != ConflictOverwrite {
			return false, nil
		}
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
	}
	if err := s.edges.SaveRelationship(ctx, e); err != nil {
		return false, fmt.Errorf("saving relationship %s -> %s: %w", e.SubjectID, e.ObjectID, err)
	}
	return true, nil
}

func lineOr(line, fallback int) int {
	if line == 0 {
		return fallback
	}
	return line
}
