package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// DefaultSuggestionLimit caps the number of suggestions per run.
const DefaultSuggestionLimit = 5

// Generator produces suggestion candidates for a subject.
type Generator interface {
	Generate(ctx context.Context, subjectID string, seed *entities.RelationshipEdge) ([]entities.SuggestionCandidate, error)
}

// SuggestionGenerator walks the graph two hops out from a subject and
// composes each path into a candidate relation.
type SuggestionGenerator struct {
	graph     ports.RelationshipGraph
	directory ports.PersonDirectory
	store     ports.SuggestionStore
	composer  *RelationComposer
	catalog   *entities.RelationCatalog
	logger    *zap.Logger
	limit     int
}

// NewSuggestionGenerator creates a generator. A limit below 1 uses
// DefaultSuggestionLimit.
func NewSuggestionGenerator(
	graph ports.RelationshipGraph,
	directory ports.PersonDirectory,
	store ports.SuggestionStore,
	composer *RelationComposer,
	catalog *entities.RelationCatalog,
	logger *zap.Logger,
	limit int,
) *SuggestionGenerator {
	if limit < 1 {
		limit = DefaultSuggestionLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionGenerator{
		graph:     graph,
		directory: directory,
		store:     store,
		composer:  composer,
		catalog:   catalog,
		logger:    logger,
		limit:     limit,
	}
}

// Limit returns the maximum number of candidates Generate returns.
func (g *SuggestionGenerator) Limit() int {
	return g.limit
}

// Generate returns at most Limit candidates for the subject, best first.
//
// When seed is set, only paths through the seed's other end are explored.
// The seed edge is used directly if the graph does not show it yet.
func (g *SuggestionGenerator) Generate(ctx context.Context, subjectID string, seed *entities.RelationshipEdge) ([]entities.SuggestionCandidate, error) {
	neighbors, err := g.graph.Neighbors(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("loading neighbors of %s: %w", subjectID, err)
	}

	connections, err := g.graph.Connections(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("loading connections of %s: %w", subjectID, err)
	}

	excluded := make(map[string]bool, len(neighbors)+len(connections)+1)
	excluded[subjectID] = true
	for _, n := range neighbors {
		excluded[n.NeighborID] = true
	}
	for _, id := range connections {
		excluded[id] = true
	}

	people := newPersonCache(g.directory)

	hops, err := g.firstHops(ctx, subjectID, neighbors, seed, people)
	if err != nil {
		return nil, err
	}
	for _, hop := range hops {
		excluded[hop.NeighborID] = true
	}

	var found []entities.SuggestionCandidate
	for _, hop := range hops {
		second, err := g.graph.Neighbors(ctx, hop.NeighborID)
		if err != nil {
			return nil, fmt.Errorf("loading neighbors of %s: %w", hop.NeighborID, err)
		}

		for _, next := range second {
			if excluded[next.NeighborID] {
				continue
			}

			candidate, err := people.get(ctx, next.NeighborID)
			if err != nil {
				return nil, err
			}
			if candidate == nil {
				g.logger.Debug("dropping candidate without profile",
					zap.String("subject_id", subjectID),
					zap.String("candidate_id", next.NeighborID))
				continue
			}
			connector, err := people.get(ctx, hop.NeighborID)
			if err != nil {
				return nil, err
			}
			if connector == nil {
				g.logger.Debug("dropping path through connector without profile",
					zap.String("subject_id", subjectID),
					zap.String("connector_id", hop.NeighborID))
				continue
			}

			comp, ok := g.composer.ComposePath(subjectID, candidate.ID, hop.TypeCode, next.TypeCode, candidate.Gender)
			if !ok {
				continue
			}

			found = append(found, entities.SuggestionCandidate{
				CandidateID: candidate.ID,
				Code:        comp.Code,
				Confidence:  comp.Confidence,
				Class:       comp.Class,
				Rationale:   fmt.Sprintf("Via %s : %s", connector.DisplayName(), comp.Rationale),
				ConnectorID: connector.ID,
			})
		}
	}

	best := dedupeCandidates(found)

	result := make([]entities.SuggestionCandidate, 0, len(best))
	for _, c := range best {
		pending, err := g.store.Exists(ctx, subjectID, c.CandidateID, entities.SuggestionPending)
		if err != nil {
			return nil, fmt.Errorf("checking pending suggestion for %s: %w", c.CandidateID, err)
		}
		if pending {
			continue
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Class.Priority() < result[j].Class.Priority()
	})

	if len(result) > g.limit {
		result = result[:g.limit]
	}

	g.logger.Debug("generated suggestions",
		zap.String("subject_id", subjectID),
		zap.Int("paths", len(found)),
		zap.Int("candidates", len(result)))

	return result, nil
}

// firstHops returns the neighbors to expand. Without a usable seed that is
// every neighbor.
func (g *SuggestionGenerator) firstHops(
	ctx context.Context,
	subjectID string,
	neighbors []entities.Neighbor,
	seed *entities.RelationshipEdge,
	people *personCache,
) ([]entities.Neighbor, error) {
	if seed == nil || !seed.Touches(subjectID) || seed.SubjectID == seed.ObjectID {
		return neighbors, nil
	}

	other := seed.Other(subjectID)
	for _, n := range neighbors {
		if n.NeighborID == other {
			return []entities.Neighbor{n}, nil
		}
	}

	// Not visible in the graph yet: orient the seed edge ourselves.
	p, err := people.get(ctx, other)
	if err != nil {
		return nil, err
	}
	gender := entities.GenderUnknown
	if p != nil {
		gender = p.Gender
	}
	n, ok := g.catalog.OrientTo(*seed, subjectID, gender)
	if !ok {
		g.logger.Debug("ignoring seed with unknown relation code",
			zap.String("subject_id", subjectID),
			zap.String("code", seed.TypeCode))
		return nil, nil
	}
	return []entities.Neighbor{n}, nil
}

// dedupeCandidates keeps one candidate per person: the highest confidence,
// then the strongest class, then the first found.
func dedupeCandidates(found []entities.SuggestionCandidate) []entities.SuggestionCandidate {
	index := make(map[string]int, len(found))
	out := make([]entities.SuggestionCandidate, 0, len(found))
	for _, c := range found {
		i, seen := index[c.CandidateID]
		if !seen {
			index[c.CandidateID] = len(out)
			out = append(out, c)
			continue
		}
		cur := out[i]
		if c.Confidence > cur.Confidence ||
			(c.Confidence == cur.Confidence && c.Class.Priority() < cur.Class.Priority()) {
			out[i] = c
		}
	}
	return out
}

// personCache memoizes directory lookups for a single run.
type personCache struct {
	directory ports.PersonDirectory
	people    map[string]*entities.Person
}

func newPersonCache(directory ports.PersonDirectory) *personCache {
	return &personCache{directory: directory, people: make(map[string]*entities.Person)}
}

func (c *personCache) get(ctx context.Context, id string) (*entities.Person, error) {
	if p, ok := c.people[id]; ok {
		return p, nil
	}
	p, err := c.directory.FindPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding person %s: %w", id, err)
	}
	c.people[id] = p
	return p, nil
}
