// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// RelationshipGraph gives read access to accepted relationship edges.
// Answers are direction-agnostic: every code describes the other person
// relative to the person asked about.
type RelationshipGraph interface {
	// Neighbors returns every accepted edge touching personID.
	// An unknown person has no neighbors; that is not an error.
	Neighbors(ctx context.Context, personID string) ([]entities.Neighbor, error)

	// EdgeBetween returns the code describing b relative to a.
	// found is false when no accepted edge links them.
	EdgeBetween(ctx context.Context, a, b string) (code string, found bool, err error)

	// Connections returns everyone linked to personID by a pending or
	// accepted edge.
	Connections(ctx context.Context, personID string) ([]string, error)
}

// RelationshipRepository stores relationship edges.
type RelationshipRepository interface {
	// SaveRelationship inserts or updates an edge.
	SaveRelationship(ctx context.Context, edge *entities.RelationshipEdge) error

	// FindRelationship returns an edge by ID, or nil if not found.
	FindRelationship(ctx context.Context, id string) (*entities.RelationshipEdge, error)

	// FindRelationshipBetween returns the edge linking a and b in either
	// direction, whatever its status, or nil if there is none.
	FindRelationshipBetween(ctx context.Context, a, b string) (*entities.RelationshipEdge, error)

	// ListRelationships returns the edges touching personID, whatever their
	// status, as stored.
	ListRelationships(ctx context.Context, personID string) ([]entities.RelationshipEdge, error)

	// UpdateRelationshipStatus changes the status of an edge.
	UpdateRelationshipStatus(ctx context.Context, id string, status entities.EdgeStatus) error
}
