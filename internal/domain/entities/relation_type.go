package entities

import "errors"

// ErrUnknownRelation is returned when a relation code is not in the catalog.
var ErrUnknownRelation = errors.New("unknown relation code")

// RelationCategory groups relation codes by how the link is formed.
type RelationCategory string

const (
	CategoryDirect   RelationCategory = "direct"
	CategoryMarriage RelationCategory = "marriage"
	CategoryExtended RelationCategory = "extended"
	CategoryAdoption RelationCategory = "adoption"
)

// RelationshipTypeDef is an immutable catalog entry.
//
// A code is read relative to the subject of an edge: the edge
// (A, B, "father") states that B is A's father. GenerationDelta follows the
// same reading, so "father" is -1 and "son" is +1.
type RelationshipTypeDef struct {
	Code            string           `json:"code"`
	Kind            string           `json:"kind"`   // gender-neutral code this entry is a variant of
	Gender          Gender           `json:"gender"` // unknown for the neutral entry of a kind
	Category        RelationCategory `json:"category"`
	GenerationDelta int              `json:"generation_delta"`
	InverseCode     string           `json:"inverse_code"` // always a neutral kind
	Label           string           `json:"label"`
}

// IsNeutral reports whether the entry is the gender-neutral form of its kind.
func (d RelationshipTypeDef) IsNeutral() bool {
	return d.Code == d.Kind
}
