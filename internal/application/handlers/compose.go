package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/services"
)

// ErrNoComposition is returned when no rule covers a pair of codes.
var ErrNoComposition = errors.New("no composition rule for this path")

// ComposeHandler exposes the relation catalog and the composer.
type ComposeHandler struct {
	composer *services.RelationComposer
	catalog  *entities.RelationCatalog
}

// NewComposeHandler creates a new ComposeHandler.
func NewComposeHandler(composer *services.RelationComposer, catalog *entities.RelationCatalog) *ComposeHandler {
	return &ComposeHandler{
		composer: composer,
		catalog:  catalog,
	}
}

// ComposeResult contains an inferred relation.
type ComposeResult struct {
	First       string               `json:"first"`
	Second      string               `json:"second"`
	Composition services.Composition `json:"composition"`
	Label       string               `json:"label"`
}

// HandleCompose infers what C is to A when B is A's first and C is B's
// second. A non-empty gender overrides the one second implies for C.
func (h *ComposeHandler) HandleCompose(first, second, gender string) (*ComposeResult, error) {
	first = strings.ToLower(strings.TrimSpace(first))
	second = strings.ToLower(strings.TrimSpace(second))
	for _, code := range []string{first, second} {
		if !h.catalog.Has(code) {
			return nil, fmt.Errorf("%w: %q (see 'kinship types')", entities.ErrUnknownRelation, code)
		}
	}

	var (
		comp services.Composition
		ok   bool
	)
	if gender == "" {
		comp, ok = h.composer.Compose(first, second)
	} else {
		comp, ok = h.composer.ComposePath("a", "c", first, second, entities.ParseGender(gender))
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s → %s", ErrNoComposition, first, second)
	}

	return &ComposeResult{
		First:       first,
		Second:      second,
		Composition: comp,
		Label:       h.catalog.Label(comp.Code),
	}, nil
}

// HandleTypes lists every relation code, optionally restricted to one
// category.
func (h *ComposeHandler) HandleTypes(category string) []entities.RelationshipTypeDef {
	all := h.catalog.All()
	if category == "" {
		return all
	}
	filtered := make([]entities.RelationshipTypeDef, 0, len(all))
	for _, d := range all {
		if strings.EqualFold(string(d.Category), category) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
