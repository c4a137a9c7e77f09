package services

import (
	"fmt"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Composition is the relation inferred from two adjacent edges.
type Composition struct {
	Code       string             `json:"code"`
	Confidence int                `json:"confidence"`
	Class      entities.RuleClass `json:"class"`
	Rationale  string             `json:"rationale"`
}

// compositionRule reads "B is A's ab, C is B's bc, so C is A's result".
// All three are gender-neutral kinds.
type compositionRule struct {
	ab, bc, result string
}

// compositionRules is the closed rule table. A pair that is not listed is
// not composed, even when a plausible answer exists: (child, parent) may be
// the subject's spouse or nobody at all.
var compositionRules = []compositionRule{
	// Blood line.
	{"parent", "parent", "grandparent"},
	{"grandparent", "parent", "great_grandparent"},
	{"parent", "grandparent", "great_grandparent"},
	{"child", "child", "grandchild"},
	{"grandchild", "child", "great_grandchild"},
	{"child", "grandchild", "great_grandchild"},
	{"sibling", "sibling", "sibling"},
	{"parent", "child", "sibling"},
	{"sibling", "parent", "parent"},
	{"child", "sibling", "child"},
	{"sibling", "grandparent", "grandparent"},
	{"grandchild", "sibling", "grandchild"},

	// Extended family.
	{"sibling", "child", "sibling_child"},
	{"parent", "sibling", "parent_sibling"},
	{"parent_sibling", "child", "cousin"},
	{"cousin", "sibling", "cousin"},
	{"parent_sibling", "spouse", "parent_sibling"},
	{"cousin", "parent", "parent_sibling"},
	{"sibling_child", "sibling", "sibling_child"},
	{"sibling_in_law", "child", "sibling_child"},

	// Through a marriage.
	{"parent", "spouse", "parent"},
	{"child", "spouse", "child_in_law"},
	{"spouse", "parent", "parent_in_law"},
	{"spouse", "child", "child"},
	{"spouse", "sibling", "sibling_in_law"},
	{"sibling", "spouse", "sibling_in_law"},
	{"child_in_law", "child", "grandchild"},
	{"spouse", "grandchild", "grandchild"},
	{"grandparent", "spouse", "grandparent"},
	{"parent_in_law", "spouse", "parent_in_law"},
	{"stepparent", "spouse", "parent"},

	// Through an adoption.
	{"adoptive_parent", "parent", "grandparent"},
	{"adoptive_parent", "child", "sibling"},
	{"adoptive_parent", "adopted_child", "sibling"},
	{"parent", "adopted_child", "sibling"},
	{"adoptive_parent", "spouse", "adoptive_parent"},
	{"spouse", "adopted_child", "adopted_child"},
	{"adopted_child", "child", "grandchild"},
	{"child", "adopted_child", "grandchild"},
}

// RelationComposer infers the relation between the two ends of a two-edge
// path. It holds no mutable state and is safe for concurrent use.
type RelationComposer struct {
	catalog *entities.RelationCatalog
	rules   map[[2]string]string
}

// NewRelationComposer creates a composer over the given catalog and checks
// the rule table against it.
func NewRelationComposer(catalog *entities.RelationCatalog) (*RelationComposer, error) {
	if err := ValidateRules(catalog); err != nil {
		return nil, err
	}
	rules := make(map[[2]string]string, len(compositionRules))
	for _, r := range compositionRules {
		rules[[2]string{r.ab, r.bc}] = r.result
	}
	return &RelationComposer{catalog: catalog, rules: rules}, nil
}

// ValidateRules checks that every rule refers to neutral catalog codes, is
// listed once, and that the generation deltas add up.
func ValidateRules(catalog *entities.RelationCatalog) error {
	seen := make(map[[2]string]bool, len(compositionRules))
	for _, r := range compositionRules {
		key := [2]string{r.ab, r.bc}
		if seen[key] {
			return fmt.Errorf("duplicate composition rule (%s, %s)", r.ab, r.bc)
		}
		seen[key] = true

		defs := make([]entities.RelationshipTypeDef, 0, 3)
		for _, code := range []string{r.ab, r.bc, r.result} {
			d, ok := catalog.Lookup(code)
			if !ok || !d.IsNeutral() {
				return fmt.Errorf("composition rule (%s, %s): %w: %s", r.ab, r.bc, entities.ErrUnknownRelation, code)
			}
			defs = append(defs, d)
		}
		if defs[2].GenerationDelta != defs[0].GenerationDelta+defs[1].GenerationDelta {
			return fmt.Errorf("composition rule (%s, %s) -> %s: generation delta %d, want %d",
				r.ab, r.bc, r.result, defs[2].GenerationDelta, defs[0].GenerationDelta+defs[1].GenerationDelta)
		}
	}
	return nil
}

// ruleClass derives the class from the categories a path crosses. Reaching
// the extended family dominates, then adoption, then marriage.
func ruleClass(categories ...entities.RelationCategory) entities.RuleClass {
	class := entities.ClassDirect
	for _, c := range categories {
		switch c {
		case entities.CategoryExtended:
			return entities.ClassExtended
		case entities.CategoryAdoption:
			class = entities.ClassAdoption
		case entities.CategoryMarriage:
			if class == entities.ClassDirect {
				class = entities.ClassMarriage
			}
		}
	}
	return class
}

// Compose infers what C is to A, given that B is A's codeAB and C is B's
// codeBC. The result is adapted to the gender codeBC implies for C.
func (c *RelationComposer) Compose(codeAB, codeBC string) (Composition, bool) {
	return c.compose(codeAB, codeBC, c.catalog.GenderOf(codeBC))
}

// ComposePath is Compose for a concrete path. It refuses a path that leads
// back to the subject and adapts the result to the candidate's known gender,
// falling back to the gender implied by codeBC.
func (c *RelationComposer) ComposePath(subjectID, candidateID, codeAB, codeBC string, candidateGender entities.Gender) (Composition, bool) {
	if subjectID == candidateID {
		return Composition{}, false
	}
	if candidateGender == "" || candidateGender == entities.GenderUnknown {
		candidateGender = c.catalog.GenderOf(codeBC)
	}
	return c.compose(codeAB, codeBC, candidateGender)
}

func (c *RelationComposer) compose(codeAB, codeBC string, gender entities.Gender) (Composition, bool) {
	ab, ok := c.catalog.Lookup(codeAB)
	if !ok {
		return Composition{}, false
	}
	bc, ok := c.catalog.Lookup(codeBC)
	if !ok {
		return Composition{}, false
	}
	kind, ok := c.rules[[2]string{ab.Kind, bc.Kind}]
	if !ok {
		return Composition{}, false
	}
	result, _ := c.catalog.Lookup(kind)

	class := ruleClass(ab.Category, bc.Category, result.Category)
	code := c.catalog.Variant(kind, gender)

	return Composition{
		Code:       code,
		Confidence: class.Confidence(),
		Class:      class,
		Rationale: fmt.Sprintf("%s → %s ⇒ %s",
			c.catalog.Label(codeAB), c.catalog.Label(codeBC), c.catalog.Label(code)),
	}, true
}

// RuleCount returns the number of rules in the table.
func (c *RelationComposer) RuleCount() int {
	return len(c.rules)
}
