package entities

import (
	"fmt"
	"sync"
)

// kindVariants holds the codes available for one gender-neutral kind.
type kindVariants struct {
	neutral string
	male    string
	female  string
}

// RelationCatalog is the validated, read-only view over the relation type
// definitions. It is safe for concurrent use once constructed.
type RelationCatalog struct {
	defs     []RelationshipTypeDef
	byCode   map[string]RelationshipTypeDef
	variants map[string]kindVariants
}

// NewRelationCatalog indexes and validates the given definitions.
func NewRelationCatalog(defs []RelationshipTypeDef) (*RelationCatalog, error) {
	c := &RelationCatalog{
		defs:     make([]RelationshipTypeDef, len(defs)),
		byCode:   make(map[string]RelationshipTypeDef, len(defs)),
		variants: make(map[string]kindVariants),
	}
	copy(c.defs, defs)

	for _, d := range defs {
		if d.Code == "" || d.Kind == "" {
			return nil, fmt.Errorf("relation type with empty code or kind: %+v", d)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return nil, fmt.Errorf("duplicate relation code: %s", d.Code)
		}
		c.byCode[d.Code] = d

		v := c.variants[d.Kind]
		switch {
		case d.IsNeutral():
			v.neutral = d.Code
		case d.Gender == GenderMale:
			v.male = d.Code
		case d.Gender == GenderFemale:
			v.female = d.Code
		default:
			return nil, fmt.Errorf("relation code %s: gendered variant without gender", d.Code)
		}
		c.variants[d.Kind] = v
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *RelationCatalog {
	c, err := NewRelationCatalog(DefaultRelationTypes)
	if err != nil {
		panic("invalid default relation catalog: " + err.Error())
	}
	return c
})

// DefaultCatalog returns the catalog built from DefaultRelationTypes.
func DefaultCatalog() *RelationCatalog {
	return defaultCatalog()
}

// Validate checks the structural invariants of the catalog.
func (c *RelationCatalog) Validate() error {
	for kind, v := range c.variants {
		if v.neutral == "" {
			return fmt.Errorf("relation kind %s has no neutral code", kind)
		}
	}

	for _, d := range c.defs {
		kindDef, ok := c.byCode[d.Kind]
		if !ok {
			return fmt.Errorf("relation code %s: kind %s not in catalog", d.Code, d.Kind)
		}
		if kindDef.Category != d.Category || kindDef.GenerationDelta != d.GenerationDelta {
			return fmt.Errorf("relation code %s disagrees with its kind %s", d.Code, d.Kind)
		}

		inv, ok := c.byCode[d.InverseCode]
		if !ok {
			return fmt.Errorf("relation code %s: inverse %s not in catalog", d.Code, d.InverseCode)
		}
		if !inv.IsNeutral() {
			return fmt.Errorf("relation code %s: inverse %s must be a neutral kind", d.Code, d.InverseCode)
		}
		if inv.InverseCode != d.Kind {
			return fmt.Errorf("relation code %s: inverse of %s is %s, want %s", d.Code, inv.Code, inv.InverseCode, d.Kind)
		}
		if inv.GenerationDelta != -d.GenerationDelta {
			return fmt.Errorf("relation code %s: inverse generation delta %d, want %d", d.Code, inv.GenerationDelta, -d.GenerationDelta)
		}
		if inv.Category != d.Category {
			return fmt.Errorf("relation code %s: inverse category %s, want %s", d.Code, inv.Category, d.Category)
		}
	}
	return nil
}

// Lookup returns the definition for a code.
func (c *RelationCatalog) Lookup(code string) (RelationshipTypeDef, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// Kind returns the gender-neutral kind of a code.
func (c *RelationCatalog) Kind(code string) (string, bool) {
	d, ok := c.byCode[code]
	if !ok {
		return "", false
	}
	return d.Kind, true
}

// GenderOf returns the gender implied by a code (daughter implies female).
func (c *RelationCatalog) GenderOf(code string) Gender {
	d, ok := c.byCode[code]
	if !ok || d.Gender == "" {
		return GenderUnknown
	}
	return d.Gender
}

// Variant returns the code of kind matching the gender. When the gender is
// unknown, or the kind has no variant for it, the neutral code is returned.
func (c *RelationCatalog) Variant(kind string, g Gender) string {
	v, ok := c.variants[kind]
	if !ok {
		return ""
	}
	switch {
	case g == GenderMale && v.male != "":
		return v.male
	case g == GenderFemale && v.female != "":
		return v.female
	default:
		return v.neutral
	}
}

// Inverse returns the code describing the opposite direction of an edge,
// adapted to the gender of the person it now describes.
func (c *RelationCatalog) Inverse(code string, g Gender) (string, bool) {
	d, ok := c.byCode[code]
	if !ok {
		return "", false
	}
	return c.Variant(d.InverseCode, g), true
}

// Label returns the display label of a code, or the code itself.
func (c *RelationCatalog) Label(code string) string {
	if d, ok := c.byCode[code]; ok && d.Label != "" {
		return d.Label
	}
	return code
}

// All returns the definitions in declaration order.
func (c *RelationCatalog) All() []RelationshipTypeDef {
	out := make([]RelationshipTypeDef, len(c.defs))
	copy(out, c.defs)
	return out
}

// Has reports whether the code is in the catalog.
func (c *RelationCatalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}
