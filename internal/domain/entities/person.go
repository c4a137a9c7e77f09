// Package entities contains core domain data structures.
package entities

import (
	"errors"
	"strings"
	"time"
)

// ErrPersonNotFound is returned when a referenced person does not exist.
var ErrPersonNotFound = errors.New("person not found")

// Gender is used only to pick the gendered variant of a relation label.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender converts user input to a Gender. Anything unrecognised is unknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "homme", "h":
		return GenderMale
	case "female", "f", "femme":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Person is a member of the family network. The ID is opaque and owned by
// the profile service.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Gender    Gender    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the name, or the ID when no name is known.
func (p *Person) DisplayName() string {
	if p == nil {
		return ""
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.ID
}
