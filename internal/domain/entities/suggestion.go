package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a suggestion cannot move to the
// requested status.
var ErrInvalidTransition = errors.New("invalid suggestion status transition")

// SuggestionStatus is the lifecycle state of a suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionRejected SuggestionStatus = "rejected"
)

// ParseSuggestionStatus validates a status string.
func ParseSuggestionStatus(s string) (SuggestionStatus, error) {
	switch st := SuggestionStatus(s); st {
	case SuggestionPending, SuggestionAccepted, SuggestionRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown suggestion status %q", s)
	}
}

// RuleClass is the class of the composition rule a suggestion came from.
// It decides the confidence and breaks ties between equal confidences.
type RuleClass string

const (
	ClassDirect   RuleClass = "direct"
	ClassMarriage RuleClass = "marriage"
	ClassAdoption RuleClass = "adoption"
	ClassExtended RuleClass = "extended"
)

// Confidence returns the confidence score attached to the class.
func (c RuleClass) Confidence() int {
	switch c {
	case ClassDirect:
		return 100
	case ClassMarriage, ClassAdoption:
		return 90
	case ClassExtended:
		return 70
	default:
		return 0
	}
}

// Priority orders classes for tie-breaking; lower wins.
func (c RuleClass) Priority() int {
	switch c {
	case ClassDirect:
		return 0
	case ClassMarriage:
		return 1
	case ClassAdoption:
		return 2
	case ClassExtended:
		return 3
	default:
		return 4
	}
}

// Suggestion is a proposed connection shown to a user.
type Suggestion struct {
	ID            string           `json:"id"`
	SubjectID     string           `json:"subject_id"`
	CandidateID   string           `json:"candidate_id"`
	SuggestedCode string           `json:"suggested_code"`
	Rationale     string           `json:"rationale"`
	Confidence    int              `json:"confidence"`
	Status        SuggestionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Transition moves the suggestion to the given status. Only pending
// suggestions can change, and only to accepted or rejected.
func (s *Suggestion) Transition(to SuggestionStatus) error {
	if s.Status != SuggestionPending {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, s.Status)
	}
	if to != SuggestionAccepted && to != SuggestionRejected {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	s.Status = to
	return nil
}

// SuggestionCandidate is a generator result before persistence.
type SuggestionCandidate struct {
	CandidateID string    `json:"candidate_id"`
	Code        string    `json:"code"`
	Confidence  int       `json:"confidence"`
	Class       RuleClass `json:"class"`
	Rationale   string    `json:"rationale"`
	ConnectorID string    `json:"connector_id"`
}
