// Package parsers provides parsers for importing family files from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawPerson is a person parsed from an external source before validation.
type RawPerson struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Gender  string `json:"gender,omitempty"`
	LineNum int    `json:"-"` // Line number in source file (set by parser)
}

// RawRelationship is a relationship parsed from an external source before
// validation. Subject and Object are person IDs or names; Type is a relation
// code describing the object relative to the subject.
type RawRelationship struct {
	Subject string `json:"subject"`
	Type    string `json:"type"`
	Object  string `json:"object"`
	LineNum int    `json:"-"`
}

// FamilyFile is the parsed content of an import file.
type FamilyFile struct {
	People        []RawPerson       `json:"people"`
	Relationships []RawRelationship `json:"relationships"`
}

// Parser defines the interface for parsing family files.
type Parser interface {
	Parse(r io.Reader) (*FamilyFile, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}
