package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses a family file from a JSON object with "people" and
// "relationships" arrays.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed family file.
func (p *JSONParser) Parse(r io.Reader) (*FamilyFile, error) {
	var file FamilyFile

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1 stands in for the line number.
	for i := range file.People {
		file.People[i].LineNum = i + 1
	}
	for i := range file.Relationships {
		file.Relationships[i].LineNum = i + 1
	}

	return &file, nil
}
