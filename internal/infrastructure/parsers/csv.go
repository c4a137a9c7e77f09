package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSV row kinds.
const (
	rowPerson       = "person"
	rowRelationship = "relationship"
)

// CSVParser parses a family file from CSV.
type CSVParser struct{}

// Parse reads CSV from the reader and returns the parsed family file.
// Expected columns: kind, id, name, gender, subject, type, object.
// Person rows use id, name and gender; relationship rows use subject, type
// and object.
func (p *CSVParser) Parse(r io.Reader) (*FamilyFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredCols := []string{"kind", "id", "name", "subject", "type", "object"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and sorts them into people and relationships.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) (*FamilyFile, error) {
	file := &FamilyFile{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch kind := strings.ToLower(getColumn(record, colIndex, "kind")); kind {
		case rowPerson:
			file.People = append(file.People, RawPerson{
				ID:      getColumn(record, colIndex, "id"),
				Name:    getColumn(record, colIndex, "name"),
				Gender:  getColumn(record, colIndex, "gender"),
				LineNum: lineNum,
			})
		case rowRelationship:
			file.Relationships = append(file.Relationships, RawRelationship{
				Subject: getColumn(record, colIndex, "subject"),
				Type:    getColumn(record, colIndex, "type"),
				Object:  getColumn(record, colIndex, "object"),
				LineNum: lineNum,
			})
		default:
			return nil, fmt.Errorf("line %d: unknown row kind %q", lineNum, kind)
		}
	}

	return file, nil
}

// getColumn safely retrieves a trimmed column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
