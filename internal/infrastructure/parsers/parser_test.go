package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *FamilyFile
	}{
		{
			name: "people and relationships",
			input: `{
				"people": [{"id": "mohamed", "name": "Mohamed", "gender": "male"}],
				"relationships": [{"subject": "mohamed", "type": "wife", "object": "leila"}]
			}`,
			expected: &FamilyFile{
				People:        []RawPerson{{ID: "mohamed", Name: "Mohamed", Gender: "male", LineNum: 1}},
				Relationships: []RawRelationship{{Subject: "mohamed", Type: "wife", Object: "leila", LineNum: 1}},
			},
		},
		{
			name:     "empty object",
			input:    "{}",
			expected: &FamilyFile{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}

	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)

	_, err = parser.Parse(strings.NewReader(`{"facts": []}`))
	require.Error(t, err)
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	input := "kind,id,name,gender,subject,type,object\n" +
		"person,ahmed,Ahmed,male,,,\n" +
		"person,leila,Leila,female,,,\n" +
		"relationship,,,,ahmed,son,mohamed\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []RawPerson{
		{ID: "ahmed", Name: "Ahmed", Gender: "male", LineNum: 2},
		{ID: "leila", Name: "Leila", Gender: "female", LineNum: 3},
	}, result.People)
	assert.Equal(t, []RawRelationship{
		{Subject: "ahmed", Type: "son", Object: "mohamed", LineNum: 4},
	}, result.Relationships)
}

func TestCSVParser_Parse_MissingColumn(t *testing.T) {
	parser := &CSVParser{}
	_, err := parser.Parse(strings.NewReader("kind,id,name\nperson,a,A\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestCSVParser_Parse_UnknownKind(t *testing.T) {
	input := "kind,id,name,gender,subject,type,object\nfact,x,,,,,\n"

	parser := &CSVParser{}
	_, err := parser.Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		expected Parser
	}{
		{"family.json", &JSONParser{}},
		{"FAMILY.CSV", &CSVParser{}},
		{"family.txt", nil},
		{"family", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForFile(tt.filename))
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &CSVParser{}, ForFormat("csv"))
	assert.Nil(t, ForFormat("xml"))
}
