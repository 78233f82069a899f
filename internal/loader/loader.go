// Package loader reads the study inputs supplied by the dataset collaborator:
// a question catalog (questions.json) and a respondent table (responses.csv).
// The engine never parses files itself; it only receives the structured
// outputs of this package.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ascentra/internal/model"
)

// ParseQuestions decodes a catalog document. Both a bare list and a
// {"questions": [...]} wrapper are accepted.
func ParseQuestions(data []byte) ([]model.Question, error) {
	var list []model.Question
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Questions == nil {
		return nil, fmt.Errorf("invalid questions document")
	}
	return wrapped.Questions, nil
}

// ParseResponses reads a respondent CSV. The first record is the header of
// question ids; empty cells are the missing-value marker.
func ParseResponses(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // short rows pad as missing

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse responses: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("responses document has no header")
	}
	return records[0], records[1:], nil
}

// LoadQuestions reads a catalog file.
func LoadQuestions(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	questions, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("questions file %s: %w", path, err)
	}
	return questions, nil
}

// LoadResponses reads a respondent CSV file.
func LoadResponses(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open responses file: %w", err)
	}
	defer f.Close()
	return ParseResponses(f)
}

// LoadStudy reads both inputs and assembles an unsaved study.
func LoadStudy(name, questionsPath, responsesPath string) (*model.Study, error) {
	questions, err := LoadQuestions(questionsPath)
	if err != nil {
		return nil, err
	}
	header, rows, err := LoadResponses(responsesPath)
	if err != nil {
		return nil, err
	}
	return &model.Study{
		Name:      name,
		Questions: questions,
		Header:    header,
		Rows:      rows,
	}, nil
}
