package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ascentra/internal/engine"
	"ascentra/internal/loader"
	"ascentra/internal/model"
	"ascentra/internal/repository"
)

// StudyService manages study import and retrieval. Imports are verified by
// building the catalog once, so a malformed catalog never reaches storage.
type StudyService struct {
	studyRepo repository.StudyRepo
}

// NewStudyService creates a new study service
func NewStudyService(studyRepo repository.StudyRepo) *StudyService {
	return &StudyService{studyRepo: studyRepo}
}

// Import parses, verifies and stores a study from uploaded documents.
func (s *StudyService) Import(ctx context.Context, name string, questionsDoc, responsesCSV []byte) (*model.Study, error) {
	questions, err := loader.ParseQuestions(questionsDoc)
	if err != nil {
		return nil, err
	}
	header, rows, err := loader.ParseResponses(bytes.NewReader(responsesCSV))
	if err != nil {
		return nil, err
	}

	study := &model.Study{
		Name:      name,
		Questions: questions,
		Header:    header,
		Rows:      rows,
	}
	if _, err := engine.NewCatalog(questions); err != nil {
		return nil, fmt.Errorf("catalog rejected: %w", err)
	}
	if missing := missingColumns(questions, header); len(missing) > 0 {
		return nil, fmt.Errorf("responses missing columns for questions: %s", strings.Join(missing, ", "))
	}

	if _, err := s.studyRepo.Create(ctx, study); err != nil {
		return nil, err
	}
	return study, nil
}

// missingColumns returns the ids of catalog questions that have no column in
// the response header. Every question must be answerable from the dataset.
func missingColumns(questions []model.Question, header []string) []string {
	cols := make(map[string]bool, len(header))
	for _, h := range header {
		cols[h] = true
	}
	var missing []string
	for _, q := range questions {
		if !cols[q.ID] {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Get returns a study by id.
func (s *StudyService) Get(ctx context.Context, id string) (*model.Study, error) {
	return s.studyRepo.GetByID(ctx, id)
}

// List returns all studies without their respondent rows.
func (s *StudyService) List(ctx context.Context) ([]*model.Study, error) {
	return s.studyRepo.List(ctx)
}

// Delete removes a study.
func (s *StudyService) Delete(ctx context.Context, id string) error {
	return s.studyRepo.Delete(ctx, id)
}
