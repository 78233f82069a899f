package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ascentra/internal/model"
)

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "q_region", Type: model.QuestionSingleChoice, Label: "Region", Options: []string{"NORTH", "SOUTH"}},
		{ID: "q_tier", Type: model.QuestionSingleChoice, Label: "Account tier", Options: []string{"ENTERPRISE", "SMB"}},
		{ID: "q_nps", Type: model.QuestionOrdinalScale, Label: "Likelihood to recommend",
			Options: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, IsNPSScale: true},
		{ID: "q_sat", Type: model.QuestionOrdinalScale, Label: "Overall satisfaction", Options: []string{"1", "2", "3", "4", "5"}},
		{ID: "q_features", Type: model.QuestionMultiChoice, Label: "Features used", Options: []string{"camera", "battery", "display"}},
		{ID: "q_age", Type: model.QuestionNumeric, Label: "Age"},
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := NewCatalog(testQuestions())
	require.NoError(t, err)
	return cat
}

func testDataset() *model.Dataset {
	header := []string{"q_region", "q_tier", "q_nps", "q_sat", "q_features", "q_age"}
	rows := [][]string{
		{"NORTH", "ENTERPRISE", "9", "4", "camera;battery", "34"},
		{"SOUTH", "SMB", "6", "2", "battery", "28"},
		{"NORTH", "SMB", "", "5", "", "45"},
		{"SOUTH", "ENTERPRISE", "10", "5", "camera", "52"},
		{"NORTH", "SMB", "3", "1", "display", "23"},
	}
	return model.NewDataset(header, rows)
}

func testStore(t *testing.T) (*Catalog, *model.Dataset, *SegmentStore) {
	t.Helper()
	cat := testCatalog(t)
	ds := testDataset()
	return cat, ds, NewSegmentStore(cat, ds)
}

func floatPtr(v float64) *float64 { return &v }

func kindsOf(errs []model.ValidationError) []model.ErrorKind {
	kinds := make([]model.ErrorKind, 0, len(errs))
	for _, e := range errs {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
