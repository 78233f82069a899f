package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascentra/internal/engine"
	"ascentra/internal/model"
)

func plannerCatalog(t *testing.T) *engine.Catalog {
	t.Helper()
	cat, err := engine.NewCatalog([]model.Question{
		{ID: "q_model", Type: model.QuestionSingleChoice, Label: "Phone model", Options: []string{"standard", "pro", "ultra"}},
		{ID: "q_satisfaction", Type: model.QuestionOrdinalScale, Label: "Overall satisfaction", Options: []string{"1", "2", "3", "4", "5"}},
		{ID: "q_recommend", Type: model.QuestionOrdinalScale, Label: "Likelihood to recommend",
			Options: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, IsNPSScale: true},
		{ID: "q_screen_hours", Type: model.QuestionNumeric, Label: "Screen hours"},
	})
	require.NoError(t, err)
	return cat
}

func offlinePlanner(t *testing.T) *PlannerService {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	return NewPlannerService()
}

func TestPlanCutNPSPrompt(t *testing.T) {
	svc := offlinePlanner(t)
	cat := plannerCatalog(t)

	cut, err := svc.PlanCut(context.Background(), cat, "what is our nps?")
	require.NoError(t, err)

	assert.Equal(t, model.MetricNPS, cut.Metric.Kind)
	// The only NPS-flagged question is the valid target.
	assert.Equal(t, "q_recommend", cut.QuestionID)
	assert.Empty(t, cut.DimensionID)
}

func TestPlanCutMeanWithDimension(t *testing.T) {
	svc := offlinePlanner(t)
	cat := plannerCatalog(t)

	cut, err := svc.PlanCut(context.Background(), cat, "average q_screen_hours by q_model")
	require.NoError(t, err)

	assert.Equal(t, model.MetricMean, cut.Metric.Kind)
	assert.Equal(t, "q_screen_hours", cut.QuestionID)
	assert.Equal(t, "q_model", cut.DimensionID)
}

func TestPlanCutDefaultsToFrequency(t *testing.T) {
	svc := offlinePlanner(t)
	cat := plannerCatalog(t)

	cut, err := svc.PlanCut(context.Background(), cat, "show me q_model")
	require.NoError(t, err)

	assert.Equal(t, model.MetricFrequency, cut.Metric.Kind)
	assert.Equal(t, "q_model", cut.QuestionID)
}

func TestPlanCutSkipsMultiChoiceDimension(t *testing.T) {
	svc := offlinePlanner(t)
	cat, err := engine.NewCatalog([]model.Question{
		{ID: "q_model", Type: model.QuestionSingleChoice, Label: "Phone model", Options: []string{"standard", "pro"}},
		{ID: "q_features", Type: model.QuestionMultiChoice, Label: "Features used", Options: []string{"camera", "battery"}},
	})
	require.NoError(t, err)

	// Multi-select questions cannot partition respondents, so the planner
	// never proposes one as a dimension.
	cut, err := svc.PlanCut(context.Background(), cat, "show me q_model by q_features")
	require.NoError(t, err)

	assert.Equal(t, "q_model", cut.QuestionID)
	assert.Empty(t, cut.DimensionID)
	assert.Empty(t, engine.ValidateCut(*cut, cat, engine.NewSegmentStore(cat, nil)))
}

func TestPlanCutIsDeterministic(t *testing.T) {
	svc := offlinePlanner(t)
	cat := plannerCatalog(t)

	first, err := svc.PlanCut(context.Background(), cat, "top 2 box for q_satisfaction by q_model")
	require.NoError(t, err)
	second, err := svc.PlanCut(context.Background(), cat, "top 2 box for q_satisfaction by q_model")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, model.MetricTop2Box, first.Metric.Kind)
	assert.Equal(t, "q_satisfaction", first.QuestionID)
}

func TestPlanCutProposalPassesValidation(t *testing.T) {
	svc := offlinePlanner(t)
	cat := plannerCatalog(t)
	segs := engine.NewSegmentStore(cat, model.NewDataset([]string{"q_model"}, nil))

	cut, err := svc.PlanCut(context.Background(), cat, "mean of q_satisfaction")
	require.NoError(t, err)

	assert.Empty(t, engine.ValidateCut(*cut, cat, segs))
}
