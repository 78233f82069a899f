package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ascentra/internal/config"
	"ascentra/internal/engine"
	"ascentra/internal/model"
)

// PlannerService turns a natural-language analysis prompt into a cut spec
// via the Gemini API. Without an API key (or on any API failure) it falls
// back to a deterministic keyword planner so the pipeline stays testable
// offline. The proposed spec is never trusted: it goes through the same
// validation as a hand-written one.
type PlannerService struct {
	config *config.AIConfig
	client *http.Client
}

// NewPlannerService creates a new planner service
func NewPlannerService() *PlannerService {
	cfg := config.DefaultAIConfig()
	return &PlannerService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// PlanCut proposes a cut spec for a prompt against a catalog.
func (s *PlannerService) PlanCut(ctx context.Context, catalog *engine.Catalog, prompt string) (*model.CutSpec, error) {
	if !s.config.IsEnabled() {
		return s.keywordPlan(catalog, prompt), nil
	}

	response, err := s.callGemini(ctx, s.config.Models.CutPlan, s.buildCutPlanPrompt(catalog, prompt))
	if err != nil {
		return s.keywordPlan(catalog, prompt), nil
	}

	var cut model.CutSpec
	if err := json.Unmarshal([]byte(response), &cut); err != nil {
		return s.keywordPlan(catalog, prompt), nil
	}
	if cut.QuestionID == "" || cut.Metric.Kind == "" {
		return s.keywordPlan(catalog, prompt), nil
	}
	return &cut, nil
}

// callGemini makes a request to the Gemini API
func (s *PlannerService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (s *PlannerService) buildCutPlanPrompt(catalog *engine.Catalog, prompt string) string {
	var sb strings.Builder
	for _, q := range catalog.Questions() {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s", q.ID, q.Type, q.Label))
		if len(q.Options) > 0 {
			sb.WriteString(" options=[" + strings.Join(q.Options, ", ") + "]")
		}
		if q.IsNPSScale {
			sb.WriteString(" [nps scale]")
		}
		sb.WriteString("\n")
	}

	return fmt.Sprintf(`You are planning a survey analytics cut. Return ONLY valid JSON matching this schema:
{
  "cut_id": "short slug",
  "metric": {"kind": "frequency" or "mean" or "nps" or "top2box"},
  "question_id": "target question id",
  "dimension_id": "optional question or segment to group by",
  "filter": optional predicate tree, e.g. {"kind": "eq", "question_id": "...", "value": "..."}
}

Predicate kinds: eq, in, range (min/max), and, or, not. Use only question ids
and option codes from the catalog below - never invent ids or values.

Catalog:
%s
Analyst request: %s`, sb.String(), prompt)
}

// keywordPlan is the deterministic fallback: metric from trigger words,
// target from the first catalog question whose id or label appears in the
// prompt, grouping from a "by ..." clause.
func (s *PlannerService) keywordPlan(catalog *engine.Catalog, prompt string) *model.CutSpec {
	lower := strings.ToLower(prompt)

	kind := model.MetricFrequency
	switch {
	case strings.Contains(lower, "nps") || strings.Contains(lower, "net promoter"):
		kind = model.MetricNPS
	case strings.Contains(lower, "average") || strings.Contains(lower, "mean"):
		kind = model.MetricMean
	case strings.Contains(lower, "top 2") || strings.Contains(lower, "top-2") || strings.Contains(lower, "top2box"):
		kind = model.MetricTop2Box
	}

	target := ""
	for _, q := range catalog.Questions() {
		if !metricAccepts(kind, q) {
			continue
		}
		if promptMentions(lower, q) {
			target = q.ID
			break
		}
		if target == "" {
			target = q.ID
		}
	}

	dimension := ""
	if idx := strings.LastIndex(lower, " by "); idx >= 0 {
		tail := strings.TrimSpace(lower[idx+4:])
		for _, q := range catalog.Questions() {
			if q.ID == target || q.Type == model.QuestionMultiChoice {
				continue
			}
			if strings.Contains(tail, strings.ToLower(q.ID)) || strings.Contains(tail, strings.ToLower(q.Label)) {
				dimension = q.ID
				break
			}
		}
	}

	return &model.CutSpec{
		CutID:       "planned",
		Metric:      model.MetricSpec{Kind: kind},
		QuestionID:  target,
		DimensionID: dimension,
	}
}

func promptMentions(lower string, q model.Question) bool {
	if strings.Contains(lower, strings.ToLower(q.ID)) {
		return true
	}
	return q.Label != "" && strings.Contains(lower, strings.ToLower(q.Label))
}

func metricAccepts(kind model.MetricKind, q model.Question) bool {
	switch kind {
	case model.MetricNPS:
		return q.IsNPSScale
	case model.MetricMean:
		return q.Type == model.QuestionNumeric || q.Type == model.QuestionOrdinalScale
	case model.MetricTop2Box:
		return q.Type == model.QuestionOrdinalScale
	default:
		return true
	}
}
