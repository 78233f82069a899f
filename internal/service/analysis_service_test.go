package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascentra/internal/model"
)

// In-memory doubles for the storage and cache interfaces.

type fakeStudyRepo struct {
	mu      sync.Mutex
	studies map[string]*model.Study
}

func newFakeStudyRepo() *fakeStudyRepo {
	return &fakeStudyRepo{studies: make(map[string]*model.Study)}
}

func (r *fakeStudyRepo) Create(ctx context.Context, study *model.Study) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if study.ID == "" {
		study.ID = "study_1"
	}
	r.studies[study.ID] = study
	return study.ID, nil
}

func (r *fakeStudyRepo) GetByID(ctx context.Context, id string) (*model.Study, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.studies[id], nil
}

func (r *fakeStudyRepo) List(ctx context.Context) ([]*model.Study, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Study, 0, len(r.studies))
	for _, s := range r.studies {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.studies, id)
	return nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []*model.Run
}

func (r *fakeRunRepo) Create(ctx context.Context, run *model.Run) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID == "" {
		run.ID = "run_1"
	}
	r.runs = append(r.runs, run)
	return run.ID, nil
}

func (r *fakeRunRepo) GetByID(ctx context.Context, id string) (*model.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, nil
}

func (r *fakeRunRepo) GetBySessionID(ctx context.Context, sessionID string) ([]*model.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Run
	for _, run := range r.runs {
		if run.SessionID == sessionID {
			out = append(out, run)
		}
	}
	return out, nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string]*model.Session)}
}

func (c *fakeSessionCache) Set(ctx context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = session
	return nil
}

func (c *fakeSessionCache) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[sessionID], nil
}

func (c *fakeSessionCache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	return nil
}

type fakeResultCache struct {
	mu      sync.Mutex
	results map[string]*model.ExecutionResult
	sets    int
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{results: make(map[string]*model.ExecutionResult)}
}

func (c *fakeResultCache) Get(ctx context.Context, key string) (*model.ExecutionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[key], nil
}

func (c *fakeResultCache) Set(ctx context.Context, key string, result *model.ExecutionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
	c.sets++
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, msgType)
}

func testStudy() *model.Study {
	return &model.Study{
		ID:   "study_1",
		Name: "Phone launch",
		Questions: []model.Question{
			{ID: "q_tier", Type: model.QuestionSingleChoice, Options: []string{"ENTERPRISE", "SMB"}},
			{ID: "q_nps", Type: model.QuestionOrdinalScale,
				Options: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, IsNPSScale: true},
		},
		Header: []string{"q_tier", "q_nps"},
		Rows: [][]string{
			{"ENTERPRISE", "9"},
			{"SMB", "6"},
			{"SMB", ""},
			{"ENTERPRISE", "10"},
		},
	}
}

func testAnalysisService(t *testing.T) (*AnalysisService, *SessionService, *fakeRunRepo, *fakeResultCache, *fakeBroadcaster, string) {
	t.Helper()
	studyRepo := newFakeStudyRepo()
	_, err := studyRepo.Create(context.Background(), testStudy())
	require.NoError(t, err)

	sessions := NewSessionService(studyRepo, newFakeSessionCache())
	descriptor, err := sessions.Create(context.Background(), "study_1", "analyst_1")
	require.NoError(t, err)

	runRepo := &fakeRunRepo{}
	resultCache := newFakeResultCache()
	broadcaster := &fakeBroadcaster{}
	svc := NewAnalysisService(sessions, runRepo, resultCache, broadcaster)
	return svc, sessions, runRepo, resultCache, broadcaster, descriptor.ID
}

func TestExecuteRecordsRunAndResult(t *testing.T) {
	svc, _, runRepo, _, broadcaster, sessionID := testAnalysisService(t)

	outcome, err := svc.Execute(context.Background(), sessionID, model.CutSpec{
		CutID:      "nps_overall",
		Metric:     model.MetricSpec{Kind: model.MetricNPS},
		QuestionID: "q_nps",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, outcome.Status)
	require.NotNil(t, outcome.Result)
	require.Len(t, outcome.Result.Rows, 1)
	require.NotNil(t, outcome.Result.Rows[0].MetricValue)
	// Promoters 9 and 10, detractor 6, base 3.
	assert.InDelta(t, 33.33, *outcome.Result.Rows[0].MetricValue, 0.01)

	run, err := runRepo.GetByID(context.Background(), outcome.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunCompleted, run.Status)
	assert.NotEmpty(t, run.SpecJSON)
	// The trace covers the full lifecycle.
	require.NotEmpty(t, run.Trace)
	assert.Equal(t, "received", run.Trace[0].Type)
	assert.Equal(t, "returned", run.Trace[len(run.Trace)-1].Type)

	assert.Contains(t, broadcaster.events, "run_completed")
}

func TestExecuteRejectedSpecIsRecordedNotExecuted(t *testing.T) {
	svc, _, runRepo, resultCache, _, sessionID := testAnalysisService(t)

	outcome, err := svc.Execute(context.Background(), sessionID, model.CutSpec{
		Metric:     model.MetricSpec{Kind: model.MetricMean},
		QuestionID: "q_tier",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, model.RunRejected, outcome.Status)
	assert.Nil(t, outcome.Result)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, model.ErrMetricQuestionIncompatible, outcome.Errors[0].Kind)

	// Nothing cached for a rejected spec.
	assert.Zero(t, resultCache.sets)

	run, err := runRepo.GetByID(context.Background(), outcome.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunRejected, run.Status)
	assert.Len(t, run.Errors, 1)
}

func TestExecuteRepeatHitsResultCache(t *testing.T) {
	svc, _, _, resultCache, _, sessionID := testAnalysisService(t)

	cut := model.CutSpec{
		CutID:      "nps_overall",
		Metric:     model.MetricSpec{Kind: model.MetricNPS},
		QuestionID: "q_nps",
	}

	first, err := svc.Execute(context.Background(), sessionID, cut, "")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Equal(t, 1, resultCache.sets)

	second, err := svc.Execute(context.Background(), sessionID, cut, "")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	// No recomputation, no second insert.
	assert.Equal(t, 1, resultCache.sets)
}

func TestDefineSegmentThenUseAsDimension(t *testing.T) {
	svc, _, _, _, broadcaster, sessionID := testAnalysisService(t)

	verrs, err := svc.DefineSegment(context.Background(), sessionID, model.SegmentSpec{
		Name:       "enterprise",
		Definition: model.FilterExpr{Pred: model.Eq{QuestionID: "q_tier", Value: "ENTERPRISE"}},
	}, false)
	require.NoError(t, err)
	require.Empty(t, verrs)
	assert.Contains(t, broadcaster.events, "segment_defined")

	outcome, err := svc.Execute(context.Background(), sessionID, model.CutSpec{
		Metric:      model.MetricSpec{Kind: model.MetricFrequency},
		QuestionID:  "q_nps",
		DimensionID: "enterprise",
	}, "")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	require.Len(t, outcome.Result.Rows, 2)
	assert.Equal(t, "enterprise", outcome.Result.Rows[0].GroupLabel)
	assert.Equal(t, "not enterprise", outcome.Result.Rows[1].GroupLabel)
}

func TestSegmentChangeInvalidatesCacheKey(t *testing.T) {
	svc, _, _, resultCache, _, sessionID := testAnalysisService(t)

	cut := model.CutSpec{
		Metric:     model.MetricSpec{Kind: model.MetricFrequency},
		QuestionID: "q_nps",
	}

	_, err := svc.Execute(context.Background(), sessionID, cut, "")
	require.NoError(t, err)
	require.Equal(t, 1, resultCache.sets)

	// Defining a segment changes session state, so the same cut gets a
	// fresh key rather than the stale entry.
	_, err = svc.DefineSegment(context.Background(), sessionID, model.SegmentSpec{
		Name:       "promoters",
		Definition: model.FilterExpr{Pred: model.Range{QuestionID: "q_nps", Min: floatPtr(9)}},
	}, false)
	require.NoError(t, err)

	second, err := svc.Execute(context.Background(), sessionID, cut, "")
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Equal(t, 2, resultCache.sets)
}

func TestValidateReportsWithoutRecording(t *testing.T) {
	svc, _, runRepo, _, _, sessionID := testAnalysisService(t)

	verrs, err := svc.Validate(context.Background(), sessionID, model.CutSpec{
		Metric:     model.MetricSpec{Kind: model.MetricFrequency},
		QuestionID: "QUNKNOWN",
	})

	require.NoError(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, model.ErrUnknownQuestionID, verrs[0].Kind)
	assert.Empty(t, runRepo.runs)
}

func TestSessionRehydratesFromDescriptor(t *testing.T) {
	_, sessions, _, _, _, sessionID := testAnalysisService(t)

	// Drop the in-process state; the cached descriptor plus the study are
	// enough to rebuild the session.
	sessions.mu.Lock()
	delete(sessions.live, sessionID)
	sessions.mu.Unlock()

	live, err := sessions.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, live.Descriptor.ID)
	assert.Equal(t, 4, live.Dataset.Len())
}

func TestSessionUnknownIDs(t *testing.T) {
	studyRepo := newFakeStudyRepo()
	sessions := NewSessionService(studyRepo, newFakeSessionCache())

	_, err := sessions.Create(context.Background(), "nope", "analyst_1")
	assert.ErrorIs(t, err, ErrStudyNotFound)

	_, err = sessions.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func floatPtr(v float64) *float64 { return &v }
