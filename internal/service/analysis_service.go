package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"
	"time"

	"ascentra/internal/cache"
	"ascentra/internal/engine"
	"ascentra/internal/model"
	"ascentra/internal/repository"
)

// Broadcaster pushes session events to connected clients. Implemented by the
// WebSocket hub; a nil broadcaster disables pushes.
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

// RunOutcome is what an execute request produces: either a result or the
// rejection errors, plus the persisted run id.
type RunOutcome struct {
	RunID  string                  `json:"run_id"`
	Status model.RunStatus         `json:"status"`
	Result *model.ExecutionResult  `json:"result,omitempty"`
	Errors []model.ValidationError `json:"errors,omitempty"`
	Cached bool                    `json:"cached,omitempty"`
}

// AnalysisService runs validation and execution against a live session,
// records run artifacts and serves repeat requests from the result cache.
type AnalysisService struct {
	sessions    *SessionService
	runRepo     repository.RunRepo
	resultCache cache.ResultCache
	broadcaster Broadcaster
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(sessions *SessionService, runRepo repository.RunRepo, resultCache cache.ResultCache, broadcaster Broadcaster) *AnalysisService {
	return &AnalysisService{
		sessions:    sessions,
		runRepo:     runRepo,
		resultCache: resultCache,
		broadcaster: broadcaster,
	}
}

// Validate checks a cut against the session without executing it.
func (s *AnalysisService) Validate(ctx context.Context, sessionID string, cut model.CutSpec) ([]model.ValidationError, error) {
	live, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return engine.ValidateCut(cut, live.Catalog, live.Segments), nil
}

// DefineSegment validates and registers a named segment on the session.
func (s *AnalysisService) DefineSegment(ctx context.Context, sessionID string, spec model.SegmentSpec, replace bool) ([]model.ValidationError, error) {
	live, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	verrs, err := live.Segments.Define(spec, replace)
	if err != nil {
		return nil, err
	}
	if len(verrs) == 0 && s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "segment_defined", map[string]string{"name": spec.Name})
	}
	return verrs, nil
}

// Execute runs a cut through the full lifecycle, records the run artifact and
// returns the outcome. Identical specs against identical session state hit
// the result cache; the run artifact is recorded either way.
func (s *AnalysisService) Execute(ctx context.Context, sessionID string, cut model.CutSpec, prompt string) (*RunOutcome, error) {
	live, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	specJSON, err := json.Marshal(cut)
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		SessionID: sessionID,
		StudyID:   live.Descriptor.StudyID,
		Prompt:    prompt,
		SpecJSON:  string(specJSON),
	}
	started := time.Now()

	key := s.cacheKey(live, specJSON)
	if cached, err := s.resultCache.Get(ctx, key); err != nil {
		log.Printf("result cache get failed: %v", err)
	} else if cached != nil {
		run.Status = model.RunCompleted
		run.AddEvent("cache_hit", map[string]string{"key": key})
		s.finishRun(ctx, run, started)
		return &RunOutcome{RunID: run.ID, Status: run.Status, Result: cached, Cached: true}, nil
	}

	result, verrs, err := live.Executor.Execute(cut, func(state string) {
		run.AddEvent(state, nil)
	})
	if err != nil {
		return nil, err
	}

	if len(verrs) > 0 {
		run.Status = model.RunRejected
		run.Errors = verrs
		s.finishRun(ctx, run, started)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(sessionID, "run_rejected", &RunOutcome{RunID: run.ID, Status: run.Status, Errors: verrs})
		}
		return &RunOutcome{RunID: run.ID, Status: run.Status, Errors: verrs}, nil
	}

	run.Status = model.RunCompleted
	s.finishRun(ctx, run, started)
	if err := s.resultCache.Set(ctx, key, result); err != nil {
		log.Printf("result cache set failed: %v", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "run_completed", &RunOutcome{RunID: run.ID, Status: run.Status, Result: result})
	}
	return &RunOutcome{RunID: run.ID, Status: run.Status, Result: result}, nil
}

// GetRun returns a stored run artifact.
func (s *AnalysisService) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	return s.runRepo.GetByID(ctx, runID)
}

// ListRuns returns a session's run artifacts, newest first.
func (s *AnalysisService) ListRuns(ctx context.Context, sessionID string) ([]*model.Run, error) {
	return s.runRepo.GetBySessionID(ctx, sessionID)
}

func (s *AnalysisService) finishRun(ctx context.Context, run *model.Run, started time.Time) {
	run.DurationMS = time.Since(started).Milliseconds()
	if _, err := s.runRepo.Create(ctx, run); err != nil {
		log.Printf("failed to record run: %v", err)
	}
}

// cacheKey hashes everything the result depends on: the study, the spec and
// every segment definition the session holds. Segment names are sorted so
// definition order does not perturb the key.
func (s *AnalysisService) cacheKey(live *LiveSession, specJSON []byte) string {
	h := sha256.New()
	h.Write([]byte(live.Descriptor.StudyID))
	h.Write(specJSON)
	names := live.Segments.Names()
	sort.Strings(names)
	for _, name := range names {
		spec, ok := live.Segments.Get(name)
		if !ok {
			continue
		}
		if data, err := json.Marshal(spec); err == nil {
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
