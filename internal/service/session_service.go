package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ascentra/internal/cache"
	"ascentra/internal/engine"
	"ascentra/internal/model"
	"ascentra/internal/repository"
)

var (
	ErrStudyNotFound   = errors.New("study not found")
	ErrSessionNotFound = errors.New("session not found")
)

// LiveSession bundles the in-process analysis state for one session: the
// immutable catalog and dataset plus the mutable segment registry. Masks and
// segment specs never leave the process; only the descriptor is shared.
type LiveSession struct {
	Descriptor *model.Session
	Catalog    *engine.Catalog
	Dataset    *model.Dataset
	Segments   *engine.SegmentStore
	Executor   *engine.Executor
}

// SessionService manages analysis sessions. Descriptors go to Redis so a
// restarted server can rehydrate; the heavy state is rebuilt from the study
// on demand.
type SessionService struct {
	studyRepo    repository.StudyRepo
	sessionCache cache.SessionCache

	mu   sync.RWMutex
	live map[string]*LiveSession
}

// NewSessionService creates a new session service
func NewSessionService(studyRepo repository.StudyRepo, sessionCache cache.SessionCache) *SessionService {
	return &SessionService{
		studyRepo:    studyRepo,
		sessionCache: sessionCache,
		live:         make(map[string]*LiveSession),
	}
}

// Create opens a session against a study and hydrates its analysis state.
func (s *SessionService) Create(ctx context.Context, studyID, analystID string) (*model.Session, error) {
	study, err := s.studyRepo.GetByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}

	descriptor := &model.Session{
		ID:        uuid.New().String(),
		StudyID:   studyID,
		AnalystID: analystID,
		CreatedAt: time.Now().UTC(),
	}

	live, err := buildLiveSession(descriptor, study)
	if err != nil {
		return nil, err
	}

	if err := s.sessionCache.Set(ctx, descriptor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.live[descriptor.ID] = live
	s.mu.Unlock()

	return descriptor, nil
}

// Get returns the live session, rehydrating from the cached descriptor and
// the study when the process has no copy. Rehydration loses segment
// definitions, which is acceptable: segments are session-scoped scratch
// state and the client re-defines them.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*LiveSession, error) {
	s.mu.RLock()
	live, ok := s.live[sessionID]
	s.mu.RUnlock()
	if ok {
		return live, nil
	}

	descriptor, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		return nil, ErrSessionNotFound
	}
	study, err := s.studyRepo.GetByID(ctx, descriptor.StudyID)
	if err != nil {
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}
	live, err = buildLiveSession(descriptor, study)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Another request may have rehydrated concurrently; keep the first.
	if existing, ok := s.live[sessionID]; ok {
		live = existing
	} else {
		s.live[sessionID] = live
	}
	s.mu.Unlock()

	return live, nil
}

// End closes a session and drops its state.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()
	return s.sessionCache.Delete(ctx, sessionID)
}

func buildLiveSession(descriptor *model.Session, study *model.Study) (*LiveSession, error) {
	catalog, err := engine.NewCatalog(study.Questions)
	if err != nil {
		return nil, err
	}
	dataset := study.Dataset()
	segments := engine.NewSegmentStore(catalog, dataset)
	return &LiveSession{
		Descriptor: descriptor,
		Catalog:    catalog,
		Dataset:    dataset,
		Segments:   segments,
		Executor:   engine.NewExecutor(catalog, dataset, segments),
	}, nil
}
