package service

import (
	"sync"
	"time"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/google/uuid"
)

type formSession struct {
	mu         sync.Mutex
	id         string
	state      dto.FormState
	submitting bool
	createdAt  time.Time
	updatedAt  time.Time
}

// view must be called with mu held
func (f *formSession) view() dto.FormSession {
	return dto.FormSession{
		ID:         f.id,
		State:      cloneState(f.state),
		Submitting: f.submitting,
		CreatedAt:  f.createdAt,
		UpdatedAt:  f.updatedAt,
	}
}

// FormStore keeps open candidate forms in memory
type FormStore struct {
	mu    sync.RWMutex
	forms map[string]*formSession
}

func NewFormStore() *FormStore {
	return &FormStore{forms: make(map[string]*formSession)}
}

func (s *FormStore) create(now time.Time) *formSession {
	f := &formSession{
		id:        uuid.NewString(),
		state:     dto.NewFormState(),
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.forms[f.id] = f
	s.mu.Unlock()
	return f
}

func (s *FormStore) get(id string) (*formSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

func (s *FormStore) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[id]; !ok {
		return ErrFormNotFound
	}
	delete(s.forms, id)
	return nil
}

// Len returns the number of open forms
func (s *FormStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}
