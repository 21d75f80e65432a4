package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"udyam/internal/registration/models"
	"udyam/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[string]*models.Registration
	// aadhaar -> id of the earliest registration carrying it
	byAadhaar map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		registrations: make(map[string]*models.Registration),
		byAadhaar:     make(map[string]string),
	}
}

func (s *InMemoryStore) CreateWithStep1(_ context.Context, step1 models.Step1, now time.Time) (*models.Registration, error) {
	reg := &models.Registration{
		ID:        uuid.NewString(),
		Step1:     &step1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[reg.ID] = reg
	if _, ok := s.byAadhaar[step1.Aadhaar]; !ok {
		s.byAadhaar[step1.Aadhaar] = reg.ID
	}
	return clone(reg), nil
}

func (s *InMemoryStore) FindByAadhaar(_ context.Context, aadhaar string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byAadhaar[aadhaar]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.registrations[id]), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(reg), nil
}

func (s *InMemoryStore) MarkOTPVerified(_ context.Context, id, otp string, now time.Time) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if reg.Step1 == nil {
		reg.Step1 = &models.Step1{}
	}
	reg.Step1.OTP = otp
	reg.Step1.Verified = true
	reg.UpdatedAt = now
	return clone(reg), nil
}

func (s *InMemoryStore) AttachStep2(_ context.Context, id string, step2 models.Step2, now time.Time) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	reg.Step2 = &step2
	reg.UpdatedAt = now
	return clone(reg), nil
}
