package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"udyam/internal/registration/models"
	"udyam/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) create(aadhaar string) *models.Registration {
	reg, err := s.store.CreateWithStep1(s.ctx, models.Step1{Aadhaar: aadhaar, Name: "Test User", Declaration: true}, s.now)
	s.Require().NoError(err)
	return reg
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	reg := s.create("123456789012")
	s.NotEmpty(reg.ID)
	s.False(reg.Step1.Verified)
	s.Equal(s.now, reg.CreatedAt)

	byID, err := s.store.FindByID(s.ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(reg, byID)

	byAadhaar, err := s.store.FindByAadhaar(s.ctx, "123456789012")
	s.Require().NoError(err)
	s.Equal(reg.ID, byAadhaar.ID)
}

func (s *InMemoryStoreSuite) TestFindByAadhaarReturnsEarliest() {
	first := s.create("123456789012")
	s.create("123456789012")

	found, err := s.store.FindByAadhaar(s.ctx, "123456789012")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}

func (s *InMemoryStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByAadhaar(s.ctx, "000000000000")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.MarkOTPVerified(s.ctx, "missing", "123456", s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.AttachStep2(s.ctx, "missing", models.Step2{PAN: "ABCDE1234F"}, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestMarkOTPVerifiedIsIdempotent() {
	reg := s.create("123456789012")
	later := s.now.Add(time.Minute)

	for range 2 {
		updated, err := s.store.MarkOTPVerified(s.ctx, reg.ID, "123456", later)
		s.Require().NoError(err)
		s.True(updated.Step1.Verified)
		s.Equal("123456", updated.Step1.OTP)
		s.Equal(later, updated.UpdatedAt)
	}
}

func (s *InMemoryStoreSuite) TestAttachStep2() {
	reg := s.create("123456789012")

	updated, err := s.store.AttachStep2(s.ctx, reg.ID, models.Step2{PAN: "ABCDE1234F", Pincode: "110001"}, s.now)
	s.Require().NoError(err)
	s.Equal("ABCDE1234F", updated.Step2.PAN)
	s.Equal("123456789012", updated.Step1.Aadhaar)
}

func (s *InMemoryStoreSuite) TestReturnedRecordsAreCopies() {
	reg := s.create("123456789012")
	reg.Step1.Name = "mutated"

	found, err := s.store.FindByID(s.ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal("Test User", found.Step1.Name)
}

func (s *InMemoryStoreSuite) TestConcurrentWrites() {
	reg := s.create("123456789012")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.store.AttachStep2(s.ctx, reg.ID, models.Step2{PAN: "ABCDE1234F"}, s.now)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.store.MarkOTPVerified(s.ctx, reg.ID, "123456", s.now)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(s.ctx, reg.ID)
	s.Require().NoError(err)
	s.True(found.Step1.Verified)
	s.Equal("ABCDE1234F", found.Step2.PAN)
}
