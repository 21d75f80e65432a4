package pincode

import (
	"context"
	"errors"
	"log/slog"

	dErrors "udyam/pkg/domain-errors"
	"udyam/pkg/platform/sentinel"
	"udyam/pkg/requestcontext"
)

// Provider resolves a code against the upstream postal API.
type Provider interface {
	Lookup(ctx context.Context, code string) (*Locality, error)
}

// Cache stores resolved localities. Get returns sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, code string) (*Locality, error)
	Set(ctx context.Context, loc *Locality) error
}

// Service answers lookups from the cache first, then the provider.
type Service struct {
	provider Provider
	cache    Cache
	metrics  *Metrics
	logger   *slog.Logger
}

func NewService(provider Provider, cache Cache, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, cache: cache, metrics: metrics, logger: logger}
}

func (s *Service) Lookup(ctx context.Context, code string) (*Locality, error) {
	if !ValidCode(code) {
		return nil, dErrors.New(dErrors.CodeValidation, "PIN code must be 6 digits")
	}

	if s.cache != nil {
		loc, err := s.cache.Get(ctx, code)
		if err == nil {
			s.metrics.inc("hit")
			return loc, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			// A broken cache degrades to a direct lookup.
			s.logger.WarnContext(ctx, "pincode cache read failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	s.metrics.inc("miss")

	loc, err := s.provider.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.inc("not_found")
			return nil, dErrors.New(dErrors.CodeNotFound, "No locality found for PIN code")
		}
		s.metrics.inc("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "pincode lookup failed")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, loc); err != nil {
			s.logger.WarnContext(ctx, "pincode cache write failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return loc, nil
}
