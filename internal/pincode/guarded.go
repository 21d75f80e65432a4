package pincode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"udyam/pkg/platform/circuit"
	"udyam/pkg/platform/sentinel"
)

// GuardedProvider stops calling an upstream that keeps failing. Not-found
// answers count as healthy responses.
type GuardedProvider struct {
	next    Provider
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedProvider(next Provider, breaker *circuit.Breaker, logger *slog.Logger) *GuardedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedProvider{next: next, breaker: breaker, logger: logger}
}

func (p *GuardedProvider) Lookup(ctx context.Context, code string) (*Locality, error) {
	if !p.breaker.Allow() {
		return nil, fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, p.breaker.Name())
	}

	loc, err := p.next.Lookup(ctx, code)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		if p.breaker.RecordFailure() {
			p.logger.WarnContext(ctx, "postal API circuit opened", "breaker", p.breaker.Name(), "error", err)
		}
		return nil, err
	}
	if p.breaker.RecordSuccess() {
		p.logger.InfoContext(ctx, "postal API circuit closed", "breaker", p.breaker.Name())
	}
	return loc, err
}
