package pincode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyam/pkg/platform/circuit"
	"udyam/pkg/platform/sentinel"
)

func TestGuardedProvider_OpensOnUpstreamFailures(t *testing.T) {
	upstream := &stubProvider{err: sentinel.ErrUnavailable}
	breaker := circuit.New("postal", circuit.WithFailureThreshold(2))
	p := NewGuardedProvider(upstream, breaker, nil)
	ctx := context.Background()

	for range 2 {
		_, err := p.Lookup(ctx, "110001")
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	}
	assert.True(t, breaker.IsOpen())

	_, err := p.Lookup(ctx, "110001")
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, 2, upstream.calls, "open circuit must not reach upstream")
}

func TestGuardedProvider_NotFoundIsHealthy(t *testing.T) {
	upstream := &stubProvider{err: sentinel.ErrNotFound}
	breaker := circuit.New("postal", circuit.WithFailureThreshold(1))
	p := NewGuardedProvider(upstream, breaker, nil)

	_, err := p.Lookup(context.Background(), "999999")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.False(t, breaker.IsOpen())
}

func TestGuardedProvider_PassesThroughLocality(t *testing.T) {
	upstream := &stubProvider{loc: &Locality{Name: "Connaught Place", District: "Central Delhi", State: "Delhi"}}
	p := NewGuardedProvider(upstream, circuit.New("postal"), nil)

	loc, err := p.Lookup(context.Background(), "110001")
	require.NoError(t, err)
	assert.Equal(t, "110001", loc.Pincode)
	assert.Equal(t, "Central Delhi", loc.District)
}
