package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/pkg/circuitbreaker"
)

func TestCircuitBreakerTrips(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
	}

	require.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
