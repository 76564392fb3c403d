package overpass

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/domain/ports"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
	"github.com/0xcro3dile/makanapa-go/internal/metrics"
)

// BreakerConfig tunes the circuit breaker around the Overpass client.
type BreakerConfig struct {
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // window for clearing counts while closed
	Timeout      time.Duration // open -> half-open delay
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig opens after 60% failures over at least 10 calls and
// probes again after one minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a PlaceSearcher so a failing Overpass instance is
// not hammered. An open circuit is reported as UpstreamUnavailable.
type CircuitBreakerClient struct {
	next ports.PlaceSearcher
	cb   *gobreaker.CircuitBreaker[[]entities.Place]
	name string
}

// NewCircuitBreakerClient wraps next with a breaker named "overpass".
func NewCircuitBreakerClient(next ports.PlaceSearcher, cfg BreakerConfig) *CircuitBreakerClient {
	name := "overpass"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]entities.Place](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// Caller mistakes and empty areas are not upstream failures.
		IsSuccessful: func(err error) bool {
			switch entities.KindOf(err) {
			case entities.Unclassified:
				return err == nil
			case entities.InvalidInput, entities.NoResultsFound, entities.UpstreamBadRequest:
				return true
			default:
				return false
			}
		},
	})

	return &CircuitBreakerClient{next: next, cb: cb, name: name}
}

// FetchNearby delegates to the wrapped client through the breaker.
func (c *CircuitBreakerClient) FetchNearby(ctx context.Context, lat, lon, radius float64) ([]entities.Place, error) {
	places, err := c.cb.Execute(func() ([]entities.Place, error) {
		return c.next.FetchNearby(ctx, lat, lon, radius)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, entities.NewError(entities.UpstreamUnavailable, opFetch, "overpass temporarily disabled after repeated failures", err)
	}
	return places, err
}

// State returns the breaker state, for health reporting.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
