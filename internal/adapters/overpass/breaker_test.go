package overpass

import (
	"context"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

type stubSearcher struct {
	calls int
	err   error
}

func (s *stubSearcher) FetchNearby(ctx context.Context, lat, lon, radius float64) ([]entities.Place, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []entities.Place{{Name: "Warung", Lat: lat, Lon: lon}}, nil
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

func TestCircuitBreaker_OpensOnUpstreamFailures(t *testing.T) {
	stub := &stubSearcher{err: entities.NewError(entities.UpstreamUnavailable, opFetch, "down", nil)}
	client := NewCircuitBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 3; i++ {
		client.FetchNearby(context.Background(), 1, 1, 1000)
	}
	if client.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", client.State())
	}

	_, err := client.FetchNearby(context.Background(), 1, 1, 1000)
	if entities.KindOf(err) != entities.UpstreamUnavailable {
		t.Errorf("open breaker should surface UpstreamUnavailable, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("open breaker should not call upstream, got %d calls", stub.calls)
	}
}

func TestCircuitBreaker_IgnoresCallerErrors(t *testing.T) {
	stub := &stubSearcher{err: entities.NewError(entities.NoResultsFound, opFetch, "empty", nil)}
	client := NewCircuitBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 5; i++ {
		_, err := client.FetchNearby(context.Background(), 1, 1, 1000)
		if entities.KindOf(err) != entities.NoResultsFound {
			t.Fatalf("expected NoResultsFound passthrough, got %v", err)
		}
	}
	if client.State() != gobreaker.StateClosed {
		t.Errorf("empty results should not trip the breaker, got %s", client.State())
	}
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	client := NewCircuitBreakerClient(&stubSearcher{}, DefaultBreakerConfig())
	places, err := client.FetchNearby(context.Background(), -6.2, 106.8, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0].Lat != -6.2 {
		t.Errorf("unexpected places: %+v", places)
	}
}
