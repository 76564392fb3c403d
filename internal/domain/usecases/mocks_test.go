package usecases

import (
	"context"
	"sync"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// mockLLM implements ports.TextGenerator for testing
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

// mockPlaces implements ports.PlaceSearcher for testing
type mockPlaces struct {
	places []entities.Place
	err    error
	calls  int
	block  bool
}

func (m *mockPlaces) FetchNearby(ctx context.Context, lat, lon, radius float64) ([]entities.Place, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.places, m.err
}

// mockRecommender implements ports.Recommender for testing
type mockRecommender struct {
	result       entities.RecommendationResult
	err          error
	generalCalls int
	nearMeCalls  int
	gotPlaces    []entities.Place
}

func (m *mockRecommender) GenerateGeneral(ctx context.Context, category string) (entities.RecommendationResult, error) {
	m.generalCalls++
	return m.result, m.err
}

func (m *mockRecommender) GenerateNearMe(ctx context.Context, category string, places []entities.Place) (entities.RecommendationResult, error) {
	m.nearMeCalls++
	m.gotPlaces = places
	return m.result, m.err
}

// mockHistory implements ports.HistoryStore for testing
type mockHistory struct {
	saved []entities.HistoryRecord
	err   error
}

func (m *mockHistory) Save(ctx context.Context, category string, lat, lon *float64, result entities.RecommendationResult) (entities.HistoryRecord, error) {
	if m.err != nil {
		return entities.HistoryRecord{}, m.err
	}
	rec := entities.HistoryRecord{ID: "h1", Category: category, Lat: lat, Lon: lon, Result: result}
	m.saved = append(m.saved, rec)
	return rec, nil
}

func (m *mockHistory) List(ctx context.Context) ([]entities.HistoryRecord, error) {
	return m.saved, m.err
}

func sampleResult(n int) entities.RecommendationResult {
	items := make([]entities.RecommendationItem, n)
	for i := range items {
		items[i] = entities.RecommendationItem{Food: "Seblak", Place: "Warung", Reason: "Pedas"}
	}
	return entities.RecommendationResult{Recommendations: items}
}
