package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

func TestRecommend_GeneralSavesWithoutCoordinates(t *testing.T) {
	places := &mockPlaces{}
	gen := &mockRecommender{result: sampleResult(10)}
	history := &mockHistory{}
	uc := NewRecommendUseCase(places, gen, history, time.Second)

	result, err := uc.Recommend(context.Background(), entities.RecommendationRequest{Category: "pedas", Mode: entities.General{}})
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(result.Recommendations) != 10 {
		t.Errorf("expected 10 recommendations, got %d", len(result.Recommendations))
	}
	if places.calls != 0 {
		t.Error("general mode should not search places")
	}
	if len(history.saved) != 1 || history.saved[0].Lat != nil || history.saved[0].Lon != nil {
		t.Errorf("expected one save without coordinates, got %+v", history.saved)
	}
}

func TestRecommend_NearMeSavesCoordinates(t *testing.T) {
	places := &mockPlaces{places: []entities.Place{{Name: "Warung", Lat: -6.2, Lon: 106.8}}}
	gen := &mockRecommender{result: sampleResult(3)}
	history := &mockHistory{}
	uc := NewRecommendUseCase(places, gen, history, time.Second)

	req := entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: -6.2, Lon: 106.8, Radius: 3000}}
	if _, err := uc.Recommend(context.Background(), req); err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if gen.nearMeCalls != 1 || len(gen.gotPlaces) != 1 {
		t.Error("generator should receive the fetched places")
	}
	rec := history.saved[0]
	if rec.Lat == nil || *rec.Lat != -6.2 || rec.Lon == nil || *rec.Lon != 106.8 {
		t.Errorf("expected saved coordinates, got %+v", rec)
	}
}

func TestRecommend_NearMeInvalidCoordinates(t *testing.T) {
	places := &mockPlaces{}
	gen := &mockRecommender{}
	history := &mockHistory{}
	uc := NewRecommendUseCase(places, gen, history, time.Second)

	req := entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 91, Lon: 106.8, Radius: 3000}}
	_, err := uc.Recommend(context.Background(), req)

	e, ok := entities.AsError(err)
	if !ok || e.Kind != entities.ValidationError {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(e.Fields) != 1 || e.Fields[0].Field != "mode" {
		t.Errorf("expected a mode field error, got %+v", e.Fields)
	}
	if places.calls != 0 || gen.nearMeCalls != 0 || len(history.saved) != 0 {
		t.Error("validation failures must not reach any upstream")
	}
}

func TestRecommend_ValidationFields(t *testing.T) {
	uc := NewRecommendUseCase(&mockPlaces{}, &mockRecommender{}, &mockHistory{}, time.Second)

	cases := []struct {
		req   entities.RecommendationRequest
		field string
	}{
		{entities.RecommendationRequest{Category: "  ", Mode: entities.General{}}, "category"},
		{entities.RecommendationRequest{Category: "pedas"}, "mode"},
		{entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 0, Lon: 0, Radius: 100}}, "radius"},
		{entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 1, Lon: 181, Radius: 3000}}, "mode"},
	}
	for _, c := range cases {
		_, err := uc.Recommend(context.Background(), c.req)
		e, ok := entities.AsError(err)
		if !ok || e.Kind != entities.ValidationError || e.Fields[0].Field != c.field {
			t.Errorf("expected %s validation error, got %v", c.field, err)
		}
	}
}

func TestRecommend_NoPlacesSkipsGeneration(t *testing.T) {
	places := &mockPlaces{}
	gen := &mockRecommender{result: sampleResult(1)}
	history := &mockHistory{}
	uc := NewRecommendUseCase(places, gen, history, time.Second)

	req := entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 0, Lon: 0, Radius: 3000}}
	_, err := uc.Recommend(context.Background(), req)
	if entities.KindOf(err) != entities.NoResultsFound {
		t.Errorf("expected NoResultsFound, got %v", err)
	}
	if gen.nearMeCalls != 0 || len(history.saved) != 0 {
		t.Error("no generation or save should happen without places")
	}
}

func TestRecommend_SearchErrorPropagates(t *testing.T) {
	places := &mockPlaces{err: entities.NewError(entities.UpstreamRateLimited, "overpass", "slow down", nil)}
	gen := &mockRecommender{}
	uc := NewRecommendUseCase(places, gen, &mockHistory{}, time.Second)

	req := entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 0, Lon: 0, Radius: 3000}}
	_, err := uc.Recommend(context.Background(), req)
	if entities.KindOf(err) != entities.UpstreamRateLimited {
		t.Errorf("expected UpstreamRateLimited, got %v", err)
	}
	if gen.nearMeCalls != 0 {
		t.Error("generation should not run after a search failure")
	}
}

func TestRecommend_GenerationFailureSkipsSave(t *testing.T) {
	gen := &mockRecommender{err: entities.NewError(entities.MalformedUpstreamOutput, "gen", "bad", nil)}
	history := &mockHistory{}
	uc := NewRecommendUseCase(&mockPlaces{}, gen, history, time.Second)

	_, err := uc.Recommend(context.Background(), entities.RecommendationRequest{Category: "pedas", Mode: entities.General{}})
	if entities.KindOf(err) != entities.MalformedUpstreamOutput {
		t.Errorf("expected MalformedUpstreamOutput, got %v", err)
	}
	if len(history.saved) != 0 {
		t.Error("failed generations must not be persisted")
	}
}

func TestRecommend_SaveFailureFailsRequest(t *testing.T) {
	history := &mockHistory{err: entities.NewError(entities.PersistenceUnavailable, "history", "db down", nil)}
	uc := NewRecommendUseCase(&mockPlaces{}, &mockRecommender{result: sampleResult(1)}, history, time.Second)

	_, err := uc.Recommend(context.Background(), entities.RecommendationRequest{Category: "pedas", Mode: entities.General{}})
	if entities.KindOf(err) != entities.PersistenceUnavailable {
		t.Errorf("expected PersistenceUnavailable, got %v", err)
	}
}

func TestRecommend_DeadlineExpires(t *testing.T) {
	places := &mockPlaces{block: true}
	uc := NewRecommendUseCase(places, &mockRecommender{}, &mockHistory{}, 20*time.Millisecond)

	start := time.Now()
	req := entities.RecommendationRequest{Category: "pedas", Mode: entities.NearMe{Lat: 0, Lon: 0, Radius: 3000}}
	_, err := uc.Recommend(context.Background(), req)

	if entities.KindOf(err) != entities.UpstreamTimeout {
		t.Errorf("expected UpstreamTimeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("deadline should abort the pipeline promptly")
	}
}

func TestHistories_Delegates(t *testing.T) {
	history := &mockHistory{saved: []entities.HistoryRecord{{ID: "a"}, {ID: "b"}}}
	uc := NewRecommendUseCase(&mockPlaces{}, &mockRecommender{}, history, 0)

	records, err := uc.Histories(context.Background())
	if err != nil || len(records) != 2 {
		t.Errorf("expected 2 records, got %d, %v", len(records), err)
	}
	if uc.timeout != DefaultRequestTimeout {
		t.Error("zero timeout should fall back to the default")
	}
}
