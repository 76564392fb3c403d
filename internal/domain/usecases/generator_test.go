package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

func TestGenerator_GeneralReturnsItems(t *testing.T) {
	llm := &mockLLM{response: validPayload}
	gen := NewRecommendationGenerator(llm)

	result, err := gen.GenerateGeneral(context.Background(), "pedas")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("expected 1 recommendation, got %d", len(result.Recommendations))
	}
	if !strings.Contains(llm.prompts[0], `"pedas"`) {
		t.Error("prompt should contain the category")
	}
	if !strings.Contains(llm.prompts[0], "Recommend 10 foods") {
		t.Error("prompt should request 10 foods")
	}
}

func TestGenerator_NearMeSamplesPlaces(t *testing.T) {
	places := make([]entities.Place, 80)
	for i := range places {
		places[i] = entities.Place{Name: fmt.Sprintf("Resto %02d", i), Lat: -6.2, Lon: 106.8}
	}
	llm := &mockLLM{response: validPayload}
	gen := NewRecommendationGenerator(llm)

	if _, err := gen.GenerateNearMe(context.Background(), "pedas", places); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "Resto 49") {
		t.Error("prompt should include the 50th place")
	}
	if strings.Contains(prompt, "Resto 50") {
		t.Error("prompt should include at most 50 places")
	}
}

func TestGenerator_NearMeWithoutPlaces(t *testing.T) {
	llm := &mockLLM{response: validPayload}
	gen := NewRecommendationGenerator(llm)

	_, err := gen.GenerateNearMe(context.Background(), "pedas", nil)
	if entities.KindOf(err) != entities.InsufficientContext {
		t.Errorf("expected InsufficientContext, got %v", err)
	}
	if len(llm.prompts) != 0 {
		t.Error("no generative call should be made without places")
	}
}

func TestGenerator_EmptyReply(t *testing.T) {
	gen := NewRecommendationGenerator(&mockLLM{response: "   "})

	_, err := gen.GenerateGeneral(context.Background(), "pedas")
	if entities.KindOf(err) != entities.UpstreamEmptyResponse {
		t.Errorf("expected UpstreamEmptyResponse, got %v", err)
	}
}

func TestGenerator_MalformedReply(t *testing.T) {
	gen := NewRecommendationGenerator(&mockLLM{response: "sorry, I cannot help"})

	_, err := gen.GenerateGeneral(context.Background(), "pedas")
	if entities.KindOf(err) != entities.MalformedUpstreamOutput {
		t.Errorf("expected MalformedUpstreamOutput, got %v", err)
	}
}

func TestGenerator_TransportErrors(t *testing.T) {
	classified := entities.NewError(entities.UpstreamRateLimited, "llm", "slow down", nil)
	gen := NewRecommendationGenerator(&mockLLM{err: classified})
	if _, err := gen.GenerateGeneral(context.Background(), "pedas"); entities.KindOf(err) != entities.UpstreamRateLimited {
		t.Errorf("classified errors should pass through, got %v", err)
	}

	gen = NewRecommendationGenerator(&mockLLM{err: errors.New("boom")})
	if _, err := gen.GenerateGeneral(context.Background(), "pedas"); entities.KindOf(err) != entities.UpstreamUnavailable {
		t.Errorf("unclassified errors should become UpstreamUnavailable, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if truncate("abc", 5) != "abc" {
		t.Error("short strings should be unchanged")
	}
	if truncate("abcdef", 3) != "abc..." {
		t.Error("long strings should be cut")
	}
}
