package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/domain/ports"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

// maxLoggedPayload caps how much of an unparseable reply is written to the log.
const maxLoggedPayload = 2048

// RecommendationGenerator turns a category (and optionally nearby places) into
// recommendations by prompting a generative-text service.
// It never retries; the TextGenerator transport owns retry policy.
type RecommendationGenerator struct {
	llm        ports.TextGenerator
	sampleSize int
	count      int
}

// NewRecommendationGenerator creates a generator over the given transport.
func NewRecommendationGenerator(llm ports.TextGenerator) *RecommendationGenerator {
	return &RecommendationGenerator{
		llm:        llm,
		sampleSize: entities.PlaceSampleSize,
		count:      entities.RecommendationCount,
	}
}

// GenerateGeneral recommends foods for a category without location context.
func (g *RecommendationGenerator) GenerateGeneral(ctx context.Context, category string) (entities.RecommendationResult, error) {
	return g.generate(ctx, "generator.general", g.generalPrompt(category))
}

// GenerateNearMe recommends foods available at the given places.
func (g *RecommendationGenerator) GenerateNearMe(ctx context.Context, category string, places []entities.Place) (entities.RecommendationResult, error) {
	if len(places) == 0 {
		return entities.RecommendationResult{}, entities.NewError(entities.InsufficientContext, "generator.nearMe", "no places to recommend from", nil)
	}
	prompt, err := g.nearMePrompt(category, places)
	if err != nil {
		return entities.RecommendationResult{}, err
	}
	return g.generate(ctx, "generator.nearMe", prompt)
}

func (g *RecommendationGenerator) generate(ctx context.Context, op, prompt string) (entities.RecommendationResult, error) {
	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		if _, ok := entities.AsError(err); ok {
			return entities.RecommendationResult{}, err
		}
		return entities.RecommendationResult{}, entities.NewError(entities.UpstreamUnavailable, op, "generative service failed", err)
	}
	if strings.TrimSpace(raw) == "" {
		return entities.RecommendationResult{}, entities.NewError(entities.UpstreamEmptyResponse, op, "generative service returned no text", nil)
	}

	result, err := ExtractStructuredPayload(raw)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("op", op).
			Str("raw_payload", truncate(raw, maxLoggedPayload)).
			Msg("Unparseable recommendation payload")
		return entities.RecommendationResult{}, err
	}
	return result, nil
}

func (g *RecommendationGenerator) generalPrompt(category string) string {
	var sb strings.Builder
	sb.WriteString("You are a food recommendation assistant.\n\n")
	fmt.Fprintf(&sb, "Recommend %d foods (dishes, not restaurants) for someone who wants: %q.\n", g.count, category)
	sb.WriteString("For each food give the kind of place where it is usually found and a short reason it fits the preference.\n")
	sb.WriteString("Prefer variety: do not repeat the same dish.\n\n")
	g.writeFormat(&sb)
	return sb.String()
}

func (g *RecommendationGenerator) nearMePrompt(category string, places []entities.Place) (string, error) {
	sample := places
	if len(sample) > g.sampleSize {
		sample = sample[:g.sampleSize]
	}
	data, err := json.Marshal(sample)
	if err != nil {
		return "", entities.NewError(entities.Unclassified, "generator.nearMe", "encoding places", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a food recommendation assistant.\n\n")
	fmt.Fprintf(&sb, "Preference: %q\n\n", category)
	sb.WriteString("Nearby restaurants (JSON):\n")
	sb.Write(data)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Recommend %d foods (dishes, not restaurants) available at the restaurants above.\n", g.count)
	sb.WriteString("Weigh these criteria:\n")
	sb.WriteString("- relevance to the preference\n")
	sb.WriteString("- distance from the user\n")
	sb.WriteString("- cuisine match\n")
	sb.WriteString("- variety across dishes and restaurants\n")
	sb.WriteString("The place field must be the name of one of the restaurants above.\n\n")
	g.writeFormat(&sb)
	return sb.String(), nil
}

func (g *RecommendationGenerator) writeFormat(sb *strings.Builder) {
	sb.WriteString("Respond with exactly one JSON object and nothing else, in this shape:\n")
	sb.WriteString(`{"recommendations":[{"food":"","place":"","reason":""}]}`)
	sb.WriteString("\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
