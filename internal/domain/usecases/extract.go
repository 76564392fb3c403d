package usecases

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// fencePatterns match the first markdown code block, optionally tagged json.
// A closing fence that starts a line is preferred over an inline one.
var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```(?i:json)?[ \t]*\r?\n(.*?)\r?\n[ \t]*```"),
	regexp.MustCompile("(?s)```(?i:json)?[ \t]*(.*?)```"),
}

const opExtract = "generator.extract"

// ExtractStructuredPayload reduces a model reply to a RecommendationResult.
// A fenced code block is unwrapped first; the remaining text must decode into
// an object whose recommendations field is a non-empty array of complete items.
// Anything else is MalformedUpstreamOutput. Keys match case-insensitively.
func ExtractStructuredPayload(raw string) (entities.RecommendationResult, error) {
	text := strings.TrimSpace(raw)
	for _, pattern := range fencePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
			break
		}
	}
	if text == "" {
		return entities.RecommendationResult{}, entities.NewError(entities.MalformedUpstreamOutput, opExtract, "reply has no content", nil)
	}

	var payload struct {
		Recommendations *[]entities.RecommendationItem `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return entities.RecommendationResult{}, entities.NewError(entities.MalformedUpstreamOutput, opExtract, "reply is not the expected JSON object", err)
	}
	if payload.Recommendations == nil || len(*payload.Recommendations) == 0 {
		return entities.RecommendationResult{}, entities.NewError(entities.MalformedUpstreamOutput, opExtract, "recommendations must be a non-empty array", nil)
	}

	items := *payload.Recommendations
	for i, item := range items {
		if strings.TrimSpace(item.Food) == "" || strings.TrimSpace(item.Place) == "" || strings.TrimSpace(item.Reason) == "" {
			return entities.RecommendationResult{}, entities.NewError(entities.MalformedUpstreamOutput, opExtract,
				fmt.Sprintf("recommendation %d is missing food, place or reason", i), nil)
		}
	}
	return entities.RecommendationResult{Recommendations: items}, nil
}
