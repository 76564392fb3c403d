// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/domain/ports"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

// DefaultRequestTimeout bounds one whole recommendation pipeline.
const DefaultRequestTimeout = 50 * time.Second

// RecommendUseCase coordinates search, generation and persistence for one request.
// It holds no request state; concurrent calls share only the injected adapters.
type RecommendUseCase struct {
	places  ports.PlaceSearcher
	gen     ports.Recommender
	history ports.HistoryStore
	timeout time.Duration
}

// NewRecommendUseCase creates a RecommendUseCase with injected dependencies.
func NewRecommendUseCase(
	places ports.PlaceSearcher,
	gen ports.Recommender,
	history ports.HistoryStore,
	timeout time.Duration,
) *RecommendUseCase {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RecommendUseCase{
		places:  places,
		gen:     gen,
		history: history,
		timeout: timeout,
	}
}

type pipelineResult struct {
	result entities.RecommendationResult
	err    error
}

// Recommend validates the request, runs the mode's pipeline and persists the result.
// If the deadline expires first, UpstreamTimeout is returned without waiting for
// the in-flight stage.
func (uc *RecommendUseCase) Recommend(ctx context.Context, req entities.RecommendationRequest) (entities.RecommendationResult, error) {
	if err := validate(req); err != nil {
		return entities.RecommendationResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	done := make(chan pipelineResult, 1)
	go func() {
		res, err := uc.run(ctx, req)
		done <- pipelineResult{result: res, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return entities.RecommendationResult{}, entities.NewError(entities.UpstreamTimeout, "recommend", "request timeout - please try again", ctx.Err())
	}
}

func (uc *RecommendUseCase) run(ctx context.Context, req entities.RecommendationRequest) (entities.RecommendationResult, error) {
	category := strings.TrimSpace(req.Category)
	start := time.Now()

	var (
		result   entities.RecommendationResult
		lat, lon *float64
		err      error
	)

	switch mode := req.Mode.(type) {
	case entities.General:
		result, err = uc.gen.GenerateGeneral(ctx, category)
		if err != nil {
			return entities.RecommendationResult{}, err
		}

	case entities.NearMe:
		places, err := uc.places.FetchNearby(ctx, mode.Lat, mode.Lon, mode.Radius)
		if err != nil {
			return entities.RecommendationResult{}, err
		}
		if len(places) == 0 {
			return entities.RecommendationResult{}, entities.NewError(entities.NoResultsFound, "recommend", "no restaurants found nearby", nil)
		}
		result, err = uc.gen.GenerateNearMe(ctx, category, places)
		if err != nil {
			return entities.RecommendationResult{}, err
		}
		lat, lon = &mode.Lat, &mode.Lon
	}

	if _, err = uc.history.Save(ctx, category, lat, lon, result); err != nil {
		return entities.RecommendationResult{}, err
	}

	logging.Ctx(ctx).Info().
		Str("mode", req.Mode.String()).
		Str("category", category).
		Int("recommendations", len(result.Recommendations)).
		Dur("duration", time.Since(start)).
		Msg("Recommendation completed")
	return result, nil
}

// Histories lists every persisted recommendation, newest first.
func (uc *RecommendUseCase) Histories(ctx context.Context) ([]entities.HistoryRecord, error) {
	return uc.history.List(ctx)
}

// validate enforces mode preconditions before any upstream call is made.
func validate(req entities.RecommendationRequest) error {
	var fields []entities.FieldError
	if strings.TrimSpace(req.Category) == "" {
		fields = append(fields, entities.FieldError{Field: "category", Message: "Category is required"})
	}

	switch mode := req.Mode.(type) {
	case entities.General:
	case entities.NearMe:
		if !entities.ValidCoordinate(mode.Lat, mode.Lon) {
			fields = append(fields, entities.FieldError{Field: "mode", Message: "lat and lon must be valid coordinates when mode is 'nearMe'"})
		}
		if mode.Radius < entities.MinRadius || mode.Radius > entities.MaxRadius {
			fields = append(fields, entities.FieldError{Field: "radius", Message: "Radius must be between 500 and 10000"})
		}
	default:
		fields = append(fields, entities.FieldError{Field: "mode", Message: "Mode must be 'general' or 'nearMe'"})
	}

	if len(fields) > 0 {
		return entities.Validation("recommend", fields...)
	}
	return nil
}
