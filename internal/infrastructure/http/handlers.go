package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/validation"
)

const (
	modeGeneral = "general"
	modeNearMe  = "nearMe"

	maxBodyBytes = 1 << 20
)

// recommendRequest is the wire form of POST /food/recommend.
type recommendRequest struct {
	Category string   `json:"category" validate:"required"`
	Mode     string   `json:"mode" validate:"omitempty,oneof=general nearMe"`
	Lat      *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon      *float64 `json:"lon" validate:"omitempty,longitude"`
	Radius   *float64 `json:"radius" validate:"omitempty,gte=500,lte=10000"`
}

func newRequestValidator() *validation.Validator {
	v := validation.New()
	v.RegisterRule(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(recommendRequest)
		if req.Mode == modeNearMe && (req.Lat == nil || req.Lon == nil) {
			sl.ReportError(req.Mode, "mode", "Mode", "nearme_location", "")
		}
	}, map[string]string{
		"nearme_location": "lat and lon are required when mode is 'nearMe'",
	}, recommendRequest{})
	return v
}

// toDomain converts a validated request into the domain request.
func (req recommendRequest) toDomain() entities.RecommendationRequest {
	if req.Mode != modeNearMe {
		return entities.RecommendationRequest{Category: req.Category, Mode: entities.General{}}
	}
	radius := float64(entities.DefaultRadius)
	if req.Radius != nil {
		radius = *req.Radius
	}
	return entities.RecommendationRequest{
		Category: req.Category,
		Mode:     entities.NearMe{Lat: *req.Lat, Lon: *req.Lon, Radius: radius},
	}
}

// handleRecommend godoc
//
//	@Summary	Get food recommendations
//	@Tags		food
//	@Accept		json
//	@Produce	json
//	@Param		body	body		recommendRequest	true	"Recommendation request"
//	@Success	200		{object}	envelope
//	@Failure	400		{object}	envelope
//	@Failure	404		{object}	envelope
//	@Failure	429		{object}	envelope
//	@Failure	502		{object}	envelope
//	@Failure	504		{object}	envelope
//	@Router		/food/recommend [post]
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, entities.Validation("http.recommend",
			entities.FieldError{Field: "body", Message: "Request body must be a valid JSON object"}))
		return
	}
	req.Category = strings.TrimSpace(req.Category)

	if fields := s.validate.Struct(req); fields != nil {
		s.writeError(w, r, entities.Validation("http.recommend", fields...))
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, result)
}

// handleHistories godoc
//
//	@Summary	List recommendation history, newest first
//	@Tags		food
//	@Produce	json
//	@Success	200	{object}	envelope
//	@Failure	500	{object}	envelope
//	@Router		/food/histories [get]
func (s *Server) handleHistories(w http.ResponseWriter, r *http.Request) {
	records, err := s.recommender.Histories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, records)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, envelope{
				Success: false,
				Message: "Database Error",
				Data:    map[string]string{"status": "degraded"},
			})
			return
		}
	}
	writeData(w, map[string]string{"status": "ok"})
}
