// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"math"
	"time"
)

const (
	// DefaultRadius is the search radius in meters used when a nearMe request omits one.
	DefaultRadius = 3000.0
	MinRadius     = 500.0
	MaxRadius     = 10000.0

	// UnnamedPlace is used when the geospatial source has no name for a restaurant.
	UnnamedPlace = "Unnamed Restaurant"

	// PlaceSampleSize bounds how many places are embedded in a prompt.
	PlaceSampleSize = 50

	// RecommendationCount is the number of foods requested from the model.
	// It is not enforced on the reply.
	RecommendationCount = 10
)

// Mode is the recommendation strategy of a request.
// It is sealed: the only implementations are General and NearMe.
type Mode interface {
	isMode()
	String() string
}

// General recommends from the category alone.
type General struct{}

func (General) isMode()        {}
func (General) String() string { return "general" }

// NearMe recommends from restaurants around a coordinate.
type NearMe struct {
	Lat    float64
	Lon    float64
	Radius float64 // meters
}

func (NearMe) isMode()        {}
func (NearMe) String() string { return "nearMe" }

// RecommendationRequest is a validated inbound request.
type RecommendationRequest struct {
	Category string
	Mode     Mode
}

// Place is a nearby restaurant used only as generation context.
type Place struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Cuisine string  `json:"cuisine,omitempty"`
}

// RecommendationItem is one recommended food.
type RecommendationItem struct {
	Food   string `json:"food"`
	Place  string `json:"place"`
	Reason string `json:"reason"`
}

// RecommendationResult is what the caller receives and what gets persisted.
type RecommendationResult struct {
	Recommendations []RecommendationItem `json:"recommendations"`
}

// HistoryRecord is one persisted recommendation. Lat/Lon are nil for general mode.
type HistoryRecord struct {
	ID        string               `json:"id"`
	Category  string               `json:"category"`
	Lat       *float64             `json:"lat"`
	Lon       *float64             `json:"lon"`
	Result    RecommendationResult `json:"result"`
	CreatedAt time.Time            `json:"createdAt"`
}

// ValidCoordinate reports whether lat/lon are finite and inside the geographic range.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
