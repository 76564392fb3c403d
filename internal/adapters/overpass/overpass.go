// Package overpass provides the geospatial search adapter.
// Clean Architecture: Adapter implementing ports.PlaceSearcher against an
// Overpass API interpreter.
package overpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/metrics"
)

const (
	DefaultURL     = "https://overpass-api.de/api/interpreter"
	DefaultTimeout = 15 * time.Second

	opFetch = "overpass.fetch"
)

// Client implements ports.PlaceSearcher using the Overpass interpreter.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a new Overpass client. Zero values fall back to defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// overpassResponse is the subset of the interpreter's JSON output we read.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FetchNearby returns every restaurant within radius meters of lat/lon.
// The result is not truncated.
func (c *Client) FetchNearby(ctx context.Context, lat, lon, radius float64) (places []entities.Place, err error) {
	if !entities.ValidCoordinate(lat, lon) {
		return nil, entities.NewError(entities.InvalidInput, opFetch, fmt.Sprintf("invalid coordinate (%v, %v)", lat, lon), nil)
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = entities.DefaultRadius
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("overpass", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{"data": {BuildQuery(lat, lon, radius, c.timeout)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, entities.NewError(entities.UpstreamUnavailable, opFetch, "creating request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if isTimeout(err) {
			return nil, entities.NewError(entities.UpstreamTimeout, opFetch, "reading response timed out", err)
		}
		return nil, entities.NewError(entities.UpstreamUnavailable, opFetch, "decoding response", err)
	}

	places = normalize(body.Elements)
	if len(places) == 0 {
		return nil, entities.NewError(entities.NoResultsFound, opFetch, "no restaurants found nearby", nil)
	}
	return places, nil
}

// BuildQuery renders the Overpass QL query: restaurant nodes and ways around a
// point, ways reported with their centroid, bounded by a server-side timeout.
func BuildQuery(lat, lon, radius float64, timeout time.Duration) string {
	seconds := int(math.Ceil(timeout.Seconds()))
	if seconds <= 0 {
		seconds = int(DefaultTimeout.Seconds())
	}
	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radius, lat, lon)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node["amenity"="restaurant"]%s;
  way["amenity"="restaurant"]%s;
);
out center;`, seconds, around, around)
}

// normalize converts raw elements to places. Elements without any usable
// coordinate are dropped.
func normalize(elements []overpassElement) []entities.Place {
	places := make([]entities.Place, 0, len(elements))
	for _, el := range elements {
		var lat, lon float64
		switch {
		case el.Lat != nil && el.Lon != nil:
			lat, lon = *el.Lat, *el.Lon
		case el.Center != nil:
			lat, lon = el.Center.Lat, el.Center.Lon
		default:
			continue
		}

		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			name = strings.TrimSpace(el.Tags["name:en"])
		}
		if name == "" {
			name = entities.UnnamedPlace
		}

		places = append(places, entities.Place{
			Name:    name,
			Lat:     lat,
			Lon:     lon,
			Cuisine: strings.TrimSpace(el.Tags["cuisine"]),
		})
	}
	return places
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return entities.NewError(entities.UpstreamRateLimited, opFetch, "overpass rate limit reached", nil)
	case resp.StatusCode == http.StatusBadRequest:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return entities.NewError(entities.UpstreamBadRequest, opFetch, "overpass rejected the query", errors.New(strings.TrimSpace(string(detail))))
	default:
		return entities.NewError(entities.UpstreamUnavailable, opFetch, fmt.Sprintf("overpass returned status %d", resp.StatusCode), nil)
	}
}

func classifyTransport(err error) error {
	if isTimeout(err) {
		return entities.NewError(entities.UpstreamTimeout, opFetch, "overpass did not respond in time", err)
	}
	return entities.NewError(entities.UpstreamUnavailable, opFetch, "calling overpass", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
