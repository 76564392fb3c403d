package overpass

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

const sampleElements = `{
  "elements": [
    {"type":"node","id":1,"lat":-6.2001,"lon":106.8001,"tags":{"amenity":"restaurant","name":"Warung Padang","cuisine":"indonesian"}},
    {"type":"way","id":2,"center":{"lat":-6.2010,"lon":106.8020},"tags":{"amenity":"restaurant","name:en":"Spicy House"}},
    {"type":"node","id":3,"lat":-6.2030,"lon":106.8030,"tags":{"amenity":"restaurant"}},
    {"type":"way","id":4,"tags":{"amenity":"restaurant","name":"No Geometry"}}
  ]
}`

func TestClient_FetchNearby_NormalizesElements(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		r.ParseForm()
		query = r.PostForm.Get("data")
		w.Write([]byte(sampleElements))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	places, err := client.FetchNearby(context.Background(), -6.2, 106.8, 2000)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(places))
	}
	if places[0].Name != "Warung Padang" || places[0].Cuisine != "indonesian" {
		t.Errorf("unexpected first place: %+v", places[0])
	}
	if places[1].Name != "Spicy House" || places[1].Lat != -6.2010 || places[1].Lon != 106.8020 {
		t.Errorf("way should use name:en and centroid, got %+v", places[1])
	}
	if places[2].Name != entities.UnnamedPlace {
		t.Errorf("expected fallback name, got %q", places[2].Name)
	}

	for _, want := range []string{`node["amenity"="restaurant"]`, `way["amenity"="restaurant"]`, "around:2000,-6.200000,106.800000", "out center", "[timeout:1]"} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
}

func TestClient_FetchNearby_InvalidInput(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	cases := [][2]float64{{91, 0}, {0, -181}, {math.NaN(), 0}, {0, math.Inf(-1)}}
	for _, c := range cases {
		_, err := client.FetchNearby(context.Background(), c[0], c[1], 1000)
		if entities.KindOf(err) != entities.InvalidInput {
			t.Errorf("(%v, %v): expected InvalidInput, got %v", c[0], c[1], err)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should be sent for invalid coordinates")
	}
}

func TestClient_FetchNearby_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   entities.Kind
	}{
		{http.StatusTooManyRequests, entities.UpstreamRateLimited},
		{http.StatusBadRequest, entities.UpstreamBadRequest},
		{http.StatusInternalServerError, entities.UpstreamUnavailable},
		{http.StatusGatewayTimeout, entities.UpstreamUnavailable},
	}
	for _, c := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		_, err := NewClient(server.URL, time.Second).FetchNearby(context.Background(), 1, 1, 1000)
		server.Close()

		if entities.KindOf(err) != c.want {
			t.Errorf("status %d: expected %s, got %v", c.status, c.want, err)
		}
	}
}

func TestClient_FetchNearby_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 100*time.Millisecond)
	_, err := client.FetchNearby(context.Background(), 1, 1, 1000)
	if entities.KindOf(err) != entities.UpstreamTimeout {
		t.Errorf("expected UpstreamTimeout, got %v", err)
	}
}

func TestClient_FetchNearby_EmptyAndMalformed(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer empty.Close()

	_, err := NewClient(empty.URL, time.Second).FetchNearby(context.Background(), 1, 1, 1000)
	if entities.KindOf(err) != entities.NoResultsFound {
		t.Errorf("expected NoResultsFound, got %v", err)
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>busy</html>`))
	}))
	defer garbage.Close()

	_, err = NewClient(garbage.URL, time.Second).FetchNearby(context.Background(), 1, 1, 1000)
	if entities.KindOf(err) != entities.UpstreamUnavailable {
		t.Errorf("expected UpstreamUnavailable, got %v", err)
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client := NewClient("", 0)
	if client.baseURL != DefaultURL {
		t.Error("should default to the public interpreter")
	}
	if client.timeout != DefaultTimeout {
		t.Error("should default to a 15s timeout")
	}
}
