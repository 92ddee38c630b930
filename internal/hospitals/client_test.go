package hospitals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const placesFixture = `{
  "features": [
    {
      "properties": {
        "place_id": "p1",
        "name": "City Hospital",
        "formatted": "12 MG Road, Bengaluru",
        "distance": 820.4,
        "categories": ["healthcare.hospital", "healthcare"],
        "contact": {"phone": "+918012345678"}
      },
      "geometry": {"coordinates": [77.59, 12.98]}
    },
    {
      "properties": {},
      "geometry": {"coordinates": [77.6, 12.99]}
    }
  ]
}`

func TestSearchNearbyMapsFeatures(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"categories": q.Get("categories"),
			"filter":     q.Get("filter"),
			"bias":       q.Get("bias"),
			"limit":      q.Get("limit"),
			"apiKey":     q.Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(placesFixture))
	}))
	defer server.Close()

	c := NewClient("test-key")
	c.placesEndpoint = server.URL

	hospitals, err := c.SearchNearby(context.Background(), 12.97, 77.58, 5000, 20)
	if err != nil {
		t.Fatalf("SearchNearby error: %v", err)
	}

	if gotQuery["categories"] != "healthcare.hospital" {
		t.Fatalf("unexpected categories: %q", gotQuery["categories"])
	}
	if gotQuery["filter"] != "circle:77.58,12.97,5000" {
		t.Fatalf("unexpected filter: %q", gotQuery["filter"])
	}
	if gotQuery["bias"] != "proximity:77.58,12.97" {
		t.Fatalf("unexpected bias: %q", gotQuery["bias"])
	}
	if gotQuery["limit"] != "20" || gotQuery["apiKey"] != "test-key" {
		t.Fatalf("unexpected limit/apiKey: %v", gotQuery)
	}

	if len(hospitals) != 2 {
		t.Fatalf("expected 2 hospitals, got %d", len(hospitals))
	}

	first := hospitals[0]
	if first.ID != "p1" || first.Name != "City Hospital" {
		t.Fatalf("unexpected first hospital: %+v", first)
	}
	if first.Lat != 12.98 || first.Lng != 77.59 {
		t.Fatalf("coordinates must come from geometry [lng, lat]: %+v", first)
	}
	if first.DistanceMeters != 820 || first.Phone != "+918012345678" {
		t.Fatalf("unexpected distance/phone: %+v", first)
	}
	if first.Type != "healthcare.hospital" {
		t.Fatalf("type must be the first category: %q", first.Type)
	}

	second := hospitals[1]
	if second.ID != "hospital-1" || second.Name != "Unnamed Hospital" || second.Address != "Address not available" {
		t.Fatalf("missing-property defaults not applied: %+v", second)
	}
	if second.Type != "Hospital" {
		t.Fatalf("expected default type, got %q", second.Type)
	}
}

func TestSearchNearbyUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient("bad-key")
	c.placesEndpoint = server.URL

	if _, err := c.SearchNearby(context.Background(), 12.97, 77.58, 5000, 20); err == nil {
		t.Fatalf("expected error for upstream failure")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if NewClient("") != nil {
		t.Fatalf("expected nil client without api key")
	}
	if NewClient("  ") != nil {
		t.Fatalf("expected nil client for blank api key")
	}
}
