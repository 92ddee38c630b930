package hospitals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPlacesEndpoint    = "https://api.geoapify.com/v2/places"
	defaultStaticMapEndpoint = "https://maps.geoapify.com/v1/staticmap"

	hospitalCategory = "healthcare.hospital"
)

type Hospital struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters int     `json:"distanceMeters,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Type           string  `json:"type"`
}

// Client talks to the Geoapify places and static-map APIs. The key is
// injected at construction, construction fails soft (nil client) when it is
// absent so the rest of the app keeps working without the hospital finder.
type Client struct {
	apiKey         string
	placesEndpoint string
	mapEndpoint    string
	httpClient     *http.Client
}

func NewClient(apiKey string) *Client {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &Client{
		apiKey:         apiKey,
		placesEndpoint: defaultPlacesEndpoint,
		mapEndpoint:    defaultStaticMapEndpoint,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

type geoapifyResponse struct {
	Features []geoapifyFeature `json:"features"`
}

type geoapifyFeature struct {
	Properties struct {
		PlaceID    string   `json:"place_id"`
		Name       string   `json:"name"`
		Formatted  string   `json:"formatted"`
		Distance   float64  `json:"distance"`
		Categories []string `json:"categories"`
		Contact    struct {
			Phone string `json:"phone"`
		} `json:"contact"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// SearchNearby runs a circular places search around the center point and maps
// the feature collection into the local hospital shape. One try, no retries;
// failures surface to the caller.
func (c *Client) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters, limit int) ([]Hospital, error) {
	q := url.Values{}
	q.Set("categories", hospitalCategory)
	q.Set("filter", fmt.Sprintf("circle:%s,%s,%d", formatCoord(lng), formatCoord(lat), radiusMeters))
	q.Set("bias", fmt.Sprintf("proximity:%s,%s", formatCoord(lng), formatCoord(lat)))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.placesEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("places request failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out geoapifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("places decode response: %w", err)
	}

	hospitals := make([]Hospital, 0, len(out.Features))
	for i, feature := range out.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			continue
		}
		h := Hospital{
			ID:             feature.Properties.PlaceID,
			Name:           feature.Properties.Name,
			Address:        feature.Properties.Formatted,
			Lat:            feature.Geometry.Coordinates[1],
			Lng:            feature.Geometry.Coordinates[0],
			DistanceMeters: int(feature.Properties.Distance),
			Phone:          feature.Properties.Contact.Phone,
			Type:           "Hospital",
		}
		if h.ID == "" {
			h.ID = fmt.Sprintf("hospital-%d", i)
		}
		if h.Name == "" {
			h.Name = "Unnamed Hospital"
		}
		if h.Address == "" {
			h.Address = "Address not available"
		}
		if len(feature.Properties.Categories) > 0 {
			h.Type = feature.Properties.Categories[0]
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
