package hospitals

import (
	"fmt"
	"net/url"
	"strconv"
)

const maxMapMarkers = 10

// ZoomForRadius maps a search radius in meters onto a static-map zoom level
// using a fixed step table.
func ZoomForRadius(radiusMeters int) int {
	switch {
	case radiusMeters <= 1000:
		return 15
	case radiusMeters <= 2000:
		return 14
	case radiusMeters <= 5000:
		return 13
	case radiusMeters <= 10000:
		return 12
	case radiusMeters <= 15000:
		return 11
	default:
		return 10
	}
}

// StaticMapURL builds the templated map image URL: center + zoom from the
// radius table, a blue marker for the user and red markers for up to ten
// hospitals.
func (c *Client) StaticMapURL(lat, lng float64, radiusMeters int, hospitals []Hospital) string {
	markers := fmt.Sprintf("lonlat:%s,%s;color:#0000ff;size:large", formatCoord(lng), formatCoord(lat))
	for i, h := range hospitals {
		if i >= maxMapMarkers {
			break
		}
		markers += fmt.Sprintf("|lonlat:%s,%s;color:#ff0000;size:medium", formatCoord(h.Lng), formatCoord(h.Lat))
	}

	q := url.Values{}
	q.Set("style", "osm-bright")
	q.Set("width", "600")
	q.Set("height", "400")
	q.Set("center", fmt.Sprintf("lonlat:%s,%s", formatCoord(lng), formatCoord(lat)))
	q.Set("zoom", strconv.Itoa(ZoomForRadius(radiusMeters)))
	q.Set("marker", markers)
	q.Set("apiKey", c.apiKey)

	return c.mapEndpoint + "?" + q.Encode()
}
