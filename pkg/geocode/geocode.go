package geocode

import (
	"context"
	"fmt"
	"net/url"

	"apnastay/pkg/client"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"
)

// DefaultCoordinates places unresolvable addresses at New Delhi so a
// listing always renders on the map.
var DefaultCoordinates = []float64{77.2090, 28.6139}

// Client resolves free-text addresses to GeoJSON points through a
// Mapbox-compatible forward geocoding endpoint.
type Client struct {
	http  *client.HttpClient
	token string
	log   *logger.Logger
}

func New(baseURL, token string, log *logger.Logger) *Client {
	return &Client{
		http:  client.NewHttpClient(baseURL),
		token: token,
		log:   log,
	}
}

type featureCollection struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Forward geocodes "location, country" to a point. Lookup failures degrade
// to DefaultCoordinates rather than failing listing creation.
func (c *Client) Forward(ctx context.Context, location, country string) model.Geometry {
	query := url.PathEscape(location + ", " + country)
	path := fmt.Sprintf("/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1", query, url.QueryEscape(c.token))

	fallback := model.Geometry{Type: "Point", Coordinates: DefaultCoordinates}

	resp, err := c.http.GET(ctx, path, nil)
	if err != nil {
		c.log.Warn("geocoding request failed, using default coordinates",
			"location", location,
			"country", country,
			"error", err,
		)
		return fallback
	}

	if resp.StatusCode >= 400 {
		c.log.Warn("geocoding request rejected, using default coordinates",
			"location", location,
			"status", resp.StatusCode,
		)
		return fallback
	}

	var fc featureCollection
	if err := resp.DecodeJSON(&fc); err != nil || len(fc.Features) == 0 || len(fc.Features[0].Center) != 2 {
		c.log.Warn("geocoding returned no usable features, using default coordinates",
			"location", location,
			"country", country,
		)
		return fallback
	}

	return model.Geometry{Type: "Point", Coordinates: fc.Features[0].Center}
}
