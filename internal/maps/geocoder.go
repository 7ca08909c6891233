// README: Destination resolution through the Google Maps Geocoding API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrNotFound is returned when the geocoder has no match for a destination.
var ErrNotFound = errors.New("destination not found")

// Geocoder resolves free-text destinations to a canonical label.
type Geocoder struct {
	client   *maps.Client
	language string
}

// NewGeocoder creates a Geocoder with the given API Key. Extra client options
// (for example maps.WithBaseURL) are passed through.
func NewGeocoder(apiKey string, opts ...maps.ClientOption) (*Geocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client, language: "en"}, nil
}

// Resolve returns the formatted address of the best match for city,
// e.g. "Paris, France".
func (g *Geocoder) Resolve(ctx context.Context, city string) (string, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  city,
		Language: g.language,
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 || strings.TrimSpace(results[0].FormattedAddress) == "" {
		return "", ErrNotFound
	}
	return results[0].FormattedAddress, nil
}
