package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestGeocoder(t *testing.T, body string) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g, err := NewGeocoder("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return g
}

func TestGeocoderResolve(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"OK","results":[{"formatted_address":"Paris, France","place_id":"x"}]}`)
	region, err := g.Resolve(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, France", region)
}

func TestGeocoderNoResults(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"ZERO_RESULTS","results":[]}`)
	_, err := g.Resolve(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeocoderAPIError(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)
	_, err := g.Resolve(context.Background(), "Rome")
	assert.ErrorContains(t, err, "maps api error")
}

func TestNewGeocoderRequiresKey(t *testing.T) {
	_, err := NewGeocoder("")
	assert.Error(t, err)
}
