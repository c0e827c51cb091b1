package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeocoder(server.Client(), server.URL, "", zap.NewNop().Sugar())
}

func TestResolveBestMatch(t *testing.T) {
	g := testGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		fmt.Fprint(w, `{"results": [{
			"name": "Paris",
			"latitude": 48.85341,
			"longitude": 2.3488,
			"country": "France",
			"admin1": "Île-de-France"
		}]}`)
	})

	loc, err := g.Resolve(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, 48.85341, loc.Latitude)
	assert.Equal(t, 2.3488, loc.Longitude)
	assert.Equal(t, "Paris, Île-de-France, France", loc.DisplayName)
}

func TestResolveNoRegion(t *testing.T) {
	g := testGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [{
			"name": "Singapore",
			"latitude": 1.28967,
			"longitude": 103.85007,
			"country": "Singapore"
		}]}`)
	})

	loc, err := g.Resolve(context.Background(), "Singapore")
	require.NoError(t, err)
	assert.Equal(t, "Singapore, Singapore", loc.DisplayName)
}

func TestResolveNotFound(t *testing.T) {
	g := testGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := g.Resolve(context.Background(), "Nowhereville")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestResolveEmptyInput(t *testing.T) {
	g := testGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	})

	_, err := g.Resolve(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveUpstreamFailure(t *testing.T) {
	g := testGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.Resolve(context.Background(), "Paris")
	assert.True(t, errors.Is(err, ErrUpstream), "expected ErrUpstream, got %v", err)
}

func TestFromCoordinates(t *testing.T) {
	loc := FromCoordinates(48.85, 2.35)
	assert.Equal(t, 48.85, loc.Latitude)
	assert.Equal(t, 2.35, loc.Longitude)
	assert.Equal(t, "Lat: 48.85, Lon: 2.35", loc.DisplayName)
}

func TestLooksLikePostalCode(t *testing.T) {
	assert.True(t, looksLikePostalCode("10001"))
	assert.True(t, looksLikePostalCode("10001-1234"))
	assert.True(t, looksLikePostalCode("M5V 3L9"))
	assert.True(t, looksLikePostalCode("m5v3l9"))
	assert.False(t, looksLikePostalCode("Paris"))
	assert.False(t, looksLikePostalCode("123"))
}
