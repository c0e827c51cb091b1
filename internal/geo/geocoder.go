// Package geo resolves free-text locations (city names, postal codes,
// landmarks) to coordinates via the Open-Meteo geocoding API, with an
// optional Google-backed fallback for postal codes.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/weatherwatch/weather-watch/internal/httpcall"
)

var (
	// ErrNotFound means the upstream returned no match for the input text.
	ErrNotFound = errors.New("location not found")
	// ErrUpstream means the geocoding call itself failed.
	ErrUpstream = errors.New("geocoding service unavailable")
)

var (
	usZipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	caPostalPattern = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`)
)

// ResolvedLocation is a canonical geocoding result. Ephemeral: embedded into
// a stored query or returned directly, never persisted standalone.
type ResolvedLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Name        string  `json:"name,omitempty"`
	Region      string  `json:"region,omitempty"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"formatted"`
}

// FromCoordinates builds a ResolvedLocation for user-supplied raw
// coordinates, skipping geocoding entirely.
func FromCoordinates(lat, lon float64) ResolvedLocation {
	return ResolvedLocation{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: fmt.Sprintf("Lat: %g, Lon: %g", lat, lon),
	}
}

// Geocoder resolves location text against Open-Meteo's geocoding service.
// When a Google API key is configured, postal codes that Open-Meteo cannot
// match are retried through the Google geocoding API.
type Geocoder struct {
	baseURL   string
	httpCfg   httpcall.Config
	circuit   *gobreaker.CircuitBreaker
	googleKey string
	log       *zap.SugaredLogger
}

func NewGeocoder(client *http.Client, baseURL, googleKey string, log *zap.SugaredLogger) *Geocoder {
	if googleKey != "" {
		geocoder.ApiKey = googleKey
	}
	return &Geocoder{
		baseURL:   baseURL,
		httpCfg:   httpcall.Config{Client: client},
		circuit:   httpcall.NewBreaker("geocoding"),
		googleKey: googleKey,
		log:       log,
	}
}

// Resolve geocodes free text to a single best match. No caching, no retries.
func (g *Geocoder) Resolve(ctx context.Context, locationText string) (ResolvedLocation, error) {
	locationText = strings.TrimSpace(locationText)
	if locationText == "" {
		return ResolvedLocation{}, fmt.Errorf("%w: empty location", ErrNotFound)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", locationText)
		values.Set("count", "1")
		values.Set("language", "en")
		values.Set("format", "json")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()), nil)
	}

	resp, err := httpcall.Do(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return ResolvedLocation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Country   string  `json:"country"`
			Admin1    string  `json:"admin1"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ResolvedLocation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(payload.Results) > 0 {
		r := payload.Results[0]
		return ResolvedLocation{
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Name:        r.Name,
			Region:      r.Admin1,
			Country:     r.Country,
			DisplayName: formatDisplayName(r.Name, r.Admin1, r.Country),
		}, nil
	}

	if g.googleKey != "" && looksLikePostalCode(locationText) {
		return g.resolvePostalCode(locationText)
	}

	return ResolvedLocation{}, fmt.Errorf("%w: %q", ErrNotFound, locationText)
}

// resolvePostalCode geocodes a ZIP or Canadian postal code through Google.
func (g *Geocoder) resolvePostalCode(code string) (ResolvedLocation, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{PostalCode: code})
	if err != nil {
		g.log.Debugw("postal code fallback failed", "code", code, "error", err)
		return ResolvedLocation{}, fmt.Errorf("%w: %q", ErrNotFound, code)
	}

	resolved := ResolvedLocation{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Name:        code,
		DisplayName: code,
	}

	// Reverse-geocode for a readable name; keep the raw code on failure.
	if addresses, err := geocoder.GeocodingReverse(loc); err == nil && len(addresses) > 0 {
		a := addresses[0]
		if a.City != "" {
			resolved.Name = a.City
			resolved.Region = a.State
			resolved.Country = a.Country
			resolved.DisplayName = formatDisplayName(a.City, a.State, a.Country)
		}
	}

	return resolved, nil
}

func looksLikePostalCode(s string) bool {
	return usZipPattern.MatchString(s) || caPostalPattern.MatchString(strings.ToUpper(s))
}

func formatDisplayName(name, region, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name, region, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
