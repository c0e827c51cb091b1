package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.Client(), server.URL, zap.NewNop().Sugar())
}

func TestCurrent(t *testing.T) {
	observed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	sunrise := time.Date(2024, 1, 15, 7, 42, 0, 0, time.UTC)
	sunset := time.Date(2024, 1, 15, 17, 8, 0, 0, time.UTC)

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "48.85", q.Get("latitude"))
		assert.Equal(t, "ms", q.Get("wind_speed_unit"))

		fmt.Fprintf(w, `{
			"current": {
				"time": %d,
				"temperature_2m": 4.3,
				"apparent_temperature": 1.9,
				"relative_humidity_2m": 87,
				"surface_pressure": 1012.5,
				"wind_speed_10m": 3.4,
				"weather_code": 61
			},
			"hourly": {"visibility": [24000]},
			"daily": {"sunrise": [%d], "sunset": [%d]}
		}`, observed.Unix(), sunrise.Unix(), sunset.Unix())
	})

	conditions, err := client.Current(context.Background(), 48.85, 2.35)
	require.NoError(t, err)

	assert.Equal(t, 4.3, conditions.Temperature)
	assert.Equal(t, 1.9, conditions.FeelsLike)
	assert.Equal(t, "Slight rain", conditions.Description)
	assert.Equal(t, "10d", conditions.Icon)
	assert.Equal(t, 87.0, conditions.Humidity)
	assert.Equal(t, 3.4, conditions.WindSpeed)
	assert.Equal(t, 1012.5, conditions.Pressure)
	require.NotNil(t, conditions.Visibility)
	assert.Equal(t, 24.0, *conditions.Visibility)
	require.NotNil(t, conditions.Sunrise)
	assert.Equal(t, sunrise, *conditions.Sunrise)
	require.NotNil(t, conditions.Sunset)
	assert.Equal(t, sunset, *conditions.Sunset)
	assert.Equal(t, observed, conditions.ObservedAt)
}

func TestCurrentUpstreamError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Current(context.Background(), 48.85, 2.35)
	assert.True(t, errors.Is(err, ErrUpstream), "expected ErrUpstream, got %v", err)
}

func TestForecastGroupsAndCaps(t *testing.T) {
	// Seven days of hourly samples; the client must keep the first five.
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var times []int64
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			times = append(times, base.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour).Unix())
		}
	}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		timesJSON := "["
		temps := "["
		humidity := "["
		wind := "["
		precip := "["
		codes := "["
		for i, ts := range times {
			sep := ","
			if i == len(times)-1 {
				sep = ""
			}
			timesJSON += fmt.Sprintf("%d%s", ts, sep)
			// Hour index within the day drives the temperature so min/max
			// are predictable: hour 0 is the minimum, hour 23 the maximum.
			hour := i % 24
			temps += fmt.Sprintf("%d%s", 10+hour, sep)
			humidity += fmt.Sprintf("%d%s", 50, sep)
			wind += fmt.Sprintf("%d%s", 4, sep)
			precip += fmt.Sprintf("%g%s", 0.5, sep)
			codes += fmt.Sprintf("%d%s", 3, sep)
		}
		fmt.Fprintf(w, `{"hourly": {
			"time": %s],
			"temperature_2m": %s],
			"relative_humidity_2m": %s],
			"wind_speed_10m": %s],
			"precipitation": %s],
			"weather_code": %s]
		}}`, timesJSON, temps, humidity, wind, precip, codes)
	})

	days, err := client.Forecast(context.Background(), 48.85, 2.35)
	require.NoError(t, err)
	require.Len(t, days, 5)

	first := days[0]
	assert.Equal(t, base, first.Date)
	assert.Equal(t, 10.0, first.MinTemp)
	assert.Equal(t, 33.0, first.MaxTemp)
	assert.Equal(t, 50, first.Humidity)
	assert.Equal(t, 4.0, first.WindSpeed)
	assert.InDelta(t, 12.0, first.Precipitation, 1e-9)
	assert.Equal(t, "Overcast", first.Description)
	assert.Equal(t, "02d", first.Icon)

	for i := 1; i < len(days); i++ {
		assert.Equal(t, base.AddDate(0, 0, i), days[i].Date)
	}
}

func TestAggregateHourlyFirstSampleDescription(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	samples := []hourlySample{
		{ts: day, temperature: 5, humidity: 40, windSpeed: 2, weatherCode: 61},
		{ts: day.Add(6 * time.Hour), temperature: 9, humidity: 51, windSpeed: 4, weatherCode: 0},
	}

	days := aggregateHourly(samples)
	require.Len(t, days, 1)

	// Description and icon come from the first sample, not an aggregate.
	assert.Equal(t, "Slight rain", days[0].Description)
	assert.Equal(t, "10d", days[0].Icon)
	assert.Equal(t, 5.0, days[0].MinTemp)
	assert.Equal(t, 9.0, days[0].MaxTemp)
	// Mean humidity rounds to nearest integer.
	assert.Equal(t, 46, days[0].Humidity)
	assert.Equal(t, 3.0, days[0].WindSpeed)
}

func TestHistoricalApproxIsCurrent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current": {"time": 1700000000, "temperature_2m": 7.5, "weather_code": 0}}`)
	})

	conditions, err := client.HistoricalApprox(context.Background(), 48.85, 2.35, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 7.5, conditions.Temperature)
	assert.Equal(t, "Clear sky", conditions.Description)
}
