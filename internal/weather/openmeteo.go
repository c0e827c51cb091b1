// Package weather fetches and normalizes conditions from the Open-Meteo
// forecast API. Open-Meteo reports a discrete WMO weather code; the wmo
// tables turn it into descriptions and icon ids.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/weatherwatch/weather-watch/internal/httpcall"
)

// ErrUpstream means the weather provider call failed.
var ErrUpstream = errors.New("weather service unavailable")

// forecastDays requested from the provider. One more than we return, so the
// fifth day stays complete regardless of the request's time of day.
const forecastDays = 6

// maxForecastDays returned to callers.
const maxForecastDays = 5

// Client talks to the Open-Meteo forecast endpoint. No API key required.
type Client struct {
	baseURL string
	httpCfg httpcall.Config
	circuit *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger
}

func NewClient(client *http.Client, baseURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: baseURL,
		httpCfg: httpcall.Config{Client: client},
		circuit: httpcall.NewBreaker("openmeteo"),
		log:     log,
	}
}

// Current fetches and normalizes current conditions for the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (CurrentConditions, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(lat))
		values.Set("longitude", formatCoord(lon))
		values.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,weather_code")
		values.Set("hourly", "visibility")
		values.Set("daily", "sunrise,sunset")
		values.Set("forecast_days", "1")
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "UTC")
		values.Set("timeformat", "unixtime")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := httpcall.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return CurrentConditions{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time        int64   `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			FeelsLike   float64 `json:"apparent_temperature"`
			Humidity    float64 `json:"relative_humidity_2m"`
			Pressure    float64 `json:"surface_pressure"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
		Hourly struct {
			Visibility []float64 `json:"visibility"`
		} `json:"hourly"`
		Daily struct {
			Sunrise []int64 `json:"sunrise"`
			Sunset  []int64 `json:"sunset"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CurrentConditions{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	observed := time.Unix(payload.Current.Time, 0).UTC()
	if payload.Current.Time == 0 {
		observed = time.Now().UTC()
	}

	conditions := CurrentConditions{
		Temperature: payload.Current.Temperature,
		FeelsLike:   payload.Current.FeelsLike,
		Description: DescribeCode(payload.Current.WeatherCode),
		Icon:        IconForCode(payload.Current.WeatherCode),
		Humidity:    payload.Current.Humidity,
		WindSpeed:   payload.Current.WindSpeed,
		Pressure:    payload.Current.Pressure,
		ObservedAt:  observed,
	}

	if len(payload.Hourly.Visibility) > 0 {
		km := payload.Hourly.Visibility[0] / 1000.0
		conditions.Visibility = &km
	}
	if len(payload.Daily.Sunrise) > 0 {
		sunrise := time.Unix(payload.Daily.Sunrise[0], 0).UTC()
		conditions.Sunrise = &sunrise
	}
	if len(payload.Daily.Sunset) > 0 {
		sunset := time.Unix(payload.Daily.Sunset[0], 0).UTC()
		conditions.Sunset = &sunset
	}

	return conditions, nil
}

// Forecast fetches the hourly series and aggregates it into at most five
// calendar days starting today.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]ForecastDay, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(lat))
		values.Set("longitude", formatCoord(lon))
		values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation,weather_code")
		values.Set("forecast_days", strconv.Itoa(forecastDays))
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "UTC")
		values.Set("timeformat", "unixtime")
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := httpcall.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly openMeteoHourly `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return aggregateHourly(hourlySeries(payload.Hourly)), nil
}

// HistoricalApprox satisfies "weather for a past date" requests with current
// conditions. This is a documented approximation, not historical retrieval:
// real archive data needs a different provider endpoint.
func (c *Client) HistoricalApprox(ctx context.Context, lat, lon float64, _ time.Time) (CurrentConditions, error) {
	return c.Current(ctx, lat, lon)
}

type openMeteoHourly struct {
	Time          []int64   `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Humidity      []float64 `json:"relative_humidity_2m"`
	WindSpeed     []float64 `json:"wind_speed_10m"`
	Precipitation []float64 `json:"precipitation"`
	WeatherCode   []int     `json:"weather_code"`
}

type hourlySample struct {
	ts            time.Time
	temperature   float64
	humidity      float64
	windSpeed     float64
	precipitation float64
	weatherCode   int
}

func hourlySeries(h openMeteoHourly) []hourlySample {
	n := len(h.Time)
	for _, l := range []int{len(h.Temperature), len(h.Humidity), len(h.WindSpeed), len(h.Precipitation), len(h.WeatherCode)} {
		if l < n {
			n = l
		}
	}

	samples := make([]hourlySample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, hourlySample{
			ts:            time.Unix(h.Time[i], 0).UTC(),
			temperature:   h.Temperature[i],
			humidity:      h.Humidity[i],
			windSpeed:     h.WindSpeed[i],
			precipitation: h.Precipitation[i],
			weatherCode:   h.WeatherCode[i],
		})
	}
	return samples
}

// aggregateHourly groups the flat hourly series by calendar day and reduces
// each of the first five days: min/max temperature, mean humidity (rounded),
// mean wind speed, summed precipitation. Description and icon come from the
// day's first sample rather than an aggregate.
func aggregateHourly(samples []hourlySample) []ForecastDay {
	byDay := make(map[string][]hourlySample)
	var order []string

	for _, s := range samples {
		key := s.ts.Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			if len(order) == maxForecastDays {
				break
			}
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], s)
	}

	days := make([]ForecastDay, 0, len(order))
	for _, key := range order {
		group := byDay[key]

		first := group[0]
		day := ForecastDay{
			Date:        time.Date(first.ts.Year(), first.ts.Month(), first.ts.Day(), 0, 0, 0, 0, time.UTC),
			MinTemp:     first.temperature,
			MaxTemp:     first.temperature,
			Description: DescribeCode(first.weatherCode),
			Icon:        IconForCode(first.weatherCode),
		}

		var sumHumidity, sumWind float64
		for _, s := range group {
			if s.temperature < day.MinTemp {
				day.MinTemp = s.temperature
			}
			if s.temperature > day.MaxTemp {
				day.MaxTemp = s.temperature
			}
			sumHumidity += s.humidity
			sumWind += s.windSpeed
			day.Precipitation += s.precipitation
		}

		n := float64(len(group))
		day.Humidity = int(math.Round(sumHumidity / n))
		day.WindSpeed = sumWind / n

		days = append(days, day)
	}

	return days
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
