package weather

import "time"

// CurrentConditions is the provider-agnostic view of the weather at a point
// in time. Numeric fields are metric: °C, m/s, hPa, km.
type CurrentConditions struct {
	Temperature float64    `json:"temperature"`
	FeelsLike   float64    `json:"feelsLike"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Humidity    float64    `json:"humidity"`
	WindSpeed   float64    `json:"windSpeed"`
	Pressure    float64    `json:"pressure"`
	Visibility  *float64   `json:"visibility,omitempty"`
	Sunrise     *time.Time `json:"sunrise,omitempty"`
	Sunset      *time.Time `json:"sunset,omitempty"`
	ObservedAt  time.Time  `json:"timestamp"`
}

// ForecastDay is one calendar day of an up-to-5-day forecast, aggregated
// from the provider's hourly series.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	MinTemp       float64   `json:"minTemp"`
	MaxTemp       float64   `json:"maxTemp"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Humidity      int       `json:"humidity"`
	WindSpeed     float64   `json:"windSpeed"`
	Precipitation float64   `json:"precipitation"`
}
