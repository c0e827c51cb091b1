package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{2, "Partly cloudy"},
		{45, "Fog"},
		{55, "Dense drizzle"},
		{61, "Slight rain"},
		{75, "Heavy snow fall"},
		{82, "Violent rain showers"},
		{86, "Heavy snow showers"},
		{95, "Thunderstorm"},
		{99, "Thunderstorm with heavy hail"},
		{999, "Unknown"},
		{-1, "Unknown"},
		{4, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DescribeCode(tt.code), "code %d", tt.code)
	}
}

func TestIconForCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "01d"},
		{3, "02d"},
		{48, "50d"},
		{51, "10d"},
		{67, "10d"},
		{71, "13d"},
		{80, "09d"},
		{85, "13d"},
		{99, "11d"},
		{999, "01d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IconForCode(tt.code), "code %d", tt.code)
	}
}
