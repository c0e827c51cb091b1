package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherwatch/weather-watch/internal/models"
)

func sampleRecords(t *testing.T) []models.WeatherQuery {
	t.Helper()
	start, err := models.ParseDate("2024-01-01")
	require.NoError(t, err)
	end, err := models.ParseDate("2024-01-05")
	require.NoError(t, err)

	created := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	return []models.WeatherQuery{
		{
			ID:           2,
			LocationName: "Paris, Île-de-France, France",
			LocationType: "location_string",
			Latitude:     48.85341,
			Longitude:    2.3488,
			StartDate:    start,
			EndDate:      end,
			Temperature:  12.5,
			Description:  "Partly cloudy",
			Humidity:     64,
			WindSpeed:    3.2,
			WeatherIcon:  "02d",
			CreatedAt:    created.Add(time.Hour),
			UpdatedAt:    created.Add(time.Hour),
		},
		{
			ID:           1,
			LocationName: "A <b>weird</b> & \"quoted\" place",
			StartDate:    start,
			EndDate:      end,
			Temperature:  -3,
			Description:  "Heavy snow fall",
			Humidity:     91,
			WindSpeed:    7.8,
			WeatherIcon:  "13d",
			CreatedAt:    created,
			UpdatedAt:    created,
		},
	}
}

func TestRenderJSON(t *testing.T) {
	doc, err := Render("json", sampleRecords(t))
	require.NoError(t, err)

	assert.Equal(t, "application/json", doc.ContentType)
	assert.Equal(t, "weather_data.json", doc.Filename)

	var decoded struct {
		Data []models.WeatherQuery `json:"data"`
	}
	require.NoError(t, json.Unmarshal(doc.Body, &decoded))
	require.Len(t, decoded.Data, 2)
	// Order preserved.
	assert.Equal(t, uint(2), decoded.Data[0].ID)
	assert.Equal(t, "2024-01-01", decoded.Data[0].StartDate.String())
}

func TestRenderJSONEmpty(t *testing.T) {
	doc, err := Render("json", nil)
	require.NoError(t, err)

	var decoded struct {
		Data []models.WeatherQuery `json:"data"`
	}
	require.NoError(t, json.Unmarshal(doc.Body, &decoded))
	assert.NotNil(t, decoded.Data)
	assert.Empty(t, decoded.Data)
}

func TestRenderXMLEscapes(t *testing.T) {
	doc, err := Render("xml", sampleRecords(t))
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Equal(t, "application/xml", doc.ContentType)
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, "<weather_queries>")
	assert.Contains(t, body, "&lt;b&gt;weird&lt;/b&gt;")
	assert.NotContains(t, body, "<b>weird</b>")
}

func TestRenderXMLEmpty(t *testing.T) {
	doc, err := Render("xml", nil)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "weather_queries")
}

func TestRenderCSV(t *testing.T) {
	doc, err := Render("csv", sampleRecords(t))
	require.NoError(t, err)

	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, "weather_data.csv", doc.Filename)

	lines := strings.Split(strings.TrimSpace(string(doc.Body)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,location_name"))
	assert.True(t, strings.HasPrefix(lines[1], "2,"), "order preserved")
	assert.Contains(t, lines[1], "2024-01-01")
}

func TestRenderCSVEmptyFails(t *testing.T) {
	_, err := Render("csv", nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestRenderMarkdown(t *testing.T) {
	doc, err := Render("markdown", sampleRecords(t))
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Equal(t, "text/markdown", doc.ContentType)
	assert.Equal(t, "weather_data.md", doc.Filename)
	assert.True(t, strings.HasPrefix(body, "# Weather Queries Report"))
	assert.Contains(t, body, "Total Records: 2")
	assert.Contains(t, body, "## Query #2")
	assert.Contains(t, body, "2024-01-01 to 2024-01-05")
}

func TestRenderMarkdownEmpty(t *testing.T) {
	doc, err := Render("markdown", nil)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "Total Records: 0")
}

func TestRenderPDF(t *testing.T) {
	doc, err := Render("pdf", sampleRecords(t))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "weather_data.pdf", doc.Filename)
	assert.True(t, strings.HasPrefix(string(doc.Body), "%PDF"))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render("yaml", sampleRecords(t))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
