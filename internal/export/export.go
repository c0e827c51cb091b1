// Package export renders the full stored query set into one of five flat
// download formats. Renderers are pure, order-preserving transforms over the
// record slice they are given.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/weatherwatch/weather-watch/internal/models"
)

var (
	// ErrNoData is returned for CSV only: a CSV file with just a header row
	// is useless, while the other formats carry an empty body fine.
	ErrNoData = errors.New("no data to export")
	// ErrUnknownFormat is returned for an unsupported format name.
	ErrUnknownFormat = errors.New("unknown export format")
)

const timestampLayout = "2006-01-02 15:04:05"

// Document is a rendered export ready to be served as a download.
type Document struct {
	Body        []byte
	ContentType string
	Filename    string
}

// Render produces the document for the named format. Records are expected
// newest-first; renderers preserve that order.
func Render(format string, records []models.WeatherQuery) (Document, error) {
	switch format {
	case "json":
		return renderJSON(records)
	case "xml":
		return renderXML(records)
	case "csv":
		return renderCSV(records)
	case "markdown":
		return renderMarkdown(records)
	case "pdf":
		return renderPDF(records)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderJSON(records []models.WeatherQuery) (Document, error) {
	if records == nil {
		records = []models.WeatherQuery{}
	}
	body, err := json.MarshalIndent(map[string]interface{}{"data": records}, "", "  ")
	if err != nil {
		return Document{}, err
	}
	return Document{
		Body:        body,
		ContentType: "application/json",
		Filename:    "weather_data.json",
	}, nil
}

type xmlQuery struct {
	ID           uint    `xml:"id"`
	LocationName string  `xml:"location_name"`
	LocationType string  `xml:"location_type"`
	Latitude     float64 `xml:"latitude"`
	Longitude    float64 `xml:"longitude"`
	StartDate    string  `xml:"start_date"`
	EndDate      string  `xml:"end_date"`
	Temperature  float64 `xml:"temperature"`
	Description  string  `xml:"description"`
	Humidity     int     `xml:"humidity"`
	WindSpeed    float64 `xml:"wind_speed"`
	WeatherIcon  string  `xml:"weather_icon"`
	CreatedAt    string  `xml:"created_at"`
	UpdatedAt    string  `xml:"updated_at"`
}

type xmlDocument struct {
	XMLName xml.Name   `xml:"weather_queries"`
	Queries []xmlQuery `xml:"query"`
}

func renderXML(records []models.WeatherQuery) (Document, error) {
	doc := xmlDocument{Queries: make([]xmlQuery, 0, len(records))}
	for _, r := range records {
		doc.Queries = append(doc.Queries, xmlQuery{
			ID:           r.ID,
			LocationName: r.LocationName,
			LocationType: r.LocationType,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			StartDate:    r.StartDate.String(),
			EndDate:      r.EndDate.String(),
			Temperature:  r.Temperature,
			Description:  r.Description,
			Humidity:     r.Humidity,
			WindSpeed:    r.WindSpeed,
			WeatherIcon:  r.WeatherIcon,
			CreatedAt:    r.CreatedAt.Format(timestampLayout),
			UpdatedAt:    r.UpdatedAt.Format(timestampLayout),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, err
	}
	return Document{
		Body:        append([]byte(xml.Header), body...),
		ContentType: "application/xml",
		Filename:    "weather_data.xml",
	}, nil
}

func renderCSV(records []models.WeatherQuery) (Document, error) {
	if len(records) == 0 {
		return Document{}, ErrNoData
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "location_name", "location_type", "latitude", "longitude",
		"start_date", "end_date", "temperature", "description", "humidity",
		"wind_speed", "weather_icon", "created_at", "updated_at",
	}
	if err := w.Write(header); err != nil {
		return Document{}, err
	}

	for _, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.LocationName,
			r.LocationType,
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			r.StartDate.String(),
			r.EndDate.String(),
			formatFloat(r.Temperature),
			r.Description,
			strconv.Itoa(r.Humidity),
			formatFloat(r.WindSpeed),
			r.WeatherIcon,
			r.CreatedAt.Format(timestampLayout),
			r.UpdatedAt.Format(timestampLayout),
		}
		if err := w.Write(row); err != nil {
			return Document{}, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return Document{}, err
	}
	return Document{
		Body:        buf.Bytes(),
		ContentType: "text/csv",
		Filename:    "weather_data.csv",
	}, nil
}

func renderMarkdown(records []models.WeatherQuery) (Document, error) {
	var b strings.Builder
	b.WriteString("# Weather Queries Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(timestampLayout))
	fmt.Fprintf(&b, "Total Records: %d\n\n", len(records))
	b.WriteString("---\n\n")

	for _, r := range records {
		fmt.Fprintf(&b, "## Query #%d\n\n", r.ID)
		fmt.Fprintf(&b, "- **Location:** %s\n", escapeMarkdown(r.LocationName))
		fmt.Fprintf(&b, "- **Date Range:** %s to %s\n", r.StartDate, r.EndDate)
		fmt.Fprintf(&b, "- **Temperature:** %.1f°C\n", r.Temperature)
		fmt.Fprintf(&b, "- **Description:** %s\n", escapeMarkdown(r.Description))
		fmt.Fprintf(&b, "- **Humidity:** %d%%\n", r.Humidity)
		fmt.Fprintf(&b, "- **Wind Speed:** %.1f m/s\n", r.WindSpeed)
		fmt.Fprintf(&b, "- **Created:** %s\n", r.CreatedAt.Format(timestampLayout))
		fmt.Fprintf(&b, "- **Updated:** %s\n\n", r.UpdatedAt.Format(timestampLayout))
		b.WriteString("---\n\n")
	}

	return Document{
		Body:        []byte(b.String()),
		ContentType: "text/markdown",
		Filename:    "weather_data.md",
	}, nil
}

func renderPDF(records []models.WeatherQuery) (Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Weather Queries Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(records) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, "No data available", "", 1, "L", false, 0, "")
	}

	for _, r := range records {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, fmt.Sprintf("Query #%d", r.ID), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		lines := []string{
			fmt.Sprintf("Location: %s", r.LocationName),
			fmt.Sprintf("Date Range: %s to %s", r.StartDate, r.EndDate),
			fmt.Sprintf("Temperature: %.1f°C", r.Temperature),
			fmt.Sprintf("Description: %s", r.Description),
			fmt.Sprintf("Humidity: %d%%", r.Humidity),
			fmt.Sprintf("Wind Speed: %.1f m/s", r.WindSpeed),
			fmt.Sprintf("Created: %s", r.CreatedAt.Format(timestampLayout)),
		}
		for _, line := range lines {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, err
	}
	return Document{
		Body:        buf.Bytes(),
		ContentType: "application/pdf",
		Filename:    "weather_data.pdf",
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "#", `\#`, "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
