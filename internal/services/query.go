package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/weatherwatch/weather-watch/internal/database"
	"github.com/weatherwatch/weather-watch/internal/geo"
	"github.com/weatherwatch/weather-watch/internal/models"
	"github.com/weatherwatch/weather-watch/internal/weather"
)

// ErrNotFound is returned when no stored query matches the given id.
var ErrNotFound = errors.New("weather query not found")

// ValidationError marks bad input: unparseable dates, inverted ranges,
// unresolvable locations on update, empty patches. Handlers map it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Geocoder resolves free-text locations to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, locationText string) (geo.ResolvedLocation, error)
}

// WeatherFetcher supplies the weather snapshot stored with a query.
type WeatherFetcher interface {
	HistoricalApprox(ctx context.Context, lat, lon float64, date time.Time) (weather.CurrentConditions, error)
}

// QueryService owns the lifecycle of stored weather queries. All upstream
// calls happen before any write, so a failed geocode or fetch leaves no row.
type QueryService struct {
	db       *database.DB
	geocoder Geocoder
	weather  WeatherFetcher
	log      *zap.SugaredLogger
}

func NewQueryService(db *database.DB, geocoder Geocoder, weather WeatherFetcher, log *zap.SugaredLogger) *QueryService {
	return &QueryService{
		db:       db,
		geocoder: geocoder,
		weather:  weather,
		log:      log,
	}
}

// Create validates the date range, resolves the location, snapshots the
// weather for the start date, and inserts the row.
func (s *QueryService) Create(ctx context.Context, location, startDate, endDate string) (*models.WeatherQuery, error) {
	if strings.TrimSpace(location) == "" {
		return nil, validationf("Location is required")
	}

	start, err := models.ParseDate(startDate)
	if err != nil {
		return nil, validationf("Invalid start date: %v", err)
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return nil, validationf("Invalid end date: %v", err)
	}
	if start.After(end.Time) {
		return nil, validationf("Start date must be before end date")
	}

	resolved, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.weather.HistoricalApprox(ctx, resolved.Latitude, resolved.Longitude, start.Time)
	if err != nil {
		return nil, err
	}

	record := &models.WeatherQuery{
		LocationName: resolved.DisplayName,
		LocationType: "location_string",
		Latitude:     resolved.Latitude,
		Longitude:    resolved.Longitude,
		StartDate:    start,
		EndDate:      end,
		Temperature:  snapshot.Temperature,
		Description:  snapshot.Description,
		Humidity:     int(math.Round(snapshot.Humidity)),
		WindSpeed:    snapshot.WindSpeed,
		WeatherIcon:  snapshot.Icon,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	s.log.Infow("weather query created", "id", record.ID, "location", record.LocationName)
	return record, nil
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Location  string
	StartDate *models.Date
	EndDate   *models.Date
	Limit     int
}

const defaultListLimit = 100

// List returns stored queries newest-first. Location matches as a
// case-insensitive substring of the stored name.
func (s *QueryService) List(ctx context.Context, f Filter) ([]models.WeatherQuery, error) {
	q := s.db.WithContext(ctx).Model(&models.WeatherQuery{})

	if f.Location != "" {
		q = q.Where("LOWER(location_name) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.StartDate != nil {
		q = q.Where("start_date >= ?", f.StartDate.Time)
	}
	if f.EndDate != nil {
		q = q.Where("end_date <= ?", f.EndDate.Time)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []models.WeatherQuery
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// All returns every stored query newest-first, for exports.
func (s *QueryService) All(ctx context.Context) ([]models.WeatherQuery, error) {
	var records []models.WeatherQuery
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *QueryService) Get(ctx context.Context, id uint) (*models.WeatherQuery, error) {
	var record models.WeatherQuery
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Patch carries the optional fields of a partial update. Nil means "leave
// unchanged".
type Patch struct {
	Location    *string
	StartDate   *string
	EndDate     *string
	Temperature *float64
	Description *string
}

func (p Patch) empty() bool {
	return p.Location == nil && p.StartDate == nil && p.EndDate == nil &&
		p.Temperature == nil && p.Description == nil
}

// Update applies a partial update. A supplied location is re-geocoded; a
// supplied date is validated against the merged range. Only supplied columns
// change, and updated_at always advances.
func (s *QueryService) Update(ctx context.Context, id uint, p Patch) (*models.WeatherQuery, error) {
	if p.empty() {
		return nil, validationf("No valid fields to update")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if p.Location != nil {
		resolved, err := s.geocoder.Resolve(ctx, *p.Location)
		if err != nil {
			return nil, validationf("Invalid location: %v", err)
		}
		updates["location_name"] = resolved.DisplayName
		updates["latitude"] = resolved.Latitude
		updates["longitude"] = resolved.Longitude
	}

	if p.StartDate != nil || p.EndDate != nil {
		start := existing.StartDate
		end := existing.EndDate

		if p.StartDate != nil {
			start, err = models.ParseDate(*p.StartDate)
			if err != nil {
				return nil, validationf("Invalid start date: %v", err)
			}
		}
		if p.EndDate != nil {
			end, err = models.ParseDate(*p.EndDate)
			if err != nil {
				return nil, validationf("Invalid end date: %v", err)
			}
		}
		if start.After(end.Time) {
			return nil, validationf("Start date must be before end date")
		}

		if p.StartDate != nil {
			updates["start_date"] = start
		}
		if p.EndDate != nil {
			updates["end_date"] = end
		}
	}

	if p.Temperature != nil {
		updates["temperature"] = *p.Temperature
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}

	updates["updated_at"] = time.Now().UTC()

	err = s.db.WithContext(ctx).
		Model(&models.WeatherQuery{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the row and returns it.
func (s *QueryService) Delete(ctx context.Context, id uint) (*models.WeatherQuery, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&models.WeatherQuery{}, id).Error; err != nil {
		return nil, err
	}

	s.log.Infow("weather query deleted", "id", id)
	return existing, nil
}
