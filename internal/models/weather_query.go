package models

import "time"

// WeatherQuery is the single persisted entity: a resolved location, a date
// range, and a snapshot of the weather taken when the row was created.
type WeatherQuery struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LocationName string    `gorm:"size:255;not null;index" json:"location_name"`
	LocationType string    `gorm:"size:50" json:"location_type"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	StartDate    Date      `gorm:"type:date" json:"start_date"`
	EndDate      Date      `gorm:"type:date" json:"end_date"`
	Temperature  float64   `json:"temperature"`
	Description  string    `gorm:"size:255" json:"description"`
	Humidity     int       `json:"humidity"`
	WindSpeed    float64   `json:"wind_speed"`
	WeatherIcon  string    `gorm:"size:50" json:"weather_icon"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WeatherQuery) TableName() string {
	return "weather_queries"
}
