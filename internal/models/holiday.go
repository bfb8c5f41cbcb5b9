package models

import "time"

// PublicHoliday represents a public holiday used when computing the working
// hours available in a budget year.
type PublicHoliday struct {
	Base
	Name string    `gorm:"not null" json:"name"`
	Date time.Time `gorm:"not null;uniqueIndex" json:"date"`
}
