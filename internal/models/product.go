package models

// Product represents a sellable product or service line. YearlyTarget is the
// master field updated when a budget is finalized.
type Product struct {
	Base
	Name         string   `gorm:"not null" json:"name"`
	Code         string   `gorm:"uniqueIndex;not null" json:"code"`
	Description  string   `json:"description"`
	YearlyTarget *float64 `json:"yearly_target,omitempty"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`
}
