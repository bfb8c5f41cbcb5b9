package models

// CapacityEntry derives a product's budgeted income from billable capacity:
// hours available in the year, headcount weighted for mid-year hires, average
// hourly price, and the billable percentage. BudgetedIncome is a cached
// derived value recomputed on every mutation of the entry or its hires.
type CapacityEntry struct {
	Base
	BudgetID  uint `gorm:"not null;uniqueIndex:idx_capacity_budget_product" json:"budget_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_capacity_budget_product" json:"product_id"`

	// Last-year reference metrics, informational only.
	LastYearHeadcount     float64 `json:"last_year_headcount"`
	LastYearHours         float64 `json:"last_year_hours"`
	LastYearAvgPrice      float64 `json:"last_year_avg_price"`
	LastYearIncome        float64 `json:"last_year_income"`
	LastYearBillableHours float64 `json:"last_year_billable_hours"`
	LastYearBillablePct   float64 `json:"last_year_billable_pct"`

	// Next-year planning inputs.
	NextYearHeadcount   float64 `json:"next_year_headcount"`
	NextYearAvgPrice    float64 `json:"next_year_avg_price"`
	NextYearBillablePct float64 `json:"next_year_billable_pct"`

	BudgetedIncome *float64 `json:"budgeted_income,omitempty"`

	// Relationships
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Hires   []CapacityHire `gorm:"foreignKey:CapacityEntryID;constraint:OnDelete:CASCADE" json:"hires,omitempty"`
}

// WeightedHeadcount returns the base headcount plus each planned hire
// pro-rated for the months it contributes: a hire in month m works the
// remaining (13-m) months of the year.
func (e *CapacityEntry) WeightedHeadcount() float64 {
	weighted := e.NextYearHeadcount
	for _, hire := range e.Hires {
		weighted += float64(hire.HireCount) * float64(13-hire.HireMonth) / 12.0
	}
	return weighted
}

// CapacityHire records planned hires joining part-way through the budget year.
type CapacityHire struct {
	Base
	CapacityEntryID uint `gorm:"not null;index" json:"capacity_entry_id"`
	HireMonth       int  `gorm:"not null" json:"hire_month"`
	HireCount       int  `gorm:"not null" json:"hire_count"`
}
