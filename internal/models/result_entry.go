package models

// ForecastMethod identifies which forecasting method supplied a value.
type ForecastMethod string

const (
	ForecastMethodGrowth     ForecastMethod = "growth"
	ForecastMethodCapacity   ForecastMethod = "capacity"
	ForecastMethodCollection ForecastMethod = "collection"
	ForecastMethodAverage    ForecastMethod = "average"
	ForecastMethodCustom     ForecastMethod = "custom"
)

// ResultEntry consolidates the three forecasting methods' outputs for one
// product and records which one was approved as final. AverageValue is the
// mean of the non-nil method values at the time of the last recompute.
type ResultEntry struct {
	Base
	BudgetID  uint `gorm:"not null;uniqueIndex:idx_result_budget_product" json:"budget_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_result_budget_product" json:"product_id"`

	GrowthValue     *float64        `json:"growth_value,omitempty"`
	CapacityValue   *float64        `json:"capacity_value,omitempty"`
	CollectionValue *float64        `json:"collection_value,omitempty"`
	AverageValue    *float64        `json:"average_value,omitempty"`
	FinalValue      *float64        `json:"final_value,omitempty"`
	FinalMethod     *ForecastMethod `json:"final_method,omitempty"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MethodValue returns the stored value for a non-custom method, or nil when
// that method has not produced one.
func (e *ResultEntry) MethodValue(method ForecastMethod) *float64 {
	switch method {
	case ForecastMethodGrowth:
		return e.GrowthValue
	case ForecastMethodCapacity:
		return e.CapacityValue
	case ForecastMethodCollection:
		return e.CollectionValue
	case ForecastMethodAverage:
		return e.AverageValue
	}
	return nil
}
