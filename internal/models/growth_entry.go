package models

// TrendlineType selects the curve fitted over a growth entry's history.
type TrendlineType string

const (
	TrendlineTypeLinear      TrendlineType = "linear"
	TrendlineTypeLogarithmic TrendlineType = "logarithmic"
	TrendlineTypePolynomial  TrendlineType = "polynomial"
)

// GrowthEntry holds the trendline-based revenue projection for one product in
// one budget. The three historical years come from paid contract payments and
// may be nil when the product has no history for that year.
type GrowthEntry struct {
	Base
	BudgetID        uint          `gorm:"not null;uniqueIndex:idx_growth_budget_product" json:"budget_id"`
	ProductID       uint          `gorm:"not null;uniqueIndex:idx_growth_budget_product" json:"product_id"`
	YearMinus3      *float64      `json:"year_minus_3,omitempty"`
	YearMinus2      *float64      `json:"year_minus_2,omitempty"`
	YearMinus1      *float64      `json:"year_minus_1,omitempty"`
	TrendlineType   TrendlineType `gorm:"not null;default:linear" json:"trendline_type"`
	PolynomialOrder *int          `json:"polynomial_order,omitempty"`
	BudgetedValue   *float64      `json:"budgeted_value,omitempty"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// HistoricalValues returns the non-nil historical incomes in chronological
// order (oldest first).
func (e *GrowthEntry) HistoricalValues() []float64 {
	values := make([]float64, 0, 3)
	for _, v := range []*float64{e.YearMinus3, e.YearMinus2, e.YearMinus1} {
		if v != nil {
			values = append(values, *v)
		}
	}
	return values
}
