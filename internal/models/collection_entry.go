package models

// nearZeroMonths guards the annualized run-rate against division by a zero or
// near-zero collection-months value.
const nearZeroMonths = 1e-9

// CollectionEntry derives a product's budgeted income from how quickly
// contract value is collected under the entry's payment-pattern mix.
// BudgetedCollectionMonths and BudgetedIncome are cached derived values
// recomputed on every pattern mutation.
type CollectionEntry struct {
	Base
	BudgetID  uint `gorm:"not null;uniqueIndex:idx_collection_budget_product" json:"budget_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_collection_budget_product" json:"product_id"`

	BeginningBalance    float64 `json:"beginning_balance"`
	EndBalance          float64 `json:"end_balance"`
	AvgBalance          float64 `json:"avg_balance"`
	AvgContractPerMonth float64 `json:"avg_contract_per_month"`
	AvgPaymentPerMonth  float64 `json:"avg_payment_per_month"`

	LastYearCollectionMonths  *float64 `json:"last_year_collection_months,omitempty"`
	BudgetedCollectionMonths  *float64 `json:"budgeted_collection_months,omitempty"`
	ProjectedCollectionMonths *float64 `json:"projected_collection_months,omitempty"`

	BudgetedIncome *float64 `json:"budgeted_income,omitempty"`

	// Relationships
	Product  Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Patterns []CollectionPattern `gorm:"foreignKey:CollectionEntryID;constraint:OnDelete:CASCADE" json:"patterns,omitempty"`
}

// CombinedCollectionMonths combines the entry's patterns into one
// months-to-collect scalar. Each pattern contributes its own collection
// months weighted by the share of contract value it applies to:
//
//	months = sum(pattern.CollectionMonths() * pattern.ContractPercentage)
//	       / sum(pattern.ContractPercentage)
//
// Returns 0 when the entry has no patterns or the shares sum to zero.
func (e *CollectionEntry) CombinedCollectionMonths() float64 {
	var weightedSum, shareSum float64
	for _, p := range e.Patterns {
		weightedSum += p.CollectionMonths() * p.ContractPercentage
		shareSum += p.ContractPercentage
	}
	if shareSum < nearZeroMonths {
		return 0
	}
	return weightedSum / shareSum
}

// AnnualizedIncome returns the budgeted income implied by collecting
// EndBalance over the given number of months, annualized to twelve months.
// A zero or near-zero months value means no income rather than an error;
// new products routinely have no collection history yet.
func (e *CollectionEntry) AnnualizedIncome(months float64) float64 {
	if months < nearZeroMonths {
		return 0
	}
	return e.EndBalance / months * 12
}

// CollectionPattern encodes what fraction of contract value collected under
// this pattern arrives in each of the twelve months. The monthly percentages
// conceptually sum to 100 within a pattern; ContractPercentage is the share
// of total contract value the pattern applies to.
type CollectionPattern struct {
	Base
	CollectionEntryID  uint    `gorm:"not null;index" json:"collection_entry_id"`
	Name               string  `gorm:"not null" json:"name"`
	ContractPercentage float64 `gorm:"not null" json:"contract_percentage"`

	Month1  float64 `json:"month_1"`
	Month2  float64 `json:"month_2"`
	Month3  float64 `json:"month_3"`
	Month4  float64 `json:"month_4"`
	Month5  float64 `json:"month_5"`
	Month6  float64 `json:"month_6"`
	Month7  float64 `json:"month_7"`
	Month8  float64 `json:"month_8"`
	Month9  float64 `json:"month_9"`
	Month10 float64 `json:"month_10"`
	Month11 float64 `json:"month_11"`
	Month12 float64 `json:"month_12"`
}

// MonthlyPercentages returns the twelve monthly percentages in order.
func (p *CollectionPattern) MonthlyPercentages() [12]float64 {
	return [12]float64{
		p.Month1, p.Month2, p.Month3, p.Month4, p.Month5, p.Month6,
		p.Month7, p.Month8, p.Month9, p.Month10, p.Month11, p.Month12,
	}
}

// CollectionMonths returns the percentage-weighted average month in which
// this pattern collects contract value: sum(month * pct) / 100. A pattern
// collecting everything in month 1 yields 1; an even spread yields 6.5.
func (p *CollectionPattern) CollectionMonths() float64 {
	var months float64
	for i, pct := range p.MonthlyPercentages() {
		months += float64(i+1) * pct
	}
	return months / 100
}
