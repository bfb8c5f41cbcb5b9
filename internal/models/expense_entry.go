package models

// ExpenseType classifies a budget expense entry.
type ExpenseType string

const (
	ExpenseTypeOpex  ExpenseType = "opex"
	ExpenseTypeTax   ExpenseType = "tax"
	ExpenseTypeCapex ExpenseType = "capex"
)

// ExpenseEntry plans one expense category for a budget year. Exactly one of
// IncreasePct and ProposedAmount drives ProposedTotal at any time, selected
// by IsOverride.
type ExpenseEntry struct {
	Base
	BudgetID   uint `gorm:"not null;uniqueIndex:idx_expense_budget_category" json:"budget_id"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_expense_budget_category" json:"category_id"`

	Type              ExpenseType `gorm:"not null" json:"type"`
	LastYearTotal     float64     `json:"last_year_total"`
	LastYearAvgMonthly float64    `json:"last_year_avg_monthly"`
	IncreasePct       *float64    `json:"increase_pct,omitempty"`
	ProposedAmount    *float64    `json:"proposed_amount,omitempty"`
	ProposedTotal     *float64    `json:"proposed_total,omitempty"`
	IsOverride        bool        `gorm:"default:false" json:"is_override"`

	// Relationships
	Category ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// ComputeProposedTotal derives the proposed total from the entry's current
// driver: the override amount when IsOverride is set, otherwise last year's
// total grown by the increase percentage. Returns nil when the active driver
// is missing.
func (e *ExpenseEntry) ComputeProposedTotal() *float64 {
	if e.IsOverride {
		if e.ProposedAmount == nil {
			return nil
		}
		v := *e.ProposedAmount
		return &v
	}
	if e.IncreasePct == nil {
		return nil
	}
	v := e.LastYearTotal * (1 + *e.IncreasePct/100)
	return &v
}

// EffectiveTotal returns the proposed total when computed, falling back to
// last year's total for rollup purposes.
func (e *ExpenseEntry) EffectiveTotal() float64 {
	if e.ProposedTotal != nil {
		return *e.ProposedTotal
	}
	return e.LastYearTotal
}
