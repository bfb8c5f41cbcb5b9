package models

import "time"

// BudgetStatus represents the workflow state of a budget.
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusFinalized BudgetStatus = "finalized"
)

// DefaultIncreasePercentage is the initial OpEx and tax increase applied to a
// newly created budget.
const DefaultIncreasePercentage = 10.00

// Budget is the aggregate root for one fiscal year of planning. It owns all
// per-product and per-employee entry collections; deleting a budget cascades
// to every entry.
type Budget struct {
	Base
	Year                  int          `gorm:"uniqueIndex;not null" json:"year"`
	Status                BudgetStatus `gorm:"not null;default:draft" json:"status"`
	OpexIncreasePct       float64      `gorm:"not null;default:10" json:"opex_increase_pct"`
	TaxIncreasePct        float64      `gorm:"not null;default:10" json:"tax_increase_pct"`
	FinalizedAt           *time.Time   `json:"finalized_at,omitempty"`
	FinalizedByUserID     *uint        `json:"finalized_by_user_id,omitempty"`

	// Relationships
	GrowthEntries     []GrowthEntry     `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"growth_entries,omitempty"`
	CapacityEntries   []CapacityEntry   `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"capacity_entries,omitempty"`
	CollectionEntries []CollectionEntry `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"collection_entries,omitempty"`
	ResultEntries     []ResultEntry     `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"result_entries,omitempty"`
	PersonnelEntries  []PersonnelEntry  `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"personnel_entries,omitempty"`
	ExpenseEntries    []ExpenseEntry    `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"expense_entries,omitempty"`
}

// IsFinalized reports whether the budget has been locked in.
func (b *Budget) IsFinalized() bool {
	return b.Status == BudgetStatusFinalized
}
