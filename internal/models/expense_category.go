package models

// ExpenseTypeCode is the formal classification code attached to a category.
// Not every category carries one; classification falls back to name keywords.
type ExpenseTypeCode string

const (
	ExpenseTypeCodeOpex  ExpenseTypeCode = "OPEX"
	ExpenseTypeCodeTax   ExpenseTypeCode = "TAX"
	ExpenseTypeCodeCapex ExpenseTypeCode = "CAPEX"
)

// ExpenseCategory represents an expense category used in budget planning.
// Categories form a hierarchy via ParentID; SortOrder controls report
// ordering, with unassigned categories sorting last.
type ExpenseCategory struct {
	Base
	Name            string          `gorm:"not null" json:"name"`
	ExpenseTypeCode ExpenseTypeCode `json:"expense_type_code"`
	ParentID        *uint           `json:"parent_id,omitempty"`
	SortOrder       *int            `json:"sort_order,omitempty"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Parent   *ExpenseCategory  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []ExpenseCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
