package models

// AllocationTolerance is the rounding slack allowed when checking that an
// employee's allocations sum to 100 percent.
const AllocationTolerance = 0.01

// PersonnelEntry tracks one employee's salary plan within a budget and how
// their cost is allocated across products and the general/administrative
// bucket.
type PersonnelEntry struct {
	Base
	BudgetID   uint `gorm:"not null;uniqueIndex:idx_personnel_budget_employee" json:"budget_id"`
	EmployeeID uint `gorm:"not null;uniqueIndex:idx_personnel_budget_employee" json:"employee_id"`

	CurrentSalary  float64  `gorm:"not null" json:"current_salary"`
	ProposedSalary *float64 `json:"proposed_salary,omitempty"`
	IncreasePct    *float64 `json:"increase_pct,omitempty"`
	IsNewHire      bool     `gorm:"default:false" json:"is_new_hire"`
	HireMonth      *int     `json:"hire_month,omitempty"`

	// Relationships
	Employee    Employee              `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Allocations []PersonnelAllocation `gorm:"foreignKey:PersonnelEntryID;constraint:OnDelete:CASCADE" json:"allocations,omitempty"`
}

// EffectiveSalary returns the proposed salary when one is set, falling back
// to the current salary.
func (e *PersonnelEntry) EffectiveSalary() float64 {
	if e.ProposedSalary != nil {
		return *e.ProposedSalary
	}
	return e.CurrentSalary
}

// AllocationSum returns the sum of the entry's allocation percentages.
func (e *PersonnelEntry) AllocationSum() float64 {
	var sum float64
	for _, a := range e.Allocations {
		sum += a.Percentage
	}
	return sum
}

// HasValidAllocations reports whether the allocations sum to 100 within
// tolerance.
func (e *PersonnelEntry) HasValidAllocations() bool {
	return AllocationsSumValid(e.AllocationSum())
}

// AllocationsSumValid reports whether a candidate allocation sum equals 100
// within tolerance.
func AllocationsSumValid(sum float64) bool {
	diff := sum - 100
	return diff <= AllocationTolerance && diff >= -AllocationTolerance
}

// PersonnelAllocation assigns a percentage of an employee's cost to a
// product. A nil ProductID means the general/administrative bucket.
type PersonnelAllocation struct {
	Base
	PersonnelEntryID uint    `gorm:"not null;index" json:"personnel_entry_id"`
	ProductID        *uint   `json:"product_id,omitempty"`
	Percentage       float64 `gorm:"not null" json:"percentage"`
}
