package models

import "time"

// Employee represents an employee considered in personnel planning.
type Employee struct {
	Base
	FirstName  string  `gorm:"not null" json:"first_name"`
	LastName   string  `gorm:"not null" json:"last_name"`
	Team       string  `json:"team"`
	BaseSalary float64 `gorm:"not null" json:"base_salary"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`

	// Relationships
	SalaryHistory []SalaryHistory `gorm:"foreignKey:EmployeeID" json:"salary_history,omitempty"`
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// SalaryHistory records a salary change effective from a given date.
type SalaryHistory struct {
	Base
	EmployeeID    uint      `gorm:"not null;index" json:"employee_id"`
	Salary        float64   `gorm:"not null" json:"salary"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
}
