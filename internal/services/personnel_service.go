package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// personnelService handles salary planning and cost allocation per employee.
type personnelService struct {
	db *gorm.DB
}

// NewPersonnelService creates a new PersonnelServicer.
func NewPersonnelService(db *gorm.DB) PersonnelServicer {
	return &personnelService{db: db}
}

// GetEntry returns the personnel entry for a budget/employee pair, with
// allocations.
func (s *personnelService) GetEntry(budgetID, employeeID uint) (*models.PersonnelEntry, error) {
	var entry models.PersonnelEntry
	err := s.db.Preload("Employee").Preload("Allocations").
		Where("budget_id = ? AND employee_id = ?", budgetID, employeeID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonnelEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all personnel entries for a budget.
func (s *personnelService) ListEntries(budgetID uint) ([]models.PersonnelEntry, error) {
	var entries []models.PersonnelEntry
	err := s.db.Preload("Employee").Preload("Allocations").
		Where("budget_id = ?", budgetID).
		Order("employee_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// UpdateEntry applies field updates and re-derives the increase percentage
// from the current and proposed salaries.
func (s *personnelService) UpdateEntry(budgetID, employeeID uint, input UpdatePersonnelInput) (*models.PersonnelEntry, error) {
	entry, err := s.GetEntry(budgetID, employeeID)
	if err != nil {
		return nil, err
	}

	if input.HireMonth != nil && (*input.HireMonth < 1 || *input.HireMonth > 12) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire month must be between 1 and 12")
	}

	if input.ProposedSalary != nil {
		entry.ProposedSalary = input.ProposedSalary
	}
	if input.IsNewHire != nil {
		entry.IsNewHire = *input.IsNewHire
		if !entry.IsNewHire {
			entry.HireMonth = nil
		}
	}
	if input.HireMonth != nil {
		if !entry.IsNewHire {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire month applies only to new hires")
		}
		entry.HireMonth = input.HireMonth
	}

	entry.IncreasePct = increasePct(entry)

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// increasePct derives the salary increase percentage, or nil when there is no
// proposed salary or no current salary to compare against.
func increasePct(entry *models.PersonnelEntry) *float64 {
	if entry.ProposedSalary == nil || entry.CurrentSalary == 0 {
		return nil
	}
	pct := (*entry.ProposedSalary - entry.CurrentSalary) / entry.CurrentSalary * 100
	return float64Ptr(round2(pct))
}

// SetAllocations replaces the employee's allocation set. The candidate set is
// validated before any row is touched, so an invalid set leaves the prior
// allocations intact.
func (s *personnelService) SetAllocations(budgetID, employeeID uint, allocations []AllocationInput) (*models.PersonnelEntry, error) {
	entry, err := s.GetEntry(budgetID, employeeID)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, a := range allocations {
		if a.Percentage < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocation percentage cannot be negative")
		}
		sum += a.Percentage
	}
	if !models.AllocationsSumValid(sum) {
		return nil, apperrors.WithMessage(apperrors.ErrAllocationSumInvalid,
			fmt.Sprintf("allocations sum to %.2f, expected 100", sum))
	}

	for _, a := range allocations {
		if a.ProductID == nil {
			continue
		}
		var count int64
		if err := s.db.Model(&models.Product{}).Where("id = ?", *a.ProductID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrProductNotFound
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("personnel_entry_id = ?", entry.ID).
			Delete(&models.PersonnelAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		entry.Allocations = entry.Allocations[:0]
		for _, a := range allocations {
			alloc := models.PersonnelAllocation{
				PersonnelEntryID: entry.ID,
				ProductID:        a.ProductID,
				Percentage:       a.Percentage,
			}
			if err := tx.Create(&alloc).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			entry.Allocations = append(entry.Allocations, alloc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CostBreakdown attributes the employee's effective salary across products
// and the general/administrative bucket per the stored allocations.
func (s *personnelService) CostBreakdown(budgetID, employeeID uint) (*PersonnelCostBreakdown, error) {
	entry, err := s.GetEntry(budgetID, employeeID)
	if err != nil {
		return nil, err
	}

	salary := entry.EffectiveSalary()
	breakdown := &PersonnelCostBreakdown{
		EffectiveSalary: salary,
		ProductCosts:    []ProductCost{},
	}

	for _, a := range entry.Allocations {
		cost := round2(salary * a.Percentage / 100)
		if a.ProductID == nil {
			breakdown.GeneralCost = round2(breakdown.GeneralCost + cost)
			continue
		}
		breakdown.ProductCosts = append(breakdown.ProductCosts, ProductCost{
			ProductID: a.ProductID,
			Cost:      cost,
		})
	}

	return breakdown, nil
}
