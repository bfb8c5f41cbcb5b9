package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// finalizationService drives the budget's draft/finalized state machine.
type finalizationService struct {
	db         *gorm.DB
	collection CollectionServicer
}

// NewFinalizationService creates a new FinalizationServicer. The collection
// service supplies the advisory pattern-share checks for the readiness
// report.
func NewFinalizationService(db *gorm.DB, collection CollectionServicer) FinalizationServicer {
	return &finalizationService{db: db, collection: collection}
}

// Readiness itemizes everything blocking a budget's finalization in one
// report: products without an approved final value, employees with invalid
// cost allocations and expense categories without a proposed total. The
// collection section lists products whose pattern shares miss 100 percent
// but never blocks.
func (s *finalizationService) Readiness(budgetID uint) (*ReadinessReport, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &ReadinessReport{
		Result:    []ReadinessItem{},
		Personnel: []ReadinessItem{},
		Expenses:  []ReadinessItem{},
	}

	var results []models.ResultEntry
	err := s.db.Preload("Product").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&results).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, r := range results {
		if r.FinalValue == nil {
			report.Result = append(report.Result, ReadinessItem{
				ID:     r.ProductID,
				Name:   r.Product.Name,
				Reason: "no final value selected",
			})
		}
	}

	var personnel []models.PersonnelEntry
	err = s.db.Preload("Employee").Preload("Allocations").
		Where("budget_id = ?", budgetID).
		Order("employee_id").
		Find(&personnel).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(personnel) == 0 {
		report.Personnel = append(report.Personnel, ReadinessItem{
			Name:   "personnel",
			Reason: "budget has no personnel entries",
		})
	}
	for _, p := range personnel {
		switch {
		case len(p.Allocations) == 0:
			report.Personnel = append(report.Personnel, ReadinessItem{
				ID:     p.EmployeeID,
				Name:   p.Employee.FullName(),
				Reason: "no cost allocations",
			})
		case !p.HasValidAllocations():
			report.Personnel = append(report.Personnel, ReadinessItem{
				ID:     p.EmployeeID,
				Name:   p.Employee.FullName(),
				Reason: fmt.Sprintf("allocations sum to %.2f, expected 100", p.AllocationSum()),
			})
		}
	}

	var expenses []models.ExpenseEntry
	err = s.db.Preload("Category").
		Where("budget_id = ?", budgetID).
		Order("category_id").
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, e := range expenses {
		if e.ProposedTotal == nil {
			report.Expenses = append(report.Expenses, ReadinessItem{
				ID:     e.CategoryID,
				Name:   e.Category.Name,
				Reason: "no proposed total computed",
			})
		}
	}

	var collections []models.CollectionEntry
	err = s.db.Preload("Product").Preload("Patterns").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&collections).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range collections {
		if len(c.Patterns) == 0 {
			continue
		}
		if v := validatePatternShares(&c); !v.Valid {
			report.Collection = append(report.Collection, ReadinessItem{
				ID:     c.ProductID,
				Name:   c.Product.Name,
				Reason: fmt.Sprintf("pattern shares sum to %.2f, expected 100", v.Sum),
			})
		}
	}

	report.Ready = len(report.Result) == 0 && len(report.Personnel) == 0 && len(report.Expenses) == 0
	return report, nil
}

// Finalize locks a draft budget. When the budget is not ready the readiness
// report is returned alongside the error so the caller sees every blocker at
// once. On success every product's yearly target is set from its approved
// final value in the same transaction as the status change.
func (s *finalizationService) Finalize(budgetID, userID uint) (*models.Budget, *ReadinessReport, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrBudgetNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budget.IsFinalized() {
		return nil, nil, apperrors.ErrBudgetAlreadyFinalized
	}

	report, err := s.Readiness(budgetID)
	if err != nil {
		return nil, nil, err
	}
	if !report.Ready {
		return nil, report, apperrors.ErrBudgetNotReady
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var results []models.ResultEntry
		if err := tx.Where("budget_id = ?", budgetID).Find(&results).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, r := range results {
			err := tx.Model(&models.Product{}).
				Where("id = ?", r.ProductID).
				Update("yearly_target", r.FinalValue).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		now := time.Now()
		budget.Status = models.BudgetStatusFinalized
		budget.FinalizedAt = &now
		budget.FinalizedByUserID = &userID
		if err := tx.Save(&budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &budget, report, nil
}

// Revert reopens a finalized budget for editing. The finalization stamp is
// cleared; product yearly targets written at finalization are left in place
// until the next finalization overwrites them.
func (s *finalizationService) Revert(budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !budget.IsFinalized() {
		return nil, apperrors.ErrBudgetNotFinalized
	}

	budget.Status = models.BudgetStatusDraft
	budget.FinalizedAt = nil
	budget.FinalizedByUserID = nil
	if err := s.db.Save(&budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
