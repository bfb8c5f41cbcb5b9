package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// capacityService handles headcount/utilization forecasting. hoursPerDay is
// an explicit configuration value so the available-hours calculation stays
// deterministic under test.
type capacityService struct {
	db          *gorm.DB
	hoursPerDay float64
}

// NewCapacityService creates a new CapacityServicer.
func NewCapacityService(db *gorm.DB, hoursPerDay float64) CapacityServicer {
	return &capacityService{db: db, hoursPerDay: hoursPerDay}
}

// GetEntry returns the capacity entry for a budget/product pair, with hires.
func (s *capacityService) GetEntry(budgetID, productID uint) (*models.CapacityEntry, error) {
	var entry models.CapacityEntry
	err := s.db.Preload("Product").Preload("Hires").
		Where("budget_id = ? AND product_id = ?", budgetID, productID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCapacityEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all capacity entries for a budget.
func (s *capacityService) ListEntries(budgetID uint) ([]models.CapacityEntry, error) {
	var entries []models.CapacityEntry
	err := s.db.Preload("Product").Preload("Hires").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// UpdateEntry applies field updates and recomputes the budgeted income from
// the entry's new state in one transaction.
func (s *capacityService) UpdateEntry(budgetID, productID uint, input UpdateCapacityInput) (*models.CapacityEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	applyCapacityInput(entry, input)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.recompute(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func applyCapacityInput(entry *models.CapacityEntry, input UpdateCapacityInput) {
	if input.LastYearHeadcount != nil {
		entry.LastYearHeadcount = *input.LastYearHeadcount
	}
	if input.LastYearHours != nil {
		entry.LastYearHours = *input.LastYearHours
	}
	if input.LastYearAvgPrice != nil {
		entry.LastYearAvgPrice = *input.LastYearAvgPrice
	}
	if input.LastYearIncome != nil {
		entry.LastYearIncome = *input.LastYearIncome
	}
	if input.LastYearBillableHours != nil {
		entry.LastYearBillableHours = *input.LastYearBillableHours
	}
	if input.LastYearBillablePct != nil {
		entry.LastYearBillablePct = *input.LastYearBillablePct
	}
	if input.NextYearHeadcount != nil {
		entry.NextYearHeadcount = *input.NextYearHeadcount
	}
	if input.NextYearAvgPrice != nil {
		entry.NextYearAvgPrice = *input.NextYearAvgPrice
	}
	if input.NextYearBillablePct != nil {
		entry.NextYearBillablePct = *input.NextYearBillablePct
	}
}

// AddHire records a planned hire and recomputes the budgeted income in one
// transaction.
func (s *capacityService) AddHire(budgetID, productID uint, hireMonth, hireCount int) (*models.CapacityEntry, error) {
	if hireMonth < 1 || hireMonth > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire month must be between 1 and 12")
	}
	if hireCount < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire count must be at least 1")
	}

	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		hire := &models.CapacityHire{
			CapacityEntryID: entry.ID,
			HireMonth:       hireMonth,
			HireCount:       hireCount,
		}
		if err := tx.Create(hire).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		entry.Hires = append(entry.Hires, *hire)
		return s.recompute(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateHire changes a recorded hire and recomputes the budgeted income in
// one transaction.
func (s *capacityService) UpdateHire(budgetID, productID, hireID uint, hireMonth, hireCount int) (*models.CapacityEntry, error) {
	if hireMonth < 1 || hireMonth > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire month must be between 1 and 12")
	}
	if hireCount < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hire count must be at least 1")
	}

	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, h := range entry.Hires {
		if h.ID == hireID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrHireNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry.Hires[idx].HireMonth = hireMonth
		entry.Hires[idx].HireCount = hireCount
		if err := tx.Save(&entry.Hires[idx]).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recompute(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveHire deletes a recorded hire and recomputes the budgeted income in
// one transaction.
func (s *capacityService) RemoveHire(budgetID, productID, hireID uint) (*models.CapacityEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, h := range entry.Hires {
		if h.ID == hireID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrHireNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CapacityHire{}, hireID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		entry.Hires = append(entry.Hires[:idx], entry.Hires[idx+1:]...)
		return s.recompute(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// recompute derives budgeted income from the entry's current state and
// persists it. Income = available hours x weighted headcount x avg hourly
// price x billable fraction.
func (s *capacityService) recompute(tx *gorm.DB, entry *models.CapacityEntry) error {
	var budget models.Budget
	if err := tx.First(&budget, entry.BudgetID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hours, err := s.availableHours(tx, budget.Year)
	if err != nil {
		return err
	}

	income := hours * entry.WeightedHeadcount() * entry.NextYearAvgPrice * entry.NextYearBillablePct / 100
	entry.BudgetedIncome = float64Ptr(round2(income))

	if err := tx.Save(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AvailableHours returns the working hours in a budget year: calendar days
// minus weekends minus weekday public holidays, times hours per day. The
// value is shared by every capacity entry of that budget.
func (s *capacityService) AvailableHours(year int) (float64, error) {
	return s.availableHours(s.db, year)
}

func (s *capacityService) availableHours(tx *gorm.DB, year int) (float64, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	workingDays := 0
	for d := yearStart; d.Before(yearEnd); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			workingDays++
		}
	}

	var holidays []models.PublicHoliday
	err := tx.Where("date >= ? AND date < ?", yearStart, yearEnd).Find(&holidays).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// A holiday on a weekend is already a non-working day; don't subtract it twice.
	seen := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		key := h.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		if wd := h.Date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			workingDays--
		}
	}

	return float64(workingDays) * s.hoursPerDay, nil
}
