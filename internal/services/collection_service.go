package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// patternShareTolerance is the rounding slack allowed when checking that an
// entry's pattern shares sum to 100 percent of contract value.
const patternShareTolerance = 0.01

// collectionService handles payment-pattern cash-flow forecasting.
type collectionService struct {
	db *gorm.DB
}

// NewCollectionService creates a new CollectionServicer.
func NewCollectionService(db *gorm.DB) CollectionServicer {
	return &collectionService{db: db}
}

// GetEntry returns the collection entry for a budget/product pair, with
// patterns.
func (s *collectionService) GetEntry(budgetID, productID uint) (*models.CollectionEntry, error) {
	var entry models.CollectionEntry
	err := s.db.Preload("Product").Preload("Patterns").
		Where("budget_id = ? AND product_id = ?", budgetID, productID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCollectionEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all collection entries for a budget.
func (s *collectionService) ListEntries(budgetID uint) ([]models.CollectionEntry, error) {
	var entries []models.CollectionEntry
	err := s.db.Preload("Product").Preload("Patterns").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// UpdateEntry applies field updates and recomputes the derived metrics from
// the entry's new state in one transaction. Setting
// ProjectedCollectionMonths overrides the pattern-derived projection.
func (s *collectionService) UpdateEntry(budgetID, productID uint, input UpdateCollectionInput) (*models.CollectionEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	if input.BeginningBalance != nil {
		entry.BeginningBalance = *input.BeginningBalance
	}
	if input.EndBalance != nil {
		entry.EndBalance = *input.EndBalance
	}
	if input.AvgBalance != nil {
		entry.AvgBalance = *input.AvgBalance
	}
	if input.AvgContractPerMonth != nil {
		entry.AvgContractPerMonth = *input.AvgContractPerMonth
	}
	if input.AvgPaymentPerMonth != nil {
		entry.AvgPaymentPerMonth = *input.AvgPaymentPerMonth
	}
	if input.LastYearCollectionMonths != nil {
		entry.LastYearCollectionMonths = input.LastYearCollectionMonths
	}
	if input.ProjectedCollectionMonths != nil {
		entry.ProjectedCollectionMonths = input.ProjectedCollectionMonths
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.recompute(tx, entry, false)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// AddPattern adds a payment pattern and recomputes the derived metrics in
// one transaction.
func (s *collectionService) AddPattern(budgetID, productID uint, input PatternInput) (*models.CollectionEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		pattern := patternFromInput(entry.ID, input)
		if err := tx.Create(pattern).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		entry.Patterns = append(entry.Patterns, *pattern)
		return s.recompute(tx, entry, true)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdatePattern changes a payment pattern and recomputes the derived metrics
// in one transaction.
func (s *collectionService) UpdatePattern(budgetID, productID, patternID uint, input PatternInput) (*models.CollectionEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range entry.Patterns {
		if p.ID == patternID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrPatternNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updated := patternFromInput(entry.ID, input)
		updated.Base = entry.Patterns[idx].Base
		entry.Patterns[idx] = *updated
		if err := tx.Save(&entry.Patterns[idx]).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recompute(tx, entry, true)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemovePattern deletes a payment pattern and recomputes the derived metrics
// in one transaction.
func (s *collectionService) RemovePattern(budgetID, productID, patternID uint) (*models.CollectionEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range entry.Patterns {
		if p.ID == patternID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrPatternNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CollectionPattern{}, patternID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		entry.Patterns = append(entry.Patterns[:idx], entry.Patterns[idx+1:]...)
		return s.recompute(tx, entry, true)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ValidatePatterns checks that the entry's pattern shares cover 100 percent
// of contract value. The check is advisory: finalization readiness reads it,
// but writes are never blocked on it.
func (s *collectionService) ValidatePatterns(budgetID, productID uint) (*PatternValidation, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}
	return validatePatternShares(entry), nil
}

func validatePatternShares(entry *models.CollectionEntry) *PatternValidation {
	var sum float64
	for _, p := range entry.Patterns {
		sum += p.ContractPercentage
	}
	diff := sum - 100
	return &PatternValidation{
		Valid: diff <= patternShareTolerance && diff >= -patternShareTolerance,
		Sum:   round2(sum),
	}
}

// recompute derives the collection-months metrics and budgeted income from
// the entry's current pattern mix and persists them. Pattern mutations reset
// the projected months to the pattern-derived value; an explicit projection
// set through UpdateEntry survives plain field updates.
func (s *collectionService) recompute(tx *gorm.DB, entry *models.CollectionEntry, resetProjection bool) error {
	months := entry.CombinedCollectionMonths()
	entry.BudgetedCollectionMonths = float64Ptr(months)

	if resetProjection || entry.ProjectedCollectionMonths == nil {
		entry.ProjectedCollectionMonths = float64Ptr(months)
	}

	projected := 0.0
	if entry.ProjectedCollectionMonths != nil {
		projected = *entry.ProjectedCollectionMonths
	}
	entry.BudgetedIncome = float64Ptr(round2(entry.AnnualizedIncome(projected)))

	if err := tx.Save(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func patternFromInput(entryID uint, input PatternInput) *models.CollectionPattern {
	m := input.MonthlyPercentages
	return &models.CollectionPattern{
		CollectionEntryID:  entryID,
		Name:               input.Name,
		ContractPercentage: input.ContractPercentage,
		Month1:             m[0],
		Month2:             m[1],
		Month3:             m[2],
		Month4:             m[3],
		Month5:             m[4],
		Month6:             m[5],
		Month7:             m[6],
		Month8:             m[7],
		Month9:             m[8],
		Month10:            m[9],
		Month11:            m[10],
		Month12:            m[11],
	}
}
