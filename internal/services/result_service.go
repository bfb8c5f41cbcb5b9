package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// resultService consolidates the three forecasting methods per product and
// tracks the approved final value.
type resultService struct {
	db *gorm.DB
}

// NewResultService creates a new ResultServicer.
func NewResultService(db *gorm.DB) ResultServicer {
	return &resultService{db: db}
}

// GetEntry returns the result entry for a budget/product pair.
func (s *resultService) GetEntry(budgetID, productID uint) (*models.ResultEntry, error) {
	var entry models.ResultEntry
	err := s.db.Preload("Product").
		Where("budget_id = ? AND product_id = ?", budgetID, productID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResultEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all result entries for a budget.
func (s *resultService) ListEntries(budgetID uint) ([]models.ResultEntry, error) {
	var entries []models.ResultEntry
	err := s.db.Preload("Product").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// Recompute pulls the current budgeted values from the growth, capacity and
// collection entries into the result entry and refreshes the average. The
// final value is never touched; it changes only through SelectFinal.
func (s *resultService) Recompute(budgetID, productID uint) (*models.ResultEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.recompute(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecomputeAll refreshes every result entry of a budget in one transaction.
func (s *resultService) RecomputeAll(budgetID uint) ([]models.ResultEntry, error) {
	entries, err := s.ListEntries(budgetID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := s.recompute(tx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *resultService) recompute(tx *gorm.DB, entry *models.ResultEntry) error {
	entry.GrowthValue = nil
	entry.CapacityValue = nil
	entry.CollectionValue = nil

	var growth models.GrowthEntry
	err := tx.Where("budget_id = ? AND product_id = ?", entry.BudgetID, entry.ProductID).
		First(&growth).Error
	switch {
	case err == nil:
		entry.GrowthValue = growth.BudgetedValue
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var capacity models.CapacityEntry
	err = tx.Where("budget_id = ? AND product_id = ?", entry.BudgetID, entry.ProductID).
		First(&capacity).Error
	switch {
	case err == nil:
		entry.CapacityValue = capacity.BudgetedIncome
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var collection models.CollectionEntry
	err = tx.Where("budget_id = ? AND product_id = ?", entry.BudgetID, entry.ProductID).
		First(&collection).Error
	switch {
	case err == nil:
		entry.CollectionValue = collection.BudgetedIncome
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry.AverageValue = averageValue(entry)

	if err := tx.Save(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// averageValue returns the mean of the non-nil method values, or nil when no
// method has produced one.
func averageValue(entry *models.ResultEntry) *float64 {
	var sum float64
	var n int
	for _, v := range []*float64{entry.GrowthValue, entry.CapacityValue, entry.CollectionValue} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return float64Ptr(round2(sum / float64(n)))
}

// SelectFinal approves one method's value as the product's final budget
// figure. The custom method takes an explicit value; every other method must
// have a computed value to be selectable.
func (s *resultService) SelectFinal(budgetID, productID uint, method models.ForecastMethod, customValue *float64) (*models.ResultEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	switch method {
	case models.ForecastMethodCustom:
		if customValue == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom method requires a value")
		}
		entry.FinalValue = float64Ptr(round2(*customValue))
	case models.ForecastMethodGrowth, models.ForecastMethodCapacity,
		models.ForecastMethodCollection, models.ForecastMethodAverage:
		v := entry.MethodValue(method)
		if v == nil {
			return nil, apperrors.ErrMethodValueMissing
		}
		entry.FinalValue = float64Ptr(*v)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown forecast method")
	}

	m := method
	entry.FinalMethod = &m

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// VarianceAnalysis compares the highest and lowest valued of the three
// forecasting methods. The report is empty when fewer than two methods have
// computed values.
func (s *resultService) VarianceAnalysis(budgetID, productID uint) (*VarianceReport, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	type methodValue struct {
		method models.ForecastMethod
		value  float64
	}
	var values []methodValue
	for _, m := range []models.ForecastMethod{
		models.ForecastMethodGrowth,
		models.ForecastMethodCapacity,
		models.ForecastMethodCollection,
	} {
		if v := entry.MethodValue(m); v != nil {
			values = append(values, methodValue{method: m, value: *v})
		}
	}
	if len(values) < 2 {
		return &VarianceReport{}, nil
	}

	high, low := values[0], values[0]
	for _, mv := range values[1:] {
		if mv.value > high.value {
			high = mv
		}
		if mv.value < low.value {
			low = mv
		}
	}

	report := &VarianceReport{
		HighMethod: high.method,
		LowMethod:  low.method,
		HighValue:  high.value,
		LowValue:   low.value,
		Difference: round2(high.value - low.value),
	}
	if high.value != 0 {
		report.PercentDifference = round2((high.value - low.value) / high.value * 100)
	}
	return report, nil
}
