package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
	"planbook/internal/trendline"
)

// growthService handles trendline-based revenue projection.
type growthService struct {
	db *gorm.DB
}

// NewGrowthService creates a new GrowthServicer.
func NewGrowthService(db *gorm.DB) GrowthServicer {
	return &growthService{db: db}
}

// GetEntry returns the growth entry for a budget/product pair.
func (s *growthService) GetEntry(budgetID, productID uint) (*models.GrowthEntry, error) {
	var entry models.GrowthEntry
	err := s.db.Preload("Product").
		Where("budget_id = ? AND product_id = ?", budgetID, productID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGrowthEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all growth entries for a budget.
func (s *growthService) ListEntries(budgetID uint) ([]models.GrowthEntry, error) {
	var entries []models.GrowthEntry
	err := s.db.Preload("Product").
		Where("budget_id = ?", budgetID).
		Order("product_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// UpdateEntry applies field updates and reprojects the budgeted value from
// the entry's new state.
func (s *growthService) UpdateEntry(budgetID, productID uint, input UpdateGrowthInput) (*models.GrowthEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	if input.YearMinus3 != nil {
		entry.YearMinus3 = input.YearMinus3
	}
	if input.YearMinus2 != nil {
		entry.YearMinus2 = input.YearMinus2
	}
	if input.YearMinus1 != nil {
		entry.YearMinus1 = input.YearMinus1
	}
	if input.TrendlineType != nil {
		entry.TrendlineType = *input.TrendlineType
	}
	if input.PolynomialOrder != nil {
		entry.PolynomialOrder = input.PolynomialOrder
	}

	if err := s.project(entry); err != nil {
		return nil, err
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// Project recomputes and persists the entry's budgeted value from its
// current history and trendline type.
func (s *growthService) Project(budgetID, productID uint) (*models.GrowthEntry, error) {
	entry, err := s.GetEntry(budgetID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.project(entry); err != nil {
		return nil, err
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// project fits the entry's trendline over its historical values and stores
// the projection, without persisting.
func (s *growthService) project(entry *models.GrowthEntry) error {
	method, err := trendline.Parse(string(entry.TrendlineType), entry.PolynomialOrder)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrUnsupportedTrendline, err.Error())
	}

	points := entry.HistoricalValues()
	if len(points) == 0 {
		entry.BudgetedValue = nil
		return nil
	}

	entry.BudgetedValue = float64Ptr(round2(method.Project(points)))
	return nil
}

// IncomeForProduct derives a product's income for one calendar year from paid
// contract payments, apportioned per contract-product allocation rule:
// an explicit allocation percentage applies directly to each paid amount; an
// explicit allocation amount applies as its proportion of the contract total;
// otherwise paid amounts split equally across the contract's products.
func (s *growthService) IncomeForProduct(productID uint, year int) (float64, error) {
	var links []models.ContractProduct
	if err := s.db.Where("product_id = ?", productID).Find(&links).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var income float64
	for _, link := range links {
		var contract models.Contract
		if err := s.db.Preload("Products").First(&contract, link.ContractID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var paid float64
		err := s.db.Model(&models.ContractPayment{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("contract_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
				contract.ID, models.PaymentStatusPaid, yearStart, yearEnd).
			Scan(&paid).Error
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if paid == 0 {
			continue
		}

		income += apportion(paid, &link, &contract)
	}

	return round2(income), nil
}

// apportion returns the share of a paid amount attributable to one
// contract-product link.
func apportion(paid float64, link *models.ContractProduct, contract *models.Contract) float64 {
	if link.AllocationPercentage != nil {
		return paid * *link.AllocationPercentage / 100
	}
	if link.AllocationAmount != nil && contract.TotalValue > 0 {
		return paid * *link.AllocationAmount / contract.TotalValue
	}
	if n := len(contract.Products); n > 0 {
		return paid / float64(n)
	}
	return paid
}
