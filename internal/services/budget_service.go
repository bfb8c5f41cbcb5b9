package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
	"planbook/internal/pagination"
	"planbook/internal/trendline"
)

// budgetService owns the budget aggregate: creation with bulk entry seeding,
// lookups and the budget-level increase setters.
type budgetService struct {
	db                 *gorm.DB
	growth             GrowthServicer
	expense            ExpenseServicer
	defaultIncreasePct float64
}

// NewBudgetService creates a new BudgetServicer. The growth service supplies
// historical income for seeding, the expense service classifies categories.
func NewBudgetService(db *gorm.DB, growth GrowthServicer, expense ExpenseServicer, defaultIncreasePct float64) BudgetServicer {
	return &budgetService{
		db:                 db,
		growth:             growth,
		expense:            expense,
		defaultIncreasePct: defaultIncreasePct,
	}
}

// CreateBudget creates the budget for a year and seeds every entry collection
// in one transaction: growth, capacity, collection and result entries per
// active product, personnel entries per active employee, expense entries per
// active category. A budget year is unique.
func (s *budgetService) CreateBudget(year int) (*models.Budget, error) {
	var count int64
	if err := s.db.Model(&models.Budget{}).Where("year = ?", year).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudgetYear
	}

	var products []models.Product
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var employees []models.Employee
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&employees).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var categories []models.ExpenseCategory
	err := s.db.Preload("Parent").Where("is_active = ?", true).Order("id").Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Historical incomes come from paid contract payments, read before the
	// write transaction opens.
	histories := make(map[uint][3]*float64, len(products))
	for _, p := range products {
		var history [3]*float64
		for i, y := range []int{year - 3, year - 2, year - 1} {
			income, err := s.growth.IncomeForProduct(p.ID, y)
			if err != nil {
				return nil, err
			}
			if income != 0 {
				history[i] = float64Ptr(income)
			}
		}
		histories[p.ID] = history
	}

	budget := &models.Budget{
		Year:            year,
		Status:          models.BudgetStatusDraft,
		OpexIncreasePct: s.defaultIncreasePct,
		TaxIncreasePct:  s.defaultIncreasePct,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for _, p := range products {
			if err := s.seedProductEntries(tx, budget.ID, p.ID, histories[p.ID]); err != nil {
				return err
			}
		}
		for _, e := range employees {
			if err := s.seedPersonnelEntry(tx, budget, &e); err != nil {
				return err
			}
		}
		for i := range categories {
			if err := s.seedExpenseEntry(tx, budget, &categories[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// seedProductEntries creates the four per-product entries. The growth entry
// starts on a linear trendline projected over the seeded history.
func (s *budgetService) seedProductEntries(tx *gorm.DB, budgetID, productID uint, history [3]*float64) error {
	growth := &models.GrowthEntry{
		BudgetID:      budgetID,
		ProductID:     productID,
		YearMinus3:    history[0],
		YearMinus2:    history[1],
		YearMinus1:    history[2],
		TrendlineType: models.TrendlineTypeLinear,
	}
	if points := growth.HistoricalValues(); len(points) > 0 {
		method, err := trendline.Parse(string(growth.TrendlineType), nil)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrUnsupportedTrendline, err.Error())
		}
		growth.BudgetedValue = float64Ptr(round2(method.Project(points)))
	}
	if err := tx.Create(growth).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	capacity := &models.CapacityEntry{BudgetID: budgetID, ProductID: productID}
	if err := tx.Create(capacity).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	collection := &models.CollectionEntry{BudgetID: budgetID, ProductID: productID}
	if err := tx.Create(collection).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &models.ResultEntry{
		BudgetID:    budgetID,
		ProductID:   productID,
		GrowthValue: growth.BudgetedValue,
	}
	if err := tx.Create(result).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// seedPersonnelEntry creates an employee's entry with the salary effective at
// the budget year's start, falling back to the base salary when no history
// row applies.
func (s *budgetService) seedPersonnelEntry(tx *gorm.DB, budget *models.Budget, employee *models.Employee) error {
	yearStart := time.Date(budget.Year, time.January, 1, 0, 0, 0, 0, time.UTC)

	salary := employee.BaseSalary
	var history models.SalaryHistory
	err := tx.Where("employee_id = ? AND effective_date <= ?", employee.ID, yearStart).
		Order("effective_date DESC").
		First(&history).Error
	switch {
	case err == nil:
		salary = history.Salary
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.PersonnelEntry{
		BudgetID:      budget.ID,
		EmployeeID:    employee.ID,
		CurrentSalary: salary,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// seedExpenseEntry creates a category's entry classified by type. OpEx and
// tax entries start on the budget's default increase percentages; capital
// expenditure has no sensible automatic driver and starts unplanned.
func (s *budgetService) seedExpenseEntry(tx *gorm.DB, budget *models.Budget, category *models.ExpenseCategory) error {
	entry := &models.ExpenseEntry{
		BudgetID:   budget.ID,
		CategoryID: category.ID,
		Type:       s.expense.ClassifyCategory(category),
	}

	switch entry.Type {
	case models.ExpenseTypeOpex:
		entry.IncreasePct = float64Ptr(budget.OpexIncreasePct)
	case models.ExpenseTypeTax:
		entry.IncreasePct = float64Ptr(budget.TaxIncreasePct)
	}
	if total := entry.ComputeProposedTotal(); total != nil {
		entry.ProposedTotal = float64Ptr(round2(*total))
	}

	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetByYear returns a budget by its fiscal year.
func (s *budgetService) GetBudgetByYear(year int) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("year = ?", year).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ListBudgets returns budgets newest year first, paginated.
func (s *budgetService) ListBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Budget{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	err := s.db.Order("year DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(budgets, page.Page, page.PageSize, total)
	return &resp, nil
}

// SetOpexIncreasePct updates the budget-level OpEx increase and cascades it
// to every OpEx entry still on the percentage driver, in one transaction.
func (s *budgetService) SetOpexIncreasePct(budgetID uint, pct float64) (*models.Budget, error) {
	return s.setIncreasePct(budgetID, pct, models.ExpenseTypeOpex)
}

// SetTaxIncreasePct updates the budget-level tax increase and cascades it to
// every tax entry still on the percentage driver, in one transaction.
func (s *budgetService) SetTaxIncreasePct(budgetID uint, pct float64) (*models.Budget, error) {
	return s.setIncreasePct(budgetID, pct, models.ExpenseTypeTax)
}

func (s *budgetService) setIncreasePct(budgetID uint, pct float64, expenseType models.ExpenseType) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch expenseType {
		case models.ExpenseTypeOpex:
			budget.OpexIncreasePct = pct
		case models.ExpenseTypeTax:
			budget.TaxIncreasePct = pct
		}
		if err := tx.Save(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var entries []models.ExpenseEntry
		err := tx.Where("budget_id = ? AND type = ? AND is_override = ?", budgetID, expenseType, false).
			Find(&entries).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range entries {
			entries[i].IncreasePct = float64Ptr(pct)
			if total := entries[i].ComputeProposedTotal(); total != nil {
				entries[i].ProposedTotal = float64Ptr(round2(*total))
			} else {
				entries[i].ProposedTotal = nil
			}
			if err := tx.Save(&entries[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}
