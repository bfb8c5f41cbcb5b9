package services

import (
	"testing"
	"time"

	"planbook/internal/models"
	"planbook/internal/pagination"
	"planbook/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("seeds_all_entry_collections", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		expenseSvc := NewExpenseService(db)
		svc := NewBudgetService(db, NewGrowthService(db), expenseSvc, 10)

		product := testutil.CreateTestProduct(t, db)
		employee := testutil.CreateTestEmployee(t, db, 50000)
		category := testutil.CreateTestCategory(t, db, "Rent", models.ExpenseTypeCodeOpex)

		year := testutil.NextYear()
		budget, err := svc.CreateBudget(year)
		testutil.AssertNoError(t, err)
		if budget.Status != models.BudgetStatusDraft {
			t.Errorf("expected draft budget, got %s", budget.Status)
		}
		if budget.OpexIncreasePct != 10 || budget.TaxIncreasePct != 10 {
			t.Errorf("expected default increases, got %f/%f", budget.OpexIncreasePct, budget.TaxIncreasePct)
		}

		for _, model := range []interface{}{
			&models.GrowthEntry{}, &models.CapacityEntry{},
			&models.CollectionEntry{}, &models.ResultEntry{},
		} {
			var count int64
			err := db.Model(model).
				Where("budget_id = ? AND product_id = ?", budget.ID, product.ID).
				Count(&count).Error
			testutil.AssertNoError(t, err)
			if count != 1 {
				t.Errorf("expected one %T for the product, got %d", model, count)
			}
		}

		var personnel models.PersonnelEntry
		err = db.Where("budget_id = ? AND employee_id = ?", budget.ID, employee.ID).
			First(&personnel).Error
		testutil.AssertNoError(t, err)
		if personnel.CurrentSalary != 50000 {
			t.Errorf("expected seeded salary 50000, got %f", personnel.CurrentSalary)
		}

		var expense models.ExpenseEntry
		err = db.Where("budget_id = ? AND category_id = ?", budget.ID, category.ID).
			First(&expense).Error
		testutil.AssertNoError(t, err)
		if expense.Type != models.ExpenseTypeOpex {
			t.Errorf("expected opex entry, got %s", expense.Type)
		}
		testutil.AssertFloatPtr(t, expense.IncreasePct, 10, 0.001)
	})

	t.Run("seeds_growth_history_from_paid_payments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)

		product := testutil.CreateTestProduct(t, db)
		year := testutil.NextYear()
		testutil.CreateTestContract(t, db, 10000, []uint{product.ID}, 1000, year-3)
		testutil.CreateTestContract(t, db, 10000, []uint{product.ID}, 2000, year-2)
		testutil.CreateTestContract(t, db, 10000, []uint{product.ID}, 3000, year-1)

		budget, err := svc.CreateBudget(year)
		testutil.AssertNoError(t, err)

		var entry models.GrowthEntry
		err = db.Where("budget_id = ? AND product_id = ?", budget.ID, product.ID).
			First(&entry).Error
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.YearMinus3, 1000, 0.001)
		testutil.AssertFloatPtr(t, entry.YearMinus2, 2000, 0.001)
		testutil.AssertFloatPtr(t, entry.YearMinus1, 3000, 0.001)
		// Linear history 1000, 2000, 3000 extends to 4000.
		testutil.AssertFloatPtr(t, entry.BudgetedValue, 4000, 0.001)
	})

	t.Run("seeds_salary_from_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)

		employee := testutil.CreateTestEmployee(t, db, 50000)
		year := testutil.NextYear()
		raise := &models.SalaryHistory{
			EmployeeID:    employee.ID,
			Salary:        58000,
			EffectiveDate: time.Date(year-1, time.July, 1, 0, 0, 0, 0, time.UTC),
		}
		testutil.AssertNoError(t, db.Create(raise).Error)
		future := &models.SalaryHistory{
			EmployeeID:    employee.ID,
			Salary:        70000,
			EffectiveDate: time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
		}
		testutil.AssertNoError(t, db.Create(future).Error)

		budget, err := svc.CreateBudget(year)
		testutil.AssertNoError(t, err)

		var entry models.PersonnelEntry
		err = db.Where("budget_id = ? AND employee_id = ?", budget.ID, employee.ID).
			First(&entry).Error
		testutil.AssertNoError(t, err)
		// The raise after the budget year starts does not count yet.
		if entry.CurrentSalary != 58000 {
			t.Errorf("expected seeded salary 58000, got %f", entry.CurrentSalary)
		}
	})

	t.Run("duplicate_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)

		year := testutil.NextYear()
		_, err := svc.CreateBudget(year)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(year)
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET_YEAR")
	})

	t.Run("inactive_master_data_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)

		product := testutil.CreateTestProduct(t, db)
		testutil.AssertNoError(t, db.Model(product).Update("is_active", false).Error)

		budget, err := svc.CreateBudget(testutil.NextYear())
		testutil.AssertNoError(t, err)

		var count int64
		err = db.Model(&models.GrowthEntry{}).
			Where("budget_id = ? AND product_id = ?", budget.ID, product.ID).
			Count(&count).Error
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected no entries for inactive product, got %d", count)
		}
	})
}

func TestSetIncreasePct(t *testing.T) {
	t.Run("cascades_to_percentage_driven_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Rent", models.ExpenseTypeCodeOpex)
		entry := testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeOpex, 1000)

		updated, err := svc.SetOpexIncreasePct(budget.ID, 15)
		testutil.AssertNoError(t, err)
		if updated.OpexIncreasePct != 15 {
			t.Errorf("expected opex increase 15, got %f", updated.OpexIncreasePct)
		}

		testutil.AssertNoError(t, db.First(entry, entry.ID).Error)
		testutil.AssertFloatPtr(t, entry.IncreasePct, 15, 0.001)
		testutil.AssertFloatPtr(t, entry.ProposedTotal, 1150, 0.001)
	})

	t.Run("override_entries_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Levies", models.ExpenseTypeCodeTax)
		entry := testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeTax, 1000)
		testutil.AssertNoError(t, db.Model(entry).Updates(map[string]interface{}{
			"is_override":     true,
			"proposed_amount": 999,
			"proposed_total":  999,
		}).Error)

		_, err := svc.SetTaxIncreasePct(budget.ID, 25)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, db.First(entry, entry.ID).Error)
		testutil.AssertFloatPtr(t, entry.ProposedTotal, 999, 0.001)
	})

	t.Run("wrong_type_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Levies", models.ExpenseTypeCodeTax)
		entry := testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeTax, 1000)

		_, err := svc.SetOpexIncreasePct(budget.ID, 30)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, db.First(entry, entry.ID).Error)
		if entry.IncreasePct != nil {
			t.Errorf("expected tax entry untouched by opex cascade, got %v", *entry.IncreasePct)
		}
	})
}

func TestListBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db, NewGrowthService(db), NewExpenseService(db), 10)

	testutil.CreateTestBudget(t, db)
	testutil.CreateTestBudget(t, db)

	resp, err := svc.ListBudgets(pagination.PageRequest{Page: 1, PageSize: 20})
	testutil.AssertNoError(t, err)
	if resp.TotalItems < 2 {
		t.Fatalf("expected at least 2 budgets, got %d", resp.TotalItems)
	}
	// Newest year sorts first.
	if len(resp.Data) >= 2 && resp.Data[0].Year < resp.Data[1].Year {
		t.Errorf("expected descending years, got %d then %d", resp.Data[0].Year, resp.Data[1].Year)
	}
}
