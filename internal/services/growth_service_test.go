package services

import (
	"testing"

	"planbook/internal/models"
	"planbook/internal/testutil"
)

func TestGrowthUpdateEntry(t *testing.T) {
	t.Run("linear_projection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		y3, y2, y1 := 10.0, 20.0, 30.0
		testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, &y3, &y2, &y1)

		entry, err := svc.Project(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.BudgetedValue, 40, 0.001)
	})

	t.Run("update_reprojects", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		y2, y1 := 100.0, 200.0
		testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, &y2, &y1)

		newY1 := 300.0
		entry, err := svc.UpdateEntry(budget.ID, product.ID, UpdateGrowthInput{YearMinus1: &newY1})
		testutil.AssertNoError(t, err)
		// Two points 100, 300 extend linearly to 500.
		testutil.AssertFloatPtr(t, entry.BudgetedValue, 500, 0.001)
	})

	t.Run("no_history_clears_projection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)

		entry, err := svc.Project(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		if entry.BudgetedValue != nil {
			t.Errorf("expected nil budgeted value, got %v", *entry.BudgetedValue)
		}
	})

	t.Run("polynomial_order_three_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		y3, y2, y1 := 10.0, 20.0, 30.0
		testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, &y3, &y2, &y1)

		trend := models.TrendlineTypePolynomial
		order := 3
		_, err := svc.UpdateEntry(budget.ID, product.ID, UpdateGrowthInput{
			TrendlineType:   &trend,
			PolynomialOrder: &order,
		})
		testutil.AssertAppError(t, err, "UNSUPPORTED_TRENDLINE")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		budget := testutil.CreateTestBudget(t, db)

		_, err := svc.GetEntry(budget.ID, 999999)
		testutil.AssertAppError(t, err, "GROWTH_ENTRY_NOT_FOUND")
	})
}

func TestIncomeForProduct(t *testing.T) {
	t.Run("percentage_allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		product := testutil.CreateTestProduct(t, db)
		other := testutil.CreateTestProduct(t, db)

		contract := testutil.CreateTestContract(t, db, 10000, []uint{product.ID, other.ID}, 4000, 2030)
		err := db.Model(&models.ContractProduct{}).
			Where("contract_id = ? AND product_id = ?", contract.ID, product.ID).
			Update("allocation_percentage", 25).Error
		testutil.AssertNoError(t, err)

		income, err := svc.IncomeForProduct(product.ID, 2030)
		testutil.AssertNoError(t, err)
		if income != 1000 {
			t.Errorf("expected 1000, got %f", income)
		}
	})

	t.Run("amount_allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		product := testutil.CreateTestProduct(t, db)
		other := testutil.CreateTestProduct(t, db)

		contract := testutil.CreateTestContract(t, db, 10000, []uint{product.ID, other.ID}, 5000, 2031)
		err := db.Model(&models.ContractProduct{}).
			Where("contract_id = ? AND product_id = ?", contract.ID, product.ID).
			Update("allocation_amount", 2000).Error
		testutil.AssertNoError(t, err)

		// 2000 of 10000 contract value: 20% of the 5000 paid.
		income, err := svc.IncomeForProduct(product.ID, 2031)
		testutil.AssertNoError(t, err)
		if income != 1000 {
			t.Errorf("expected 1000, got %f", income)
		}
	})

	t.Run("equal_split_fallback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		product := testutil.CreateTestProduct(t, db)
		other := testutil.CreateTestProduct(t, db)

		testutil.CreateTestContract(t, db, 10000, []uint{product.ID, other.ID}, 6000, 2032)

		income, err := svc.IncomeForProduct(product.ID, 2032)
		testutil.AssertNoError(t, err)
		if income != 3000 {
			t.Errorf("expected 3000, got %f", income)
		}
	})

	t.Run("ignores_pending_and_other_years", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGrowthService(db)
		product := testutil.CreateTestProduct(t, db)

		contract := testutil.CreateTestContract(t, db, 10000, []uint{product.ID}, 4000, 2033)
		pending := &models.ContractPayment{
			ContractID: contract.ID,
			Amount:     9999,
			Status:     models.PaymentStatusPending,
		}
		testutil.AssertNoError(t, db.Create(pending).Error)

		income, err := svc.IncomeForProduct(product.ID, 2033)
		testutil.AssertNoError(t, err)
		if income != 4000 {
			t.Errorf("expected 4000, got %f", income)
		}

		income, err = svc.IncomeForProduct(product.ID, 2034)
		testutil.AssertNoError(t, err)
		if income != 0 {
			t.Errorf("expected 0 for a year with no payments, got %f", income)
		}
	})
}
