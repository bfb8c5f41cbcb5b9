package testutil_test

import (
	"testing"

	"planbook/internal/errors"
	"planbook/internal/models"
	"planbook/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"users", "products", "employees", "expense_categories", "contracts",
		"budgets", "growth_entries", "capacity_entries", "collection_entries",
		"result_entries", "personnel_entries", "expense_entries", "audit_logs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	product := testutil.CreateTestProduct(t, db)
	if !product.IsActive {
		t.Error("expected product to be active")
	}

	employee := testutil.CreateTestEmployee(t, db, 50000)
	if employee.BaseSalary != 50000 {
		t.Errorf("expected base salary 50000, got %f", employee.BaseSalary)
	}

	budget := testutil.CreateTestBudget(t, db)
	if budget.Status != models.BudgetStatusDraft {
		t.Errorf("expected draft budget, got %s", budget.Status)
	}

	other := testutil.CreateTestBudget(t, db)
	if other.Year == budget.Year {
		t.Error("expected unique budget years across fixtures")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
