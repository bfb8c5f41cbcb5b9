package services

import (
	"testing"

	"planbook/internal/testutil"
)

func TestPersonnelUpdateEntry(t *testing.T) {
	t.Run("derives_increase_pct", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 50000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 50000)

		proposed := 55000.0
		entry, err := svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{ProposedSalary: &proposed})
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.IncreasePct, 10, 0.001)
	})

	t.Run("new_hire_keeps_hire_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 48000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 48000)

		isNew := true
		month := 4
		entry, err := svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{IsNewHire: &isNew, HireMonth: &month})
		testutil.AssertNoError(t, err)
		if entry.HireMonth == nil || *entry.HireMonth != 4 {
			t.Errorf("expected hire month 4, got %v", entry.HireMonth)
		}

		// Clearing the new-hire flag clears the hire month with it.
		isNew = false
		entry, err = svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{IsNewHire: &isNew})
		testutil.AssertNoError(t, err)
		if entry.HireMonth != nil {
			t.Errorf("expected nil hire month, got %v", *entry.HireMonth)
		}
	})

	t.Run("hire_month_requires_new_hire_flag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 48000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 48000)

		month := 4
		_, err := svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{HireMonth: &month})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		// Clearing the flag in the same call is rejected the same way.
		isNew := true
		_, err = svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{IsNewHire: &isNew, HireMonth: &month})
		testutil.AssertNoError(t, err)
		isNew = false
		_, err = svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{IsNewHire: &isNew, HireMonth: &month})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		entry, err := svc.GetEntry(budget.ID, employee.ID)
		testutil.AssertNoError(t, err)
		if entry.HireMonth == nil || *entry.HireMonth != 4 {
			t.Errorf("expected rejected update to leave hire month 4, got %v", entry.HireMonth)
		}
	})

	t.Run("invalid_hire_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 48000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 48000)

		month := 0
		_, err := svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{HireMonth: &month})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestSetAllocations(t *testing.T) {
	t.Run("valid_set_replaces", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 60000)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 60000)

		entry, err := svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
			{ProductID: &product.ID, Percentage: 70},
			{ProductID: nil, Percentage: 30},
		})
		testutil.AssertNoError(t, err)
		if len(entry.Allocations) != 2 {
			t.Fatalf("expected 2 allocations, got %d", len(entry.Allocations))
		}
		if !entry.HasValidAllocations() {
			t.Errorf("expected valid allocations, sum %f", entry.AllocationSum())
		}
	})

	t.Run("invalid_sum_preserves_prior_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 60000)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 60000)

		_, err := svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
			{ProductID: &product.ID, Percentage: 100},
		})
		testutil.AssertNoError(t, err)

		_, err = svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
			{ProductID: &product.ID, Percentage: 90},
		})
		testutil.AssertAppError(t, err, "ALLOCATION_SUM_INVALID")

		entry, err := svc.GetEntry(budget.ID, employee.ID)
		testutil.AssertNoError(t, err)
		if len(entry.Allocations) != 1 || entry.Allocations[0].Percentage != 100 {
			t.Errorf("expected prior allocation set to survive, got %+v", entry.Allocations)
		}
	})

	t.Run("unknown_product", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 60000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 60000)

		missing := uint(999999)
		_, err := svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
			{ProductID: &missing, Percentage: 100},
		})
		testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
	})

	t.Run("negative_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPersonnelService(db)
		budget := testutil.CreateTestBudget(t, db)
		employee := testutil.CreateTestEmployee(t, db, 60000)
		testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 60000)

		_, err := svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
			{ProductID: nil, Percentage: 110},
			{ProductID: nil, Percentage: -10},
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCostBreakdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPersonnelService(db)
	budget := testutil.CreateTestBudget(t, db)
	employee := testutil.CreateTestEmployee(t, db, 60000)
	product := testutil.CreateTestProduct(t, db)
	testutil.CreatePersonnelEntry(t, db, budget.ID, employee.ID, 60000)

	proposed := 66000.0
	_, err := svc.UpdateEntry(budget.ID, employee.ID, UpdatePersonnelInput{ProposedSalary: &proposed})
	testutil.AssertNoError(t, err)

	_, err = svc.SetAllocations(budget.ID, employee.ID, []AllocationInput{
		{ProductID: &product.ID, Percentage: 75},
		{ProductID: nil, Percentage: 25},
	})
	testutil.AssertNoError(t, err)

	breakdown, err := svc.CostBreakdown(budget.ID, employee.ID)
	testutil.AssertNoError(t, err)
	if breakdown.EffectiveSalary != 66000 {
		t.Errorf("expected effective salary 66000, got %f", breakdown.EffectiveSalary)
	}
	if len(breakdown.ProductCosts) != 1 || breakdown.ProductCosts[0].Cost != 49500 {
		t.Errorf("expected product cost 49500, got %+v", breakdown.ProductCosts)
	}
	if breakdown.GeneralCost != 16500 {
		t.Errorf("expected general cost 16500, got %f", breakdown.GeneralCost)
	}
}
