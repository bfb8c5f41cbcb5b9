package services

import (
	"testing"
	"time"

	"planbook/internal/testutil"
)

func TestAvailableHours(t *testing.T) {
	t.Run("weekdays_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)

		// 2026 starts on a Thursday and has 261 weekdays.
		hours, err := svc.AvailableHours(2026)
		testutil.AssertNoError(t, err)
		if hours != 261*8 {
			t.Errorf("expected %d hours, got %f", 261*8, hours)
		}
	})

	t.Run("weekday_holiday_subtracted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)

		// Friday 2027-01-01 is a working day; 2027 has 261 weekdays.
		testutil.CreateTestHoliday(t, db, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

		hours, err := svc.AvailableHours(2027)
		testutil.AssertNoError(t, err)
		if hours != 260*8 {
			t.Errorf("expected %d hours, got %f", 260*8, hours)
		}
	})

	t.Run("weekend_holiday_ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)

		// Saturday 2028-01-01 is already a non-working day.
		testutil.CreateTestHoliday(t, db, time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))

		hours, err := svc.AvailableHours(2028)
		testutil.AssertNoError(t, err)
		// 2028 is a leap year starting on a Saturday: 260 weekdays.
		if hours != 260*8 {
			t.Errorf("expected %d hours, got %f", 260*8, hours)
		}
	})
}

func TestCapacityUpdateEntry(t *testing.T) {
	t.Run("recomputes_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 0, 0, 0)

		headcount, price, billable := 6.0, 50.0, 80.0
		entry, err := svc.UpdateEntry(budget.ID, product.ID, UpdateCapacityInput{
			NextYearHeadcount:   &headcount,
			NextYearAvgPrice:    &price,
			NextYearBillablePct: &billable,
		})
		testutil.AssertNoError(t, err)

		hours, err := svc.AvailableHours(budget.Year)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.BudgetedIncome, hours*6*50*0.8, 0.01)
	})

	t.Run("zero_billable_means_zero_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 5, 100, 0)

		headcount := 5.0
		entry, err := svc.UpdateEntry(budget.ID, product.ID, UpdateCapacityInput{NextYearHeadcount: &headcount})
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.BudgetedIncome, 0, 0.001)
	})
}

func TestCapacityHires(t *testing.T) {
	t.Run("hire_raises_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 5, 50, 100)

		entry, err := svc.AddHire(budget.ID, product.ID, 7, 2)
		testutil.AssertNoError(t, err)

		hours, err := svc.AvailableHours(budget.Year)
		testutil.AssertNoError(t, err)
		// 5 base plus 2 hires working July onward: 5 + 2*6/12 = 6.
		testutil.AssertFloatPtr(t, entry.BudgetedIncome, hours*6*50, 0.01)
	})

	t.Run("remove_hire_recomputes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 5, 50, 100)

		entry, err := svc.AddHire(budget.ID, product.ID, 7, 2)
		testutil.AssertNoError(t, err)

		entry, err = svc.RemoveHire(budget.ID, product.ID, entry.Hires[0].ID)
		testutil.AssertNoError(t, err)

		hours, err := svc.AvailableHours(budget.Year)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.BudgetedIncome, hours*5*50, 0.01)
		if len(entry.Hires) != 0 {
			t.Errorf("expected no hires, got %d", len(entry.Hires))
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 5, 50, 100)

		_, err := svc.AddHire(budget.ID, product.ID, 13, 1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_hire", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCapacityService(db, 8)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateCapacityEntry(t, db, budget.ID, product.ID, 5, 50, 100)

		_, err := svc.RemoveHire(budget.ID, product.ID, 999999)
		testutil.AssertAppError(t, err, "HIRE_NOT_FOUND")
	})
}
