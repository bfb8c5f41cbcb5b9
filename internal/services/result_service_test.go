package services

import (
	"testing"

	"planbook/internal/models"
	"planbook/internal/testutil"
)

func TestResultRecompute(t *testing.T) {
	t.Run("pulls_method_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		growth := testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 100).Error)
		collection := testutil.CreateCollectionEntry(t, db, budget.ID, product.ID, 0)
		testutil.AssertNoError(t, db.Model(collection).Update("budgeted_income", 200).Error)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		entry, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.GrowthValue, 100, 0.001)
		testutil.AssertFloatPtr(t, entry.CollectionValue, 200, 0.001)
		if entry.CapacityValue != nil {
			t.Errorf("expected nil capacity value, got %v", *entry.CapacityValue)
		}
		// Average excludes the method without a value: (100+200)/2.
		testutil.AssertFloatPtr(t, entry.AverageValue, 150, 0.001)
	})

	t.Run("no_values_means_nil_average", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		entry, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		if entry.AverageValue != nil {
			t.Errorf("expected nil average, got %v", *entry.AverageValue)
		}
	})

	t.Run("keeps_final_value_until_reselection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		growth := testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 100).Error)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		_, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodGrowth, nil)
		testutil.AssertNoError(t, err)

		// The method value refreshes but the approved final stands.
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 140).Error)
		entry, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.GrowthValue, 140, 0.001)
		testutil.AssertFloatPtr(t, entry.FinalValue, 100, 0.001)

		// An explicit re-selection picks up the refreshed value.
		entry, err = svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodGrowth, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.FinalValue, 140, 0.001)
	})
}

func TestSelectFinal(t *testing.T) {
	t.Run("selects_method_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		growth := testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 100).Error)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)
		_, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)

		entry, err := svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodGrowth, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.FinalValue, 100, 0.001)
		if entry.FinalMethod == nil || *entry.FinalMethod != models.ForecastMethodGrowth {
			t.Errorf("expected growth final method, got %v", entry.FinalMethod)
		}
	})

	t.Run("missing_method_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		_, err := svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodCapacity, nil)
		testutil.AssertAppError(t, err, "METHOD_VALUE_MISSING")
	})

	t.Run("custom_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		custom := 12345.678
		entry, err := svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodCustom, &custom)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.FinalValue, 12345.68, 0.001)
	})

	t.Run("custom_requires_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)

		_, err := svc.SelectFinal(budget.ID, product.ID, models.ForecastMethodCustom, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVarianceAnalysis(t *testing.T) {
	t.Run("compares_extremes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		growth := testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 80).Error)
		collection := testutil.CreateCollectionEntry(t, db, budget.ID, product.ID, 0)
		testutil.AssertNoError(t, db.Model(collection).Update("budgeted_income", 100).Error)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)
		_, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)

		report, err := svc.VarianceAnalysis(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		if report.HighMethod != models.ForecastMethodCollection {
			t.Errorf("expected collection high, got %s", report.HighMethod)
		}
		if report.LowMethod != models.ForecastMethodGrowth {
			t.Errorf("expected growth low, got %s", report.LowMethod)
		}
		if report.Difference != 20 {
			t.Errorf("expected difference 20, got %f", report.Difference)
		}
		if report.PercentDifference != 20 {
			t.Errorf("expected percent difference 20, got %f", report.PercentDifference)
		}
	})

	t.Run("fewer_than_two_methods", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewResultService(db)
		budget := testutil.CreateTestBudget(t, db)
		product := testutil.CreateTestProduct(t, db)

		growth := testutil.CreateGrowthEntry(t, db, budget.ID, product.ID, nil, nil, nil)
		testutil.AssertNoError(t, db.Model(growth).Update("budgeted_value", 80).Error)
		testutil.CreateResultEntry(t, db, budget.ID, product.ID)
		_, err := svc.Recompute(budget.ID, product.ID)
		testutil.AssertNoError(t, err)

		report, err := svc.VarianceAnalysis(budget.ID, product.ID)
		testutil.AssertNoError(t, err)
		if report.HighMethod != "" {
			t.Errorf("expected empty report, got high method %s", report.HighMethod)
		}
	})
}
