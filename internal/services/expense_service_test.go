package services

import (
	"testing"

	"planbook/internal/models"
	"planbook/internal/testutil"
)

func TestClassifyCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)

	cases := []struct {
		name     string
		category models.ExpenseCategory
		want     models.ExpenseType
	}{
		{"opex_code", models.ExpenseCategory{Name: "Office Rent", ExpenseTypeCode: models.ExpenseTypeCodeOpex}, models.ExpenseTypeOpex},
		{"tax_code", models.ExpenseCategory{Name: "Corporate Levies", ExpenseTypeCode: models.ExpenseTypeCodeTax}, models.ExpenseTypeTax},
		{"capex_code", models.ExpenseCategory{Name: "Server Hardware", ExpenseTypeCode: models.ExpenseTypeCodeCapex}, models.ExpenseTypeCapex},
		{"no_code_defaults_opex", models.ExpenseCategory{Name: "Miscellaneous"}, models.ExpenseTypeOpex},
		// A tax keyword in the name wins over an explicit OpEx code.
		{"keyword_beats_opex_code", models.ExpenseCategory{Name: "VAT Payable", ExpenseTypeCode: models.ExpenseTypeCodeOpex}, models.ExpenseTypeTax},
		// The keyword scan applies only to opex-coded and uncoded categories.
		{"capex_code_beats_keyword", models.ExpenseCategory{Name: "Tax Software Licenses", ExpenseTypeCode: models.ExpenseTypeCodeCapex}, models.ExpenseTypeCapex},
		{"parent_capex_code_beats_keyword", models.ExpenseCategory{Name: "Withholding Terminals", Parent: &models.ExpenseCategory{Name: "Equipment", ExpenseTypeCode: models.ExpenseTypeCodeCapex}}, models.ExpenseTypeCapex},
		{"withholding_keyword", models.ExpenseCategory{Name: "Withholding Remittance"}, models.ExpenseTypeTax},
		{"parent_keyword", models.ExpenseCategory{Name: "Quarterly Filing", Parent: &models.ExpenseCategory{Name: "Income Tax"}}, models.ExpenseTypeTax},
		{"parent_code_inherited", models.ExpenseCategory{Name: "Workstations", Parent: &models.ExpenseCategory{Name: "Equipment", ExpenseTypeCode: models.ExpenseTypeCodeCapex}}, models.ExpenseTypeCapex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.ClassifyCategory(&tc.category); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestExpenseUpdateEntry(t *testing.T) {
	t.Run("percentage_driver", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Rent", models.ExpenseTypeCodeOpex)
		testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeOpex, 1000)

		pct := 10.0
		entry, err := svc.UpdateEntry(budget.ID, category.ID, UpdateExpenseInput{IncreasePct: &pct})
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.ProposedTotal, 1100, 0.001)
	})

	t.Run("override_driver", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Licences", models.ExpenseTypeCodeOpex)
		testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeOpex, 1000)

		amount := 2500.0
		override := true
		entry, err := svc.UpdateEntry(budget.ID, category.ID, UpdateExpenseInput{
			ProposedAmount: &amount,
			IsOverride:     &override,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.ProposedTotal, 2500, 0.001)

		// Dropping the override falls back to the percentage driver.
		pct := 20.0
		override = false
		entry, err = svc.UpdateEntry(budget.ID, category.ID, UpdateExpenseInput{
			IncreasePct: &pct,
			IsOverride:  &override,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertFloatPtr(t, entry.ProposedTotal, 1200, 0.001)
	})

	t.Run("missing_driver_clears_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		budget := testutil.CreateTestBudget(t, db)
		category := testutil.CreateTestCategory(t, db, "Machinery", models.ExpenseTypeCodeCapex)
		testutil.CreateExpenseEntry(t, db, budget.ID, category.ID, models.ExpenseTypeCapex, 1000)

		override := true
		entry, err := svc.UpdateEntry(budget.ID, category.ID, UpdateExpenseInput{IsOverride: &override})
		testutil.AssertNoError(t, err)
		if entry.ProposedTotal != nil {
			t.Errorf("expected nil proposed total, got %v", *entry.ProposedTotal)
		}
	})
}

func TestExpenseRollup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	budget := testutil.CreateTestBudget(t, db)

	parent := testutil.CreateTestCategory(t, db, "Facilities", models.ExpenseTypeCodeOpex)
	first := 1
	testutil.AssertNoError(t, db.Model(parent).Update("sort_order", first).Error)
	childA := testutil.CreateTestChildCategory(t, db, "Rent", parent.ID)
	childB := testutil.CreateTestChildCategory(t, db, "Utilities", parent.ID)
	standalone := testutil.CreateTestCategory(t, db, "Staff Welfare", models.ExpenseTypeCodeOpex)

	entryA := testutil.CreateExpenseEntry(t, db, budget.ID, childA.ID, models.ExpenseTypeOpex, 1000)
	testutil.AssertNoError(t, db.Model(entryA).Update("proposed_total", 1100).Error)
	testutil.CreateExpenseEntry(t, db, budget.ID, childB.ID, models.ExpenseTypeOpex, 500)
	testutil.CreateExpenseEntry(t, db, budget.ID, standalone.ID, models.ExpenseTypeOpex, 300)

	groups, err := svc.Rollup(budget.ID)
	testutil.AssertNoError(t, err)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// The parent with an explicit sort order comes first; the category with
	// no order sorts last.
	if groups[0].ParentCategoryName != "Facilities" {
		t.Errorf("expected Facilities first, got %s", groups[0].ParentCategoryName)
	}
	if len(groups[0].Entries) != 2 {
		t.Errorf("expected 2 entries under Facilities, got %d", len(groups[0].Entries))
	}
	// 1100 proposed plus the 500 last-year fallback.
	if groups[0].Total != 1600 {
		t.Errorf("expected Facilities total 1600, got %f", groups[0].Total)
	}
	if groups[1].ParentCategoryName != "Staff Welfare" {
		t.Errorf("expected Staff Welfare second, got %s", groups[1].ParentCategoryName)
	}
	if groups[1].Total != 300 {
		t.Errorf("expected Staff Welfare total 300, got %f", groups[1].Total)
	}
}
