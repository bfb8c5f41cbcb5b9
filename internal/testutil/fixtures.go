package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"planbook/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run. The
// shared-cache in-memory database persists for the whole process, so every
// fixture with a uniqueness constraint draws from it.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NextYear returns a budget year no other fixture in this run has used.
func NextYear() int {
	return 2100 + int(nextID())
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProduct creates an active product with a unique code.
func CreateTestProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	n := nextID()
	product := &models.Product{
		Name:     fmt.Sprintf("Test Product %d", n),
		Code:     fmt.Sprintf("PRD%d", n),
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestEmployee creates an active employee with the given base salary.
func CreateTestEmployee(t *testing.T, db *gorm.DB, baseSalary float64) *models.Employee {
	t.Helper()

	n := nextID()
	employee := &models.Employee{
		FirstName:  "Test",
		LastName:   fmt.Sprintf("Employee %d", n),
		BaseSalary: baseSalary,
		IsActive:   true,
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("failed to create test employee: %v", err)
	}
	return employee
}

// CreateTestCategory creates an active expense category with the given name
// and type code.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, code models.ExpenseTypeCode) *models.ExpenseCategory {
	t.Helper()

	category := &models.ExpenseCategory{
		Name:            name,
		ExpenseTypeCode: code,
		IsActive:        true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates an active expense category under a parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, name string, parentID uint) *models.ExpenseCategory {
	t.Helper()

	category := &models.ExpenseCategory{
		Name:     name,
		ParentID: &parentID,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates a draft budget for a unique year.
func CreateTestBudget(t *testing.T, db *gorm.DB) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Year:            NextYear(),
		Status:          models.BudgetStatusDraft,
		OpexIncreasePct: models.DefaultIncreasePercentage,
		TaxIncreasePct:  models.DefaultIncreasePercentage,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestContract creates a contract covering the given products with a
// paid payment of the given amount in the given year.
func CreateTestContract(t *testing.T, db *gorm.DB, totalValue float64, productIDs []uint, paidAmount float64, year int) *models.Contract {
	t.Helper()

	contract := &models.Contract{
		Number:     fmt.Sprintf("CT-%d", nextID()),
		TotalValue: totalValue,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("failed to create test contract: %v", err)
	}

	for _, pid := range productIDs {
		link := &models.ContractProduct{ContractID: contract.ID, ProductID: pid}
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("failed to create test contract product: %v", err)
		}
	}

	paidAt := time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC)
	payment := &models.ContractPayment{
		ContractID: contract.ID,
		Amount:     paidAmount,
		Status:     models.PaymentStatusPaid,
		PaidAt:     &paidAt,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test contract payment: %v", err)
	}
	return contract
}

// CreateTestHoliday creates a public holiday on the given date.
func CreateTestHoliday(t *testing.T, db *gorm.DB, date time.Time) *models.PublicHoliday {
	t.Helper()

	holiday := &models.PublicHoliday{
		Name: fmt.Sprintf("Test Holiday %d", nextID()),
		Date: date,
	}
	if err := db.Create(holiday).Error; err != nil {
		t.Fatalf("failed to create test holiday: %v", err)
	}
	return holiday
}

// CreateGrowthEntry creates a growth entry with the given history.
func CreateGrowthEntry(t *testing.T, db *gorm.DB, budgetID, productID uint, y3, y2, y1 *float64) *models.GrowthEntry {
	t.Helper()

	entry := &models.GrowthEntry{
		BudgetID:      budgetID,
		ProductID:     productID,
		YearMinus3:    y3,
		YearMinus2:    y2,
		YearMinus1:    y1,
		TrendlineType: models.TrendlineTypeLinear,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create growth entry: %v", err)
	}
	return entry
}

// CreateCapacityEntry creates a capacity entry with the given next-year
// planning inputs.
func CreateCapacityEntry(t *testing.T, db *gorm.DB, budgetID, productID uint, headcount, avgPrice, billablePct float64) *models.CapacityEntry {
	t.Helper()

	entry := &models.CapacityEntry{
		BudgetID:            budgetID,
		ProductID:           productID,
		NextYearHeadcount:   headcount,
		NextYearAvgPrice:    avgPrice,
		NextYearBillablePct: billablePct,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create capacity entry: %v", err)
	}
	return entry
}

// CreateCollectionEntry creates a collection entry with the given end balance.
func CreateCollectionEntry(t *testing.T, db *gorm.DB, budgetID, productID uint, endBalance float64) *models.CollectionEntry {
	t.Helper()

	entry := &models.CollectionEntry{
		BudgetID:   budgetID,
		ProductID:  productID,
		EndBalance: endBalance,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create collection entry: %v", err)
	}
	return entry
}

// CreateResultEntry creates an empty result entry for a budget/product pair.
func CreateResultEntry(t *testing.T, db *gorm.DB, budgetID, productID uint) *models.ResultEntry {
	t.Helper()

	entry := &models.ResultEntry{BudgetID: budgetID, ProductID: productID}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create result entry: %v", err)
	}
	return entry
}

// CreatePersonnelEntry creates a personnel entry with the given current
// salary.
func CreatePersonnelEntry(t *testing.T, db *gorm.DB, budgetID, employeeID uint, currentSalary float64) *models.PersonnelEntry {
	t.Helper()

	entry := &models.PersonnelEntry{
		BudgetID:      budgetID,
		EmployeeID:    employeeID,
		CurrentSalary: currentSalary,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create personnel entry: %v", err)
	}
	return entry
}

// CreateExpenseEntry creates an expense entry with the given type and last
// year's total.
func CreateExpenseEntry(t *testing.T, db *gorm.DB, budgetID, categoryID uint, expenseType models.ExpenseType, lastYearTotal float64) *models.ExpenseEntry {
	t.Helper()

	entry := &models.ExpenseEntry{
		BudgetID:      budgetID,
		CategoryID:    categoryID,
		Type:          expenseType,
		LastYearTotal: lastYearTotal,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create expense entry: %v", err)
	}
	return entry
}
