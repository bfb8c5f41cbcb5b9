package services

import (
	"planbook/internal/models"
	"planbook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// BudgetServicer defines the contract for the budget aggregate: creation with
// bulk entry initialization, lookups, and the budget-level increase setters.
type BudgetServicer interface {
	CreateBudget(year int) (*models.Budget, error)
	GetBudgetByID(budgetID uint) (*models.Budget, error)
	GetBudgetByYear(year int) (*models.Budget, error)
	ListBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	SetOpexIncreasePct(budgetID uint, pct float64) (*models.Budget, error)
	SetTaxIncreasePct(budgetID uint, pct float64) (*models.Budget, error)
}

// UpdateGrowthInput holds optional growth entry field updates. Nil fields are
// left unchanged.
type UpdateGrowthInput struct {
	YearMinus3      *float64
	YearMinus2      *float64
	YearMinus1      *float64
	TrendlineType   *models.TrendlineType
	PolynomialOrder *int
}

// GrowthServicer defines the contract for trendline-based revenue projection.
type GrowthServicer interface {
	GetEntry(budgetID, productID uint) (*models.GrowthEntry, error)
	ListEntries(budgetID uint) ([]models.GrowthEntry, error)
	UpdateEntry(budgetID, productID uint, input UpdateGrowthInput) (*models.GrowthEntry, error)
	Project(budgetID, productID uint) (*models.GrowthEntry, error)
	IncomeForProduct(productID uint, year int) (float64, error)
}

// UpdateCapacityInput holds optional capacity entry field updates. Nil fields
// are left unchanged.
type UpdateCapacityInput struct {
	LastYearHeadcount     *float64
	LastYearHours         *float64
	LastYearAvgPrice      *float64
	LastYearIncome        *float64
	LastYearBillableHours *float64
	LastYearBillablePct   *float64
	NextYearHeadcount     *float64
	NextYearAvgPrice      *float64
	NextYearBillablePct   *float64
}

// CapacityServicer defines the contract for headcount/utilization forecasting.
// Every mutation recomputes the entry's budgeted income in the same
// transaction.
type CapacityServicer interface {
	GetEntry(budgetID, productID uint) (*models.CapacityEntry, error)
	ListEntries(budgetID uint) ([]models.CapacityEntry, error)
	UpdateEntry(budgetID, productID uint, input UpdateCapacityInput) (*models.CapacityEntry, error)
	AddHire(budgetID, productID uint, hireMonth, hireCount int) (*models.CapacityEntry, error)
	UpdateHire(budgetID, productID, hireID uint, hireMonth, hireCount int) (*models.CapacityEntry, error)
	RemoveHire(budgetID, productID, hireID uint) (*models.CapacityEntry, error)
	AvailableHours(year int) (float64, error)
}

// UpdateCollectionInput holds optional collection entry field updates. Nil
// fields are left unchanged.
type UpdateCollectionInput struct {
	BeginningBalance          *float64
	EndBalance                *float64
	AvgBalance                *float64
	AvgContractPerMonth       *float64
	AvgPaymentPerMonth        *float64
	LastYearCollectionMonths  *float64
	ProjectedCollectionMonths *float64
}

// PatternInput describes one payment pattern: the share of contract value it
// applies to and the twelve monthly collection percentages.
type PatternInput struct {
	Name               string
	ContractPercentage float64
	MonthlyPercentages [12]float64
}

// PatternValidation reports whether an entry's pattern shares sum to 100.
type PatternValidation struct {
	Valid bool    `json:"valid"`
	Sum   float64 `json:"sum"`
}

// CollectionServicer defines the contract for payment-pattern cash-flow
// forecasting. Every pattern mutation recomputes the entry's collection
// months and budgeted income in the same transaction.
type CollectionServicer interface {
	GetEntry(budgetID, productID uint) (*models.CollectionEntry, error)
	ListEntries(budgetID uint) ([]models.CollectionEntry, error)
	UpdateEntry(budgetID, productID uint, input UpdateCollectionInput) (*models.CollectionEntry, error)
	AddPattern(budgetID, productID uint, input PatternInput) (*models.CollectionEntry, error)
	UpdatePattern(budgetID, productID, patternID uint, input PatternInput) (*models.CollectionEntry, error)
	RemovePattern(budgetID, productID, patternID uint) (*models.CollectionEntry, error)
	ValidatePatterns(budgetID, productID uint) (*PatternValidation, error)
}

// VarianceReport compares the highest- and lowest-valued forecasting methods
// for one product. HighMethod is empty when fewer than two methods have
// computed values.
type VarianceReport struct {
	HighMethod        models.ForecastMethod `json:"high_method,omitempty"`
	LowMethod         models.ForecastMethod `json:"low_method,omitempty"`
	HighValue         float64               `json:"high_value"`
	LowValue          float64               `json:"low_value"`
	Difference        float64               `json:"difference"`
	PercentDifference float64               `json:"percent_difference"`
}

// ResultServicer defines the contract for consolidating the three forecasting
// methods and selecting a final value.
type ResultServicer interface {
	GetEntry(budgetID, productID uint) (*models.ResultEntry, error)
	ListEntries(budgetID uint) ([]models.ResultEntry, error)
	Recompute(budgetID, productID uint) (*models.ResultEntry, error)
	RecomputeAll(budgetID uint) ([]models.ResultEntry, error)
	SelectFinal(budgetID, productID uint, method models.ForecastMethod, customValue *float64) (*models.ResultEntry, error)
	VarianceAnalysis(budgetID, productID uint) (*VarianceReport, error)
}

// UpdatePersonnelInput holds optional personnel entry field updates. Nil
// fields are left unchanged.
type UpdatePersonnelInput struct {
	ProposedSalary *float64
	IsNewHire      *bool
	HireMonth      *int
}

// AllocationInput assigns a percentage of an employee's cost to a product; a
// nil ProductID means the general/administrative bucket.
type AllocationInput struct {
	ProductID  *uint
	Percentage float64
}

// ProductCost is one product's share of an employee's effective salary.
type ProductCost struct {
	ProductID *uint   `json:"product_id,omitempty"`
	Cost      float64 `json:"cost"`
}

// PersonnelCostBreakdown attributes an employee's effective salary across
// products and the general/administrative bucket.
type PersonnelCostBreakdown struct {
	EffectiveSalary float64       `json:"effective_salary"`
	ProductCosts    []ProductCost `json:"product_costs"`
	GeneralCost     float64       `json:"general_cost"`
}

// PersonnelServicer defines the contract for personnel planning and
// allocation validation.
type PersonnelServicer interface {
	GetEntry(budgetID, employeeID uint) (*models.PersonnelEntry, error)
	ListEntries(budgetID uint) ([]models.PersonnelEntry, error)
	UpdateEntry(budgetID, employeeID uint, input UpdatePersonnelInput) (*models.PersonnelEntry, error)
	SetAllocations(budgetID, employeeID uint, allocations []AllocationInput) (*models.PersonnelEntry, error)
	CostBreakdown(budgetID, employeeID uint) (*PersonnelCostBreakdown, error)
}

// UpdateExpenseInput holds optional expense entry field updates. Nil fields
// are left unchanged. Setting IsOverride switches the driver between the
// increase percentage and the override amount.
type UpdateExpenseInput struct {
	LastYearTotal      *float64
	LastYearAvgMonthly *float64
	IncreasePct        *float64
	ProposedAmount     *float64
	IsOverride         *bool
}

// ExpenseGroup is one parent category's rollup: its entries in sort order and
// their summed proposed totals.
type ExpenseGroup struct {
	ParentCategoryID   uint                  `json:"parent_category_id"`
	ParentCategoryName string                `json:"parent_category_name"`
	Entries            []models.ExpenseEntry `json:"entries"`
	Total              float64               `json:"total"`
}

// ExpenseServicer defines the contract for expense planning, classification,
// and hierarchical rollups.
type ExpenseServicer interface {
	GetEntry(budgetID, categoryID uint) (*models.ExpenseEntry, error)
	ListEntries(budgetID uint) ([]models.ExpenseEntry, error)
	UpdateEntry(budgetID, categoryID uint, input UpdateExpenseInput) (*models.ExpenseEntry, error)
	Rollup(budgetID uint) ([]ExpenseGroup, error)
	ClassifyCategory(category *models.ExpenseCategory) models.ExpenseType
}

// ReadinessItem names one thing blocking finalization.
type ReadinessItem struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ReadinessReport itemizes everything blocking a budget's finalization,
// grouped by section, so a caller can fix all issues in one pass. The
// Collection section is advisory and does not block finalization.
type ReadinessReport struct {
	Ready      bool            `json:"ready"`
	Result     []ReadinessItem `json:"result"`
	Personnel  []ReadinessItem `json:"personnel"`
	Expenses   []ReadinessItem `json:"expenses"`
	Collection []ReadinessItem `json:"collection,omitempty"`
}

// FinalizationServicer defines the contract for the draft/finalized state
// machine.
type FinalizationServicer interface {
	Readiness(budgetID uint) (*ReadinessReport, error)
	Finalize(budgetID, userID uint) (*models.Budget, *ReadinessReport, error)
	Revert(budgetID uint) (*models.Budget, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
