package services

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
)

// taxKeywords mark an opex-coded or uncoded category as tax-type when its
// name (or its parent's) contains one.
var taxKeywords = []string{"vat", "income tax", "sales tax", "withholding", "tax"}

// expenseService handles expense planning, classification and rollups.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// GetEntry returns the expense entry for a budget/category pair.
func (s *expenseService) GetEntry(budgetID, categoryID uint) (*models.ExpenseEntry, error) {
	var entry models.ExpenseEntry
	err := s.db.Preload("Category").Preload("Category.Parent").
		Where("budget_id = ? AND category_id = ?", budgetID, categoryID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// ListEntries returns all expense entries for a budget.
func (s *expenseService) ListEntries(budgetID uint) ([]models.ExpenseEntry, error) {
	var entries []models.ExpenseEntry
	err := s.db.Preload("Category").Preload("Category.Parent").
		Where("budget_id = ?", budgetID).
		Order("category_id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// UpdateEntry applies field updates and recomputes the proposed total from
// the entry's new driver state.
func (s *expenseService) UpdateEntry(budgetID, categoryID uint, input UpdateExpenseInput) (*models.ExpenseEntry, error) {
	entry, err := s.GetEntry(budgetID, categoryID)
	if err != nil {
		return nil, err
	}

	if input.LastYearTotal != nil {
		entry.LastYearTotal = *input.LastYearTotal
	}
	if input.LastYearAvgMonthly != nil {
		entry.LastYearAvgMonthly = *input.LastYearAvgMonthly
	}
	if input.IncreasePct != nil {
		entry.IncreasePct = input.IncreasePct
	}
	if input.ProposedAmount != nil {
		entry.ProposedAmount = input.ProposedAmount
	}
	if input.IsOverride != nil {
		entry.IsOverride = *input.IsOverride
	}

	if total := entry.ComputeProposedTotal(); total != nil {
		entry.ProposedTotal = float64Ptr(round2(*total))
	} else {
		entry.ProposedTotal = nil
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// Rollup groups a budget's expense entries under their parent categories.
// Entries on a top-level category group under that category itself. Groups
// and entries follow category sort order, unassigned orders last.
func (s *expenseService) Rollup(budgetID uint) ([]ExpenseGroup, error) {
	entries, err := s.ListEntries(budgetID)
	if err != nil {
		return nil, err
	}

	groups := make(map[uint]*ExpenseGroup)
	groupOrder := make(map[uint]*int)
	for i := range entries {
		entry := &entries[i]
		parent := &entry.Category
		if entry.Category.Parent != nil {
			parent = entry.Category.Parent
		}

		g, ok := groups[parent.ID]
		if !ok {
			g = &ExpenseGroup{
				ParentCategoryID:   parent.ID,
				ParentCategoryName: parent.Name,
			}
			groups[parent.ID] = g
			groupOrder[parent.ID] = parent.SortOrder
		}
		g.Entries = append(g.Entries, *entry)
		g.Total = round2(g.Total + entry.EffectiveTotal())
	}

	result := make([]ExpenseGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Entries, func(i, j int) bool {
			return sortOrderLess(g.Entries[i].Category.SortOrder, g.Entries[j].Category.SortOrder,
				g.Entries[i].CategoryID, g.Entries[j].CategoryID)
		})
		result = append(result, *g)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return sortOrderLess(groupOrder[result[i].ParentCategoryID], groupOrder[result[j].ParentCategoryID],
			result[i].ParentCategoryID, result[j].ParentCategoryID)
	})
	return result, nil
}

// sortOrderLess orders by explicit sort order, nil last, ties broken by ID.
func sortOrderLess(a, b *int, aID, bID uint) bool {
	switch {
	case a != nil && b != nil && *a != *b:
		return *a < *b
	case a != nil && b == nil:
		return true
	case a == nil && b != nil:
		return false
	}
	return aID < bID
}

// ClassifyCategory derives an expense type for a category. A tax or capex
// code (own or inherited from the parent) maps directly. Opex-coded and
// uncoded categories are additionally scanned for tax keywords in their own
// and their parent's names, since not every tax category carries a formal
// code. Anything left is opex.
func (s *expenseService) ClassifyCategory(category *models.ExpenseCategory) models.ExpenseType {
	code := category.ExpenseTypeCode
	if code == "" && category.Parent != nil {
		code = category.Parent.ExpenseTypeCode
	}
	switch code {
	case models.ExpenseTypeCodeTax:
		return models.ExpenseTypeTax
	case models.ExpenseTypeCodeCapex:
		return models.ExpenseTypeCapex
	}

	if hasTaxKeyword(category.Name) {
		return models.ExpenseTypeTax
	}
	if category.Parent != nil && hasTaxKeyword(category.Parent.Name) {
		return models.ExpenseTypeTax
	}
	return models.ExpenseTypeOpex
}

func hasTaxKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range taxKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
