package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/services"
)

// ExpenseHandler handles expense planning requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// UpdateExpenseRequest represents the request payload for updating an expense
// entry. Omitted fields are left unchanged; is_override switches the driver
// between the increase percentage and the override amount.
type UpdateExpenseRequest struct {
	LastYearTotal      *float64 `json:"last_year_total" binding:"omitempty,min=0"`
	LastYearAvgMonthly *float64 `json:"last_year_avg_monthly" binding:"omitempty,min=0"`
	IncreasePct        *float64 `json:"increase_pct" binding:"omitempty,min=-100,max=1000"`
	ProposedAmount     *float64 `json:"proposed_amount" binding:"omitempty,min=0"`
	IsOverride         *bool    `json:"is_override"`
}

// ListEntries handles listing a budget's expense entries.
// @Summary     List expense entries
// @Description Get all expense entries for a budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.ExpenseEntry "Expense entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses [get]
func (h *ExpenseHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.expenseService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one category's expense entry.
// @Summary     Get expense entry
// @Description Get the expense entry for a budget/category pair
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int true "Budget ID"
// @Param       categoryId path int true "Category ID"
// @Success     200 {object} models.ExpenseEntry "Expense entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses/{categoryId} [get]
func (h *ExpenseHandler) GetEntry(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "categoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.expenseService.GetEntry(budgetID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating one category's expense entry.
// @Summary     Update expense entry
// @Description Update an expense entry's drivers and recompute its proposed total
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int                  true "Budget ID"
// @Param       categoryId path int                  true "Category ID"
// @Param       request    body UpdateExpenseRequest true "Field updates"
// @Success     200 {object} models.ExpenseEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses/{categoryId} [put]
func (h *ExpenseHandler) UpdateEntry(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "categoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.expenseService.UpdateEntry(budgetID, categoryID, services.UpdateExpenseInput{
		LastYearTotal:      req.LastYearTotal,
		LastYearAvgMonthly: req.LastYearAvgMonthly,
		IncreasePct:        req.IncreasePct,
		ProposedAmount:     req.ProposedAmount,
		IsOverride:         req.IsOverride,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Rollup handles the hierarchical expense rollup for a budget.
// @Summary     Get expense rollup
// @Description Group expense entries under their parent categories with summed totals
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} services.ExpenseGroup "Expense groups"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/expenses/rollup [get]
func (h *ExpenseHandler) Rollup(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.expenseService.Rollup(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
