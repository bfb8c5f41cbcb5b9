package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/pagination"
	"planbook/internal/services"
)

// BudgetHandler handles budget aggregate and finalization requests.
type BudgetHandler struct {
	budgetService       services.BudgetServicer
	finalizationService services.FinalizationServicer
	auditService        services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, finalizationService services.FinalizationServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:       budgetService,
		finalizationService: finalizationService,
		auditService:        auditService,
	}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Year int `json:"year" binding:"required,min=2000,max=2200"`
}

// IncreasePctRequest represents the request payload for the budget-level
// increase setters.
type IncreasePctRequest struct {
	Percentage float64 `json:"percentage" binding:"min=-100,max=1000"`
}

// CreateBudget handles the creation of a new budget year.
// @Summary     Create a budget
// @Description Create a budget for a fiscal year, seeding entries for every active product, employee and expense category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget year"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Budget year already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"year": req.Year})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets.
// @Summary     List budgets
// @Description Get a paginated list of budgets, newest year first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.ListBudgets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a budget by ID, or by year via ?year=.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgetByYear handles retrieving a budget by fiscal year.
// @Summary     Get budget by year
// @Description Get the budget planned for a fiscal year
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Fiscal year"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/year/{year} [get]
func (h *BudgetHandler) GetBudgetByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}

	budget, err := h.budgetService.GetBudgetByYear(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// SetOpexIncrease handles updating the budget-level OpEx increase percentage.
// @Summary     Set OpEx increase percentage
// @Description Update the budget-level OpEx increase and cascade it to percentage-driven OpEx entries
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Budget ID"
// @Param       request body IncreasePctRequest true "New percentage"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/opex-increase [put]
func (h *BudgetHandler) SetOpexIncrease(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncreasePctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetOpexIncreasePct(budgetID, req.Percentage)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// SetTaxIncrease handles updating the budget-level tax increase percentage.
// @Summary     Set tax increase percentage
// @Description Update the budget-level tax increase and cascade it to percentage-driven tax entries
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Budget ID"
// @Param       request body IncreasePctRequest true "New percentage"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/tax-increase [put]
func (h *BudgetHandler) SetTaxIncrease(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncreasePctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetTaxIncreasePct(budgetID, req.Percentage)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetReadiness handles the pre-finalization readiness check.
// @Summary     Check finalization readiness
// @Description Itemize everything blocking the budget's finalization
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} services.ReadinessReport "Readiness report"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/readiness [get]
func (h *BudgetHandler) GetReadiness(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.finalizationService.Readiness(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Finalize handles locking in a budget.
// @Summary     Finalize a budget
// @Description Lock the budget and write each product's final value to its yearly target
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Finalized budget"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget already finalized"
// @Failure     422 {object} ErrorResponse "Budget has incomplete sections"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/finalize [post]
func (h *BudgetHandler) Finalize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, report, err := h.finalizationService.Finalize(budgetID, userID)
	if err != nil {
		// Surface the itemized blockers alongside the not-ready error.
		if report != nil && !report.Ready {
			c.JSON(apperrors.ErrBudgetNotReady.StatusCode, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrBudgetNotReady.Code,
					"message": apperrors.ErrBudgetNotReady.Message,
				},
				"readiness": report,
			})
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "FINALIZE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"year": budget.Year})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// Revert handles reopening a finalized budget.
// @Summary     Revert a finalized budget
// @Description Reopen a finalized budget for editing
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Reverted budget"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget is not finalized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/revert [post]
func (h *BudgetHandler) Revert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.finalizationService.Revert(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REVERT_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"year": budget.Year})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
