package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
	"planbook/internal/services"
)

// ResultHandler handles result consolidation requests.
type ResultHandler struct {
	resultService services.ResultServicer
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService services.ResultServicer) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// SelectFinalRequest represents the final-value selection payload. CustomValue
// is required when method is "custom" and ignored otherwise.
type SelectFinalRequest struct {
	Method      string   `json:"method" binding:"required,forecast_method"`
	CustomValue *float64 `json:"custom_value" binding:"omitempty,min=0"`
}

// ListEntries handles listing a budget's result entries.
// @Summary     List result entries
// @Description Get all result entries for a budget
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.ResultEntry "Result entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results [get]
func (h *ResultHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.resultService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one product's result entry.
// @Summary     Get result entry
// @Description Get the result entry for a budget/product pair
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.ResultEntry "Result entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results/{productId} [get]
func (h *ResultHandler) GetEntry(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "productId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.resultService.GetEntry(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Recompute handles refreshing one product's result entry.
// @Summary     Recompute result entry
// @Description Re-pull the three method values and refresh the average
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.ResultEntry "Recomputed entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results/{productId}/recompute [post]
func (h *ResultHandler) Recompute(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "productId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.resultService.Recompute(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RecomputeAll handles refreshing every result entry in a budget.
// @Summary     Recompute all result entries
// @Description Re-pull method values and refresh averages for every product in the budget
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.ResultEntry "Recomputed entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results/recompute [post]
func (h *ResultHandler) RecomputeAll(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.resultService.RecomputeAll(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// SelectFinal handles selecting a product's final budgeted value.
// @Summary     Select final value
// @Description Copy one method's value into the entry's final value, or set a custom amount
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int                true "Budget ID"
// @Param       productId path int                true "Product ID"
// @Param       request   body SelectFinalRequest true "Method selection"
// @Success     200 {object} models.ResultEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     422 {object} ErrorResponse "Selected method has no computed value"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results/{productId}/final [put]
func (h *ResultHandler) SelectFinal(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "productId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SelectFinalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.resultService.SelectFinal(budgetID, productID, models.ForecastMethod(req.Method), req.CustomValue)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Variance handles the method variance analysis for one product.
// @Summary     Get variance analysis
// @Description Compare the highest and lowest valued forecasting methods for a product
// @Tags        results
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} services.VarianceReport "Variance report"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/results/{productId}/variance [get]
func (h *ResultHandler) Variance(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "productId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.resultService.VarianceAnalysis(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
