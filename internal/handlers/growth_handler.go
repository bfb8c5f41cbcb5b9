package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/models"
	"planbook/internal/services"
)

// GrowthHandler handles growth forecasting requests.
type GrowthHandler struct {
	growthService services.GrowthServicer
}

// NewGrowthHandler creates a new GrowthHandler.
func NewGrowthHandler(growthService services.GrowthServicer) *GrowthHandler {
	return &GrowthHandler{growthService: growthService}
}

// UpdateGrowthRequest represents the request payload for updating a growth
// entry. Omitted fields are left unchanged.
type UpdateGrowthRequest struct {
	YearMinus3      *float64 `json:"year_minus_3"`
	YearMinus2      *float64 `json:"year_minus_2"`
	YearMinus1      *float64 `json:"year_minus_1"`
	TrendlineType   *string  `json:"trendline_type" binding:"omitempty,trendline_type"`
	PolynomialOrder *int     `json:"polynomial_order" binding:"omitempty,min=2,max=2"`
}

// ListEntries handles listing a budget's growth entries.
// @Summary     List growth entries
// @Description Get all growth entries for a budget
// @Tags        growth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.GrowthEntry "Growth entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/growth [get]
func (h *GrowthHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.growthService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one product's growth entry.
// @Summary     Get growth entry
// @Description Get the growth entry for a budget/product pair
// @Tags        growth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.GrowthEntry "Growth entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/growth/{productId} [get]
func (h *GrowthHandler) GetEntry(c *gin.Context) {
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

	entry, err := h.growthService.GetEntry(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating one product's growth entry.
// @Summary     Update growth entry
// @Description Update a growth entry's history or trendline and reproject its budgeted value
// @Tags        growth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int                 true "Budget ID"
// @Param       productId path int                 true "Product ID"
// @Param       request   body UpdateGrowthRequest true "Field updates"
// @Success     200 {object} models.GrowthEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/growth/{productId} [put]
func (h *GrowthHandler) UpdateEntry(c *gin.Context) {
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

	var req UpdateGrowthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.UpdateGrowthInput{
		YearMinus3:      req.YearMinus3,
		YearMinus2:      req.YearMinus2,
		YearMinus1:      req.YearMinus1,
		PolynomialOrder: req.PolynomialOrder,
	}
	if req.TrendlineType != nil {
		t := models.TrendlineType(*req.TrendlineType)
		input.TrendlineType = &t
	}

	entry, err := h.growthService.UpdateEntry(budgetID, productID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Project handles reprojecting one product's growth entry.
// @Summary     Reproject growth entry
// @Description Recompute the budgeted value from the entry's current history and trendline
// @Tags        growth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.GrowthEntry "Reprojected entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/growth/{productId}/project [post]
func (h *GrowthHandler) Project(c *gin.Context) {
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

	entry, err := h.growthService.Project(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}
