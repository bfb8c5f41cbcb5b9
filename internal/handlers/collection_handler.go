package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/services"
)

// CollectionHandler handles collection forecasting requests.
type CollectionHandler struct {
	collectionService services.CollectionServicer
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionService services.CollectionServicer) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// UpdateCollectionRequest represents the request payload for updating a
// collection entry. Omitted fields are left unchanged.
type UpdateCollectionRequest struct {
	BeginningBalance          *float64 `json:"beginning_balance" binding:"omitempty,min=0"`
	EndBalance                *float64 `json:"end_balance" binding:"omitempty,min=0"`
	AvgBalance                *float64 `json:"avg_balance" binding:"omitempty,min=0"`
	AvgContractPerMonth       *float64 `json:"avg_contract_per_month" binding:"omitempty,min=0"`
	AvgPaymentPerMonth        *float64 `json:"avg_payment_per_month" binding:"omitempty,min=0"`
	LastYearCollectionMonths  *float64 `json:"last_year_collection_months" binding:"omitempty,min=0"`
	ProjectedCollectionMonths *float64 `json:"projected_collection_months" binding:"omitempty,min=0"`
}

// PatternRequest represents a payment pattern: its share of contract value
// and the twelve monthly collection percentages.
type PatternRequest struct {
	Name               string      `json:"name" binding:"required,min=1,max=100"`
	ContractPercentage float64     `json:"contract_percentage" binding:"required,gt=0,max=100"`
	MonthlyPercentages [12]float64 `json:"monthly_percentages" binding:"required"`
}

// ListEntries handles listing a budget's collection entries.
// @Summary     List collection entries
// @Description Get all collection entries for a budget
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.CollectionEntry "Collection entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection [get]
func (h *CollectionHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.collectionService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one product's collection entry.
// @Summary     Get collection entry
// @Description Get the collection entry for a budget/product pair, with patterns
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.CollectionEntry "Collection entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId} [get]
func (h *CollectionHandler) GetEntry(c *gin.Context) {
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

	entry, err := h.collectionService.GetEntry(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating one product's collection entry.
// @Summary     Update collection entry
// @Description Update a collection entry's balances or projection and recompute its budgeted income
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int                     true "Budget ID"
// @Param       productId path int                     true "Product ID"
// @Param       request   body UpdateCollectionRequest true "Field updates"
// @Success     200 {object} models.CollectionEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId} [put]
func (h *CollectionHandler) UpdateEntry(c *gin.Context) {
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

	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.collectionService.UpdateEntry(budgetID, productID, services.UpdateCollectionInput{
		BeginningBalance:          req.BeginningBalance,
		EndBalance:                req.EndBalance,
		AvgBalance:                req.AvgBalance,
		AvgContractPerMonth:       req.AvgContractPerMonth,
		AvgPaymentPerMonth:        req.AvgPaymentPerMonth,
		LastYearCollectionMonths:  req.LastYearCollectionMonths,
		ProjectedCollectionMonths: req.ProjectedCollectionMonths,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// AddPattern handles adding a payment pattern.
// @Summary     Add payment pattern
// @Description Add a payment pattern and recompute the entry's collection months and income
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int            true "Budget ID"
// @Param       productId path int            true "Product ID"
// @Param       request   body PatternRequest true "Pattern details"
// @Success     201 {object} models.CollectionEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId}/patterns [post]
func (h *CollectionHandler) AddPattern(c *gin.Context) {
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

	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.collectionService.AddPattern(budgetID, productID, services.PatternInput{
		Name:               req.Name,
		ContractPercentage: req.ContractPercentage,
		MonthlyPercentages: req.MonthlyPercentages,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdatePattern handles changing a payment pattern.
// @Summary     Update payment pattern
// @Description Change a payment pattern and recompute the entry's collection months and income
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int            true "Budget ID"
// @Param       productId path int            true "Product ID"
// @Param       patternId path int            true "Pattern ID"
// @Param       request   body PatternRequest true "Pattern details"
// @Success     200 {object} models.CollectionEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pattern not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId}/patterns/{patternId} [put]
func (h *CollectionHandler) UpdatePattern(c *gin.Context) {
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
	patternID, err := parsePathID(c, "patternId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.collectionService.UpdatePattern(budgetID, productID, patternID, services.PatternInput{
		Name:               req.Name,
		ContractPercentage: req.ContractPercentage,
		MonthlyPercentages: req.MonthlyPercentages,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RemovePattern handles deleting a payment pattern.
// @Summary     Remove payment pattern
// @Description Delete a payment pattern and recompute the entry's collection months and income
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Param       patternId path int true "Pattern ID"
// @Success     200 {object} models.CollectionEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Pattern not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId}/patterns/{patternId} [delete]
func (h *CollectionHandler) RemovePattern(c *gin.Context) {
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
	patternID, err := parsePathID(c, "patternId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.collectionService.RemovePattern(budgetID, productID, patternID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ValidatePatterns handles the advisory pattern-share check.
// @Summary     Validate pattern shares
// @Description Check whether the entry's pattern shares sum to 100 percent of contract value
// @Tags        collection
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} services.PatternValidation "Validation result"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/collection/{productId}/patterns/validate [get]
func (h *CollectionHandler) ValidatePatterns(c *gin.Context) {
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

	validation, err := h.collectionService.ValidatePatterns(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, validation)
}
