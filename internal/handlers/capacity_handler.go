package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/services"
)

// CapacityHandler handles capacity forecasting requests.
type CapacityHandler struct {
	capacityService services.CapacityServicer
}

// NewCapacityHandler creates a new CapacityHandler.
func NewCapacityHandler(capacityService services.CapacityServicer) *CapacityHandler {
	return &CapacityHandler{capacityService: capacityService}
}

// UpdateCapacityRequest represents the request payload for updating a
// capacity entry. Omitted fields are left unchanged.
type UpdateCapacityRequest struct {
	LastYearHeadcount     *float64 `json:"last_year_headcount" binding:"omitempty,min=0"`
	LastYearHours         *float64 `json:"last_year_hours" binding:"omitempty,min=0"`
	LastYearAvgPrice      *float64 `json:"last_year_avg_price" binding:"omitempty,min=0"`
	LastYearIncome        *float64 `json:"last_year_income" binding:"omitempty,min=0"`
	LastYearBillableHours *float64 `json:"last_year_billable_hours" binding:"omitempty,min=0"`
	LastYearBillablePct   *float64 `json:"last_year_billable_pct" binding:"omitempty,min=0,max=100"`
	NextYearHeadcount     *float64 `json:"next_year_headcount" binding:"omitempty,min=0"`
	NextYearAvgPrice      *float64 `json:"next_year_avg_price" binding:"omitempty,min=0"`
	NextYearBillablePct   *float64 `json:"next_year_billable_pct" binding:"omitempty,min=0,max=100"`
}

// HireRequest represents a planned hire.
type HireRequest struct {
	HireMonth int `json:"hire_month" binding:"required,hire_month"`
	HireCount int `json:"hire_count" binding:"required,min=1"`
}

// ListEntries handles listing a budget's capacity entries.
// @Summary     List capacity entries
// @Description Get all capacity entries for a budget
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.CapacityEntry "Capacity entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity [get]
func (h *CapacityHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.capacityService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one product's capacity entry.
// @Summary     Get capacity entry
// @Description Get the capacity entry for a budget/product pair, with planned hires
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Success     200 {object} models.CapacityEntry "Capacity entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity/{productId} [get]
func (h *CapacityHandler) GetEntry(c *gin.Context) {
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

	entry, err := h.capacityService.GetEntry(budgetID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating one product's capacity entry.
// @Summary     Update capacity entry
// @Description Update a capacity entry's planning inputs and recompute its budgeted income
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int                   true "Budget ID"
// @Param       productId path int                   true "Product ID"
// @Param       request   body UpdateCapacityRequest true "Field updates"
// @Success     200 {object} models.CapacityEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity/{productId} [put]
func (h *CapacityHandler) UpdateEntry(c *gin.Context) {
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

	var req UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.capacityService.UpdateEntry(budgetID, productID, services.UpdateCapacityInput{
		LastYearHeadcount:     req.LastYearHeadcount,
		LastYearHours:         req.LastYearHours,
		LastYearAvgPrice:      req.LastYearAvgPrice,
		LastYearIncome:        req.LastYearIncome,
		LastYearBillableHours: req.LastYearBillableHours,
		LastYearBillablePct:   req.LastYearBillablePct,
		NextYearHeadcount:     req.NextYearHeadcount,
		NextYearAvgPrice:      req.NextYearAvgPrice,
		NextYearBillablePct:   req.NextYearBillablePct,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// AddHire handles recording a planned hire.
// @Summary     Add planned hire
// @Description Record a planned hire and recompute the entry's budgeted income
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int         true "Budget ID"
// @Param       productId path int         true "Product ID"
// @Param       request   body HireRequest true "Hire details"
// @Success     201 {object} models.CapacityEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity/{productId}/hires [post]
func (h *CapacityHandler) AddHire(c *gin.Context) {
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

	var req HireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.capacityService.AddHire(budgetID, productID, req.HireMonth, req.HireCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdateHire handles changing a planned hire.
// @Summary     Update planned hire
// @Description Change a planned hire and recompute the entry's budgeted income
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int         true "Budget ID"
// @Param       productId path int         true "Product ID"
// @Param       hireId    path int         true "Hire ID"
// @Param       request   body HireRequest true "Hire details"
// @Success     200 {object} models.CapacityEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Hire not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity/{productId}/hires/{hireId} [put]
func (h *CapacityHandler) UpdateHire(c *gin.Context) {
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
	hireID, err := parsePathID(c, "hireId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.capacityService.UpdateHire(budgetID, productID, hireID, req.HireMonth, req.HireCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RemoveHire handles deleting a planned hire.
// @Summary     Remove planned hire
// @Description Delete a planned hire and recompute the entry's budgeted income
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       productId path int true "Product ID"
// @Param       hireId    path int true "Hire ID"
// @Success     200 {object} models.CapacityEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Hire not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/capacity/{productId}/hires/{hireId} [delete]
func (h *CapacityHandler) RemoveHire(c *gin.Context) {
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
	hireID, err := parsePathID(c, "hireId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.capacityService.RemoveHire(budgetID, productID, hireID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// GetAvailableHours handles the working-hours lookup for a year.
// @Summary     Get available working hours
// @Description Get the working hours available in a year, net of weekends and public holidays
// @Tags        capacity
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Year"
// @Success     200 {object} map[string]float64 "Available hours"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /capacity/hours/{year} [get]
func (h *CapacityHandler) GetAvailableHours(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}

	hours, err := h.capacityService.AvailableHours(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "available_hours": hours})
}
