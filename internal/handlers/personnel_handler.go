package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "planbook/internal/errors"
	"planbook/internal/services"
)

// PersonnelHandler handles personnel planning requests.
type PersonnelHandler struct {
	personnelService services.PersonnelServicer
}

// NewPersonnelHandler creates a new PersonnelHandler.
func NewPersonnelHandler(personnelService services.PersonnelServicer) *PersonnelHandler {
	return &PersonnelHandler{personnelService: personnelService}
}

// UpdatePersonnelRequest represents the request payload for updating a
// personnel entry. Omitted fields are left unchanged.
type UpdatePersonnelRequest struct {
	ProposedSalary *float64 `json:"proposed_salary" binding:"omitempty,min=0"`
	IsNewHire      *bool    `json:"is_new_hire"`
	HireMonth      *int     `json:"hire_month" binding:"omitempty,hire_month"`
}

// AllocationRequest assigns a percentage of an employee's cost to a product.
// A null product_id means the general/administrative bucket.
type AllocationRequest struct {
	ProductID  *uint   `json:"product_id"`
	Percentage float64 `json:"percentage" binding:"min=0,max=100"`
}

// SetAllocationsRequest replaces an employee's full allocation set.
type SetAllocationsRequest struct {
	Allocations []AllocationRequest `json:"allocations" binding:"required,dive"`
}

// ListEntries handles listing a budget's personnel entries.
// @Summary     List personnel entries
// @Description Get all personnel entries for a budget
// @Tags        personnel
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {array} models.PersonnelEntry "Personnel entries"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/personnel [get]
func (h *PersonnelHandler) ListEntries(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.personnelService.ListEntries(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry handles retrieving one employee's personnel entry.
// @Summary     Get personnel entry
// @Description Get the personnel entry for a budget/employee pair, with allocations
// @Tags        personnel
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int true "Budget ID"
// @Param       employeeId path int true "Employee ID"
// @Success     200 {object} models.PersonnelEntry "Personnel entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/personnel/{employeeId} [get]
func (h *PersonnelHandler) GetEntry(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	employeeID, err := parsePathID(c, "employeeId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.personnelService.GetEntry(budgetID, employeeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// UpdateEntry handles updating one employee's personnel entry.
// @Summary     Update personnel entry
// @Description Update an employee's proposed salary or hire plan and recompute the increase percentage
// @Tags        personnel
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int                    true "Budget ID"
// @Param       employeeId path int                    true "Employee ID"
// @Param       request    body UpdatePersonnelRequest true "Field updates"
// @Success     200 {object} models.PersonnelEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/personnel/{employeeId} [put]
func (h *PersonnelHandler) UpdateEntry(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	employeeID, err := parsePathID(c, "employeeId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.personnelService.UpdateEntry(budgetID, employeeID, services.UpdatePersonnelInput{
		ProposedSalary: req.ProposedSalary,
		IsNewHire:      req.IsNewHire,
		HireMonth:      req.HireMonth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// SetAllocations handles replacing an employee's allocation set.
// @Summary     Set cost allocations
// @Description Replace an employee's full allocation set; percentages must sum to 100
// @Tags        personnel
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int                   true "Budget ID"
// @Param       employeeId path int                   true "Employee ID"
// @Param       request    body SetAllocationsRequest true "Allocation set"
// @Success     200 {object} models.PersonnelEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input or allocations do not sum to 100"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry or product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/personnel/{employeeId}/allocations [put]
func (h *PersonnelHandler) SetAllocations(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	employeeID, err := parsePathID(c, "employeeId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetAllocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocations := make([]services.AllocationInput, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, services.AllocationInput{
			ProductID:  a.ProductID,
			Percentage: a.Percentage,
		})
	}

	entry, err := h.personnelService.SetAllocations(budgetID, employeeID, allocations)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// CostBreakdown handles the per-product cost attribution for one employee.
// @Summary     Get cost breakdown
// @Description Attribute an employee's effective salary across products per their allocations
// @Tags        personnel
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int true "Budget ID"
// @Param       employeeId path int true "Employee ID"
// @Success     200 {object} services.PersonnelCostBreakdown "Cost breakdown"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/personnel/{employeeId}/cost-breakdown [get]
func (h *PersonnelHandler) CostBreakdown(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	employeeID, err := parsePathID(c, "employeeId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.personnelService.CostBreakdown(budgetID, employeeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
