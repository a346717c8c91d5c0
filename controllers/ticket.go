package controllers

import (
	"errors"
	"net/http"
	"time"

	"mechshop-backend/models"
	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TicketController struct {
	DB          *gorm.DB
	Assignments *services.AssignmentService
}

// CreateTicketInput defines the expected JSON structure for creating a service ticket
type CreateTicketInput struct {
	VehicleID   uint    `json:"vehicle_id" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Status      string  `json:"status"`
	TotalCost   float64 `json:"total_cost" binding:"min=0"`
}

// UpdateTicketInput defines the expected JSON structure for updating a service ticket
type UpdateTicketInput struct {
	VehicleID   *uint      `json:"vehicle_id"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DateOut     *time.Time `json:"date_out"`
	TotalCost   *float64   `json:"total_cost"`
}

// EditMechanicsInput carries the bulk mechanic edit for a ticket
type EditMechanicsInput struct {
	AddIDs    []uint `json:"add_ids"`
	RemoveIDs []uint `json:"remove_ids"`
}

// AddPartInput carries a part assignment for a ticket
type AddPartInput struct {
	PartID   uint `json:"part_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// CreateTicket creates a new service ticket for an existing vehicle
func (ctrl *TicketController) CreateTicket(c *gin.Context) {
	var input CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !models.ValidStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	// Vehicle must exist
	var vehicle models.Vehicle
	if err := ctrl.DB.First(&vehicle, input.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	ticket := models.ServiceTicket{
		VehicleID:   input.VehicleID,
		DateIn:      time.Now(),
		Description: input.Description,
		Status:      status,
		TotalCost:   input.TotalCost,
	}

	if err := ctrl.DB.Create(&ticket).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service ticket")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// GetTickets retrieves service tickets with pagination
func (ctrl *TicketController) GetTickets(c *gin.Context) {
	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.ServiceTicket{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tickets")
		return
	}

	var tickets []models.ServiceTicket
	if err := ctrl.DB.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&tickets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tickets")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(tickets, "service_tickets", page, perPage, total))
}

// GetTicket retrieves a specific ticket with its mechanics and parts
func (ctrl *TicketController) GetTicket(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ticket models.ServiceTicket
	if err := ctrl.DB.Preload("Vehicle").First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service ticket not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	mechanics, err := ctrl.Assignments.ListMechanics(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	parts, err := ctrl.Assignments.ListParts(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_ticket": ticket,
		"mechanics":      mechanics,
		"parts":          parts,
	})
}

// UpdateTicket updates an existing service ticket
func (ctrl *TicketController) UpdateTicket(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var ticket models.ServiceTicket
	if err := ctrl.DB.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service ticket not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.VehicleID != nil {
		var vehicle models.Vehicle
		if err := ctrl.DB.First(&vehicle, *input.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		ticket.VehicleID = *input.VehicleID
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		ticket.Status = *input.Status
	}
	if input.DateOut != nil {
		ticket.DateOut = input.DateOut
	}
	if input.TotalCost != nil {
		if *input.TotalCost < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Total cost must be non-negative")
			return
		}
		ticket.TotalCost = *input.TotalCost
	}

	if err := ctrl.DB.Save(&ticket).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service ticket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// DeleteTicket removes a ticket, its assignments and returns reserved stock
func (ctrl *TicketController) DeleteTicket(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cascade, err := ctrl.Assignments.DeleteTicket(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service ticket deleted successfully",
		"cascade": cascade,
	})
}

// AssignMechanic adds a mechanic to a service ticket
func (ctrl *TicketController) AssignMechanic(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mechanicID, ok := parseIDParam(c, "mechanic_id")
	if !ok {
		return
	}

	if err := ctrl.Assignments.AssignMechanic(ticketID, mechanicID); err != nil {
		respondServiceError(c, err)
		return
	}

	mechanics, err := ctrl.Assignments.ListMechanics(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Mechanic assigned successfully",
		"mechanics": mechanics,
	})
}

// RemoveMechanic removes a mechanic from a service ticket
func (ctrl *TicketController) RemoveMechanic(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	mechanicID, ok := parseIDParam(c, "mechanic_id")
	if !ok {
		return
	}

	if err := ctrl.Assignments.RemoveMechanic(ticketID, mechanicID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mechanic removed successfully"})
}

// EditMechanics applies a batch of mechanic removals and additions atomically
func (ctrl *TicketController) EditMechanics(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input EditMechanicsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := ctrl.Assignments.EditMechanics(ticketID, input.AddIDs, input.RemoveIDs); err != nil {
		respondServiceError(c, err)
		return
	}

	mechanics, err := ctrl.Assignments.ListMechanics(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Service ticket mechanics updated successfully",
		"mechanics": mechanics,
	})
}

// AddPart reserves stock for a part on a ticket and recomputes the total
func (ctrl *TicketController) AddPart(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input AddPartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if err := ctrl.Assignments.AddPart(ticketID, input.PartID, quantity); err != nil {
		respondServiceError(c, err)
		return
	}

	ctrl.respondWithParts(c, ticketID)
}

// RemovePart takes a part off a ticket, restocking it
func (ctrl *TicketController) RemovePart(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	partID, ok := parseIDParam(c, "part_id")
	if !ok {
		return
	}

	if err := ctrl.Assignments.RemovePart(ticketID, partID); err != nil {
		respondServiceError(c, err)
		return
	}

	ctrl.respondWithParts(c, ticketID)
}

// GetParts lists a ticket's parts in assignment order
func (ctrl *TicketController) GetParts(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctrl.respondWithParts(c, ticketID)
}

func (ctrl *TicketController) respondWithParts(c *gin.Context, ticketID uint) {
	parts, err := ctrl.Assignments.ListParts(ticketID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var ticket models.ServiceTicket
	if err := ctrl.DB.First(&ticket, ticketID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_ticket_id": ticketID,
		"parts":             parts,
		"total_cost":        ticket.TotalCost,
	})
}
