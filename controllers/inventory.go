package controllers

import (
	"errors"
	"net/http"

	"mechshop-backend/models"
	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB          *gorm.DB
	Assignments *services.AssignmentService
}

// CreatePartInput defines the expected JSON structure for creating a part
type CreatePartInput struct {
	Name           string  `json:"name" binding:"required"`
	Price          float64 `json:"price" binding:"min=0"`
	QuantityOnHand int     `json:"quantity_on_hand" binding:"min=0"`
}

// UpdatePartInput defines the expected JSON structure for updating a part
type UpdatePartInput struct {
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	QuantityOnHand *int     `json:"quantity_on_hand"`
}

// CreatePart adds a new part to inventory
func (ctrl *InventoryController) CreatePart(c *gin.Context) {
	var input CreatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	part := models.Inventory{
		Name:           input.Name,
		Price:          input.Price,
		QuantityOnHand: input.QuantityOnHand,
	}

	if err := ctrl.DB.Create(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create part")
		return
	}

	c.JSON(http.StatusCreated, part)
}

// GetParts retrieves inventory with pagination
func (ctrl *InventoryController) GetParts(c *gin.Context) {
	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.Inventory{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve inventory")
		return
	}

	var parts []models.Inventory
	if err := ctrl.DB.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&parts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve inventory")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(parts, "parts", page, perPage, total))
}

// SearchParts filters inventory by name substring
func (ctrl *InventoryController) SearchParts(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing required query parameter: name")
		return
	}

	page, perPage := utils.PaginationParams(c)
	query := ctrl.DB.Model(&models.Inventory{}).Where("name LIKE ?", "%"+name+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to search inventory")
		return
	}

	var parts []models.Inventory
	if err := query.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&parts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to search inventory")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(parts, "parts", page, perPage, total))
}

// GetPart retrieves a specific part by ID
func (ctrl *InventoryController) GetPart(c *gin.Context) {
	partID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var part models.Inventory
	if err := ctrl.DB.First(&part, partID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, part)
}

// UpdatePart updates an existing part
func (ctrl *InventoryController) UpdatePart(c *gin.Context) {
	partID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var part models.Inventory
	if err := ctrl.DB.First(&part, partID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Part not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		part.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Price must be non-negative")
			return
		}
		part.Price = *input.Price
	}
	if input.QuantityOnHand != nil {
		if *input.QuantityOnHand < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Quantity on hand must be non-negative")
			return
		}
		part.QuantityOnHand = *input.QuantityOnHand
	}

	if err := ctrl.DB.Save(&part).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update part")
		return
	}

	c.JSON(http.StatusOK, part)
}

// DeletePart removes a part from inventory along with its assignments
func (ctrl *InventoryController) DeletePart(c *gin.Context) {
	partID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cascade, err := ctrl.Assignments.DeletePart(partID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Part deleted successfully",
		"cascade": cascade,
	})
}
