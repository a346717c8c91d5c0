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

type MechanicController struct {
	DB          *gorm.DB
	Assignments *services.AssignmentService
}

// CreateMechanicInput defines the expected JSON structure for creating a mechanic
type CreateMechanicInput struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   string  `json:"phone" binding:"required"`
	Address string  `json:"address" binding:"required"`
	Salary  float64 `json:"salary" binding:"min=0"`
}

// UpdateMechanicInput defines the expected JSON structure for updating a mechanic
type UpdateMechanicInput struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email"`
	Phone   *string  `json:"phone"`
	Address *string  `json:"address"`
	Salary  *float64 `json:"salary"`
}

// CreateMechanic creates a new mechanic
func (ctrl *MechanicController) CreateMechanic(c *gin.Context) {
	var input CreateMechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email already exists
	var existing models.Mechanic
	if err := ctrl.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Mechanic with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	mechanic := models.Mechanic{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Salary:  input.Salary,
	}

	if err := ctrl.DB.Create(&mechanic).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create mechanic")
		return
	}

	c.JSON(http.StatusCreated, mechanic)
}

// GetMechanics retrieves mechanics with pagination
func (ctrl *MechanicController) GetMechanics(c *gin.Context) {
	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.Mechanic{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve mechanics")
		return
	}

	var mechanics []models.Mechanic
	if err := ctrl.DB.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&mechanics).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve mechanics")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(mechanics, "mechanics", page, perPage, total))
}

// TopPerformers lists every mechanic ordered by tickets worked, busiest first
func (ctrl *MechanicController) TopPerformers(c *gin.Context) {
	rankings, err := ctrl.Assignments.TopMechanics()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve mechanics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(rankings),
		"mechanics": rankings,
	})
}

// GetMechanic retrieves a specific mechanic by ID
func (ctrl *MechanicController) GetMechanic(c *gin.Context) {
	mechanicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var mechanic models.Mechanic
	if err := ctrl.DB.First(&mechanic, mechanicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Mechanic not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, mechanic)
}

// UpdateMechanic updates an existing mechanic
func (ctrl *MechanicController) UpdateMechanic(c *gin.Context) {
	mechanicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateMechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var mechanic models.Mechanic
	if err := ctrl.DB.First(&mechanic, mechanicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Mechanic not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		mechanic.Name = *input.Name
	}
	if input.Email != nil {
		if !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		if mechanic.Email != *input.Email {
			var existing models.Mechanic
			if err := ctrl.DB.Where("email = ?", *input.Email).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another mechanic with this email already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		mechanic.Email = *input.Email
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		mechanic.Phone = *input.Phone
	}
	if input.Address != nil {
		mechanic.Address = *input.Address
	}
	if input.Salary != nil {
		if *input.Salary < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Salary must be non-negative")
			return
		}
		mechanic.Salary = *input.Salary
	}

	if err := ctrl.DB.Save(&mechanic).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update mechanic")
		return
	}

	c.JSON(http.StatusOK, mechanic)
}

// DeleteMechanic removes a mechanic and all assignments referencing it
func (ctrl *MechanicController) DeleteMechanic(c *gin.Context) {
	mechanicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cascade, err := ctrl.Assignments.DeleteMechanic(mechanicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mechanic deleted successfully",
		"cascade": cascade,
	})
}
