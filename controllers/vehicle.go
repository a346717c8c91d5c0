package controllers

import (
	"errors"
	"net/http"
	"strings"

	"mechshop-backend/models"
	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VehicleController struct {
	DB          *gorm.DB
	Assignments *services.AssignmentService
}

// CreateVehicleInput defines the expected JSON structure for creating a vehicle
type CreateVehicleInput struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	Make       string `json:"make" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Year       int    `json:"year" binding:"required,min=1900"`
	VIN        string `json:"vin" binding:"required"`
}

// UpdateVehicleInput defines the expected JSON structure for updating a vehicle
type UpdateVehicleInput struct {
	CustomerID *uint   `json:"customer_id"`
	Make       *string `json:"make"`
	Model      *string `json:"model"`
	Year       *int    `json:"year"`
	VIN        *string `json:"vin"`
}

// CreateVehicle creates a new vehicle for an existing customer
func (ctrl *VehicleController) CreateVehicle(c *gin.Context) {
	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vin := strings.ToUpper(input.VIN)
	if !utils.ValidateVIN(vin) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid VIN format")
		return
	}

	// Owner must exist
	var customer models.Customer
	if err := ctrl.DB.First(&customer, input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// VIN must be unique
	var existing models.Vehicle
	if err := ctrl.DB.Where("vin = ?", vin).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle with this VIN already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	vehicle := models.Vehicle{
		CustomerID: input.CustomerID,
		Make:       input.Make,
		Model:      input.Model,
		Year:       input.Year,
		VIN:        vin,
	}

	if err := ctrl.DB.Create(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicles retrieves vehicles with pagination
func (ctrl *VehicleController) GetVehicles(c *gin.Context) {
	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.Vehicle{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	var vehicles []models.Vehicle
	if err := ctrl.DB.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(vehicles, "vehicles", page, perPage, total))
}

// GetCustomerVehicles retrieves one customer's vehicles with pagination
func (ctrl *VehicleController) GetCustomerVehicles(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customer_id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := ctrl.DB.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.Vehicle{}).Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	var vehicles []models.Vehicle
	if err := ctrl.DB.Where("customer_id = ?", customerID).Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(vehicles, "vehicles", page, perPage, total))
}

// GetVehicle retrieves a specific vehicle by ID
func (ctrl *VehicleController) GetVehicle(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := ctrl.DB.Preload("ServiceTickets").First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle updates an existing vehicle
func (ctrl *VehicleController) UpdateVehicle(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := ctrl.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := ctrl.DB.First(&customer, *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		vehicle.CustomerID = *input.CustomerID
	}
	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		if *input.Year < 1900 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid year")
			return
		}
		vehicle.Year = *input.Year
	}
	if input.VIN != nil {
		vin := strings.ToUpper(*input.VIN)
		if !utils.ValidateVIN(vin) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid VIN format")
			return
		}
		if vehicle.VIN != vin {
			var existing models.Vehicle
			if err := ctrl.DB.Where("vin = ?", vin).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another vehicle with this VIN already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		vehicle.VIN = vin
	}

	if err := ctrl.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle removes a vehicle, cascading through its service tickets
func (ctrl *VehicleController) DeleteVehicle(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cascade, err := ctrl.Assignments.DeleteVehicle(vehicleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle deleted successfully",
		"cascade": cascade,
	})
}
