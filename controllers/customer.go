package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"mechshop-backend/models"
	"mechshop-backend/services"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB          *gorm.DB
	Assignments *services.AssignmentService
}

// RegisterCustomerInput defines the expected JSON structure for registration
type RegisterCustomerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new customer account
func (ctrl *CustomerController) Register(c *gin.Context) {
	var input RegisterCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email already exists
	var existing models.Customer
	if err := ctrl.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Password: input.Password, // Hashed in BeforeCreate hook
	}

	if err := ctrl.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// Login authenticates a customer and returns a bearer token
func (ctrl *CustomerController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := ctrl.DB.Where("email = ?", input.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, customer.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.EncodeToken(os.Getenv("JWT_SECRET"), customer.ID, time.Now(), utils.TokenTTL())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"customer_id": customer.ID,
	})
}

// MyTickets returns the service tickets for the authenticated customer's vehicles
func (ctrl *CustomerController) MyTickets(c *gin.Context) {
	customerID, ok := authedCustomerID(c)
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

	var tickets []models.ServiceTicket
	if err := ctrl.DB.Preload("Vehicle").Select("service_ticket.*").
		Joins("JOIN vehicles ON vehicles.id = service_ticket.vehicle_id").
		Where("vehicles.customer_id = ?", customerID).
		Find(&tickets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tickets")
		return
	}

	ticketsData := make([]gin.H, 0, len(tickets))
	for _, ticket := range tickets {
		mechanics, err := ctrl.Assignments.ListMechanics(ticket.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve mechanics")
			return
		}
		names := make([]string, 0, len(mechanics))
		for _, m := range mechanics {
			names = append(names, m.Name)
		}

		entry := gin.H{
			"service_ticket_id": ticket.ID,
			"vehicle_id":        ticket.VehicleID,
			"date_in":           ticket.DateIn,
			"date_out":          ticket.DateOut,
			"description":       ticket.Description,
			"status":            ticket.Status,
			"total_cost":        ticket.TotalCost,
			"mechanics":         names,
		}
		if ticket.Vehicle != nil {
			entry["vehicle"] = ticket.Vehicle.Make + " " + ticket.Vehicle.Model
		}
		ticketsData = append(ticketsData, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id":   customerID,
		"customer_name": customer.Name,
		"count":         len(ticketsData),
		"tickets":       ticketsData,
	})
}

// GetCustomers retrieves customers with pagination
func (ctrl *CustomerController) GetCustomers(c *gin.Context) {
	page, perPage := utils.PaginationParams(c)

	var total int64
	if err := ctrl.DB.Model(&models.Customer{}).Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	var customers []models.Customer
	if err := ctrl.DB.Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, utils.PaginatedResponse(customers, "customers", page, perPage, total))
}

// GetCustomer retrieves a specific customer by ID
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := ctrl.DB.Preload("Vehicles").First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates the authenticated customer's own record
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	authedID, ok := authedCustomerID(c)
	if !ok {
		return
	}
	if authedID != customerID {
		utils.RespondWithError(c, http.StatusUnauthorized, "You may only modify your own account")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		if !utils.ValidateEmail(*input.Email) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		if customer.Email != *input.Email {
			var existing models.Customer
			if err := ctrl.DB.Where("email = ?", *input.Email).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this email already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}

	if err := ctrl.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes the authenticated customer's own account, cascading
// through vehicles and tickets
func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	authedID, ok := authedCustomerID(c)
	if !ok {
		return
	}
	if authedID != customerID {
		utils.RespondWithError(c, http.StatusUnauthorized, "You may only delete your own account")
		return
	}

	cascade, err := ctrl.Assignments.DeleteCustomer(customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer deleted successfully",
		"cascade": cascade,
	})
}
