// Package testutil provides shared helpers for handler and service tests. It
// runs everything against an in-memory sqlite database so tests need no
// external Postgres.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mechshop-backend/models"
	"mechshop-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "mechshop-test-jwt-secret"

// SetupTestDB opens an isolated in-memory database with the full schema
// migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Vehicle{},
		&models.Mechanic{},
		&models.Inventory{},
		&models.ServiceTicket{},
		&models.TicketMechanic{},
		&models.TicketPart{},
	); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestToken creates a valid bearer token for the given customer
func TestToken(t *testing.T, customerID uint) string {
	t.Helper()
	token, err := utils.EncodeToken(JWTSecret, customerID, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}
	return token
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes a JSON response body into a map
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return result
}

// SeedCustomer creates a customer; the password is hashed by the model hook.
func SeedCustomer(t *testing.T, db *gorm.DB, name, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:     name,
		Email:    email,
		Phone:    "+15551234567",
		Address:  "123 Main St",
		Password: "password123",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return customer
}

// SeedVehicle creates a vehicle owned by customerID
func SeedVehicle(t *testing.T, db *gorm.DB, customerID uint, vin string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		CustomerID: customerID,
		Make:       "Honda",
		Model:      "Civic",
		Year:       2019,
		VIN:        vin,
	}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("Failed to seed vehicle: %v", err)
	}
	return vehicle
}

// SeedMechanic creates a mechanic
func SeedMechanic(t *testing.T, db *gorm.DB, name, email string) *models.Mechanic {
	t.Helper()
	mechanic := &models.Mechanic{
		Name:    name,
		Email:   email,
		Phone:   "+15559876543",
		Address: "456 Shop Rd",
		Salary:  52000,
	}
	if err := db.Create(mechanic).Error; err != nil {
		t.Fatalf("Failed to seed mechanic: %v", err)
	}
	return mechanic
}

// SeedPart creates an inventory part
func SeedPart(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Inventory {
	t.Helper()
	part := &models.Inventory{
		Name:           name,
		Price:          price,
		QuantityOnHand: stock,
	}
	if err := db.Create(part).Error; err != nil {
		t.Fatalf("Failed to seed part: %v", err)
	}
	return part
}

// SeedTicket creates an open service ticket for vehicleID
func SeedTicket(t *testing.T, db *gorm.DB, vehicleID uint) *models.ServiceTicket {
	t.Helper()
	ticket := &models.ServiceTicket{
		VehicleID:   vehicleID,
		DateIn:      time.Now(),
		Description: "Brake inspection",
		Status:      models.StatusOpen,
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("Failed to seed ticket: %v", err)
	}
	return ticket
}
