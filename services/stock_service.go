// services/stock_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"mechshop-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const defaultLowStockThreshold = 5

// StockService watches inventory levels and alerts the shop manager by SMS
// when a part runs low.
type StockService struct {
	db        *gorm.DB
	client    *twilio.RestClient
	threshold int
}

func NewStockService(db *gorm.DB) *StockService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	threshold := defaultLowStockThreshold
	if env := os.Getenv("LOW_STOCK_THRESHOLD"); env != "" {
		if v, err := strconv.Atoi(env); err == nil && v > 0 {
			threshold = v
		}
	}

	return &StockService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		threshold: threshold,
	}
}

func (s *StockService) StartScheduler() {
	c := cron.New()

	// Run every day at 8 AM
	c.AddFunc("0 8 * * *", func() {
		s.CheckLowStock()
	})

	c.Start()
	log.Println("Low stock scheduler started")
}

// CheckLowStock scans inventory and sends one SMS listing every part at or
// below the threshold.
func (s *StockService) CheckLowStock() {
	var parts []models.Inventory
	if err := s.db.Where("quantity_on_hand <= ?", s.threshold).
		Order("quantity_on_hand").Find(&parts).Error; err != nil {
		log.Printf("Failed to scan inventory: %v", err)
		return
	}

	if len(parts) == 0 {
		return
	}

	message := "Low stock alert:"
	for _, part := range parts {
		message += fmt.Sprintf("\n%s: %d left", part.Name, part.QuantityOnHand)
	}

	to := os.Getenv("MANAGER_PHONE_NUMBER")
	if to == "" {
		log.Printf("MANAGER_PHONE_NUMBER not set, skipping alert for %d parts", len(parts))
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send low stock alert: %v", err)
	} else if resp.Sid != nil {
		log.Printf("Low stock alert sent, SID: %s", *resp.Sid)
	}
}
