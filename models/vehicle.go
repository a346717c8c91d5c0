package models

type Vehicle struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"index;not null" json:"customer_id"`
	Make       string `gorm:"size:50;not null" json:"make"`
	Model      string `gorm:"size:50;not null" json:"model"`
	Year       int    `gorm:"not null" json:"year"`
	VIN        string `gorm:"size:17;uniqueIndex;not null" json:"vin"`

	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceTickets []ServiceTicket `gorm:"foreignKey:VehicleID" json:"service_tickets,omitempty"`
}
