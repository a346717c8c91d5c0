package models

import "time"

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusClosed     = "Closed"
)

type ServiceTicket struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	VehicleID   uint       `gorm:"index;not null" json:"vehicle_id"`
	DateIn      time.Time  `gorm:"not null" json:"date_in"`
	DateOut     *time.Time `json:"date_out"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      string     `gorm:"size:20;not null;default:'Open'" json:"status"`
	TotalCost   float64    `gorm:"type:decimal(10,2);not null;default:0" json:"total_cost"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (ServiceTicket) TableName() string {
	return "service_ticket"
}

// ValidStatus reports whether s is one of the ticket statuses.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusClosed
}

// TicketMechanic is a row in the ticket-mechanic junction table. The row id
// records assignment order; the (ticket, mechanic) pair stays unique.
type TicketMechanic struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	ServiceTicketID uint      `gorm:"uniqueIndex:idx_ticket_mechanic;not null" json:"service_ticket_id"`
	MechanicID      uint      `gorm:"uniqueIndex:idx_ticket_mechanic;not null" json:"mechanic_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (TicketMechanic) TableName() string {
	return "service_ticket_mechanic"
}

// TicketPart is a row in the ticket-part junction table. Quantity is the
// number of units reserved for the ticket, always at least 1. The row id
// records assignment order; the (ticket, part) pair stays unique.
type TicketPart struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	ServiceTicketID uint      `gorm:"uniqueIndex:idx_ticket_part;not null" json:"service_ticket_id"`
	PartID          uint      `gorm:"uniqueIndex:idx_ticket_part;not null" json:"part_id"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

func (TicketPart) TableName() string {
	return "service_ticket_part"
}
