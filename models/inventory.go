package models

// Inventory is a single part type the shop stocks. QuantityOnHand is the
// unreserved stock; assigning a part to a ticket reserves (decrements) it.
type Inventory struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	Price          float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	QuantityOnHand int     `gorm:"not null;default:0" json:"quantity_on_hand"`
}

func (Inventory) TableName() string {
	return "inventory"
}
