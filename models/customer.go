package models

import (
	"mechshop-backend/utils"

	"gorm.io/gorm"
)

type Customer struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:20;not null" json:"phone"`
	Address  string `gorm:"size:255;not null" json:"address"`
	Password string `gorm:"not null" json:"-"`

	Vehicles []Vehicle `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
}

// Hash the password before the row is written
func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	hashed, err := utils.HashPassword(c.Password)
	if err != nil {
		return err
	}
	c.Password = hashed
	return
}
