package models

type Mechanic struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:100;not null" json:"name"`
	Email   string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone   string  `gorm:"size:20;not null" json:"phone"`
	Address string  `gorm:"size:255;not null" json:"address"`
	Salary  float64 `gorm:"type:decimal(10,2);not null" json:"salary"`
}
