package models

import "time"

type Service struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	Category    string  `gorm:"size:50;not null;index:idx_services_category_active" json:"category"`
	BasePrice   float64 `gorm:"not null" json:"basePrice"`
	Unit        string  `gorm:"size:50;default:'per hour'" json:"unit"`
	IsActive    bool    `gorm:"default:true;index:idx_services_category_active" json:"isActive"`
	ImageURL    string  `gorm:"size:255" json:"imageUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
