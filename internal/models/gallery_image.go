package models

import "time"

type GalleryImage struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"size:200" json:"title"`
	Description string `gorm:"size:1000" json:"description"`
	ImageURL    string `gorm:"size:255;not null" json:"imageUrl"`
	Category    string `gorm:"size:50;index" json:"category"`
	ProjectDate string `gorm:"size:30" json:"projectDate"`
	IsFeatured  bool   `gorm:"default:false;index" json:"isFeatured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
