package models

import "time"

type ContactMessage struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null;index" json:"email"`
	Subject string `gorm:"size:200" json:"subject"`
	Message string `gorm:"size:5000;not null" json:"message"`

	Status string `gorm:"size:20;default:'unread';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
