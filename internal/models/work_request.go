package models

import "time"

type WorkRequest struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerName    string `gorm:"size:100;not null" json:"customerName"`
	CustomerAddress string `gorm:"size:200;not null" json:"customerAddress"`
	ProjectType     string `gorm:"size:50;not null" json:"projectType"`

	UrgencyLevel      string `gorm:"size:20;not null;index" json:"urgencyLevel"`
	ServicePreference string `gorm:"size:20;not null;index" json:"servicePreference"`

	Status     string `gorm:"size:20;default:'pending';index" json:"status"`
	Notes      string `gorm:"size:2000" json:"notes"`
	AssignedTo string `gorm:"size:100" json:"assignedTo"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
