package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ImageList is stored as a JSON-encoded TEXT column on the relational
// backend and decoded on every read.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(value any) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into ImageList", value)
	}
}

type WorkOrder struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// Weak reference to the submitting user; nil for guest submissions.
	UserID *string `gorm:"type:uuid;index" json:"userId"`

	CustomerName    string `gorm:"size:100;not null" json:"customerName"`
	CustomerEmail   string `gorm:"size:100;not null;index" json:"customerEmail"`
	CustomerPhone   string `gorm:"size:20" json:"customerPhone"`
	CustomerAddress string `gorm:"size:200" json:"customerAddress"`

	ServiceType string `gorm:"size:50;not null;index" json:"serviceType"`
	Description string `gorm:"size:2000;not null" json:"description"`
	Priority    string `gorm:"size:20;default:'medium'" json:"priority"`

	PreferredDate string `gorm:"size:30" json:"preferredDate"`
	PreferredTime string `gorm:"size:30" json:"preferredTime"`
	BudgetRange   string `gorm:"size:50" json:"budgetRange"`

	Status string    `gorm:"size:20;default:'pending';index:idx_work_orders_status_created" json:"status"`
	Notes  string    `gorm:"size:2000" json:"notes"`
	Images ImageList `gorm:"type:text" json:"images"`

	CreatedAt time.Time `gorm:"index:idx_work_orders_status_created" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
