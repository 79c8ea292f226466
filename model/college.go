package model

import (
	"time"
)

// College represents an affiliated institution
type College struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Place     string    `gorm:"type:varchar(255)" json:"place"`
}
