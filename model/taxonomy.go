package model

import (
	"time"
)

// Branch represents an academic branch (e.g., CSE, ME)
type Branch struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "CSE", "ME"
	Description string    `gorm:"type:text" json:"description"`

	// Relationships
	Subjects []Subject `gorm:"foreignKey:BranchID" json:"subjects,omitempty"`
}

// Year represents an academic year of study (1 through 4)
type Year struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Value     int       `gorm:"not null;uniqueIndex" json:"value"`
	Label     string    `gorm:"not null;uniqueIndex;type:varchar(50)" json:"label"` // e.g., "First Year"
}

// Semester represents an academic term (1 through 8)
type Semester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Value     int       `gorm:"not null;uniqueIndex" json:"value"`
	Label     string    `gorm:"not null;uniqueIndex;type:varchar(50)" json:"label"` // e.g., "Semester 3"
}

// Credit represents a credit weighting for a subject. Values may repeat
// across rows; only the label is unique.
type Credit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Value     float64   `gorm:"not null" json:"value"`
	Label     string    `gorm:"not null;uniqueIndex;type:varchar(50)" json:"label"` // e.g., "4 Credits"
}
