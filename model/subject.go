package model

import (
	"time"
)

// Subject represents an individual academic subject positioned in the
// branch/year/semester/credit taxonomy
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // stored uppercase
	BranchID    uint      `gorm:"not null;index" json:"branch_id"`
	YearID      uint      `gorm:"not null;index" json:"year_id"`
	SemesterID  uint      `gorm:"not null;index" json:"semester_id"`
	CreditID    uint      `gorm:"not null;index" json:"credit_id"`
	Description string    `gorm:"type:text" json:"description"`

	// Relationships
	Branch   Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Year     Year     `gorm:"foreignKey:YearID" json:"year,omitempty"`
	Semester Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Credit   Credit   `gorm:"foreignKey:CreditID" json:"credit,omitempty"`
}
