package model

import (
	"time"
)

// Organizer represents an uploaded organizer booklet. Unlike notes it is
// classified by branch and year only.
type Organizer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null;index" json:"title"`
	BranchID    uint      `gorm:"not null;index" json:"branch_id"`
	YearID      uint      `gorm:"not null;index" json:"year_id"`
	Description string    `gorm:"type:text" json:"description"`
	FileID      string    `gorm:"not null;type:varchar(500)" json:"file_id"`
	FileURL     string    `gorm:"not null;type:text" json:"file_url"`
	FileSize    int64     `gorm:"default:0" json:"file_size"`
	PageCount   int       `gorm:"default:0" json:"page_count"`
	UploaderID  uint      `gorm:"not null;index" json:"uploader_id"`

	// Relationships
	Branch   Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Year     Year   `gorm:"foreignKey:YearID" json:"year,omitempty"`
	Uploader User   `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
