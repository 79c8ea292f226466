package model

import (
	"time"
)

// Note represents uploaded study notes classified by the full taxonomy
type Note struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null;index" json:"title"`
	YearID      uint      `gorm:"not null;index" json:"year_id"`
	SemesterID  uint      `gorm:"not null;index" json:"semester_id"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	BranchID    uint      `gorm:"not null;index" json:"branch_id"`
	Description string    `gorm:"type:text" json:"description"`
	FileID      string    `gorm:"not null;type:varchar(500)" json:"file_id"` // object storage key
	FileURL     string    `gorm:"not null;type:text" json:"file_url"`
	FileSize    int64     `gorm:"default:0" json:"file_size"`
	PageCount   int       `gorm:"default:0" json:"page_count"`
	UploaderID  uint      `gorm:"not null;index" json:"uploader_id"`

	// Relationships
	Year     Year     `gorm:"foreignKey:YearID" json:"year,omitempty"`
	Semester Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Subject  Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Branch   Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Uploader User     `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
