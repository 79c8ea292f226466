package model

import (
	"time"
)

// UniversityPaper represents a past university examination paper. The exam
// year is a plain integer, intentionally looser than the Year taxonomy used
// by notes.
type UniversityPaper struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null;index" json:"title"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Year        int       `gorm:"not null" json:"year"` // exam year, e.g. 2023
	Description string    `gorm:"type:text" json:"description"`
	FileID      string    `gorm:"not null;type:varchar(500)" json:"file_id"`
	FileURL     string    `gorm:"not null;type:text" json:"file_url"`
	UploaderID  uint      `gorm:"not null;index" json:"uploader_id"`

	// Relationships
	Subject  Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Uploader User    `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}

// MidsemPaper represents a mid-semester examination paper. It additionally
// records the college that set the paper.
type MidsemPaper struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null;index" json:"title"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Year        int       `gorm:"not null" json:"year"`
	College     string    `gorm:"not null;type:varchar(255)" json:"college"`
	Description string    `gorm:"type:text" json:"description"`
	FileID      string    `gorm:"not null;type:varchar(500)" json:"file_id"`
	FileURL     string    `gorm:"not null;type:text" json:"file_url"`
	UploaderID  uint      `gorm:"not null;index" json:"uploader_id"`

	// Relationships
	Subject  Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Uploader User    `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
