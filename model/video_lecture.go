package model

import (
	"time"
)

// VideoType distinguishes a single video from a playlist
type VideoType string

const (
	VideoTypeSingle   VideoType = "single"
	VideoTypePlaylist VideoType = "playlist"
)

// VideoLecture represents a linked external video or playlist for a subject
type VideoLecture struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null" json:"title"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Type        VideoType `gorm:"type:varchar(20);not null" json:"type"`
	VideoURL    string    `gorm:"not null;type:text" json:"video_url"`
	Description string    `gorm:"type:text" json:"description"`
	UploaderID  uint      `gorm:"not null;index" json:"uploader_id"`

	// Relationships
	Subject  Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Uploader User    `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}
