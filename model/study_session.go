package model

import (
	"time"

	"gorm.io/datatypes"
)

// StudySessionStatus represents the lifecycle state of a study session
type StudySessionStatus string

const (
	StudySessionActive    StudySessionStatus = "active"
	StudySessionCompleted StudySessionStatus = "completed"
	StudySessionArchived  StudySessionStatus = "archived"
)

// PaperRefType tags which paper family a snapshot entry came from
type PaperRefType string

const (
	PaperRefUniversity PaperRefType = "university_paper"
	PaperRefMidsem     PaperRefType = "midsem_paper"
)

// SessionPaperRef is a snapshot of a paper taken when the session was
// created. Title and FileURL are copied verbatim and never re-joined.
type SessionPaperRef struct {
	PaperID   uint         `json:"paper_id"`
	PaperType PaperRefType `json:"paper_type"`
	Title     string       `json:"title"`
	FileURL   string       `json:"file_url"`
}

// SessionNoteRef is a snapshot of a note taken when the session was created
type SessionNoteRef struct {
	NoteID  uint   `json:"note_id"`
	Title   string `json:"title"`
	FileURL string `json:"file_url"`
}

// SessionVideoRef is an ad hoc descriptor of an external video
type SessionVideoRef struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channel_title"`
}

// StudySession is a user-scoped bundle of materials assembled for a study
// run. The papers/notes/videos columns hold the snapshot bundles supplied by
// the client at creation time; later edits to the referenced documents do not
// propagate into existing sessions.
type StudySession struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	UserID      uint               `gorm:"not null;index" json:"user_id"`
	Title       string             `gorm:"not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Papers      datatypes.JSON     `gorm:"type:jsonb" json:"papers"`
	Notes       datatypes.JSON     `gorm:"type:jsonb" json:"notes"`
	Videos      datatypes.JSON     `gorm:"type:jsonb" json:"videos"`
	Status      StudySessionStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
