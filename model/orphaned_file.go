package model

import (
	"time"
)

// OrphanedFile records an object-storage key whose owning database row was
// deleted but whose object delete failed. The reconciliation cron job retries
// the removal until it succeeds.
type OrphanedFile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	FileID    string     `gorm:"uniqueIndex;not null;type:varchar(500)" json:"file_id"`
	Source    string     `gorm:"type:varchar(50)" json:"source"` // notes, organizers, university_papers, midsem_papers
	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError string     `gorm:"type:text" json:"last_error"`
	DeletedAt *time.Time `json:"deleted_at"` // set once the object is confirmed gone
}
