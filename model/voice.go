package model

import (
	"time"
)

// VoiceStatus represents the moderation state of a voice post
type VoiceStatus string

const (
	VoiceActive   VoiceStatus = "active"
	VoiceArchived VoiceStatus = "archived"
	VoiceReported VoiceStatus = "reported"
)

// Voice is a flat community feed post. Edit and delete are gated on the
// original poster, independent of role.
type Voice struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Content   string      `gorm:"not null;type:text" json:"content"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	Status    VoiceStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Relationships
	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Likes []VoiceLike `gorm:"foreignKey:VoiceID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
}

// VoiceLike records one user liking one voice
type VoiceLike struct {
	VoiceID   uint      `gorm:"primaryKey" json:"voice_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Voice Voice `gorm:"foreignKey:VoiceID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}
