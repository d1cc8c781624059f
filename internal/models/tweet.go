package models

import "time"

// Tweet is a short text post attached directly to its owner.
type Tweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	LikesCount int  `gorm:"-" json:"likes_count"`
	Liked      bool `gorm:"-" json:"liked"`
}
