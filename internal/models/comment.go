package models

import "time"

// Comment represents a comment on a video.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`

	LikesCount int  `gorm:"-" json:"likes_count"`
	Liked      bool `gorm:"-" json:"liked"`
}
