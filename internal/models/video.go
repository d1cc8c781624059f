package models

import "time"

// Video represents an uploaded video. OwnerID is set at creation and never
// changes afterwards.
type Video struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	// MediaRef is the storage reference of the already-uploaded video blob.
	// Uploading itself happens outside this service.
	MediaRef    string    `gorm:"not null" json:"media_ref"`
	Thumbnail   string    `json:"thumbnail"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// LikesCount and Liked are not persisted; computed at query time.
	LikesCount int  `gorm:"-" json:"likes_count"`
	Liked      bool `gorm:"-" json:"liked"`
}
