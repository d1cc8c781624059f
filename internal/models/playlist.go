package models

import "time"

// Playlist is an owner-curated, ordered collection of videos.
type Playlist struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// Entries are ordered by Position. Populated by the repository, not by
	// a gorm association, so duplicates and ordering survive round trips.
	Entries []PlaylistVideo `gorm:"-" json:"entries,omitempty"`
}

// PlaylistVideo is one slot in a playlist. The same video may appear in
// multiple slots; Position preserves insertion order. There is deliberately
// no uniqueness constraint on (playlist_id, video_id).
type PlaylistVideo struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;index" json:"playlist_id"`
	VideoID    uint      `gorm:"not null;index" json:"video_id"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`

	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}
