// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered user. A user doubles as a channel: other
// users subscribe to it and its videos are grouped under it.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `json:"full_name"`
	Avatar    string    `json:"avatar"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
