package database

import "mediasphere/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Video{},
		&models.Tweet{},
		&models.Comment{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Relation{},
	}
}
