package repository

import (
	"context"
	"testing"

	"mediasphere/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Video{}, &models.Tweet{}, &models.Comment{},
		&models.Playlist{}, &models.PlaylistVideo{}, &models.Relation{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password-123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestVideo(t *testing.T, db *gorm.DB, ownerID uint, title string, published bool) *models.Video {
	t.Helper()
	video := &models.Video{
		OwnerID:     ownerID,
		Title:       title,
		MediaRef:    "videos/" + title + ".mp4",
		IsPublished: published,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func createTestComment(t *testing.T, db *gorm.DB, ownerID, videoID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{OwnerID: ownerID, VideoID: videoID, Content: content}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

// recordID extracts the integer id from a raw store record. Different
// drivers hand back different integer widths.
func recordID(t *testing.T, rec map[string]any) uint {
	t.Helper()
	switch n := rec["id"].(type) {
	case int64:
		return uint(n)
	case int:
		return uint(n)
	case uint:
		return n
	case float64:
		return uint(n)
	default:
		t.Fatalf("record id has unexpected type %T", rec["id"])
		return 0
	}
}

var testCtx = context.Background()
