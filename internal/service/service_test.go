package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

var testCtx = context.Background()

// harness wires every service over a fresh in-memory database, the same
// composition the server uses in production.
type harness struct {
	db *gorm.DB

	users         *UserService
	videos        *VideoService
	comments      *CommentService
	tweets        *TweetService
	likes         *LikeService
	subscriptions *SubscriptionService
	channels      *ChannelService
	playlists     *PlaylistService

	relationRepo repository.RelationRepository
	videoRepo    repository.VideoRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Tweet{},
		&models.Comment{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Relation{},
	))

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	exec := query.NewExecutor(repository.NewStore(db))

	videoSvc := NewVideoService(videoRepo, exec)
	return &harness{
		db:            db,
		users:         NewUserService(userRepo),
		videos:        videoSvc,
		comments:      NewCommentService(commentRepo, videoRepo, exec),
		tweets:        NewTweetService(tweetRepo, userRepo, exec),
		likes:         NewLikeService(relationRepo, videoRepo, commentRepo, tweetRepo, exec),
		subscriptions: NewSubscriptionService(relationRepo, userRepo, exec),
		channels:      NewChannelService(userRepo, relationRepo, videoSvc, exec),
		playlists:     NewPlaylistService(playlistRepo, videoRepo, exec),

		relationRepo: relationRepo,
		videoRepo:    videoRepo,
	}
}

func (h *harness) user(t *testing.T, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password-123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		FullName: "Test User",
		Password: string(hashed),
	}
	require.NoError(t, h.db.Create(u).Error)
	return u
}

func (h *harness) video(t *testing.T, ownerID uint, title string, published bool) *models.Video {
	t.Helper()
	v := &models.Video{
		OwnerID:     ownerID,
		Title:       title,
		MediaRef:    "videos/" + title + ".mp4",
		IsPublished: published,
	}
	require.NoError(t, h.db.Create(v).Error)
	return v
}

func (h *harness) comment(t *testing.T, ownerID, videoID uint, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{OwnerID: ownerID, VideoID: videoID, Content: content}
	require.NoError(t, h.db.Create(c).Error)
	return c
}

func (h *harness) tweet(t *testing.T, ownerID uint, content string) *models.Tweet {
	t.Helper()
	tw := &models.Tweet{OwnerID: ownerID, Content: content}
	require.NoError(t, h.db.Create(tw).Error)
	return tw
}
