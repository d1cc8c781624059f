// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"mediasphere/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Seed accounts share a password. Skipping bcrypt speeds up large runs.
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVideo constructs and persists a sample video for the given owner.
func (f *Factory) CreateVideo(owner *models.User, overrides ...func(*models.Video)) (*models.Video, error) {
	video := &models.Video{
		OwnerID:     owner.ID,
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		MediaRef:    fmt.Sprintf("videos/%s.mp4", gofakeit.UUID()),
		Thumbnail:   fmt.Sprintf("https://picsum.photos/seed/%s/640/360", gofakeit.UUID()),
		Views:       int64(f.rand.Intn(50000)),
		IsPublished: f.rand.Float32() < 0.85,
		CreatedAt:   f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(video)
	}

	if err := f.db.Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

// CreateTweet constructs and persists a sample tweet for the given owner.
func (f *Factory) CreateTweet(owner *models.User, overrides ...func(*models.Tweet)) (*models.Tweet, error) {
	tweet := &models.Tweet{
		OwnerID:   owner.ID,
		Content:   gofakeit.Sentence(12),
		CreatedAt: f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(tweet)
	}

	if err := f.db.Create(tweet).Error; err != nil {
		return nil, err
	}
	return tweet, nil
}

// CreateComment constructs and persists a sample comment on the provided
// video authored by the provided user.
func (f *Factory) CreateComment(author *models.User, video *models.Video, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		OwnerID:   author.ID,
		VideoID:   video.ID,
		Content:   gofakeit.Sentence(8),
		CreatedAt: f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreatePlaylist constructs and persists a sample playlist with the given
// videos appended in order.
func (f *Factory) CreatePlaylist(owner *models.User, videos []*models.Video, overrides ...func(*models.Playlist)) (*models.Playlist, error) {
	playlist := &models.Playlist{
		OwnerID:     owner.ID,
		Name:        gofakeit.HipsterSentence(3),
		Description: gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(playlist)
	}

	if err := f.db.Create(playlist).Error; err != nil {
		return nil, err
	}
	for i, v := range videos {
		slot := &models.PlaylistVideo{
			PlaylistID: playlist.ID,
			VideoID:    v.ID,
			Position:   i + 1,
		}
		if err := f.db.Create(slot).Error; err != nil {
			return nil, err
		}
	}
	return playlist, nil
}

// CreateRelation persists a like or subscription from actor to the target.
// Duplicate pairs are skipped silently so random meshes stay valid against
// the unique index.
func (f *Factory) CreateRelation(actor *models.User, kind models.TargetKind, targetID uint) error {
	relation := &models.Relation{
		ActorID:    actor.ID,
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  f.pastTimestamp(),
	}
	err := f.db.Create(relation).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// pastTimestamp spreads created_at over the recent past so sorted listings
// look realistic.
func (f *Factory) pastTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed")
}
