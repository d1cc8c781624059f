package seed

import (
	"fmt"
	"log"

	"mediasphere/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumVideos   int
	NumTweets   int
	ShouldClean bool
	// SkipBcrypt stores a plaintext placeholder password. Large dev runs
	// spend most of their time in bcrypt otherwise.
	SkipBcrypt bool
	// MaxDays bounds how far back generated timestamps are spread.
	MaxDays int
}

// Seed populates the database with a realistic content mesh: users with
// videos, tweets, comments, playlists, likes and subscriptions.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumVideos <= 0 {
		opts.NumVideos = opts.NumUsers * 3
	}
	if opts.NumTweets <= 0 {
		opts.NumTweets = opts.NumUsers * 2
	}

	log.Printf("seeding %d users, %d videos, %d tweets", opts.NumUsers, opts.NumVideos, opts.NumTweets)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("skipping user %d: %v", i, err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users could be created")
	}
	log.Printf("created %d users", len(users))

	videos := make([]*models.Video, 0, opts.NumVideos)
	for i := 0; i < opts.NumVideos; i++ {
		owner := users[f.rand.Intn(len(users))]
		video, err := f.CreateVideo(owner)
		if err != nil {
			return fmt.Errorf("create video: %w", err)
		}
		videos = append(videos, video)
	}
	log.Printf("created %d videos", len(videos))

	for i := 0; i < opts.NumTweets; i++ {
		owner := users[f.rand.Intn(len(users))]
		if _, err := f.CreateTweet(owner); err != nil {
			return fmt.Errorf("create tweet: %w", err)
		}
	}

	if err := seedEngagement(f, users, videos); err != nil {
		return err
	}

	log.Println("seeding completed")
	return nil
}

// seedEngagement wires comments, likes, subscriptions and playlists across
// the generated users and videos.
func seedEngagement(f *Factory, users []*models.User, videos []*models.Video) error {
	for _, video := range videos {
		commentCount := f.rand.Intn(6)
		for i := 0; i < commentCount; i++ {
			author := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(author, video); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}

		likeCount := f.rand.Intn(len(users))
		for i := 0; i < likeCount; i++ {
			actor := users[f.rand.Intn(len(users))]
			if err := f.CreateRelation(actor, models.TargetVideo, video.ID); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
	}

	for _, actor := range users {
		subCount := f.rand.Intn(len(users) / 2)
		for i := 0; i < subCount; i++ {
			channel := users[f.rand.Intn(len(users))]
			if channel.ID == actor.ID {
				continue
			}
			if err := f.CreateRelation(actor, models.TargetChannel, channel.ID); err != nil {
				return fmt.Errorf("create subscription: %w", err)
			}
		}
	}

	for _, owner := range users {
		if f.rand.Float32() > 0.4 || len(videos) < 3 {
			continue
		}
		picked := make([]*models.Video, 0, 3)
		for i := 0; i < 3; i++ {
			picked = append(picked, videos[f.rand.Intn(len(videos))])
		}
		if _, err := f.CreatePlaylist(owner, picked); err != nil {
			return fmt.Errorf("create playlist: %w", err)
		}
	}

	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("clearing existing data")
	if db.Dialector.Name() == "sqlite" {
		for _, table := range []string{"relations", "playlist_videos", "playlists", "comments", "tweets", "videos", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	}
	return db.Exec(`TRUNCATE TABLE relations, playlist_videos, playlists, comments, tweets, videos, users RESTART IDENTITY CASCADE`).Error
}
