// Command seed runs the database seeder for MediaSphere.
package main

import (
	"flag"
	"log"

	"mediasphere/internal/config"
	"mediasphere/internal/database"
	"mediasphere/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numVideos := flag.Int("videos", 200, "Number of videos to create")
	numTweets := flag.Int("tweets", 100, "Number of tweets to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext seed passwords (much faster)")
	flag.Parse()

	log.Printf("Target: %d users, %d videos, %d tweets, clean=%v", *numUsers, *numVideos, *numTweets, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumVideos:   *numVideos,
		NumTweets:   *numTweets,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Test users have the password: password123")
}
