package bootstrap

import (
	"fmt"

	"mediasphere/internal/cache"
	"mediasphere/internal/config"
	"mediasphere/internal/database"
	"mediasphere/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates the database with generated demo content
	// after the schema is applied. Development only.
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis, applies the schema per
// the configured mode, and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is best-effort: a nil client degrades reads to the database.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seed.Seed(db, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
