package service

import (
	"context"

	"mediasphere/internal/cache"
	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

// ChannelStats aggregates a channel's footprint. Every figure is derived at
// read time from live rows; nothing here is a stored counter.
type ChannelStats struct {
	TotalVideos      int   `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int   `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

// ChannelProfile is a channel's public card: the user plus subscription
// metrics. IsSubscribed is viewer-specific and never cached.
type ChannelProfile struct {
	User              *models.User `json:"user"`
	SubscribersCount  int64        `json:"subscribers_count"`
	SubscribedToCount int64        `json:"subscribed_to_count"`
	IsSubscribed      bool         `json:"is_subscribed"`
}

type ChannelService struct {
	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
	videoSvc     *VideoService
	exec         *query.Executor
}

func NewChannelService(
	userRepo repository.UserRepository,
	relationRepo repository.RelationRepository,
	videoSvc *VideoService,
	exec *query.Executor,
) *ChannelService {
	return &ChannelService{
		userRepo:     userRepo,
		relationRepo: relationRepo,
		videoSvc:     videoSvc,
		exec:         exec,
	}
}

// GetChannelStats folds the channel's videos and their like relations into
// aggregate figures. Subscribers are counted independently so a channel
// with no videos still reports them.
func (s *ChannelService) GetChannelStats(ctx context.Context, channelID uint) (*ChannelStats, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	var stats ChannelStats
	err := cache.Aside(ctx, cache.ChannelStatsKey(channelID), &stats, cache.ChannelStatsTTL, func() error {
		p, err := query.From("videos").
			Filter(query.Eq("owner_id", channelID)).
			Join(likesJoin(models.TargetVideo)).
			Compute(query.Compute{As: "likes_count", Op: query.ComputeCount, Source: "likes"}).
			Build()
		if err != nil {
			return models.NewStoreError(err)
		}
		videos, err := s.exec.All(ctx, p)
		if err != nil {
			return err
		}

		stats = ChannelStats{TotalVideos: len(videos)}
		for _, v := range videos {
			stats.TotalViews += toInt64(v["views"])
			stats.TotalLikes += int(toInt64(v["likes_count"]))
		}

		subscribers, err := s.relationRepo.CountForTarget(ctx, models.TargetChannel, channelID)
		if err != nil {
			return err
		}
		stats.TotalSubscribers = subscribers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetChannelProfile resolves a channel by username, case-insensitively. The
// user and counts are served cache-aside; the viewer's subscription state
// is always checked fresh.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username string, principalID uint) (*ChannelProfile, error) {
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}

	var profile ChannelProfile
	err := cache.Aside(ctx, cache.ChannelProfileKey(username), &profile, cache.ChannelProfileTTL, func() error {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		subscribers, err := s.relationRepo.CountForTarget(ctx, models.TargetChannel, user.ID)
		if err != nil {
			return err
		}
		subscribedTo, err := s.relationRepo.CountByActor(ctx, user.ID, models.TargetChannel)
		if err != nil {
			return err
		}
		profile = ChannelProfile{
			User:              user,
			SubscribersCount:  subscribers,
			SubscribedToCount: subscribedTo,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if principalID != 0 && profile.User != nil {
		active, err := s.relationRepo.IsActive(ctx, principalID, models.TargetChannel, profile.User.ID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = active
	}
	return &profile, nil
}

// GetChannelVideos lists the channel's published videos with like metrics.
func (s *ChannelService) GetChannelVideos(ctx context.Context, channelID, principalID uint, page, limit int) (*query.Page[query.Record], error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.videoSvc.ListVideos(ctx, ListVideosInput{
		OwnerID:     channelID,
		Page:        page,
		Limit:       limit,
		PrincipalID: principalID,
	})
}
