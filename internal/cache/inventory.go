package cache

import (
	"context"
	"fmt"
	"time"

	"mediasphere/internal/models"
)

const (
	VideoKeyPrefix        = "video:%d"
	ChannelStatsKeyPrefix = "channel:%d:stats"
	ChannelProfilePrefix  = "channel:profile:%s"
)

const (
	VideoTTL          = 10 * time.Minute
	ChannelStatsTTL   = 5 * time.Minute
	ChannelProfileTTL = 5 * time.Minute
)

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func ChannelStatsKey(channelID uint) string {
	return fmt.Sprintf(ChannelStatsKeyPrefix, channelID)
}

func ChannelProfileKey(username string) string {
	return fmt.Sprintf(ChannelProfilePrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}

func InvalidateChannel(ctx context.Context, channelID uint) {
	Invalidate(ctx, ChannelStatsKey(channelID))
}

// InvalidateTarget drops whatever cached view a relation toggle just made
// stale: the video detail for video likes, the channel aggregates for
// subscriptions. Comment and tweet lists are not cached.
func InvalidateTarget(ctx context.Context, kind models.TargetKind, targetID uint) {
	switch kind {
	case models.TargetVideo:
		InvalidateVideo(ctx, targetID)
	case models.TargetChannel:
		InvalidateChannel(ctx, targetID)
	}
}
