package service

import (
	"context"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

// LikeService toggles likes and answers like-centric reads. Every toggle
// verifies its target first so a like can never point at nothing.
type LikeService struct {
	relationRepo repository.RelationRepository
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	tweetRepo    repository.TweetRepository
	exec         *query.Executor
}

func NewLikeService(
	relationRepo repository.RelationRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
	exec *query.Executor,
) *LikeService {
	return &LikeService{
		relationRepo: relationRepo,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		tweetRepo:    tweetRepo,
		exec:         exec,
	}
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, actorID, videoID uint) (*models.ToggleResult, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.relationRepo.Toggle(ctx, actorID, models.TargetVideo, videoID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actorID, commentID uint) (*models.ToggleResult, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.relationRepo.Toggle(ctx, actorID, models.TargetComment, commentID)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, actorID, tweetID uint) (*models.ToggleResult, error) {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID); err != nil {
		return nil, err
	}
	return s.relationRepo.Toggle(ctx, actorID, models.TargetTweet, tweetID)
}

// GetLikedVideos returns the videos the actor has liked, newest like first,
// each carrying its owner. Likes whose video has since been deleted are
// dropped by the required flatten rather than surfacing as holes.
func (s *LikeService) GetLikedVideos(ctx context.Context, actorID uint, page, limit int) (*query.Page[query.Record], error) {
	if actorID == 0 {
		return nil, models.NewInvalidIDError("actor")
	}
	p, err := query.From("relations").
		Filter(
			query.Eq("actor_id", actorID),
			query.Eq("target_kind", string(models.TargetVideo)),
		).
		Join(query.Join{
			From:       "videos",
			LocalKey:   "target_id",
			ForeignKey: "id",
			As:         "video",
		}).
		Join(query.Join{
			From:       "users",
			LocalKey:   "video.owner_id",
			ForeignKey: "id",
			As:         "owner",
			Project:    ownerFields,
		}).
		Flatten(query.Flatten{Field: "video", Required: true}).
		Flatten(query.Flatten{Field: "owner", Required: true}).
		Project(query.Projection{Include: []string{"video", "owner", "created_at"}}).
		Sort("created_at", true).
		Paginate(page, limit).
		Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}
