package service

import (
	"context"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	exec        *query.Executor
}

type AddCommentInput struct {
	PrincipalID uint
	VideoID     uint
	Content     string
}

type UpdateCommentInput struct {
	PrincipalID uint
	CommentID   uint
	Content     string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	exec *query.Executor,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		exec:        exec,
	}
}

// ListVideoComments returns a page of the video's comments with owner and
// like metrics, newest first.
func (s *CommentService) ListVideoComments(ctx context.Context, videoID, principalID uint, page, limit int) (*query.Page[query.Record], error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	b := query.From("comments").
		Filter(query.Eq("video_id", videoID)).
		Join(ownerJoin()).
		Join(likesJoin(models.TargetComment)).
		Flatten(query.Flatten{Field: "owner", Required: true})
	for _, c := range likeComputes(principalID) {
		b.Compute(c)
	}
	p, err := b.Project(query.Projection{Exclude: []string{"likes"}}).
		Sort("created_at", true).
		Paginate(page, limit).
		Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if _, err := s.videoRepo.GetByID(ctx, in.VideoID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		OwnerID: in.PrincipalID,
		VideoID: in.VideoID,
		Content: in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !models.CheckOwnership(comment.OwnerID, in.PrincipalID) {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}
	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and the likes pointing at it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, principalID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(comment.OwnerID, principalID) {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
