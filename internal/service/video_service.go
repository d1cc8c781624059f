package service

import (
	"context"

	"mediasphere/internal/cache"
	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

// videoSortFields whitelists the fields a caller may sort listings by.
// Anything else silently falls back to the default recency order.
var videoSortFields = map[string]bool{
	"created_at": true,
	"views":      true,
	"title":      true,
}

type VideoService struct {
	videoRepo repository.VideoRepository
	exec      *query.Executor
}

type ListVideosInput struct {
	Query       string
	OwnerID     uint
	SortBy      string
	SortDesc    bool
	Page        int
	Limit       int
	PrincipalID uint
}

type CreateVideoInput struct {
	PrincipalID uint
	Title       string
	Description string
	MediaRef    string
	Thumbnail   string
	IsPublished bool
}

type UpdateVideoInput struct {
	PrincipalID uint
	VideoID     uint
	Title       string
	Description string
	Thumbnail   string
}

func NewVideoService(videoRepo repository.VideoRepository, exec *query.Executor) *VideoService {
	return &VideoService{videoRepo: videoRepo, exec: exec}
}

// ListVideos returns a page of published videos with their owner and like
// metrics attached. Query narrows by title, OwnerID by channel.
func (s *VideoService) ListVideos(ctx context.Context, in ListVideosInput) (*query.Page[query.Record], error) {
	b := query.From("videos").Filter(query.Eq("is_published", true))
	if in.Query != "" {
		b.Filter(query.Contains("title", in.Query))
	}
	if in.OwnerID != 0 {
		b.Filter(query.Eq("owner_id", in.OwnerID))
	}
	b.Join(ownerJoin()).Join(likesJoin(models.TargetVideo))
	b.Flatten(query.Flatten{Field: "owner", Required: true})
	for _, c := range likeComputes(in.PrincipalID) {
		b.Compute(c)
	}
	b.Project(query.Projection{Exclude: []string{"likes"}})

	sortField := "created_at"
	desc := true
	if videoSortFields[in.SortBy] {
		sortField = in.SortBy
		desc = in.SortDesc
	}
	p, err := b.Sort(sortField, desc).Paginate(in.Page, in.Limit).Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}

// GetVideo returns one video with owner and like metrics, counting the
// fetch as a view. Anonymous reads are served cache-aside; a principal's
// read always hits the store since liked is viewer-specific.
func (s *VideoService) GetVideo(ctx context.Context, videoID, principalID uint) (query.Record, error) {
	if videoID == 0 {
		return nil, models.NewInvalidIDError("video")
	}
	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}

	fetch := func(principalID uint) (query.Record, error) {
		b := query.From("videos").Filter(query.Eq("id", videoID))
		b.Join(ownerJoin()).Join(likesJoin(models.TargetVideo))
		b.Flatten(query.Flatten{Field: "owner", Required: true})
		for _, c := range likeComputes(principalID) {
			b.Compute(c)
		}
		p, err := b.Project(query.Projection{Exclude: []string{"likes"}}).Build()
		if err != nil {
			return nil, models.NewStoreError(err)
		}
		return s.exec.One(ctx, p)
	}

	if principalID == 0 {
		var rec query.Record
		err := cache.Aside(ctx, cache.VideoKey(videoID), &rec, cache.VideoTTL, func() error {
			fresh, err := fetch(0)
			if err != nil {
				return err
			}
			rec = fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return fetch(principalID)
}

func (s *VideoService) CreateVideo(ctx context.Context, in CreateVideoInput) (*models.Video, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.MediaRef == "" {
		return nil, models.NewValidationError("Media reference is required")
	}
	video := &models.Video{
		OwnerID:     in.PrincipalID,
		Title:       in.Title,
		Description: in.Description,
		MediaRef:    in.MediaRef,
		Thumbnail:   in.Thumbnail,
		IsPublished: in.IsPublished,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, in.VideoID)
	if err != nil {
		return nil, err
	}
	if !models.CheckOwnership(video.OwnerID, in.PrincipalID) {
		return nil, models.NewForbiddenError("You can only edit your own videos")
	}
	if in.Title != "" {
		video.Title = in.Title
	}
	if in.Description != "" {
		video.Description = in.Description
	}
	if in.Thumbnail != "" {
		video.Thumbnail = in.Thumbnail
	}
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// DeleteVideo removes the video together with its comments, likes and
// playlist slots.
func (s *VideoService) DeleteVideo(ctx context.Context, videoID, principalID uint) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(video.OwnerID, principalID) {
		return models.NewForbiddenError("You can only delete your own videos")
	}
	return s.videoRepo.Delete(ctx, videoID)
}

// TogglePublishStatus flips the video's publish flag and returns the video
// in its new state.
func (s *VideoService) TogglePublishStatus(ctx context.Context, videoID, principalID uint) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !models.CheckOwnership(video.OwnerID, principalID) {
		return nil, models.NewForbiddenError("You can only publish or unpublish your own videos")
	}
	return s.videoRepo.TogglePublish(ctx, videoID)
}
