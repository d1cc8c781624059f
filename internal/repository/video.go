package repository

import (
	"context"
	"errors"

	"mediasphere/internal/cache"
	"mediasphere/internal/models"

	"gorm.io/gorm"
)

// VideoRepository defines the interface for video data operations.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	TogglePublish(ctx context.Context, id uint) (*models.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateChannel(ctx, video.OwnerID)
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).Preload("Owner").First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Video", id)
		}
		return nil, models.NewStoreError(err)
	}
	return &video, nil
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateVideo(ctx, video.ID)
	return nil
}

// Delete removes the video and everything hanging off it: its comments, the
// likes on the video and on those comments, and its playlist slots. One
// transaction so derived counts never see a half-removed video.
func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	video, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM relations WHERE target_kind = ? AND target_id IN (SELECT id FROM comments WHERE video_id = ?)",
			models.TargetComment, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetVideo, id).
			Delete(&models.Relation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, id).Error
	})
	if err != nil {
		return models.NewStoreError(err)
	}
	cache.InvalidateVideo(ctx, id)
	cache.InvalidateChannel(ctx, video.OwnerID)
	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return models.NewStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Video", id)
	}
	cache.InvalidateVideo(ctx, id)
	return nil
}

// TogglePublish flips is_published with a conditional update: the negation
// is derived from the freshly loaded state and applied only while that state
// still holds, so two concurrent flips can never both "win" the same
// transition. One retry covers the benign interleaving; a second miss is a
// real Conflict.
func (r *videoRepository) TogglePublish(ctx context.Context, id uint) (*models.Video, error) {
	for attempt := 0; attempt < 2; attempt++ {
		video, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		next := !video.IsPublished
		res := r.db.WithContext(ctx).
			Model(&models.Video{}).
			Where("id = ? AND is_published = ?", id, video.IsPublished).
			Update("is_published", next)
		if res.Error != nil {
			return nil, models.NewStoreError(res.Error)
		}
		if res.RowsAffected == 1 {
			video.IsPublished = next
			cache.InvalidateVideo(ctx, id)
			return video, nil
		}
	}
	return nil, models.NewConflictError("Publish status is being toggled concurrently")
}
