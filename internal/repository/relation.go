package repository

import (
	"context"
	"errors"

	"mediasphere/internal/cache"
	"mediasphere/internal/models"
	"mediasphere/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository is the toggle engine over the relations table. A
// relation's existence is its state: toggling on creates the row, toggling
// off hard-deletes it.
type RelationRepository interface {
	// Toggle flips the relation (actor, kind, target) and reports which way
	// it went. It does not verify the target exists; callers look the
	// target up first.
	Toggle(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (*models.ToggleResult, error)
	// IsActive reports whether the relation currently exists.
	IsActive(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (bool, error)
	// CountForTarget returns the live cardinality of relations pointing at
	// (kind, targetID).
	CountForTarget(ctx context.Context, kind models.TargetKind, targetID uint) (int64, error)
	// CountByActor returns how many relations of the given kind the actor holds.
	CountByActor(ctx context.Context, actorID uint, kind models.TargetKind) (int64, error)
}

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new relation repository.
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Toggle(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (*models.ToggleResult, error) {
	if actorID == 0 {
		return nil, models.NewInvalidIDError("actor")
	}
	if !kind.Valid() {
		return nil, models.NewValidationError("Unknown relation target kind")
	}
	if targetID == 0 {
		return nil, models.NewInvalidIDError(string(kind))
	}

	var existing models.Relation
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		First(&existing).Error
	switch {
	case err == nil:
		return r.remove(ctx, actorID, kind, targetID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.add(ctx, actorID, kind, targetID)
	default:
		return nil, models.NewStoreError(err)
	}
}

// add inserts the relation. The unique index on (actor_id, target_kind,
// target_id) turns a lost race into an insert that affects zero rows; that
// means a concurrent toggle just added the pair, so this toggle resolves as
// the removal.
func (r *relationRepository) add(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (*models.ToggleResult, error) {
	rel := models.Relation{ActorID: actorID, TargetKind: kind, TargetID: targetID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rel)
	if res.Error != nil {
		return nil, models.NewStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		observability.ToggleConflicts.WithLabelValues(string(kind)).Inc()
		return r.remove(ctx, actorID, kind, targetID)
	}
	cache.InvalidateTarget(ctx, kind, targetID)
	return &models.ToggleResult{State: models.ToggleAdded, Record: &rel}, nil
}

// remove deletes the relation. A delete that affects zero rows means a
// concurrent toggle already removed the pair; this toggle then resolves as
// the add. A second conflict on that insert is surfaced as Conflict rather
// than looping.
func (r *relationRepository) remove(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (*models.ToggleResult, error) {
	res := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		Delete(&models.Relation{})
	if res.Error != nil {
		return nil, models.NewStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		observability.ToggleConflicts.WithLabelValues(string(kind)).Inc()
		rel := models.Relation{ActorID: actorID, TargetKind: kind, TargetID: targetID}
		insert := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rel)
		if insert.Error != nil {
			return nil, models.NewStoreError(insert.Error)
		}
		if insert.RowsAffected == 0 {
			return nil, models.NewConflictError("Relation is being toggled concurrently")
		}
		cache.InvalidateTarget(ctx, kind, targetID)
		return &models.ToggleResult{State: models.ToggleAdded, Record: &rel}, nil
	}
	cache.InvalidateTarget(ctx, kind, targetID)
	return &models.ToggleResult{State: models.ToggleRemoved}, nil
}

func (r *relationRepository) IsActive(ctx context.Context, actorID uint, kind models.TargetKind, targetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Relation{}).
		Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewStoreError(err)
	}
	return count > 0, nil
}

func (r *relationRepository) CountForTarget(ctx context.Context, kind models.TargetKind, targetID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Relation{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error; err != nil {
		return 0, models.NewStoreError(err)
	}
	return count, nil
}

func (r *relationRepository) CountByActor(ctx context.Context, actorID uint, kind models.TargetKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Relation{}).
		Where("actor_id = ? AND target_kind = ?", actorID, kind).
		Count(&count).Error; err != nil {
		return 0, models.NewStoreError(err)
	}
	return count, nil
}
