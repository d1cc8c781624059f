package service

import (
	"context"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

// SubscriptionService manages channel subscriptions, which are relations
// with a channel target.
type SubscriptionService struct {
	relationRepo repository.RelationRepository
	userRepo     repository.UserRepository
	exec         *query.Executor
}

func NewSubscriptionService(
	relationRepo repository.RelationRepository,
	userRepo repository.UserRepository,
	exec *query.Executor,
) *SubscriptionService {
	return &SubscriptionService{
		relationRepo: relationRepo,
		userRepo:     userRepo,
		exec:         exec,
	}
}

func (s *SubscriptionService) ToggleSubscription(ctx context.Context, actorID, channelID uint) (*models.ToggleResult, error) {
	if actorID != 0 && actorID == channelID {
		return nil, models.NewValidationError("You cannot subscribe to your own channel")
	}
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.relationRepo.Toggle(ctx, actorID, models.TargetChannel, channelID)
}

// GetChannelSubscribers lists the users subscribed to the channel, newest
// subscription first.
func (s *SubscriptionService) GetChannelSubscribers(ctx context.Context, channelID uint, page, limit int) (*query.Page[query.Record], error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	p, err := query.From("relations").
		Filter(
			query.Eq("target_kind", string(models.TargetChannel)),
			query.Eq("target_id", channelID),
		).
		Join(query.Join{
			From:       "users",
			LocalKey:   "actor_id",
			ForeignKey: "id",
			As:         "subscriber",
			Project:    ownerFields,
		}).
		Flatten(query.Flatten{Field: "subscriber", Required: true}).
		Project(query.Projection{Include: []string{"subscriber", "created_at"}}).
		Sort("created_at", true).
		Paginate(page, limit).
		Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}

// GetSubscribedChannels lists the channels the actor subscribes to.
func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, actorID uint, page, limit int) (*query.Page[query.Record], error) {
	if actorID == 0 {
		return nil, models.NewInvalidIDError("actor")
	}
	p, err := query.From("relations").
		Filter(
			query.Eq("actor_id", actorID),
			query.Eq("target_kind", string(models.TargetChannel)),
		).
		Join(query.Join{
			From:       "users",
			LocalKey:   "target_id",
			ForeignKey: "id",
			As:         "channel",
			Project:    ownerFields,
		}).
		Flatten(query.Flatten{Field: "channel", Required: true}).
		Project(query.Projection{Include: []string{"channel", "created_at"}}).
		Sort("created_at", true).
		Paginate(page, limit).
		Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}
