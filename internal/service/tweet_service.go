package service

import (
	"context"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

// MaxTweetLength bounds tweet content, matching the public contract of the
// tweets surface.
const MaxTweetLength = 280

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	exec      *query.Executor
}

type CreateTweetInput struct {
	PrincipalID uint
	Content     string
}

type UpdateTweetInput struct {
	PrincipalID uint
	TweetID     uint
	Content     string
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	userRepo repository.UserRepository,
	exec *query.Executor,
) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo, exec: exec}
}

func validateTweetContent(content string) error {
	if content == "" {
		return models.NewValidationError("Tweet content is required")
	}
	if len(content) > MaxTweetLength {
		return models.NewValidationError("Tweet content exceeds the maximum length")
	}
	return nil
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	if err := validateTweetContent(in.Content); err != nil {
		return nil, err
	}
	tweet := &models.Tweet{
		OwnerID: in.PrincipalID,
		Content: in.Content,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// GetUserTweets returns a page of the user's tweets with like metrics,
// newest first.
func (s *TweetService) GetUserTweets(ctx context.Context, ownerID, principalID uint, page, limit int) (*query.Page[query.Record], error) {
	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	b := query.From("tweets").
		Filter(query.Eq("owner_id", ownerID)).
		Join(ownerJoin()).
		Join(likesJoin(models.TargetTweet)).
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

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	if err := validateTweetContent(in.Content); err != nil {
		return nil, err
	}
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID)
	if err != nil {
		return nil, err
	}
	if !models.CheckOwnership(tweet.OwnerID, in.PrincipalID) {
		return nil, models.NewForbiddenError("You can only edit your own tweets")
	}
	tweet.Content = in.Content
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// DeleteTweet removes the tweet and the likes pointing at it.
func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, principalID uint) error {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(tweet.OwnerID, principalID) {
		return models.NewForbiddenError("You can only delete your own tweets")
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}
