package server

import (
	"mediasphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tweetRequest struct {
	Content string `json:"content"`
}

// CreateTweet posts a new tweet for the authenticated user.
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req tweetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	tweet, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		PrincipalID: principal(c),
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tweet)
}

// GetUserTweets returns a page of a user's tweets, newest first.
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pg := parsePagination(c)
	page, err := s.tweetService.GetUserTweets(c.UserContext(), userID, principal(c), pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// UpdateTweet edits the caller's own tweet.
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req tweetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	tweet, err := s.tweetService.UpdateTweet(c.UserContext(), service.UpdateTweetInput{
		PrincipalID: principal(c),
		TweetID:     tweetID,
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tweet)
}

// DeleteTweet removes the caller's own tweet.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.tweetService.DeleteTweet(c.UserContext(), tweetID, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Tweet deleted",
	})
}
