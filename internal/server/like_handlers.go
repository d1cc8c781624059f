package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleVideoLike flips the caller's like on a video.
func (s *Server) ToggleVideoLike(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.likeService.ToggleVideoLike(c.UserContext(), principal(c), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ToggleCommentLike flips the caller's like on a comment.
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.likeService.ToggleCommentLike(c.UserContext(), principal(c), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ToggleTweetLike flips the caller's like on a tweet.
func (s *Server) ToggleTweetLike(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.likeService.ToggleTweetLike(c.UserContext(), principal(c), tweetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetLikedVideos returns a page of videos the caller has liked, most recent like first.
func (s *Server) GetLikedVideos(c *fiber.Ctx) error {
	pg := parsePagination(c)
	page, err := s.likeService.GetLikedVideos(c.UserContext(), principal(c), pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}
