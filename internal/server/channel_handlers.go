package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetChannelProfile returns a channel's public profile by username,
// including follower counts and whether the viewer is subscribed.
func (s *Server) GetChannelProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	profile, err := s.channelService.GetChannelProfile(c.UserContext(), username, principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// GetChannelStats returns aggregate totals for a channel.
func (s *Server) GetChannelStats(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stats, err := s.channelService.GetChannelStats(c.UserContext(), channelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetChannelVideos returns a page of a channel's published videos.
func (s *Server) GetChannelVideos(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pg := parsePagination(c)
	page, err := s.channelService.GetChannelVideos(c.UserContext(), channelID, principal(c), pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}
