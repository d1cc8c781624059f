package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleSubscription flips the caller's subscription to a channel.
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.subscriptionService.ToggleSubscription(c.UserContext(), principal(c), channelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetChannelSubscribers returns a page of users subscribed to a channel.
func (s *Server) GetChannelSubscribers(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pg := parsePagination(c)
	page, err := s.subscriptionService.GetChannelSubscribers(c.UserContext(), channelID, pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// GetSubscribedChannels returns a page of channels the caller subscribes to.
func (s *Server) GetSubscribedChannels(c *fiber.Ctx) error {
	pg := parsePagination(c)
	page, err := s.subscriptionService.GetSubscribedChannels(c.UserContext(), principal(c), pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}
