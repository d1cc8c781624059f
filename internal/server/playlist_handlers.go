package server

import (
	"mediasphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylist creates an empty playlist for the authenticated user.
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	var req playlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	playlist, err := s.playlistService.CreatePlaylist(c.UserContext(), service.CreatePlaylistInput{
		PrincipalID: principal(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// GetPlaylist returns one playlist with its videos in insertion order.
func (s *Server) GetPlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	playlist, err := s.playlistService.GetPlaylist(c.UserContext(), playlistID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(playlist)
}

// GetUserPlaylists returns a page of a user's playlists with video counts.
func (s *Server) GetUserPlaylists(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pg := parsePagination(c)
	page, err := s.playlistService.GetUserPlaylists(c.UserContext(), userID, pg.Page, pg.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// UpdatePlaylist edits the name or description of the caller's own playlist.
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req playlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	playlist, err := s.playlistService.UpdatePlaylist(c.UserContext(), service.UpdatePlaylistInput{
		PrincipalID: principal(c),
		PlaylistID:  playlistID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(playlist)
}

// DeletePlaylist removes the caller's own playlist.
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.playlistService.DeletePlaylist(c.UserContext(), playlistID, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Playlist deleted",
	})
}

// AddVideoToPlaylist appends a video to the caller's own playlist.
func (s *Server) AddVideoToPlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.playlistService.AddVideoToPlaylist(c.UserContext(), playlistID, videoID, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Video added to playlist",
	})
}

// RemoveVideoFromPlaylist removes every occurrence of a video from the
// caller's own playlist.
func (s *Server) RemoveVideoFromPlaylist(c *fiber.Ctx) error {
	playlistID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}
	if err := s.playlistService.RemoveVideoFromPlaylist(c.UserContext(), playlistID, videoID, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Video removed from playlist",
	})
}
