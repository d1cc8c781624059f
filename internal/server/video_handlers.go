package server

import (
	"mediasphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaRef    string `json:"media_ref"`
	Thumbnail   string `json:"thumbnail"`
	IsPublished bool   `json:"is_published"`
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// ListVideos returns a page of published videos. Supports q, owner_id,
// sort_by, sort_dir, page and limit query parameters.
func (s *Server) ListVideos(c *fiber.Ctx) error {
	pg := parsePagination(c)
	page, err := s.videoService.ListVideos(c.UserContext(), service.ListVideosInput{
		Query:       c.Query("q"),
		OwnerID:     uint(c.QueryInt("owner_id", 0)),
		SortBy:      c.Query("sort_by"),
		SortDesc:    c.Query("sort_dir", "desc") != "asc",
		Page:        pg.Page,
		Limit:       pg.Limit,
		PrincipalID: principal(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// GetVideo returns one video and counts the fetch as a view.
func (s *Server) GetVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	video, err := s.videoService.GetVideo(c.UserContext(), videoID, principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(video)
}

// CreateVideo registers an already-uploaded video for the authenticated user.
func (s *Server) CreateVideo(c *fiber.Ctx) error {
	var req createVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	video, err := s.videoService.CreateVideo(c.UserContext(), service.CreateVideoInput{
		PrincipalID: principal(c),
		Title:       req.Title,
		Description: req.Description,
		MediaRef:    req.MediaRef,
		Thumbnail:   req.Thumbnail,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// UpdateVideo edits the metadata of the caller's own video.
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	video, err := s.videoService.UpdateVideo(c.UserContext(), service.UpdateVideoInput{
		PrincipalID: principal(c),
		VideoID:     videoID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(video)
}

// DeleteVideo removes the caller's own video and its dependents.
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.videoService.DeleteVideo(c.UserContext(), videoID, principal(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Video deleted",
	})
}

// TogglePublishStatus flips the publish flag on the caller's own video.
func (s *Server) TogglePublishStatus(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	video, err := s.videoService.TogglePublishStatus(c.UserContext(), videoID, principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(video)
}
