package service

import (
	"context"

	"mediasphere/internal/models"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	exec         *query.Executor
}

type CreatePlaylistInput struct {
	PrincipalID uint
	Name        string
	Description string
}

type UpdatePlaylistInput struct {
	PrincipalID uint
	PlaylistID  uint
	Name        string
	Description string
}

func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	exec *query.Executor,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		exec:         exec,
	}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Playlist name is required")
	}
	playlist := &models.Playlist{
		OwnerID:     in.PrincipalID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetPlaylist returns the playlist with its slots in position order.
func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID uint) (*models.Playlist, error) {
	if playlistID == 0 {
		return nil, models.NewInvalidIDError("playlist")
	}
	return s.playlistRepo.GetByID(ctx, playlistID)
}

// GetUserPlaylists returns a page of the user's playlists, each carrying a
// videos_count derived from its slots.
func (s *PlaylistService) GetUserPlaylists(ctx context.Context, ownerID uint, page, limit int) (*query.Page[query.Record], error) {
	if ownerID == 0 {
		return nil, models.NewInvalidIDError("user")
	}
	p, err := query.From("playlists").
		Filter(query.Eq("owner_id", ownerID)).
		Join(query.Join{
			From:       "playlist_videos",
			LocalKey:   "id",
			ForeignKey: "playlist_id",
			As:         "slots",
			Project:    []string{"video_id"},
		}).
		Compute(query.Compute{As: "videos_count", Op: query.ComputeCount, Source: "slots"}).
		Project(query.Projection{Exclude: []string{"slots"}}).
		Sort("created_at", true).
		Paginate(page, limit).
		Build()
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return s.exec.Execute(ctx, p)
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, in UpdatePlaylistInput) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, in.PlaylistID)
	if err != nil {
		return nil, err
	}
	if !models.CheckOwnership(playlist.OwnerID, in.PrincipalID) {
		return nil, models.NewForbiddenError("You can only edit your own playlists")
	}
	if in.Name != "" {
		playlist.Name = in.Name
	}
	if in.Description != "" {
		playlist.Description = in.Description
	}
	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, principalID uint) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(playlist.OwnerID, principalID) {
		return models.NewForbiddenError("You can only delete your own playlists")
	}
	return s.playlistRepo.Delete(ctx, playlistID)
}

// AddVideoToPlaylist appends the video to the end of the playlist. Adding
// the same video again creates another slot.
func (s *PlaylistService) AddVideoToPlaylist(ctx context.Context, playlistID, videoID, principalID uint) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(playlist.OwnerID, principalID) {
		return models.NewForbiddenError("You can only modify your own playlists")
	}
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.playlistRepo.AddVideo(ctx, playlistID, videoID)
}

// RemoveVideoFromPlaylist removes every slot holding the video.
func (s *PlaylistService) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID, principalID uint) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if !models.CheckOwnership(playlist.OwnerID, principalID) {
		return models.NewForbiddenError("You can only modify your own playlists")
	}
	return s.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
}
