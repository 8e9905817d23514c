package usecase

import (
	"context"

	authdomain "noshuff-backend/internal/auth/domain"
	"noshuff-backend/internal/playlist/dto"
	"noshuff-backend/pkg/spotify"
)

// PlaylistUsecase defines the interface for playlist business logic
type PlaylistUsecase interface {
	// ListMyPlaylists returns the caller's own non-collaborative playlists. Upstream failures yield an empty list.
	ListMyPlaylists(ctx context.Context, user *authdomain.User) ([]dto.PlaylistSummary, error)

	// GetPlaylistPage returns one window of a playlist's tracks. Links are left for the caller to fill in.
	GetPlaylistPage(ctx context.Context, user *authdomain.User, playlistID string, page, pageSize int) (*dto.PlaylistDetailPage, error)
}

// TokenProvider hands out a usable Spotify access token for a user.
type TokenProvider interface {
	SpotifyAccessToken(ctx context.Context, user *authdomain.User) (string, error)
}

// PlaylistAPI is the slice of the Spotify client the playlist endpoints need
type PlaylistAPI interface {
	OwnedPlaylists(ctx context.Context, accessToken, ownerID string) spotify.OwnedPlaylistsResult
	PlaylistPage(ctx context.Context, accessToken, playlistID string, offset, limit int) (*spotify.PlaylistPage, error)
}
