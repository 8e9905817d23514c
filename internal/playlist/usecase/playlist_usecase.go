package usecase

import (
	"context"
	"math"
	"regexp"

	authdomain "noshuff-backend/internal/auth/domain"
	"noshuff-backend/internal/playlist/domain"
	"noshuff-backend/internal/playlist/dto"
	"noshuff-backend/pkg/spotify"

	"go.uber.org/zap"
)

// Spotify ids are base62; anything else would leak into the upstream request path.
var playlistIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{1,64}$`)

// playlistUsecase implements PlaylistUsecase interface
type playlistUsecase struct {
	tokens TokenProvider
	api    PlaylistAPI
	logger *zap.Logger
}

// NewPlaylistUsecase creates a new instance of playlistUsecase
func NewPlaylistUsecase(tokens TokenProvider, api PlaylistAPI, logger *zap.Logger) PlaylistUsecase {
	return &playlistUsecase{
		tokens: tokens,
		api:    api,
		logger: logger.Named("playlist"),
	}
}

func (u *playlistUsecase) ListMyPlaylists(ctx context.Context, user *authdomain.User) ([]dto.PlaylistSummary, error) {
	accessToken, err := u.tokens.SpotifyAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	result := u.api.OwnedPlaylists(ctx, accessToken, user.SpotifyID)
	if result.Degraded() {
		u.logger.Warn("owned playlists listing degraded to empty",
			zap.String("user_id", user.ID),
			zap.Error(result.Err),
		)
	}

	summaries := make([]dto.PlaylistSummary, 0, len(result.Playlists))
	for _, p := range result.Playlists {
		summaries = append(summaries, dto.PlaylistSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			TrackCount:  p.TrackCount,
		})
	}
	return summaries, nil
}

func (u *playlistUsecase) GetPlaylistPage(ctx context.Context, user *authdomain.User, playlistID string, page, pageSize int) (*dto.PlaylistDetailPage, error) {
	if page < 1 {
		return nil, &domain.InvalidPageError{Message: domain.MsgPageNotPositive}
	}
	pageSize = ClampPageSize(pageSize)
	if page > math.MaxInt/pageSize {
		return nil, &domain.InvalidPageError{Message: domain.MsgInvalidPageNumber}
	}
	if !playlistIDPattern.MatchString(playlistID) {
		return nil, domain.ErrInvalidPlaylistID
	}

	accessToken, err := u.tokens.SpotifyAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	p, err := u.api.PlaylistPage(ctx, accessToken, playlistID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, &domain.UpstreamError{Err: err}
	}

	return &dto.PlaylistDetailPage{
		Count:   p.Total,
		Results: detailFrom(p),
	}, nil
}

func detailFrom(p *spotify.PlaylistPage) dto.PlaylistDetail {
	tracks := make([]dto.TrackSummary, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		tracks = append(tracks, dto.TrackSummary{
			ID:            t.ID,
			Name:          t.Name,
			DurationMs:    t.DurationMs,
			Artists:       t.Artists,
			Album:         t.Album,
			AlbumImageURL: t.AlbumImageURL,
		})
	}

	return dto.PlaylistDetail{
		ID:          p.Playlist.ID,
		Name:        p.Playlist.Name,
		Description: p.Playlist.Description,
		Owner:       p.Playlist.OwnerName,
		Followers:   p.Playlist.Followers,
		TotalTracks: p.Total,
		ImageURL:    p.Playlist.ImageURL,
		Tracks:      tracks,
	}
}
