package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauthspotify "golang.org/x/oauth2/spotify"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIBaseURL is the Web API root; zmb3/spotify expects the trailing slash.
	DefaultAPIBaseURL = "https://api.spotify.com/v1/"

	playlistListLimit = 50

	playlistMetaFields  = "id,name,description,images,owner.display_name,followers.total"
	playlistTrackFields = "items(track(type,id,name,duration_ms,album(name,images),artists(name))),total"
)

// Scopes requested at login.
var Scopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopePlaylistReadPrivate,
}

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Empty values fall back to Spotify's public endpoints.
	AuthURL    string
	TokenURL   string
	APIBaseURL string

	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
}

// Client talks to Spotify's accounts service and Web API on behalf of stored users.
type Client struct {
	oauth      *oauth2.Config
	baseURL    string
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	endpoint := oauthspotify.Endpoint
	if opts.AuthURL != "" {
		endpoint.AuthURL = opts.AuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInHeader

	baseURL := opts.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	if baseURL[len(baseURL)-1] != '/' {
		baseURL += "/"
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, burst),
		httpClient: httpClient,
		logger:     logger.Named("spotify"),
		now:        time.Now,
	}
}

// AuthCodeURL builds the authorize redirect carrying state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		c.logger.Warn("code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}
	return c.tokenFrom(tok, ""), nil
}

// Refresh trades a stored refresh token for a new access token.
// Spotify may omit refresh_token in the reply, in which case the old one stays valid.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := c.oauth.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		c.logger.Warn("token refresh failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}
	return c.tokenFrom(tok, refreshToken), nil
}

func (c *Client) CurrentProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, remoteError("current user", err)
	}

	user, err := c.api(ctx, accessToken).CurrentUser(ctx)
	if err != nil {
		return nil, remoteError("current user", err)
	}
	return profileFromUser(user), nil
}

// OwnedPlaylists walks /me/playlists fifty at a time and keeps the non-collaborative playlists owned by ownerID.
// A failure on any page discards everything collected so far.
func (c *Client) OwnedPlaylists(ctx context.Context, accessToken, ownerID string) OwnedPlaylistsResult {
	api := c.api(ctx, accessToken)
	owned := []Playlist{}

	for offset := 0; ; offset += playlistListLimit {
		if err := c.limiter.Wait(ctx); err != nil {
			return OwnedPlaylistsResult{Playlists: []Playlist{}, Err: remoteError("list playlists", err)}
		}

		page, err := api.CurrentUsersPlaylists(ctx, spotifyapi.Limit(playlistListLimit), spotifyapi.Offset(offset))
		if err != nil {
			return OwnedPlaylistsResult{Playlists: []Playlist{}, Err: remoteError("list playlists", err)}
		}

		for _, p := range page.Playlists {
			if p.Owner.ID != ownerID || p.Collaborative {
				continue
			}
			owned = append(owned, playlistFromSimple(p))
		}

		if page.Next == "" {
			break
		}
	}

	return OwnedPlaylistsResult{Playlists: owned}
}

// PlaylistPage fetches playlist metadata and one window of its tracks. Items without a track payload are skipped.
func (c *Client) PlaylistPage(ctx context.Context, accessToken, playlistID string, offset, limit int) (*PlaylistPage, error) {
	api := c.api(ctx, accessToken)
	id := spotifyapi.ID(playlistID)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, remoteError("get playlist", err)
	}
	meta, err := api.GetPlaylist(ctx, id, spotifyapi.Fields(playlistMetaFields))
	if err != nil {
		return nil, remoteError("get playlist", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, remoteError("get playlist items", err)
	}
	items, err := api.GetPlaylistItems(ctx, id,
		spotifyapi.Fields(playlistTrackFields),
		spotifyapi.AdditionalTypes(spotifyapi.TrackAdditionalType),
		spotifyapi.Limit(limit),
		spotifyapi.Offset(offset),
	)
	if err != nil {
		return nil, remoteError("get playlist items", err)
	}

	tracks := make([]Track, 0, len(items.Items))
	for _, item := range items.Items {
		if item.Track.Track == nil {
			continue
		}
		tracks = append(tracks, trackFromFull(item.Track.Track))
	}

	return &PlaylistPage{
		Playlist: PlaylistMeta{
			ID:          string(meta.ID),
			Name:        meta.Name,
			Description: meta.Description,
			OwnerName:   meta.Owner.DisplayName,
			Followers:   int(meta.Followers.Count),
			ImageURL:    firstImageURL(meta.Images),
		},
		Tracks: tracks,
		Total:  int(items.Total),
	}, nil
}

func (c *Client) api(ctx context.Context, accessToken string) *spotifyapi.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return spotifyapi.New(oauth2.NewClient(c.withHTTPClient(ctx), src), spotifyapi.WithBaseURL(c.baseURL))
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) tokenFrom(tok *oauth2.Token, fallbackRefresh string) *Token {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = fallbackRefresh
	}
	scope, _ := tok.Extra("scope").(string)
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn(tok.Expiry, c.now()),
		Scope:        scope,
	}
}
