package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": message}})
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost/api/v1/post_auth",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/api/token",
		APIBaseURL:   srv.URL + "/v1",
		HTTPClient:   srv.Client(),
	}, zap.NewNop())
}

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Options{ClientID: "abc", RedirectURI: "http://localhost/cb"}, zap.NewNop())

	u := c.AuthCodeURL("state-123")
	assert.True(t, strings.HasPrefix(u, "https://accounts.spotify.com/authorize?"))
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "client_id=abc")
	assert.Contains(t, u, "playlist-read-private")
}

func TestExchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/token", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "good-code", r.PostForm.Get("code"))
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)

			writeJSON(w, http.StatusOK, map[string]any{
				"access_token":  "access",
				"refresh_token": "refresh",
				"token_type":    "Bearer",
				"expires_in":    3600,
				"scope":         "user-read-private user-read-email",
			})
		}))

		tok, err := c.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "access", tok.AccessToken)
		assert.Equal(t, "refresh", tok.RefreshToken)
		assert.Equal(t, "user-read-private user-read-email", tok.Scope)
		assert.InDelta(t, 3600, tok.ExpiresIn, 2)
	})

	t.Run("rejected code", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid authorization code",
			})
		}))

		tok, err := c.Exchange(context.Background(), "expired")
		require.ErrorIs(t, err, ErrAuthExchange)
		assert.Nil(t, tok)
	})
}

func TestRefreshKeepsOldRefreshToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "new-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))

	tok, err := c.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Equal(t, "old-refresh", tok.RefreshToken)
}

func TestCurrentProfile(t *testing.T) {
	t.Run("maps profile", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/me", r.URL.Path)
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"id":           "spotify-user",
				"display_name": "Test User",
				"email":        "test@example.com",
				"country":      "SE",
				"product":      "premium",
				"href":         "https://api.spotify.com/v1/users/spotify-user",
				"uri":          "spotify:user:spotify-user",
				"followers":    map[string]any{"total": 42},
				"images":       []map[string]any{{"url": "https://img/1.jpg"}, {"url": "https://img/2.jpg"}},
			})
		}))

		p, err := c.CurrentProfile(context.Background(), "user-token")
		require.NoError(t, err)
		assert.Equal(t, "spotify-user", p.ID)
		assert.Equal(t, "Test User", p.DisplayName)
		assert.Equal(t, "test@example.com", p.Email)
		assert.Equal(t, "SE", p.Country)
		assert.Equal(t, "premium", p.Product)
		assert.Equal(t, "spotify:user:spotify-user", p.URI)
		assert.Equal(t, "https://api.spotify.com/v1/users/spotify-user", p.Href)
		assert.Equal(t, 42, p.FollowerCount)
		assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, p.ImageURLs)
	})

	t.Run("upstream error keeps message", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusForbidden, "User not registered in the Developer Dashboard")
		}))

		_, err := c.CurrentProfile(context.Background(), "user-token")
		require.ErrorIs(t, err, ErrRemoteAPI)

		var remote *RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, "User not registered in the Developer Dashboard", remote.Message)
		assert.Equal(t, http.StatusForbidden, remote.Status)
	})
}

func simplePlaylist(id, owner string, collaborative bool, images ...string) map[string]any {
	imgs := make([]map[string]any, 0, len(images))
	for _, u := range images {
		imgs = append(imgs, map[string]any{"url": u})
	}
	return map[string]any{
		"id":            id,
		"name":          "Playlist " + id,
		"description":   "About " + id,
		"collaborative": collaborative,
		"owner":         map[string]any{"id": owner, "display_name": owner},
		"images":        imgs,
		"tracks":        map[string]any{"href": "", "total": 7},
	}
}

func TestOwnedPlaylists(t *testing.T) {
	t.Run("filters across pages", func(t *testing.T) {
		var offsets []string
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/me/playlists", r.URL.Path)
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			offset := r.URL.Query().Get("offset")
			offsets = append(offsets, offset)

			switch offset {
			case "", "0":
				writeJSON(w, http.StatusOK, map[string]any{
					"items": []any{
						simplePlaylist("mine", "me", false, "https://img/mine.jpg"),
						simplePlaylist("collab", "me", true),
						simplePlaylist("theirs", "someone-else", false),
					},
					"limit": 50, "offset": 0, "total": 51,
					"next": "http://next-page",
				})
			default:
				writeJSON(w, http.StatusOK, map[string]any{
					"items": []any{simplePlaylist("mine-2", "me", false)},
					"limit": 50, "offset": 50, "total": 51,
					"next": nil,
				})
			}
		}))

		res := c.OwnedPlaylists(context.Background(), "user-token", "me")
		require.False(t, res.Degraded())
		require.Len(t, res.Playlists, 2)

		assert.Equal(t, "mine", res.Playlists[0].ID)
		require.NotNil(t, res.Playlists[0].ImageURL)
		assert.Equal(t, "https://img/mine.jpg", *res.Playlists[0].ImageURL)
		assert.Equal(t, 7, res.Playlists[0].TrackCount)

		assert.Equal(t, "mine-2", res.Playlists[1].ID)
		assert.Nil(t, res.Playlists[1].ImageURL)
		require.Len(t, offsets, 2)
		assert.Equal(t, "50", offsets[1])
	})

	t.Run("failure mid pagination degrades to empty", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				writeJSON(w, http.StatusOK, map[string]any{
					"items": []any{simplePlaylist("mine", "me", false)},
					"next":  "http://next-page",
				})
				return
			}
			writeAPIError(w, http.StatusInternalServerError, "Server error")
		}))

		res := c.OwnedPlaylists(context.Background(), "user-token", "me")
		require.True(t, res.Degraded())
		require.ErrorIs(t, res.Err, ErrRemoteAPI)
		assert.NotNil(t, res.Playlists)
		assert.Empty(t, res.Playlists)
	})
}

func TestPlaylistPage(t *testing.T) {
	t.Run("metadata and tracks", func(t *testing.T) {
		var itemsQuery map[string]string
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/v1/playlists/pl1":
				assert.Equal(t, playlistMetaFields, r.URL.Query().Get("fields"))
				writeJSON(w, http.StatusOK, map[string]any{
					"id":          "pl1",
					"name":        "Road Trip",
					"description": "Long drives",
					"images":      []map[string]any{{"url": "https://img/pl1.jpg"}},
					"owner":       map[string]any{"display_name": "Test User"},
					"followers":   map[string]any{"total": 100},
				})
			case strings.HasPrefix(r.URL.Path, "/v1/playlists/pl1/"):
				q := r.URL.Query()
				itemsQuery = map[string]string{
					"fields":           q.Get("fields"),
					"additional_types": q.Get("additional_types"),
					"limit":            q.Get("limit"),
					"offset":           q.Get("offset"),
				}
				writeJSON(w, http.StatusOK, map[string]any{
					"total": 25,
					"items": []any{
						map[string]any{"track": map[string]any{
							"type":        "track",
							"id":          "t1",
							"name":        "Song One",
							"duration_ms": 300000,
							"album": map[string]any{
								"name":   "Album One",
								"images": []map[string]any{{"url": "https://img/a1.jpg"}},
							},
							"artists": []map[string]any{{"name": "Artist A"}, {"name": "Artist B"}},
						}},
						map[string]any{"track": map[string]any{
							"type": "episode",
							"id":   "e1",
							"name": "Podcast Episode",
						}},
						map[string]any{"track": nil},
						map[string]any{"track": map[string]any{
							"type":        "track",
							"id":          "t2",
							"name":        "Song Two",
							"duration_ms": 1000,
							"album":       map[string]any{"name": "Album Two", "images": []any{}},
							"artists":     []map[string]any{{"name": "Artist C"}},
						}},
					},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))

		page, err := c.PlaylistPage(context.Background(), "user-token", "pl1", 10, 10)
		require.NoError(t, err)

		assert.Equal(t, playlistTrackFields, itemsQuery["fields"])
		assert.Equal(t, "track", itemsQuery["additional_types"])
		assert.Equal(t, "10", itemsQuery["limit"])
		assert.Equal(t, "10", itemsQuery["offset"])

		assert.Equal(t, "pl1", page.Playlist.ID)
		assert.Equal(t, "Road Trip", page.Playlist.Name)
		assert.Equal(t, "Long drives", page.Playlist.Description)
		assert.Equal(t, "Test User", page.Playlist.OwnerName)
		assert.Equal(t, 100, page.Playlist.Followers)
		require.NotNil(t, page.Playlist.ImageURL)
		assert.Equal(t, "https://img/pl1.jpg", *page.Playlist.ImageURL)
		assert.Equal(t, 25, page.Total)

		require.Len(t, page.Tracks, 2)
		assert.Equal(t, Track{
			ID:            "t1",
			Name:          "Song One",
			DurationMs:    300000,
			Artists:       []string{"Artist A", "Artist B"},
			Album:         "Album One",
			AlbumImageURL: page.Tracks[0].AlbumImageURL,
		}, page.Tracks[0])
		require.NotNil(t, page.Tracks[0].AlbumImageURL)
		assert.Equal(t, "https://img/a1.jpg", *page.Tracks[0].AlbumImageURL)
		assert.Equal(t, "t2", page.Tracks[1].ID)
		assert.Nil(t, page.Tracks[1].AlbumImageURL)
	})

	t.Run("upstream error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusNotFound, "Resource not found")
		}))

		_, err := c.PlaylistPage(context.Background(), "user-token", "missing", 0, 20)
		require.ErrorIs(t, err, ErrRemoteAPI)
		assert.Equal(t, "Resource not found", err.Error())
	})
}

func TestLimiterHonoursContext(t *testing.T) {
	c := NewClient(Options{RequestsPerSecond: 0.001, Burst: 1, APIBaseURL: "http://127.0.0.1:1/"}, zap.NewNop())
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.CurrentProfile(ctx, "token")
	require.ErrorIs(t, err, ErrRemoteAPI)
}

func TestExpiresIn(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		expiry time.Time
		want   int
	}{
		{time.Time{}, 0},
		{now.Add(3600 * time.Second), 3600},
		{now.Add(1500 * time.Millisecond), 2},
	} {
		t.Run(strconv.Itoa(tc.want), func(t *testing.T) {
			assert.Equal(t, tc.want, expiresIn(tc.expiry, now), fmt.Sprint(tc.expiry))
		})
	}
}
