package delivery

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	authdelivery "noshuff-backend/internal/auth/delivery"
	authdomain "noshuff-backend/internal/auth/domain"
	"noshuff-backend/internal/playlist/domain"
	"noshuff-backend/internal/playlist/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlaylistHandler serves the caller's Spotify playlists
type PlaylistHandler struct {
	playlistUsecase usecase.PlaylistUsecase
	logger          *zap.Logger
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(playlistUsecase usecase.PlaylistUsecase, logger *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		playlistUsecase: playlistUsecase,
		logger:          logger.Named("playlist_handler"),
	}
}

// ListPlaylists handles GET /api/v1/spotify_user_playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	playlists, err := h.playlistUsecase.ListMyPlaylists(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlists)
}

// GetPlaylist handles GET /api/v1/spotify_user_playlists/:id?page=&page_size=
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, err := usecase.ParsePage(c.Query("page"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	pageSize := usecase.ParsePageSize(c.Query("page_size"))

	result, err := h.playlistUsecase.GetPlaylistPage(c.Request.Context(), user, c.Param("id"), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result.Next, result.Previous = usecase.PageLinks(absoluteURL(c.Request), page, pageSize, result.Count)
	c.JSON(http.StatusOK, result)
}

func (h *PlaylistHandler) respondError(c *gin.Context, err error) {
	var pageErr *domain.InvalidPageError
	var upstreamErr *domain.UpstreamError

	switch {
	case errors.As(err, &pageErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": pageErr.Message})
	case errors.Is(err, domain.ErrInvalidPlaylistID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid playlist id"})
	case errors.Is(err, authdomain.ErrSpotifyNotLinked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Spotify account is not linked"})
	case errors.As(err, &upstreamErr):
		h.logger.Warn("spotify request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamErr.Error()})
	default:
		h.logger.Error("playlist request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// absoluteURL rebuilds the URL the client used, honoring a TLS terminating proxy.
func absoluteURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	u := *r.URL
	u.Scheme = scheme
	u.Host = r.Host
	return &u
}
