package delivery

import (
	"errors"
	"net/http"
	"net/url"

	authdomain "noshuff-backend/internal/auth/domain"
	authdto "noshuff-backend/internal/auth/dto"
	"noshuff-backend/internal/auth/usecase"
	"noshuff-backend/pkg/config"
	"noshuff-backend/pkg/spotify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	RefreshCookieName = "refresh_token"
	StateCookieName   = "oauth_state"
)

// AuthHandler handles login, session and profile HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	config      *config.Config
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		config:      cfg,
		logger:      logger.Named("auth_handler"),
	}
}

// PreAuth redirects to the Spotify authorize page
// GET /api/v1/auth
func (h *AuthHandler) PreAuth(c *gin.Context) {
	authURL, state, err := h.authUsecase.BeginLogin(c.Request.Context())
	if err != nil {
		h.logger.Error("begin login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start login"})
		return
	}

	h.setCookie(c, StateCookieName, state, int(h.config.OAuthStateTTL.Seconds()), http.SameSiteLaxMode)
	c.Redirect(http.StatusFound, authURL)
}

// PostAuth is the OAuth callback
// GET /api/v1/post_auth?code=...&state=...
func (h *AuthHandler) PostAuth(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		c.Redirect(http.StatusFound, h.frontendURL(url.Values{"error": {providerErr}}))
		return
	}

	expectedState, _ := c.Cookie(StateCookieName)
	h.setCookie(c, StateCookieName, "", -1, http.SameSiteLaxMode)

	pair, err := h.authUsecase.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), expectedState)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrInvalidState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		case errors.Is(err, spotify.ErrAuthExchange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange authorization code"})
		case errors.Is(err, spotify.ErrRemoteAPI):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			h.logger.Error("complete login", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete login"})
		}
		return
	}

	h.setCookie(c, RefreshCookieName, pair.RefreshToken, int(h.config.JWTRefreshExpiry.Seconds()), h.config.SameSite())
	c.Redirect(http.StatusFound, h.frontendURL(url.Values{"access_token": {pair.AccessToken}}))
}

// Logout blacklists the refresh token and clears the cookie
// POST /api/v1/auth/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	err := h.authUsecase.Revoke(c.Request.Context(), user.ID, h.refreshToken(c))
	switch {
	case err == nil:
	case errors.Is(err, authdomain.ErrTokenNotProvided):
		c.JSON(http.StatusBadRequest, authdto.DetailResponse{Detail: "Refresh token not provided."})
		return
	case errors.Is(err, authdomain.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, authdto.DetailResponse{Detail: "Token is invalid or expired"})
		return
	default:
		h.logger.Error("logout", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, authdto.DetailResponse{Detail: "Failed to log out"})
		return
	}

	h.setCookie(c, RefreshCookieName, "", -1, h.config.SameSite())
	c.JSON(http.StatusOK, authdto.DetailResponse{Detail: "Successfully logged out."})
}

// RefreshToken mints a new access token
// POST /api/v1/auth/token/refresh/
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	resp, err := h.authUsecase.Refresh(c.Request.Context(), h.refreshToken(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, authdomain.ErrTokenNotProvided):
		c.JSON(http.StatusBadRequest, authdto.DetailResponse{Detail: "Refresh token not provided."})
	case errors.Is(err, authdomain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, authdto.DetailResponse{Detail: "Token is invalid or expired"})
	default:
		h.logger.Error("refresh", zap.Error(err))
		c.JSON(http.StatusInternalServerError, authdto.DetailResponse{Detail: "Failed to refresh token"})
	}
}

// Me returns the caller's profile
// GET /api/v1/current_user
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the caller's personal blurb
// PATCH /api/v1/current_user
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req authdto.UpdateCurrentUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.authUsecase.UpdateBlurb(c.Request.Context(), user, req.PersonalBlurb)
	if err != nil {
		h.logger.Error("update blurb", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// refreshToken reads the cookie first and falls back to a {"refresh": ...} body.
func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(RefreshCookieName); err == nil && token != "" {
		return token
	}

	var req authdto.RefreshTokenRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.Refresh
}

// setCookie writes an HttpOnly cookie; maxAge -1 emits Max-Age=0 to delete it.
// The state cookie is always Lax: it has to survive the top-level redirect back from Spotify.
func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, sameSite http.SameSite) {
	c.SetSameSite(sameSite)
	c.SetCookie(name, value, maxAge, "/", "", h.config.CookieSecure, true)
}

func (h *AuthHandler) frontendURL(params url.Values) string {
	u, err := url.Parse(h.config.FrontendRedirectURI)
	if err != nil {
		return h.config.FrontendRedirectURI + "?" + params.Encode()
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
