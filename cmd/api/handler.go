package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authDelivery "noshuff-backend/internal/auth/delivery"
	authUsecase "noshuff-backend/internal/auth/usecase"
	playlistDelivery "noshuff-backend/internal/playlist/delivery"
	playlistUsecase "noshuff-backend/internal/playlist/usecase"
	"noshuff-backend/pkg/config"
	"noshuff-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	authHandler     *authDelivery.AuthHandler
	playlistHandler *playlistDelivery.PlaylistHandler
	config          *config.Config
	logger          *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, playlistUc playlistUsecase.PlaylistUsecase, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		authUsecase:     authUc,
		authHandler:     authDelivery.NewAuthHandler(authUc, cfg, log),
		playlistHandler: playlistDelivery.NewPlaylistHandler(playlistUc, log),
		config:          cfg,
		logger:          log,
	}
}

// Engine builds the gin router with middleware and routes attached.
func (h *Handler) Engine() *gin.Engine {
	if !h.config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(h.logger))

	// CORS middleware: credentialed responses only for configured origins
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && h.config.AllowsOrigin(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH")
		}
		c.Writer.Header().Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.playlistHandler)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
