package api

import (
	authRepo "noshuff-backend/internal/auth/repository"
	"noshuff-backend/internal/auth/scheduler"
	authUsecase "noshuff-backend/internal/auth/usecase"
	playlistUsecase "noshuff-backend/internal/playlist/usecase"
	"noshuff-backend/pkg/config"
	"noshuff-backend/pkg/spotify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the fully wired service: HTTP handler plus background cleanup.
type App struct {
	Handler   *Handler
	Scheduler *scheduler.TokenCleanupScheduler
}

// Build wires repositories, the Spotify client and use cases (dependency injection).
func Build(cfg *config.Config, db *gorm.DB, log *zap.Logger) *App {
	// Initialize repositories
	userRepo := authRepo.NewUserRepository(db)
	tokenRepo := authRepo.NewTokenRepository(db)
	stateRepo := authRepo.NewStateRepository(db)

	spotifyClient := spotify.NewClient(spotify.Options{
		ClientID:          cfg.SpotifyClientID,
		ClientSecret:      cfg.SpotifyClientSecret,
		RedirectURI:       cfg.SpotifyRedirectURI,
		AuthURL:           cfg.SpotifyAuthURL,
		TokenURL:          cfg.SpotifyTokenURL,
		APIBaseURL:        cfg.SpotifyAPIBaseURL,
		RequestsPerSecond: cfg.SpotifyRequestsPerSecond,
		Burst:             cfg.SpotifyRequestBurst,
	}, log)

	// Initialize use cases
	authUc := authUsecase.NewAuthUsecase(userRepo, tokenRepo, stateRepo, spotifyClient, cfg, log)
	playlistUc := playlistUsecase.NewPlaylistUsecase(authUc, spotifyClient, log)

	return &App{
		Handler:   NewHandler(authUc, playlistUc, cfg, log),
		Scheduler: scheduler.NewTokenCleanupScheduler(tokenRepo, stateRepo, cfg.CleanupInterval, log),
	}
}
