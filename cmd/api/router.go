package api

import (
	"net/http"

	authDelivery "noshuff-backend/internal/auth/delivery"
	authUsecase "noshuff-backend/internal/auth/usecase"
	playlistDelivery "noshuff-backend/internal/playlist/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, authHandler *authDelivery.AuthHandler, playlistHandler *playlistDelivery.PlaylistHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		v1 := api.Group("/v1")

		// OAuth redirect legs
		v1.GET("/auth", authHandler.PreAuth)
		v1.GET("/post_auth", authHandler.PostAuth)

		// Session routes
		auth := v1.Group("/auth")
		{
			auth.POST("/logout/", authDelivery.AuthMiddleware(authUsecase), authHandler.Logout)
			auth.POST("/token/refresh/", authHandler.RefreshToken)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			protected.GET("/current_user", authHandler.Me)
			protected.PATCH("/current_user", authHandler.UpdateMe)
			protected.GET("/spotify_user_playlists", playlistHandler.ListPlaylists)
			protected.GET("/spotify_user_playlists/:id", playlistHandler.GetPlaylist)
		}
	}
}
