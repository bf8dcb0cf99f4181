package api

import (
	"net/http"

	authDelivery "proview-backend/internal/auth/delivery"
	authUsecasePkg "proview-backend/internal/auth/usecase"
	chatDelivery "proview-backend/internal/chat/delivery"
	reviewDelivery "proview-backend/internal/review/delivery"
	"proview-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUsecase authUsecasePkg.AuthUsecase,
	sseManager *sse.Manager,
	authHandler *authDelivery.AuthHandler,
	chatHandler *chatDelivery.ChatHandler,
	reviewHandler *reviewDelivery.ReviewHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint for chat status events
		api.GET("/events", authDelivery.AuthMiddleware(authUsecase), func(c *gin.Context) {
			userID := c.GetString("userID")
			sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authDelivery.AuthMiddleware(authUsecase), authHandler.Me)
			auth.PUT("/profile", authDelivery.AuthMiddleware(authUsecase), authHandler.UpdateProfile)
			auth.POST("/avatar", authDelivery.AuthMiddleware(authUsecase), authHandler.UploadAvatar)
		}

		// Ask route (protected) - runs the AI pass for a prompt
		api.POST("/ask", authDelivery.AuthMiddleware(authUsecase), chatHandler.Ask)

		// Chat routes (protected)
		chats := api.Group("/chats")
		chats.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			chats.GET("", chatHandler.GetChats)
			chats.POST("", chatHandler.CreateChat)
			chats.GET("/:id", chatHandler.GetChatByID)
			chats.DELETE("/:id", chatHandler.DeleteChat)
			chats.POST("/:id/retry", chatHandler.Retry)
		}

		// Product review routes (protected)
		products := api.Group("/products")
		products.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			products.GET("/:id/reviews", reviewHandler.GetProductReviews)
			products.POST("/:id/reviews", reviewHandler.SubmitReview)
			products.GET("/:id/verdict", reviewHandler.Verdict)
		}

		// Review vote routes (protected)
		reviews := api.Group("/reviews")
		reviews.Use(authDelivery.AuthMiddleware(authUsecase))
		{
			reviews.PATCH("/:id/vote-type", reviewHandler.SetVoteType)
			reviews.POST("/:id/upvote", reviewHandler.ToggleUpvote)
			reviews.POST("/search/semantic", reviewHandler.SemanticSearch)
		}
	}
}
