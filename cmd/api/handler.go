package api

import (
	"log"

	authDelivery "proview-backend/internal/auth/delivery"
	authUsecasePkg "proview-backend/internal/auth/usecase"
	chatDelivery "proview-backend/internal/chat/delivery"
	chatUsecasePkg "proview-backend/internal/chat/usecase"
	reviewDelivery "proview-backend/internal/review/delivery"
	reviewUsecasePkg "proview-backend/internal/review/usecase"
	"proview-backend/pkg/chroma"
	"proview-backend/pkg/config"
	"proview-backend/pkg/sse"
	"proview-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecasePkg.AuthUsecase
	sseManager    *sse.Manager
	config        *config.Config
	authHandler   *authDelivery.AuthHandler
	chatHandler   *chatDelivery.ChatHandler
	reviewHandler *reviewDelivery.ReviewHandler
}

func NewHandler(
	authUc authUsecasePkg.AuthUsecase,
	chatUc chatUsecasePkg.ChatUsecase,
	reviewUc reviewUsecasePkg.ReviewUsecase,
	sseManager *sse.Manager,
	cfg *config.Config,
) *Handler {
	// Avatar object storage (optional, profile pictures fall back to none)
	var avatarStore authDelivery.AvatarStore
	if cfg.FirebaseCredentials != "" && cfg.StorageBucket != "" {
		storageClient, err := storage.NewClient(cfg.FirebaseCredentials, cfg.StorageBucket)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage client (avatar upload disabled): %v", err)
		} else {
			avatarStore = storageClient
			authUc.SetAvatarResolver(storageClient)
			reviewUc.SetAvatarResolver(storageClient)
			log.Println("Storage client initialized successfully")
		}
	} else {
		log.Println("Warning: STORAGE_BUCKET not set. Avatar upload will not be available.")
	}

	// Chroma vector index (optional, semantic review search)
	if cfg.ChromaAPIKey != "" {
		chromaClient, err := chroma.NewChromaClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Chroma client: %v. Semantic search will not be available.", err)
		} else {
			reviewUc.SetVectorIndex(chromaClient)
			log.Println("Chroma client initialized successfully")
		}
	} else {
		log.Println("Warning: CHROMA_API_KEY not set. Semantic search will not be available.")
	}

	return &Handler{
		authUsecase:   authUc,
		sseManager:    sseManager,
		config:        cfg,
		authHandler:   authDelivery.NewAuthHandler(authUc, avatarStore),
		chatHandler:   chatDelivery.NewChatHandler(chatUc),
		reviewHandler: reviewDelivery.NewReviewHandler(reviewUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.sseManager, h.authHandler, h.chatHandler, h.reviewHandler)

	return r.Run(addr)
}
