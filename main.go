package main

import (
	"context"
	"log"
	"strings"

	api "proview-backend/cmd/api"
	authdomain "proview-backend/internal/auth/domain"
	authRepo "proview-backend/internal/auth/repository"
	authUsecase "proview-backend/internal/auth/usecase"
	chatdomain "proview-backend/internal/chat/domain"
	chatRepo "proview-backend/internal/chat/repository"
	chatUsecase "proview-backend/internal/chat/usecase"
	"proview-backend/internal/notification"
	productdomain "proview-backend/internal/product/domain"
	productRepo "proview-backend/internal/product/repository"
	reviewdomain "proview-backend/internal/review/domain"
	reviewRepo "proview-backend/internal/review/repository"
	reviewUsecase "proview-backend/internal/review/usecase"
	"proview-backend/pkg/ai"
	"proview-backend/pkg/config"
	"proview-backend/pkg/database"
	"proview-backend/pkg/search"
	"proview-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.Profile{},
		&authdomain.RefreshToken{},
		&chatdomain.Chat{},
		&chatdomain.ChatSource{},
		&productdomain.Product{},
		&reviewdomain.Review{},
		&reviewdomain.ReviewVote{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	profileRepository := authRepo.NewProfileRepository(db)
	chatRepository := chatRepo.NewGormChatRepository(db)
	productRepository := productRepo.NewGormProductRepository(db)
	reviewRepository := reviewRepo.NewGormReviewRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize AI answer service
	aiService, err := ai.NewAnswerService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiApiKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize AI service: %v", err)
	} else {
		log.Printf("AI service initialized with provider: %s", cfg.AIProvider)
	}

	// Initialize web search for answer citations (optional)
	var searcher search.SourceSearcher
	if cfg.SearchAPIKey != "" && cfg.SearchEngineID != "" {
		googleSearcher, err := search.NewGoogleSearcher(cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			log.Printf("Warning: Failed to initialize search client (citations disabled): %v", err)
		} else {
			searcher = googleSearcher
		}
	} else {
		log.Println("Warning: SEARCH_API_KEY not set. Answer citations will not be available.")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(profileRepository, cfg)
	chatUsecaseInstance := chatUsecase.NewChatUsecase(chatRepository, productRepository, aiService, searcher)
	reviewUsecaseInstance := reviewUsecase.NewReviewUsecase(reviewRepository)

	// Initialize Notification Service (chat status fanout)
	topicName := cfg.PubSubTopic
	if parts := strings.Split(topicName, "/"); len(parts) > 1 {
		topicName = parts[len(parts)-1]
	}
	notifService, err := notification.NewService(cfg.GoogleProjectID, topicName, sseManager, cfg.GoogleCredentials)
	if err != nil {
		log.Printf("[ERROR] Failed to initialize notification service: %v", err)
	} else {
		chatUsecaseInstance.SetStatusNotifier(notifService)
		go notifService.Start(context.Background())
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, chatUsecaseInstance, reviewUsecaseInstance, sseManager, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
