package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/brightideas/bright-ideas-backend/internal/config"
	"github.com/brightideas/bright-ideas-backend/internal/database"
	"github.com/brightideas/bright-ideas-backend/internal/handlers"
	"github.com/brightideas/bright-ideas-backend/internal/middleware"
	"github.com/brightideas/bright-ideas-backend/internal/routes"
	"github.com/brightideas/bright-ideas-backend/internal/services"
	"github.com/brightideas/bright-ideas-backend/internal/storage/mongostore"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	// Connect to Redis (sessions)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer database.DisconnectRedis()

	// Cloudinary is optional: without credentials, idea images are limited to
	// inline base64 payloads.
	var cloudinarySvc *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
		} else {
			cloudinarySvc = svc
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	// Stores and services
	ideaStore := mongostore.NewIdeaStore(database.DB)
	userStore := mongostore.NewUserStore(database.DB)
	sessions := services.NewRedisSessions(database.RedisClient)

	ideaSvc := services.NewIdeaService(ideaStore, userStore)
	statsSvc := services.NewStatsService(ideaStore, userStore)
	userSvc := services.NewUserService(userStore, ideaStore)
	authSvc := services.NewAuthService(userStore, sessions)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	routes.SetupRoutes(r, routes.Handlers{
		Ideas:       handlers.NewIdeaHandler(ideaSvc, statsSvc),
		Users:       handlers.NewUserHandler(userSvc),
		Auth:        handlers.NewAuthHandler(authSvc),
		Upload:      handlers.NewUploadHandler(cloudinarySvc),
		RequireAuth: middleware.RequireAuth(sessions, userStore),
	})

	log.Printf("Server listening on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
