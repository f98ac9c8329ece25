package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"circles/internal/config"
	"circles/internal/database"
	"circles/internal/domain/auth"
	"circles/internal/domain/friends"
	"circles/internal/domain/notify"
	"circles/internal/domain/users"
	"circles/internal/middleware"
	jwtsvc "circles/internal/pkg/jwt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&auth.RefreshToken{},
		&friends.FriendRequest{},
		&friends.Friendship{},
	); err != nil {
		log.Fatal(err)
	}

	userRepo := auth.NewUserRepository(db)
	refreshRepo := auth.NewRefreshTokenRepository(db)
	friendsRepo := friends.NewRepository(db)

	tokenManager, err := auth.NewTokenManager(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiresIn,
		cfg.RefreshTokenExpiresIn,
		refreshRepo,
	)
	if err != nil {
		log.Fatal(err)
	}

	hub := notify.NewHub()

	authService := auth.NewService(userRepo, tokenManager, cfg.BcryptCost)
	authHandler := auth.NewHandler(authService)

	friendsService := friends.NewService(friendsRepo, userRepo)
	friendsHandler := friends.NewHandler(friendsService, hub)

	usersHandler := users.NewHandler(users.NewRepository(db))

	accessValidator := jwtsvc.New(cfg.AccessTokenSecret, accessTTL(cfg))

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(accessValidator))
		{
			authHandler.RegisterProtectedRoutes(protected)
			friendsHandler.RegisterProtectedRoutes(protected)
			usersHandler.RegisterProtectedRoutes(protected)
			hub.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func accessTTL(cfg *config.Config) time.Duration {
	ttl, err := auth.ParseExpiresIn(cfg.AccessTokenExpiresIn)
	if err != nil {
		log.Fatal(err)
	}
	return ttl
}
