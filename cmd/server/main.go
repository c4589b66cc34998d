package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/config"
	"github.com/iliyamo/movie-rental-service/internal/database"
	"github.com/iliyamo/movie-rental-service/internal/handler"
	"github.com/iliyamo/movie-rental-service/internal/middleware"
	"github.com/iliyamo/movie-rental-service/internal/queue"
	"github.com/iliyamo/movie-rental-service/internal/repository"
	"github.com/iliyamo/movie-rental-service/internal/router"
	"github.com/iliyamo/movie-rental-service/internal/service/queue_publisher"
	"github.com/iliyamo/movie-rental-service/internal/service/returns"
	"github.com/iliyamo/movie-rental-service/internal/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is absent; limiter and cache turn into no-ops

	rentalRepo := repository.NewRentalRepo(db)
	stockRepo := repository.NewStockRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	returnSvc := returns.New(rentalRepo, stockRepo)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	genreH := handler.NewGenreHandler(genreRepo)
	movieH := handler.NewMovieHandler(movieRepo, rentalRepo)
	customerH := handler.NewCustomerHandler(customerRepo)
	rentalH := handler.NewRentalHandler(rentalRepo, movieRepo, customerRepo, stockRepo)
	returnH := handler.NewReturnHandler(returnSvc, queue_publisher.PublishRentalReturned)

	e := echo.New()
	e.Validator = validation.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, genreH, movieH, cfg.JWTSecret, cache)
	router.RegisterRentals(e, customerH, rentalH, returnH, cfg.JWTSecret)

	go queue.StartReturnConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
