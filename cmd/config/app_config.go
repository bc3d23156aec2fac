package config

import (
	"dishcovery/internal/api/handlers"
	"dishcovery/internal/api/routes"
	"dishcovery/internal/middleware"
	"dishcovery/internal/utils"
	"dishcovery/internal/utils/storage"
	"dishcovery/pkg/jwt"
	"dishcovery/pkg/recipe"
	"dishcovery/pkg/user"
	"dishcovery/pkg/vision"
	"dishcovery/pkg/visit"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	extractor := vision.NewGeminiExtractor()
	generator := recipe.NewGeminiGenerator()
	sessions := visit.NewSessionStore()

	// Repository
	userRepository := user.NewUserRepository(db)
	visitRepository := visit.NewVisitRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	recipeService := recipe.NewRecipeService(recipeRepository, generator, visitRepository)
	visitService := visit.NewVisitService(visitRepository, sessions, extractor, recipeService, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	visitHandler := handlers.NewVisitHandler(visitService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		VisitHandler:  visitHandler,
		RecipeHandler: recipeHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
