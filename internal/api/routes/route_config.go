package routes

import (
	"dishcovery/internal/api/handlers"
	"dishcovery/internal/middleware"
	"dishcovery/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	VisitHandler  handlers.VisitHandler
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Visits()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerifyEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
	}
}

func (c *Config) Visits() {
	visits := c.App.Group("/api/v1/visits", c.Middleware.AuthMiddleware(c.JWTService))

	// capture session, one per user
	session := visits.Group("/session")
	{
		session.Get("", c.VisitHandler.GetSession)
		session.Post("/capture", c.VisitHandler.CaptureMenu)
		session.Post("/analyze", c.VisitHandler.AnalyzeMenu)
		session.Post("/select", c.VisitHandler.SelectDishes)
		session.Post("/rate", c.VisitHandler.RateDish)
		session.Post("/complete", c.VisitHandler.CompleteVisit)
	}

	visits.Get("", c.VisitHandler.ListVisits)
	visits.Get("/search", c.VisitHandler.SearchVisits)
	visits.Get("/dashboard", c.VisitHandler.GetDashboardStats)
	visits.Patch("/dishes/:id", c.VisitHandler.UpdateDish)
	visits.Delete("/dishes/:id", c.VisitHandler.DeleteDish)
	visits.Get("/:id", c.VisitHandler.GetVisit)
	visits.Patch("/:id", c.VisitHandler.UpdateVisit)
	visits.Delete("/:id", c.VisitHandler.DeleteVisit)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	{
		recipes.Get("", c.RecipeHandler.ListRecipes)
		recipes.Post("", c.RecipeHandler.SaveRecipe)
		recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
		recipes.Post("/generate", c.RecipeHandler.GenerateRecipe)
		recipes.Post("/generate-batch", c.RecipeHandler.GenerateBatch)
		recipes.Get("/discovery", c.RecipeHandler.Discovery)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
