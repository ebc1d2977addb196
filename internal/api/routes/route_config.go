package routes

import (
	"Meal-Tracker/internal/api/handlers"
	"Meal-Tracker/internal/middleware"
	"Meal-Tracker/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	MealHandler      handlers.MealHandler
	DashboardHandler handlers.DashboardHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.MealEntries()
	c.Dashboard()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
	}
}

func (c *Config) MealEntries() {
	meals := c.App.Group("/api/v1/meals", c.Middleware.AuthMiddleware(c.JWTService))

	meals.Post("/image", c.MealHandler.UploadMealImage)

	meals.Post("", c.MealHandler.AddMealEntry)
	meals.Get("", c.MealHandler.GetMealEntries)
	meals.Get("/:id", c.MealHandler.GetMealEntryDetails)
	meals.Put("/:id", c.MealHandler.UpdateMealEntry)
	meals.Delete("/:id", c.MealHandler.DeleteMealEntry)
}

func (c *Config) Dashboard() {
	dashboard := c.App.Group("/api/v1/dashboard", c.Middleware.AuthMiddleware(c.JWTService))
	dashboard.Get("", c.DashboardHandler.GetDashboard)

	views := dashboard.Group("/views")
	views.Post("", c.DashboardHandler.OpenView)
	views.Get("/:view_id", c.DashboardHandler.GetView)
	views.Patch("/:view_id", c.DashboardHandler.UpdateView)
	views.Delete("/:view_id/entries/:id", c.DashboardHandler.DeleteViewEntry)
	views.Delete("/:view_id", c.DashboardHandler.CloseView)
}
