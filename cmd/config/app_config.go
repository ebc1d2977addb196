package config

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/internal/api/handlers"
	"Meal-Tracker/internal/api/routes"
	"Meal-Tracker/internal/middleware"
	"Meal-Tracker/internal/utils"
	"Meal-Tracker/internal/utils/mailing"
	"Meal-Tracker/internal/utils/storage"
	"Meal-Tracker/pkg/dashboard"
	"Meal-Tracker/pkg/jwt"
	"Meal-Tracker/pkg/meal"
	"Meal-Tracker/pkg/user"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	logFile := utils.GetConfig("LOG_FILE")
	if logFile == "" {
		logFile = "./logs/app.log"
	}
	err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		logFile,
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	mealRepository := meal.NewMealRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3, mailer, utils.GetConfig("APP_URL"))
	mealService := meal.NewMealService(mealRepository, s3)

	// Dashboard
	pageSize := utils.GetConfigInt("DASHBOARD_PAGE_SIZE", domain.DashboardPageSize)
	recordStore := dashboard.NewMealStore(mealService)
	viewRegistry := dashboard.NewRegistry(recordStore, pageSize, dashboard.DefaultViewTTL)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	mealHandler := handlers.NewMealHandler(mealService, validator)
	dashboardHandler := handlers.NewDashboardHandler(recordStore, viewRegistry, pageSize, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		MealHandler:      mealHandler,
		DashboardHandler: dashboardHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
