package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"resmall-api-server/controllers"
	"resmall-api-server/database"
	"resmall-api-server/erp"
	"resmall-api-server/logger"
	"resmall-api-server/middlewares"
	"resmall-api-server/routes"
	"resmall-api-server/scheduler"
	"resmall-api-server/stock"
	"resmall-api-server/utils"
)

func main() {
	// ---- Database (loads .env as a side effect)
	database.Connect()

	log := logger.New(os.Getenv("APP_ENV"))

	// ---- Timezone for the cron schedule and ERP base dates
	loc, err := time.LoadLocation(utils.Env("TZ_ZONE", "Asia/Seoul"))
	if err != nil {
		log.Error("invalid TZ_ZONE, falling back to UTC", "err", err)
		loc = time.UTC
	}

	// ---- Sync pipeline
	client := erp.NewClient(erp.ConfigFromEnv(), log, loc)
	items := database.NewItemStore(database.DB)
	options := database.NewOptionStore(database.DB)
	reconciler := stock.NewReconciler(items, options)
	runner := stock.NewRunner(client, reconciler, options, log)

	// ---- Scheduler bound to the full sync
	sched := scheduler.New(loc, func() {
		if _, err := runner.ExecuteAll(context.Background()); err != nil {
			log.Error("scheduled stock sync failed", "err", err)
		}
	})
	defer sched.Stop()

	// ---- Fiber app with global error handler
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// ---- Global rate limiter (the ERP quota is the scarce resource;
	// keep callers from hammering the triggers)
	app.Use(limiter.New(limiter.Config{
		Max:        utils.EnvInt("RATE_LIMIT_MAX", 60),
		Expiration: time.Duration(utils.EnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}))

	// ---- Routes
	routes.Register(app,
		&controllers.JobController{Runner: runner, Sessions: client.Sessions()},
		&controllers.ScheduleController{Scheduler: sched},
	)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("api server starting", "port", port)
	if err := app.Listen(":" + port); err != nil {
		panic(err)
	}
}
