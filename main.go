package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"setcheck_backend/internals/configs"
	database "setcheck_backend/internals/databases"
	middlewares "setcheck_backend/internals/middlewares"
	routes "setcheck_backend/internals/route"
	"setcheck_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	configs.InitLogger()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler:          middlewares.ErrorHandler,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request timeout guard for handlers that pass c.UserContext() down to gorm
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.AutoMigrate(database.DB); err != nil {
			configs.Log.WithError(err).Fatal("auto migrate failed")
		}
	}
	if configs.GetEnvBool("RUN_SEEDS", false) {
		if err := seeds.RunAllSeeds(database.DB, configs.GetEnv("SEED_DIR", seeds.DefaultDir)); err != nil {
			configs.Log.WithError(err).Fatal("seeding failed")
		}
	}

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		configs.Log.Infof("Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			configs.Log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown, then close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	configs.Log.Info("server stopped")
}
