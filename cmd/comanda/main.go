package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"comanda/internal/config"
	"comanda/internal/http/handlers"
	"comanda/internal/jobs"
	applog "comanda/internal/log"
	"comanda/internal/notify"
	"comanda/internal/repos"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogFile)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Notification fan-out; redis mirror only when configured.
	var mirrors []notify.Mirror
	if cfg.RedisAddr != "" {
		mirrors = append(mirrors, notify.NewRedisMirror(cfg.RedisAddr))
	}
	hub := notify.NewHub(mirrors...)

	deps := handlers.NewDeps(db, cfg, hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)

	// Products
	api.Get("/products", handlers.RequireUser(deps.Auth), deps.ProductHandler.List)
	api.Get("/products/category/:category", handlers.RequireUser(deps.Auth), deps.ProductHandler.ListByCategory)
	api.Get("/products/low-stock", handlers.RequireAdmin(deps.Auth), deps.ProductHandler.LowStock)
	api.Post("/products", handlers.RequireAdmin(deps.Auth), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequireAdmin(deps.Auth), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireAdmin(deps.Auth), deps.ProductHandler.Delete)

	// Tables
	api.Get("/tables", handlers.RequireUser(deps.Auth), deps.TableHandler.List)
	api.Get("/tables/free", handlers.RequireUser(deps.Auth), deps.TableHandler.ListFree)
	api.Post("/tables", handlers.RequireAdmin(deps.Auth), deps.TableHandler.Create)
	api.Put("/tables/:id/status", handlers.RequireUser(deps.Auth), deps.TableHandler.SetStatus)
	api.Delete("/tables/:id", handlers.RequireAdmin(deps.Auth), deps.TableHandler.Delete)

	// Sales
	api.Post("/sales", handlers.RequireUser(deps.Auth), deps.SaleHandler.Create)
	api.Get("/sales", handlers.RequireAdmin(deps.Auth), deps.SaleHandler.ListByDateRange)
	api.Get("/sales/mine", handlers.RequireUser(deps.Auth), deps.SaleHandler.ListMine)
	api.Get("/sales/:id", handlers.RequireUser(deps.Auth), deps.SaleHandler.Get)
	api.Put("/sales/:id", handlers.RequireUser(deps.Auth), deps.SaleHandler.UpdateDiscountAndNote)
	api.Put("/sales/:id/complete", handlers.RequireUser(deps.Auth), deps.SaleHandler.Complete)
	api.Put("/sales/:id/products", handlers.RequireUser(deps.Auth), deps.SaleHandler.AddProducts)
	api.Delete("/sales/:id/products/:productId", handlers.RequireUser(deps.Auth), deps.SaleHandler.RemoveProductUnit)

	// Users (admin)
	api.Get("/users", handlers.RequireAdmin(deps.Auth), deps.AuthHandler.ListUsers)
	api.Post("/users", handlers.RequireAdmin(deps.Auth), deps.AuthHandler.CreateUser)
	api.Put("/users/:id", handlers.RequireAdmin(deps.Auth), deps.AuthHandler.UpdateUser)
	api.Delete("/users/:id", handlers.RequireAdmin(deps.Auth), deps.AuthHandler.DeleteUser)

	// Dashboard & notifications
	api.Get("/dashboard/stats", handlers.RequireAdmin(deps.Auth), deps.DashboardHandler.Stats)
	api.Get("/notifications/stream", handlers.RequireUser(deps.Auth), deps.DashboardHandler.Stream)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	// ---------- Scheduled jobs ----------
	runner := jobs.NewRunner(deps.Sales, deps.Dashboard, hub)
	if err := runner.Start(); err != nil {
		log.Fatal(err)
	}
	defer runner.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("[shutdown] draining connections")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
