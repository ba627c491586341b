package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/config"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/models"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/accounts"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/auth"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/exams"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/routes/students"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/services"
)

// errorHandler maps failures to HTTP statuses and a uniform JSON body.
// AppError messages are display-safe; anything else becomes a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case models.ErrValidation:
			status = fiber.StatusBadRequest
		case models.ErrNotFound:
			status = fiber.StatusNotFound
		case models.ErrForbidden:
			status = fiber.StatusForbidden
		case models.ErrConflict:
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   appErr.Message,
			"kind":    appErr.Kind,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiberErr.Message,
		})
	}

	log.Printf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}

func main() {
	config.Load()
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start the background publication scheduler. The context gives it a
	// clean stop on shutdown; the in-flight tick finishes first.
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	scheduler := services.NewPublicationScheduler(
		&database.ExamStore{DB: config.GetDB()},
		config.AppConfig.PublishInterval,
	)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(schedulerCtx)
	}()

	app := fiber.New(fiber.Config{
		AppName:      "Sancta Maria College",
		ErrorHandler: errorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.SetupAuthRoutes(app)
	students.SetupStudentsRoutes(app, config.GetDB())
	accounts.SetupAccountsRoutes(app, config.GetDB())
	exams.SetupExamRoutes(app, config.GetDB())

	// Graceful shutdown: stop accepting requests, then stop the scheduler.
	shutdownDone := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		stopScheduler()
		wg.Wait()
		close(shutdownDone)
	}()

	log.Printf("Listening on %s", config.AppConfig.ListenAddr)
	if err := app.Listen(config.AppConfig.ListenAddr); err != nil {
		log.Fatal(err)
	}
	<-shutdownDone
}
