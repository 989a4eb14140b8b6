package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/cache"
	"github.com/medrecall/MedRecall/internal/pkg/database"
	"github.com/medrecall/MedRecall/internal/pkg/env"
	"github.com/medrecall/MedRecall/internal/pkg/metrics/counter"
	"github.com/medrecall/MedRecall/internal/pkg/router"
	"github.com/medrecall/MedRecall/internal/pkg/subscription"
)

func main() {
	app, shutdown := NewApplication()
	defer shutdown()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

// NewApplication wires the whole service and returns it together with a
// shutdown function that stops the background workers.
func NewApplication() (*fiber.App, func()) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())

	// Find the project root; the binary may run from cmd/medrecall.
	basePaths := []string{
		"./",
		"../../",
		"../../../",
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		panic("Could not find project root directory")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 26 << 20, // a little above the per-file upload cap
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	// Background workers: expiry sweeping and review-counter flushing.
	sweeper := subscription.NewSweeper(subscription.NewServiceFromDB(database.GetDB()), time.Hour)
	sweeper.Start()

	flusherStop := make(chan struct{})
	counter.StartFlusher(30*time.Second, flusherStop)

	shutdown := func() {
		close(flusherStop)
		sweeper.Stop()
		if err := counter.FlushAll(); err != nil {
			log.Printf("final counter flush failed: %v", err)
		}
	}

	return app, shutdown
}
