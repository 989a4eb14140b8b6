package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/medrecall/MedRecall/app/controllers"
	"github.com/medrecall/MedRecall/internal/pkg/cache"
	"github.com/medrecall/MedRecall/internal/pkg/env"
	"github.com/medrecall/MedRecall/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))

	// Public routes: account creation, login and the payment webhook. The
	// provider cannot authenticate; the webhook trusts nothing in the
	// payload and verifies against the provider API instead.
	api.Post("/register", controllers.HandleRegister)
	api.Post("/login", controllers.HandleLogin)
	api.Post("/webhook", controllers.HandleMercadoPagoWebhook)
	api.Post("/webhook/mercadopago", controllers.HandleMercadoPagoWebhook)

	protected := api.Group("", middleware.JWTAuthMiddleware(), middleware.RequireAuth)

	protected.Get("/folders", controllers.HandleListFolders)
	protected.Post("/folders", controllers.HandleCreateFolder)
	protected.Get("/folders/:id", controllers.HandleGetFolder)
	protected.Put("/folders/:id", controllers.HandleUpdateFolder)
	protected.Delete("/folders/:id", controllers.HandleDeleteFolder)

	protected.Get("/decks", controllers.HandleListDecks)
	protected.Post("/decks", controllers.HandleCreateDeck)
	protected.Get("/decks/:id", controllers.HandleGetDeck)
	protected.Put("/decks/:id", controllers.HandleUpdateDeck)
	protected.Delete("/decks/:id", controllers.HandleDeleteDeck)

	protected.Post("/flashcards", controllers.HandleCreateFlashcard)
	protected.Put("/flashcards/:id", controllers.HandleUpdateFlashcard)
	protected.Delete("/flashcards/:id", controllers.HandleDeleteFlashcard)
	protected.Post("/flashcards/:id/review", controllers.HandleReviewFlashcard)

	protected.Get("/planners", controllers.HandleListPlanners)
	protected.Post("/planners", controllers.HandleCreatePlanner)
	protected.Put("/planners/:id", controllers.HandleUpdatePlanner)
	protected.Delete("/planners/:id", controllers.HandleDeletePlanner)

	protected.Get("/files", controllers.HandleListFiles)
	protected.Post("/files", controllers.HandleUploadFile)
	protected.Get("/files/:uuid/download", controllers.HandleDownloadFile)
	protected.Delete("/files/:uuid", controllers.HandleDeleteFile)

	protected.Post("/payments", controllers.HandleCreatePayment)
	protected.Get("/subscription", controllers.HandleSubscriptionStatus)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold
// across instances. Database 1 keeps limiter keys out of the cache DB.
func newLimiterStorage() *redisstorage.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
