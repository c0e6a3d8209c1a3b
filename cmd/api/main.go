package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/z3by/arabtree-sub000/internal/config"
	"github.com/z3by/arabtree-sub000/internal/handler"
	"github.com/z3by/arabtree-sub000/internal/middleware"
	"github.com/z3by/arabtree-sub000/internal/pkg/i18n"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service"
	"github.com/z3by/arabtree-sub000/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		log.Printf("Warning: failed to load translations: %v", err)
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (source uploads will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, cfg)
	handlers := handler.NewHandlers(services, redis)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	public := v1.Group("/public")
	public.Get("/tree", h.Public.GetTree)
	public.Get("/map", h.Public.GetMap)
	public.Get("/search", h.Public.Search)
	public.Get("/nodes/:nodeId", h.Public.GetNode)
	public.Get("/nodes/:nodeId/ancestors", h.Public.GetAncestors)

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)
	authGroup.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", h.Auth.Me)

	users := protected.Group("/users")
	users.Get("/", middleware.RequireRole("admin"), h.User.GetAll)
	users.Post("/assign-role", middleware.RequireRole("admin"), h.User.AssignRole)
	users.Get("/:userId", h.User.Get)
	users.Put("/:userId", h.User.UpdateProfile)
	users.Put("/:userId/node", h.User.LinkNode)
	users.Delete("/:userId", middleware.RequireRole("admin"), h.User.Delete)

	nodes := protected.Group("/nodes")
	nodes.Post("/", middleware.RequireRole("contributor"), h.Node.Create)
	nodes.Get("/", h.Node.List)
	nodes.Get("/:nodeId", h.Node.Get)
	nodes.Put("/:nodeId", middleware.RequireRole("contributor"), h.Node.Update)
	nodes.Delete("/:nodeId", middleware.RequireRole("contributor"), h.Node.Archive)
	nodes.Get("/:nodeId/ancestors", h.Node.Ancestors)
	nodes.Get("/:nodeId/subtree", h.Node.Subtree)
	nodes.Get("/:nodeId/events", h.Event.ListByNode)
	nodes.Get("/:nodeId/dna-markers", h.Event.ListDnaMarkersByNode)

	contributions := protected.Group("/contributions")
	contributions.Post("/", middleware.RequireRole("contributor"), h.Contribution.Create)
	contributions.Get("/", middleware.RequireRole("verifier"), h.Contribution.List)
	contributions.Get("/mine", h.Contribution.ListMine)
	contributions.Get("/:contributionId", h.Contribution.Get)
	contributions.Post("/:contributionId/submit", h.Contribution.Submit)
	contributions.Post("/:contributionId/withdraw", h.Contribution.Withdraw)
	contributions.Post("/:contributionId/approve", middleware.RequireRole("verifier"), h.Contribution.Approve)
	contributions.Post("/:contributionId/reject", middleware.RequireRole("verifier"), h.Contribution.Reject)

	events := protected.Group("/events")
	events.Post("/", middleware.RequireRole("contributor"), h.Event.Create)
	events.Delete("/:eventId", middleware.RequireRole("contributor"), h.Event.Delete)

	dna := protected.Group("/dna-markers")
	dna.Post("/", middleware.RequireRole("contributor"), h.Event.CreateDnaMarker)
	dna.Delete("/:markerId", middleware.RequireRole("contributor"), h.Event.DeleteDnaMarker)

	media := protected.Group("/media")
	media.Post("/", middleware.RequireRole("contributor"), h.Media.Upload)
	media.Get("/", h.Media.List)
	media.Get("/:mediaId", h.Media.Get)
	media.Post("/:mediaId/approve", middleware.RequireRole("verifier"), h.Media.Approve)
	media.Delete("/:mediaId", h.Media.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:notificationId/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	audit := protected.Group("/audit", middleware.RequireRole("verifier"))
	audit.Get("/recent", h.Audit.Recent)
	audit.Get("/", h.Audit.List)
	audit.Get("/:entityType/:entityId", h.Audit.ListByEntity)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.Stats)
	dashboard.Get("/leaderboard", h.Dashboard.Leaderboard)
}
