// Package server contains the HTTP gateway exposing the access layer as a
// JSON API. Handlers stay thin: parse the request, invoke one access layer
// operation, render its result or typed error.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"glimpse/internal/access"
	"glimpse/internal/config"
	"glimpse/internal/middleware"
	"glimpse/internal/observability"
	"glimpse/internal/remote"
	"glimpse/internal/remote/httpstore"
	"glimpse/internal/remote/localstore"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	store  remote.Store
	access *access.Service
	redis  *redis.Client
	prom   *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("remote store setup failed: %w", err)
	}

	svc := access.New(store, access.Config{
		UsersCollectionID: cfg.UsersCollectionID,
		PostsCollectionID: cfg.PostsCollectionID,
		SavesCollectionID: cfg.SavesCollectionID,
		StorageBucketID:   cfg.StorageBucketID,
	})

	return &Server{
		config: cfg,
		store:  store,
		access: svc,
		redis:  newRedisClient(cfg.RedisURL),
		prom:   observability.InitHTTPMetrics("glimpse"),
	}, nil
}

func openStore(cfg *config.Config) (remote.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverRemote:
		return httpstore.New(httpstore.Config{
			Endpoint:   cfg.RemoteEndpoint,
			ProjectID:  cfg.RemoteProjectID,
			APIKey:     cfg.RemoteAPIKey,
			DatabaseID: cfg.RemoteDatabaseID,
		})
	default:
		return localstore.Open(cfg.StoreDriver, cfg.LocalStoreDSN)
	}
}

// newRedisClient connects to Redis for rate limiting. The gateway runs
// without it when the connection fails; the limiter fails open.
func newRedisClient(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without rate limiting)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without rate limiting)", err)
		return nil
	}
	return client
}

// SetupMiddleware registers the middleware stack on the app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Correlation-ID",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogging())

	s.prom.RegisterAt(app, "/metrics")
	app.Use(s.prom.Middleware)
}

// SetupRoutes registers all API routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 5, time.Minute, "auth"), s.SignUp)
	auth.Post("/signin", middleware.RateLimit(s.redis, 10, time.Minute, "auth"), s.SignIn)
	auth.Post("/signout", s.SignOut)
	auth.Get("/me", s.Me)

	posts := api.Group("/posts")
	posts.Get("/", s.PostPage)
	posts.Get("/recent", s.RecentPosts)
	posts.Get("/search", s.SearchPosts)
	posts.Post("/", middleware.RateLimit(s.redis, 20, time.Minute, "posts-write"), s.CreatePost)
	posts.Get("/:id", s.PostByID)
	posts.Put("/:id", middleware.RateLimit(s.redis, 20, time.Minute, "posts-write"), s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/save", s.SavePost)

	api.Delete("/saves/:id", s.UnsavePost)

	users := api.Group("/users")
	users.Get("/", s.Users)
	users.Get("/:id", s.UserByID)
	users.Put("/:id", s.UpdateUser)
	users.Get("/:id/posts", s.UserPosts)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	_ = ctx
	return nil
}
