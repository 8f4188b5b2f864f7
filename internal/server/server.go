package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/unixplore/apiserver/config"
	"github.com/unixplore/apiserver/internal/db"
	"github.com/unixplore/apiserver/internal/events"
	"github.com/unixplore/apiserver/internal/handlers"
	"github.com/unixplore/apiserver/internal/mq"
	"github.com/unixplore/apiserver/internal/services"
	"github.com/unixplore/apiserver/internal/storage"
	"github.com/unixplore/apiserver/internal/store"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
}

// New constructs a Server: database pool, repositories, optional
// storage and broker backends, routers and middleware.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collegeRepo := store.NewCollegeRepository(dbConn)
	clubRepo := store.NewClubRepository(dbConn)
	announcementRepo := store.NewAnnouncementRepository(dbConn)
	registrationRepo := store.NewRegistrationLinkRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)

	collegeService := services.NewCollegeService(collegeRepo)
	clubService := services.NewClubService(clubRepo)
	contentService := services.NewContentService(announcementRepo, registrationRepo, categoryRepo)

	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	collegeHandler := handlers.NewCollegeHandler(
		collegeService, clubService, cfg.JWTSecret, cfg.TokenTTL, publisher, assets)
	clubHandler := handlers.NewClubHandler(
		clubService, collegeService, contentService,
		cfg.JWTSecret, cfg.TokenTTL, cfg.ClubAutoApprove, publisher, assets)
	directoryHandler := handlers.NewDirectoryHandler(collegeService, clubService, contentService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		handlers.DirectoryRouter(r, directoryHandler)
		r.Route("/auth/college", func(r chi.Router) {
			handlers.CollegeAuthRouter(r, collegeHandler)
		})
		r.Route("/auth/club", func(r chi.Router) {
			handlers.ClubAuthRouter(r, clubHandler)
		})
		r.Route("/admin/college", func(r chi.Router) {
			handlers.CollegeAdminRouter(r, collegeHandler)
		})
		r.Route("/admin/club", func(r chi.Router) {
			handlers.ClubAdminRouter(r, clubHandler)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

func newAssetStore(ctx context.Context, cfg config.Config) (*storage.AssetStore, error) {
	var backend storage.ObjectStorage
	var err error
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case config.StorageBackendMinio:
		backend, err = storage.NewMinioBackend(cfg.Storage.Minio)
	case config.StorageBackendGCS:
		backend, err = storage.NewGCSBackend(ctx, cfg.Storage.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	assets := storage.NewAssetStore(backend)
	if err := assets.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return assets, nil
}

func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	var backend mq.Backend
	var err error
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case config.MQBackendRabbitMQ:
		backend, err = mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
	case config.MQBackendPubSub:
		backend, err = mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
	if err != nil {
		return nil, err
	}
	return events.NewPublisher(mq.New(backend)), nil
}
