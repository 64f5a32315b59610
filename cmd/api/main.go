package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fhuszti/recordings-ms-go/internal/audio"
	"github.com/fhuszti/recordings-ms-go/internal/cache"
	"github.com/fhuszti/recordings-ms-go/internal/config"
	"github.com/fhuszti/recordings-ms-go/internal/db"
	"github.com/fhuszti/recordings-ms-go/internal/handler/api"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/recordings-ms-go/internal/middleware"
	"github.com/fhuszti/recordings-ms-go/internal/mimetype"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/recordings-ms-go/internal/storage"
	"github.com/fhuszti/recordings-ms-go/internal/task"
	"github.com/fhuszti/recordings-ms-go/internal/urls"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// set with -ldflags "-X main.version=... -X main.revision=..."
var (
	version  = "dev"
	revision = "unknown"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()
	defer logger.Flush()

	links, err := urls.New(cfg.BaseURL, cfg.RecordingsPath)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid BASE_URL: %v", err)
		os.Exit(1)
	}

	database := initDb(ctx, cfg)
	store := initStorage(ctx, cfg)

	tokens := mariadb.NewTokenLedger(database.DB)
	recs := mariadb.NewRecordingRepository(database.DB)
	labels := mariadb.NewLabelRepository(database.DB)
	mimes := mariadb.NewMimeTypeRepository(database.DB)
	keys := mariadb.NewKeyRepository(database.DB)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.LabelCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warnf(ctx, "⚠️  Redis ping failed, continuing: %v", err)
		}
		defer redisCache.Close()
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer d.Close()
		ca, dispatcher = redisCache, d
		logger.Info(ctx, "✅  Redis cache and task dispatch enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured: caching and orphan reporting are disabled")
	}

	inspector := audio.NewInspector(cfg.FFProbePath, cfg.ProbeTimeout, cfg.ProbeConcurrency)
	resolver := mimetype.NewResolver(mimes, cfg.MimeCacheSize, cfg.MimeCacheTTL)

	uploadSaga := recording.NewUploadSaga(tokens, inspector, resolver, recs, store, keys, dispatcher, recording.UploadConfig{
		TokensPerRecording:  cfg.TokensPerRecording,
		AllowDegradedTokens: cfg.AllowDegradedTokens,
	})
	deleter := recording.NewRecordingDeleter(recs, store)
	getter := recording.NewRecordingGetter(recs)
	tokenGetter := recording.NewTokenGetter(tokens, keys)
	lister := recording.NewLabelLister(labels, mimes, ca)

	r := initRouter(ctx)
	r.Route(links.Prefix(), func(r chi.Router) {
		r.Post("/", api.UploadRecordingHandler(uploadSaga, links, cfg.UploadMaxBytes))
		r.With(cMiddleware.WithAdminAuth(cfg.JWTPublicKey), cMiddleware.WithID("id")).
			Delete("/id/{id}", api.DeleteRecordingHandler(deleter))
		r.With(cMiddleware.WithID("id")).Get("/id/{id}", api.GetRecordingHandler(getter))
		r.With(cMiddleware.WithID("id")).Get("/id/{id}/children", api.ListChildrenHandler(getter))
		r.Get("/count", api.CountHandler(getter))
		r.Get("/random/{n}", api.RandomHandler(getter))
		r.Get("/available", api.NameAvailableHandler(getter))
		r.With(cMiddleware.WithID("id")).Get("/token/{id}", api.GetTokenHandler(tokenGetter))
		r.With(cMiddleware.WithID("key")).Get("/lookup/{key}", api.LookupHandler(tokenGetter))
		r.Get("/formats", api.ListFormatsHandler(lister))
		r.Get("/ages", api.ListLabelsHandler(lister, model.LabelAges))
		r.Get("/genders", api.ListLabelsHandler(lister, model.LabelGenders))
		r.Get("/categories", api.ListLabelsHandler(lister, model.LabelCategories))
	})

	listenRouter(ctx, r, cfg, database, uploadSaga)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, db.Options{
		DSN:             cfg.MariaDBDSN,
		MaxOpen:         cfg.MaxOpenConns,
		MaxIdle:         cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.Metrics)
	r.Use(cMiddleware.ServerTiming)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.ObjectStore {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.StorageBucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Endpoint:     cfg.S3Endpoint,
			PublicURL:    cfg.StoragePublicURL,
			CacheControl: cfg.StorageCacheControl,
			ACL:          cfg.StorageACL,
		})
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize S3 store: %v", err)
			os.Exit(1)
		}
		return store
	default:
		strg, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
			os.Exit(1)
		}
		store, err := strg.WithBucket(ctx, cfg.StorageBucket, cfg.StoragePublicURL, cfg.StorageCacheControl, cfg.StorageACL)
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.StorageBucket, err)
			os.Exit(1)
		}
		return store
	}
}

func initAdminRouter(shutdown func()) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", api.HealthzHandler(api.BuildInfo{Version: version, Revision: revision}))
	r.Method(http.MethodGet, "/metrics", api.MetricsHandler())
	r.Post("/terminate", api.TerminateHandler(shutdown))
	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())
	return r
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, saga *recording.UploadSaga) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// SIGINT/SIGTERM or POST /terminate on the admin port
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var admin *http.Server
	if cfg.AdminPort != 0 {
		admin = &http.Server{Addr: ":" + strconv.Itoa(cfg.AdminPort), Handler: initAdminRouter(stop)}
		go func() {
			logger.Infof(ctx, "🚀 Admin listening on %s", admin.Addr)
			if err := admin.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf(ctx, "❌  Admin listen error: %v", err)
				os.Exit(1)
			}
		}()
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
	}
	if admin != nil {
		if err := admin.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "❌  Admin shutdown failed: %v", err)
		}
	}

	// token releases still in flight must reach the database before it closes
	saga.Wait()
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
	}
}
