package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/auth"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/catalog"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/checkout"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/config"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/geocode"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/mailer"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/paystack"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/realtime"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/routes"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/uploads"
)

const (
	shutdownTimeout = 30 * time.Second
	uploadTokenTTL  = 10 * time.Minute
	idleSessionTTL  = time.Hour
)

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session blobs
	blobs, redisClient := initStorage(ctx, cfg)

	// Backend API clients and catalogue
	public := api.NewClient(cfg.APIURL, nil, logger)
	service := public.WithTokens(api.StaticToken(cfg.APIServiceToken))

	var cache catalog.Cache = catalog.NewMemoryCache()
	if redisClient != nil {
		cache = catalog.NewRedisCache(redisClient)
	}
	cat := catalog.New(public, cache, cfg.CatalogCacheTTL, logger)

	hub := realtime.NewHub(logger)

	var verifier checkout.PaymentVerifier
	if cfg.Paystack.SecretKey != "" {
		verifier = paystack.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)
	} else {
		logger.Warn("PAYSTACK_SECRET_KEY not set, card payments are disabled")
	}

	registry := session.NewRegistry(session.Options{
		Blobs: blobs,
		API:   public,
		Checkout: checkout.Settings{
			PODRegion:         cfg.PODRegion,
			Currency:          cfg.Paystack.Currency,
			PaystackPublicKey: cfg.Paystack.PublicKey,
		},
		Verifier: verifier,
		Notifier: hub,
		Logger:   logger,
	})

	// Uploads
	var backend uploads.Backend
	var local *uploads.LocalBackend
	switch cfg.Upload.Driver {
	case "s3":
		s3Backend, err := uploads.NewS3Backend(ctx, uploads.S3Options{
			Bucket:          cfg.Upload.Bucket,
			Region:          cfg.Upload.Region,
			Endpoint:        cfg.Upload.Endpoint,
			AccessKeyID:     cfg.Upload.AccessKeyID,
			SecretAccessKey: cfg.Upload.SecretAccessKey,
			PublicURL:       cfg.Upload.PublicURL,
		})
		if err != nil {
			log.Fatalf("❌ S3 setup failed: %v", err)
		}
		backend = s3Backend
	default:
		local = &uploads.LocalBackend{
			Dir:       cfg.Upload.Dir,
			PublicURL: cfg.Upload.PublicURL,
			UploadURL: cfg.Upload.PostURL,
		}
		backend = local
	}

	google, err := auth.NewGoogleVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsJSON)
	if err != nil {
		if !errors.Is(err, auth.ErrGoogleNotConfigured) {
			log.Fatalf("❌ Firebase setup failed: %v", err)
		}
		logger.Warn("Google sign-in disabled", "reason", err)
	}

	// Gin setup
	r := gin.Default()

	// Images only; keep multipart parsing in memory small
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Session-Token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	if local != nil {
		r.Static("/uploads", local.Dir)
	}

	routes.SetupRoutes(r, routes.Deps{
		Config:   cfg,
		Logger:   logger,
		Issuer:   auth.NewSessionIssuer(cfg.Session.JWTSecret, cfg.Session.TTL),
		Registry: registry,
		Public:   public,
		Service:  service,
		Catalog:  cat,
		Hub:      hub,
		Uploads:  uploads.NewIssuer(cfg.Session.JWTSecret, uploadTokenTTL, backend),
		Local:    local,
		Google:   google,
		Mailer:   mailer.NewSMTPSender(cfg.Email, logger),
		Geocoder: geocode.NewClient(cfg.GeocoderURL, "CastleDepots/1.0 (+"+cfg.PublicSiteURL+")"),
	})

	// Background jobs
	go startDailySessionSweep(ctx, registry, cfg.Session.TTL, cfg.Session.SweepHour)
	go startIdleEviction(ctx, registry, idleSessionTTL)
	if local != nil && cfg.Upload.BackupDir != "" {
		// Back up uploads at 2 AM daily, keep 4 days of backups
		go startDailyBackupAtFixedTime(ctx, local.Dir, cfg.Upload.BackupDir, 4*24*time.Hour, 2, 0)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				hub.Close()
				return srv.Shutdown(ctx)
			},
			"sessions": func(ctx context.Context) error {
				cancel()
				registry.Close()
				return blobs.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// initStorage opens the configured blob store. The Redis client is returned
// too so the catalogue can share it.
func initStorage(ctx context.Context, cfg config.Config) (storage.BlobStore, *redis.Client) {
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := storage.OpenPostgres(cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return store, nil
	case "sqlite":
		store, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("❌ Failed to open sqlite: %v", err)
		}
		return store, nil
	case "redis":
		store, err := storage.OpenRedis(ctx, cfg.Storage.RedisAddr, cfg.Session.TTL)
		if err != nil {
			log.Fatalf("❌ Redis connection failed: %v", err)
		}
		return store, store.Client()
	default:
		slog.Warn("memory storage in use, visitor state is lost on restart")
		return storage.NewMemoryStore(), nil
	}
}
