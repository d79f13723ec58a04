package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/s2wears/storefront/internal/config"
	"github.com/s2wears/storefront/internal/kv"
	"github.com/s2wears/storefront/internal/modules/auth"
	"github.com/s2wears/storefront/internal/modules/cart"
	"github.com/s2wears/storefront/internal/modules/catalog"
	"github.com/s2wears/storefront/internal/modules/checkout"
	"github.com/s2wears/storefront/internal/modules/upload"
	"github.com/s2wears/storefront/internal/obs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// No .env is fine in deployed environments.
		obs.Logger.Info("no .env file, using process environment")
	}
	obs.InitLogger()
	cfg := config.Load()
	ctx := context.Background()

	// ── Local cache tier ────────────────────────────────────
	var store kv.Store
	if cfg.RedisAddr != "" {
		redisStore, err := kv.NewRedisStore(cfg.RedisAddr, cfg.CacheMaxBytes)
		if err != nil {
			obs.Logger.Error("redis unavailable", "err", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		fileStore, err := kv.NewFileStore(cfg.DataDir, cfg.CacheMaxBytes)
		if err != nil {
			obs.Logger.Error("data dir unavailable", "err", err)
			os.Exit(1)
		}
		store = fileStore
	}

	// ── Remote catalog tier ─────────────────────────────────
	// A failing remote setup never stops the service: the catalog keeps
	// serving from the cache tier.
	var remote catalog.Store
	switch cfg.StoreBackend {
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			obs.Logger.Warn("firestore unavailable, running cache-only", "err", err)
		} else {
			defer client.Close()
			remote = catalog.NewFirestoreStore(client)
		}
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
		}
		if err != nil {
			obs.Logger.Warn("postgres unavailable, running cache-only", "err", err)
		} else {
			defer db.Close()
			remote = catalog.NewPostgresStore(db)
		}
	case "none":
		obs.Logger.Info("remote store disabled by configuration")
	default:
		obs.Logger.Warn("unknown STORE_BACKEND, running cache-only", "backend", cfg.StoreBackend)
	}

	catalogService := catalog.NewService(remote, catalog.NewCache(store), catalog.ServiceConfig{
		ReadTimeout: cfg.RemoteReadTimeout,
		Offline:     func() bool { return cfg.OfflineMode },
	})

	// ── Upload chain ────────────────────────────────────────
	backends := []upload.Backend{
		upload.NewCloudinaryBackend(cfg.Upload.CloudinaryCloud, cfg.Upload.CloudinaryPreset),
		upload.NewImgBBBackend(cfg.Upload.ImgBBKey),
		upload.NewImgurBackend(cfg.Upload.ImgurClientID),
	}
	if cfg.Upload.GCSBucket != "" {
		gcs, err := storage.NewClient(ctx)
		if err != nil {
			obs.Logger.Warn("object store unavailable, skipping primary backend", "err", err)
		} else {
			defer gcs.Close()
			backends = append(backends, upload.NewGCSBackend(gcs, cfg.Upload.GCSBucket))
		}
	}
	orchestrator := upload.NewOrchestrator(backends, upload.OrchestratorConfig{
		Preset:         upload.Preset(cfg.Upload.Preset),
		InlineFallback: cfg.Upload.InlineFallback,
		MaxBytes:       cfg.Upload.MaxBytes,
	})

	// ── Admin gate ──────────────────────────────────────────
	authService := auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret)
	admin := auth.RequireAdmin(authService)

	// ── Cart & checkout ─────────────────────────────────────
	cartService := cart.NewService(store, catalogService)
	checkoutCfg := checkout.Config{
		Number:            cfg.WhatsAppNumber,
		BaseURL:           cfg.PublicBaseURL,
		ShippingFlat:      cfg.ShippingFlat,
		FreeShippingAbove: cfg.FreeShippingAbove,
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	auth.NewHandler(authService).RegisterRoutes(router)
	catalog.NewHandler(catalogService, admin).RegisterRoutes(router)
	upload.NewHandler(orchestrator, admin).RegisterRoutes(router)
	cart.NewHandler(cartService).RegisterRoutes(router)
	checkout.NewHandler(cartService, checkoutCfg).RegisterRoutes(router)

	// ── Start server ────────────────────────────────────────
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		obs.Logger.Info("S2 Wears API listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("shutdown incomplete", "err", err)
	}
}
