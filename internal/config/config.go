// Package config provides runtime configuration for the storefront API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the service reads at startup. Values come from the
// environment; upload settings may additionally be overlaid from a YAML file
// pointed to by UPLOAD_CONFIG_FILE.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Remote catalog tier. StoreBackend selects the document store
	// implementation: "firestore", "postgres" or "none" (cache only).
	StoreBackend       string
	FirestoreProjectID string
	DatabaseURL        string
	OfflineMode        bool
	RemoteReadTimeout  time.Duration

	// Local cache tier. RedisAddr switches the cache from the file-backed
	// store to Redis when set.
	DataDir       string
	RedisAddr     string
	CacheMaxBytes int64

	Upload Upload

	// Checkout hand-off.
	WhatsAppNumber    string
	PublicBaseURL     string
	ShippingFlat      int64
	FreeShippingAbove int64

	// Admin gate.
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
}

// Upload configures the image upload chain.
type Upload struct {
	Preset           string `yaml:"preset"` // primary_first | hosting_first | auto
	InlineFallback   bool   `yaml:"-"`      // env-only: UPLOAD_INLINE_FALLBACK
	MaxBytes         int64  `yaml:"max_bytes"`
	GCSBucket        string `yaml:"gcs_bucket"`
	ImgBBKey         string `yaml:"imgbb_key"`
	CloudinaryCloud  string `yaml:"cloudinary_cloud"`
	CloudinaryPreset string `yaml:"cloudinary_preset"`
	ImgurClientID    string `yaml:"imgur_client_id"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intenv(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvs(key string, defSec int64) time.Duration {
	return time.Duration(intenv(key, defSec)) * time.Second
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		StoreBackend:       getenv("STORE_BACKEND", "firestore"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		OfflineMode:        boolenv("OFFLINE_MODE", false),
		RemoteReadTimeout:  durenvs("REMOTE_READ_TIMEOUT", 3),

		DataDir:       getenv("DATA_DIR", "./data"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CacheMaxBytes: intenv("CACHE_MAX_BYTES", 5<<20),

		Upload: Upload{
			Preset:           getenv("UPLOAD_PRESET", "auto"),
			InlineFallback:   boolenv("UPLOAD_INLINE_FALLBACK", true),
			MaxBytes:         intenv("UPLOAD_MAX_BYTES", 5<<20),
			GCSBucket:        os.Getenv("GCS_BUCKET"),
			ImgBBKey:         os.Getenv("IMGBB_API_KEY"),
			CloudinaryCloud:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			ImgurClientID:    os.Getenv("IMGUR_CLIENT_ID"),
		},

		WhatsAppNumber:    getenv("WHATSAPP_NUMBER", "260971234567"),
		PublicBaseURL:     getenv("PUBLIC_BASE_URL", "https://s2wears.com"),
		ShippingFlat:      intenv("SHIPPING_FLAT", 5000),
		FreeShippingAbove: intenv("FREE_SHIPPING_ABOVE", 100000),

		AdminEmail:        getenv("ADMIN_EMAIL", "admin@s2wears.com"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         getenv("JWT_SECRET", "dev-only-secret"),
	}

	if path := os.Getenv("UPLOAD_CONFIG_FILE"); path != "" {
		if err := cfg.Upload.overlayFile(path); err != nil {
			// A broken config file should not take the service down;
			// the env-derived settings still stand.
			fmt.Fprintf(os.Stderr, "config: upload overlay %s: %v\n", path, err)
		}
	}
	return cfg
}

// overlayFile merges non-zero values from a YAML file over u. Env-derived
// values survive for any field the file leaves unset.
func (u *Upload) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Upload
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if file.Preset != "" {
		u.Preset = file.Preset
	}
	if file.MaxBytes > 0 {
		u.MaxBytes = file.MaxBytes
	}
	if file.GCSBucket != "" {
		u.GCSBucket = file.GCSBucket
	}
	if file.ImgBBKey != "" {
		u.ImgBBKey = file.ImgBBKey
	}
	if file.CloudinaryCloud != "" {
		u.CloudinaryCloud = file.CloudinaryCloud
	}
	if file.CloudinaryPreset != "" {
		u.CloudinaryPreset = file.CloudinaryPreset
	}
	if file.ImgurClientID != "" {
		u.ImgurClientID = file.ImgurClientID
	}
	return nil
}
