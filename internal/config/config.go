package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RunMigrations  bool
	JWTSecret      string
	SessionTTL     time.Duration
	GoogleAudience string
	AdminEmails    []string
	AllowOrigins   []string

	LogLevel        string
	LogFormat       string
	LogFile         string
	LogstashTCPAddr string

	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	MinIOBucket      string
	MinIOPublicURL   string
	PhotoMaxBytes    int64
	PhotoMaxDim      int
	ThumbnailDim     int
	FFMPEGPath       string

	SoftDeleteTTL       time.Duration
	PurgeInitialDelay   time.Duration
	PurgeInterval       time.Duration
	CountrySyncURL      string
	CountrySyncInterval time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists. Every missing required key and every malformed value
// is reported in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	r := &reader{}
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    r.must("DATABASE_URL"),
		RunMigrations:  r.boolean("RUN_MIGRATIONS", true),
		JWTSecret:      r.must("JWT_SECRET"),
		SessionTTL:     r.duration("SESSION_TTL", 24*time.Hour),
		GoogleAudience: getenv("GOOGLE_AUDIENCE", ""),
		AdminEmails:    splitAndTrim(getenv("ADMIN_EMAILS", "")),
		AllowOrigins:   splitAndTrim(getenv("ALLOW_ORIGINS", "*")),

		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
		LogFile:         getenv("LOG_FILE", ""),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),

		MinIOEndpoint:  r.must("MINIO_ENDPOINT"),
		MinIOAccessKey: r.must("MINIO_ACCESS_KEY"),
		MinIOSecretKey: r.must("MINIO_SECRET_KEY"),
		MinIOUseSSL:    r.boolean("MINIO_USE_SSL", false),
		MinIOBucket:    getenv("MINIO_BUCKET_PHOTOS", "travel-planner-photos"),
		MinIOPublicURL: getenv("MINIO_PUBLIC_URL", ""),
		PhotoMaxBytes:  r.int64("PHOTO_MAX_BYTES", 10*1024*1024),
		PhotoMaxDim:    r.integer("PHOTO_MAX_DIMENSION", 3840),
		ThumbnailDim:   r.integer("THUMBNAIL_DIMENSION", 320),
		FFMPEGPath:     getenv("FFMPEG_PATH", "ffmpeg"),

		SoftDeleteTTL:       r.duration("SOFT_DELETE_TTL", time.Hour),
		PurgeInitialDelay:   r.duration("PURGE_INITIAL_DELAY", 5*time.Second),
		PurgeInterval:       r.duration("PURGE_INTERVAL", 24*time.Hour),
		CountrySyncURL:      getenv("COUNTRY_SYNC_URL", ""),
		CountrySyncInterval: r.duration("COUNTRY_SYNC_INTERVAL", time.Hour),

		RateLimitPerSecond: r.float("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     r.integer("RATE_LIMIT_BURST", 20),
	}
	if cfg.AllowOrigins == nil {
		cfg.AllowOrigins = []string{"*"}
	}
	return cfg, errors.Join(r.errs...)
}

// reader accumulates parse failures so Load can report all of them at once.
type reader struct {
	errs []error
}

func (r *reader) must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		r.errs = append(r.errs, fmt.Errorf("missing env: %s", k))
	}
	return v
}

func (r *reader) duration(k string, d time.Duration) time.Duration {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", k, raw))
		return d
	}
	return v
}

func (r *reader) integer(k string, d int) int {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid positive integer %q", k, raw))
		return d
	}
	return v
}

func (r *reader) int64(k string, d int64) int64 {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid positive integer %q", k, raw))
		return d
	}
	return v
}

func (r *reader) float(k string, d float64) float64 {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid positive number %q", k, raw))
		return d
	}
	return v
}

func (r *reader) boolean(k string, d bool) bool {
	raw := os.Getenv(k)
	if raw == "" {
		return d
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", k, raw))
		return d
	}
	return v
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
