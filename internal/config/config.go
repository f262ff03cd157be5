package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

// Enabled reports whether featured-image uploads are configured.
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

type Site struct {
	Title     string
	URL       string
	FeedLimit int
}

type Config struct {
	ServerPort          int
	StoreBackend        string
	DatabaseURL         string
	MongoDatabase       string
	JWTSecretKey        string
	TokenDuration       time.Duration
	BcryptCost          int
	FallbackSamplePosts bool
	HealthCheckSchedule string
	LogLevel            string
	CORSAllowedOrigin   string
	MaxUploadSize       int64
	MinIO               MinIO
	Site                Site

	parseErrs []error
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// env reads typed settings and remembers every value that failed to parse,
// so a typo is reported instead of silently replaced by the default.
type env struct {
	errs []error
}

func (e *env) invalid(key, value, want string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, want))
}

func (e *env) asBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		e.invalid(key, value, "boolean")
		return fallback
	}
	return boolValue
}

func (e *env) asInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.invalid(key, value, "integer")
		return defaultValue
	}
	return intValue
}

func (e *env) asDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		e.invalid(key, value, "duration (e.g. 720h)")
		return defaultValue
	}
	return duration
}

func (e *env) minIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", ""),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
		BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     e.asBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func (e *env) site() Site {
	return Site{
		Title:     getEnv("SITE_TITLE", "Personal Blog"),
		URL:       getEnv("SITE_URL", "http://localhost:8080"),
		FeedLimit: e.asInt("FEED_LIMIT", 20),
	}
}

// LoadConfig reads .env (when present) and the process environment.
// Secrets have no fallback: a missing JWT_SECRET_KEY, or a missing
// DATABASE_URL for a persistent backend, is an error.
func LoadConfig() (*Config, error) {
	// .env is optional, the environment alone is enough
	_ = godotenv.Load()

	e := &env{}
	cfg := &Config{
		ServerPort:          e.asInt("SERVER_PORT", 8080),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MongoDatabase:       getEnv("MONGO_DATABASE", "blog"),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		TokenDuration:       e.asDuration("TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:          e.asInt("BCRYPT_COST", 12),
		FallbackSamplePosts: e.asBool("FALLBACK_SAMPLE_POSTS", false),
		HealthCheckSchedule: getEnv("HEALTH_CHECK_SCHEDULE", "@every 15s"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),
		MaxUploadSize:       int64(e.asInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
		MinIO:               e.minIO(),
		Site:                e.site(),
		parseErrs:           e.errs,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres, BackendMongo:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for the %s backend", c.StoreBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range", c.BcryptCost))
	}

	if c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set"))
	}

	return errors.Join(errs...)
}
