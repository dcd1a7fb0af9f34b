package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin console
	MasterUsername    string
	MasterPIN         string
	MasterOverridePIN string

	// AI Providers
	GLMAPIKey string
	GLMAPIURL string
	GLMModel  string

	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string

	ImageAPIKey string
	ImageAPIURL string
	ImageModel  string

	VideoAPIKey       string
	VideoAPIURL       string
	VideoModel        string
	VideoPollInterval time.Duration
	VideoMaxPolls     int

	AITimeout       time.Duration
	AIRatePerMinute int

	// Blob storage
	StorageDriver string
	UploadDir     string
	PublicBaseURL string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3CDNURL      string

	// Cache
	RedisURL        string
	CatalogCacheTTL time.Duration

	// Server
	Port        string
	CORSOrigins string
	SentryDSN   string
	Environment string
}

func Load() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "storefront"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		MasterUsername:    getEnv("MASTER_USERNAME", "JSTYP.me"),
		MasterPIN:         getEnv("MASTER_PIN", ""),
		MasterOverridePIN: getEnv("MASTER_OVERRIDE_PIN", ""),

		GLMAPIKey: getEnv("GLM_API_KEY", ""),
		GLMAPIURL: getEnv("GLM_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		GLMModel:  getEnv("GLM_MODEL", "glm-5"),

		DeepSeekAPIKey: getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),

		ImageAPIKey: getEnv("IMAGE_API_KEY", ""),
		ImageAPIURL: getEnv("IMAGE_API_URL", "https://api.openai.com/v1/images/generations"),
		ImageModel:  getEnv("IMAGE_MODEL", "dall-e-3"),

		VideoAPIKey:       getEnv("VIDEO_API_KEY", ""),
		VideoAPIURL:       getEnv("VIDEO_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		VideoModel:        getEnv("VIDEO_MODEL", "veo-2.0-generate-001"),
		VideoPollInterval: parseDuration(getEnv("VIDEO_POLL_INTERVAL", "15s"), 15*time.Second),
		VideoMaxPolls:     parseInt(getEnv("VIDEO_MAX_POLLS", "40"), 40),

		AITimeout:       parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),
		AIRatePerMinute: parseInt(getEnv("AI_RATE_PER_MINUTE", "30"), 30),

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3CDNURL:      getEnv("S3_CDN_URL", ""),

		RedisURL:        getEnv("REDIS_URL", ""),
		CatalogCacheTTL: parseDuration(getEnv("CATALOG_CACHE_TTL", "5m"), 5*time.Minute),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
