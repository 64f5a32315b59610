package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverMinio = "minio"
	StorageDriverS3    = "s3"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int
	AdminPort       int

	BaseURL        string
	RecordingsPath string

	TokensPerRecording  int
	UploadMaxBytes      int64
	AllowDegradedTokens bool
	OrphanCleanup       bool

	StorageDriver       string
	StorageBucket       string
	StoragePublicURL    string
	StorageCacheControl string
	StorageACL          string
	MinioEndpoint       string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioUseSSL         bool
	S3Region            string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string

	FFProbePath      string
	ProbeTimeout     time.Duration
	ProbeConcurrency int64

	MimeCacheSize int
	MimeCacheTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	LabelCacheTTL time.Duration

	JWTPublicKey string
	SentryDSN    string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	setDefaults()

	if !viper.IsSet("MARIADB_DSN") {
		return nil, fmt.Errorf("MARIADB_DSN is required")
	}
	if !viper.IsSet("MARIADB_MAX_OPEN_CONN") {
		return nil, fmt.Errorf("MARIADB_MAX_OPEN_CONN is required")
	}
	if !viper.IsSet("MARIADB_MAX_IDLE_CONNS") {
		return nil, fmt.Errorf("MARIADB_MAX_IDLE_CONNS is required")
	}
	if !viper.IsSet("MARIADB_CONN_MAX_LIFETIME") {
		return nil, fmt.Errorf("MARIADB_CONN_MAX_LIFETIME is required")
	}
	if !viper.IsSet("SERVER_PORT") {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}
	if !viper.IsSet("BASE_URL") {
		return nil, fmt.Errorf("BASE_URL is required")
	}
	if !viper.IsSet("STORAGE_BUCKET") {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}

	driver := strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch driver {
	case StorageDriverMinio:
		if viper.GetString("MINIO_ENDPOINT") == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when STORAGE_DRIVER is %q", driver)
		}
	case StorageDriverS3:
		if viper.GetString("S3_REGION") == "" {
			return nil, fmt.Errorf("S3_REGION is required when STORAGE_DRIVER is %q", driver)
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER %q is not supported", driver)
	}

	acl := strings.ToLower(viper.GetString("STORAGE_ACL"))
	if acl != "private" && acl != "public-read" {
		return nil, fmt.Errorf("STORAGE_ACL %q is not supported, use private or public-read", acl)
	}

	tokens := viper.GetInt("TOKENS_PER_RECORDING")
	if tokens < 0 {
		return nil, fmt.Errorf("TOKENS_PER_RECORDING must not be negative, got %d", tokens)
	}
	probeConcurrency := viper.GetInt64("PROBE_CONCURRENCY")
	if probeConcurrency < 1 {
		return nil, fmt.Errorf("PROBE_CONCURRENCY must be at least 1, got %d", probeConcurrency)
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),
		AdminPort:       viper.GetInt("ADMIN_PORT"),

		BaseURL:        viper.GetString("BASE_URL"),
		RecordingsPath: strings.Trim(viper.GetString("RECORDINGS_PATH"), "/"),

		TokensPerRecording:  tokens,
		UploadMaxBytes:      viper.GetInt64("UPLOAD_MAX_BYTES"),
		AllowDegradedTokens: viper.GetBool("UPLOAD_ALLOW_DEGRADED_TOKENS"),
		OrphanCleanup:       viper.GetBool("ORPHAN_CLEANUP"),

		StorageDriver:       driver,
		StorageBucket:       viper.GetString("STORAGE_BUCKET"),
		StoragePublicURL:    viper.GetString("STORAGE_PUBLIC_URL"),
		StorageCacheControl: viper.GetString("STORAGE_CACHE_CONTROL"),
		StorageACL:          acl,
		MinioEndpoint:       viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:      viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:      viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:         viper.GetBool("MINIO_USE_SSL"),
		S3Region:            viper.GetString("S3_REGION"),
		S3Endpoint:          viper.GetString("S3_ENDPOINT"),
		S3AccessKey:         viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         viper.GetString("S3_SECRET_KEY"),

		FFProbePath:      viper.GetString("FFPROBE_PATH"),
		ProbeTimeout:     viper.GetDuration("PROBE_TIMEOUT"),
		ProbeConcurrency: probeConcurrency,

		MimeCacheSize: viper.GetInt("MIME_CACHE_SIZE"),
		MimeCacheTTL:  viper.GetDuration("MIME_CACHE_TTL"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		LabelCacheTTL: viper.GetDuration("LABEL_CACHE_TTL"),

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),
		SentryDSN:    viper.GetString("SENTRY_DSN"),
	}, nil
}

func setDefaults() {
	viper.SetDefault("RECORDINGS_PATH", "recordings")
	viper.SetDefault("TOKENS_PER_RECORDING", 3)
	viper.SetDefault("UPLOAD_MAX_BYTES", 100<<20)
	viper.SetDefault("UPLOAD_ALLOW_DEGRADED_TOKENS", false)
	viper.SetDefault("ORPHAN_CLEANUP", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverMinio)
	viper.SetDefault("STORAGE_CACHE_CONTROL", "public, max-age=31536000, immutable")
	viper.SetDefault("STORAGE_ACL", "public-read")
	viper.SetDefault("PROBE_TIMEOUT", 10*time.Second)
	viper.SetDefault("PROBE_CONCURRENCY", 4)
	viper.SetDefault("MIME_CACHE_SIZE", 64)
	viper.SetDefault("MIME_CACHE_TTL", 10*time.Minute)
	viper.SetDefault("LABEL_CACHE_TTL", time.Hour)
}
