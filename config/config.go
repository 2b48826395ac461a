package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevSessionSecret signs sessions when ENV=dev and SESSION_SECRET is unset.
// It is public and must never be used outside local development.
const DevSessionSecret = "colorboard-dev-only-insecure-secret"

const (
	defaultSessionTTL = 24 * time.Hour
	defaultCookieName = "session"
	defaultBcryptCost = 10
)

type Config struct {
	Env        string
	ServerPort int
	Log        LogConfig
	Session    SessionConfig
	Auth       AuthConfig
	Store      StoreConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	MQ         MQConfig
}

type LogConfig struct {
	Level    string
	Encoding string
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	SecureCookie bool
	// DevSecret is set when Secret was filled with DevSessionSecret.
	DevSecret bool
}

type AuthConfig struct {
	BcryptCost     int
	AdminUsernames []string
}

type StoreConfig struct {
	// Backend is one of "memory", "redis" or "postgres".
	Backend string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type StorageConfig struct {
	// Backend is "minio", "gcs" or empty to disable snapshots.
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MQConfig struct {
	// Backend is "rabbitmq", "pubsub" or empty to disable events.
	Backend       string
	ColorsChannel string
	RabbitMQ      RabbitMQConfig
	PubSub        PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	env := getEnv("ENV", "")
	if env == "dev" {
		godotenv.Load()
	}

	session := SessionConfig{
		Secret:       strings.TrimSpace(getEnv("SESSION_SECRET", "")),
		TTL:          getEnvSeconds("SESSION_TTL_SECONDS", defaultSessionTTL),
		CookieName:   getEnv("SESSION_COOKIE_NAME", defaultCookieName),
		SecureCookie: getEnvBool("SESSION_COOKIE_SECURE", false),
	}
	if session.Secret == "" && env == "dev" {
		session.Secret = DevSessionSecret
		session.DevSecret = true
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "colorboard"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "colorboard"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	return Config{
		Env:        env,
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Session: session,
		Auth: AuthConfig{
			BcryptCost:     getEnvInt("AUTH_BCRYPT_COST", defaultBcryptCost),
			AdminUsernames: getEnvList("AUTH_ADMIN_USERNAMES"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "memory"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: dbConfig,
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", ""),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "colorboard"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		MQ: MQConfig{
			Backend:       getEnv("MQ_BACKEND", ""),
			ColorsChannel: getEnv("MQ_COLORS_CHANNEL", "colors.created"),
			RabbitMQ: RabbitMQConfig{
				URL:             getEnv("RABBITMQ_URL", ""),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 10),
			},
			PubSub: PubSubConfig{
				ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

// getEnvSeconds reads a whole number of seconds. Non-positive values fall back to the default.
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	seconds := getEnvInt(key, int(defaultValue/time.Second))
	if seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

func getEnvList(key string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			values = append(values, value)
		}
	}
	return values
}
