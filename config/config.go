package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreValkey   = "valkey"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Store   StoreConfig
	OpenAI  OpenAIConfig
	Kafka   KafkaConfig
	HTTP    HTTPConfig
	Ranking RankingConfig
	Monitor MonitorConfig
}

type StoreConfig struct {
	Driver     string
	SQLitePath string

	PostgresDSN string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	AWSEndpoint   string
	AWSRegion     string
	DynamoDBTable string
}

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Enabled reports whether analysis events should be published.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != ""
}

type HTTPConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type RankingConfig struct {
	Locale string
}

type MonitorConfig struct {
	ModelHealthInterval time.Duration
}

// Load builds the configuration from the environment and, when WORDLENS_CONFIG
// points at a TOML file, overlays the values found there.
func Load() (Config, error) {
	cfg := Config{
		Env:      AppEnv(),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
			SQLitePath:     getEnv("SQLITE_PATH", "data/wordlens.db"),
			PostgresDSN:    postgresDSN(),
			ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
			ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
			ValkeyTLS:      getEnv("VALKEY_TLS", "false") == "true",
			AWSEndpoint:    getEnv("AWS_ENDPOINT", ""),
			AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
			DynamoDBTable:  getEnv("DYNAMODB_TABLE", "LastAnalysis"),
		},
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", ""),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:    getDuration("OPENAI_TIMEOUT", 60*time.Second),
			MaxRetries: getInt("OPENAI_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TOPIC_ANALYSIS", "analysis.completed"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			MaxBodyBytes:   int64(getInt("HTTP_MAX_BODY_BYTES", 1<<20)),
		},
		Ranking: RankingConfig{
			Locale: getEnv("RANK_LOCALE", "en"),
		},
		Monitor: MonitorConfig{
			ModelHealthInterval: getDuration("MODEL_HEALTHCHECK_INTERVAL", 15*time.Second),
		},
	}

	if path := getEnv("WORDLENS_CONFIG", ""); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		file.apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite, StorePostgres, StoreValkey, StoreDynamoDB:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.OpenAI.MaxRetries < 1 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be at least 1, got %d", c.OpenAI.MaxRetries)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive")
	}
	return nil
}

func postgresDSN() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "wordlens"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "wordlens"))
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
