package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Shopify  ShopifyConfig
	Pipeline PipelineConfig
	Billing  BillingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	Serper           string
	Groq             string
	DriveCredentials string // path to the service account JSON, optional
	GenerationTopic  string // internal pubsub topic for writer batches
}

type AIConfig struct {
	LLMProvider string // "groq" is the only supported provider today
	LLMModel    string
	LLMBaseURL  string // override for self-hosted OpenAI-compatible gateways
}

type ShopifyConfig struct {
	ShopURL     string
	APIVersion  string
	AccessToken string
}

type PipelineConfig struct {
	RewriteThrottle time.Duration
	GenerateDelay   time.Duration
	KeywordCSVPath  string
}

type BillingConfig struct {
	GSTRatePercent float64
	MarginPercent  float64
	MidtransKey    string
	MidtransEnv    string // "sandbox" or "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Jewel Backoffice"),
		},
		Keys: APIKeys{
			Serper:           getEnv("SERPER_API_KEY", ""),
			Groq:             getEnv("GROQ_API_KEY", ""),
			DriveCredentials: getEnv("DRIVE_CREDENTIALS_FILE", ""),
			GenerationTopic:  getEnv("GENERATION_TOPIC_NAME", "PRODUCT_GENERATION"),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "groq"),
			LLMModel:    getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
		},
		Shopify: ShopifyConfig{
			ShopURL:     getEnv("SHOPIFY_SHOP_URL", ""),
			APIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-10"),
			AccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		},
		Pipeline: PipelineConfig{
			RewriteThrottle: getEnvAsDuration("REWRITE_THROTTLE", 10*time.Second),
			GenerateDelay:   getEnvAsDuration("GENERATE_DELAY", 20*time.Second),
			KeywordCSVPath:  getEnv("KEYWORD_CSV_PATH", "keywords.csv"),
		},
		Billing: BillingConfig{
			GSTRatePercent: getEnvAsFloat("GST_RATE_PERCENT", 3.0),
			MarginPercent:  getEnvAsFloat("DEFAULT_MARGIN_PERCENT", 40.0),
			MidtransKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransEnv:    getEnv("MIDTRANS_ENV", "sandbox"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
