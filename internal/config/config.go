package config

import (
	"log"
	"os"
	"strconv"

	"security-training-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Wizard   WizardConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	ChatLogFilePath    string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OllamaBaseURL  string
	ChatModel      string
	EmbeddingModel string
}

type WizardConfig struct {
	// Topic name for the async knowledge ingestion pipeline.
	IngestTopic string

	// Sessions idle longer than this many minutes are swept.
	SessionMaxAgeMinutes int

	// Runs the hallucination check after each generation when true.
	FactualityCheck bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ChatLogFilePath:    getEnv("CHAT_LOG_FILE_PATH", "logs/chat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", constant.OllamaDefaultBaseURL),
			ChatModel:      getEnv("OLLAMA_CHAT_MODEL", constant.OllamaDefaultChatModel),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", constant.OllamaDefaultEmbeddingModel),
		},
		Wizard: WizardConfig{
			IngestTopic:          getEnv("KNOWLEDGE_INGEST_TOPIC_NAME", "KNOWLEDGE_INGEST"),
			SessionMaxAgeMinutes: getEnvAsInt("SESSION_MAX_AGE_MINUTES", 120),
			FactualityCheck:      getEnvAsBool("FACTUALITY_CHECK_ENABLED", true),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
