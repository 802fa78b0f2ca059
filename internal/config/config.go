package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Google   GoogleConfig
	Circlo   CircloConfig
	Agent    AgentConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	StaticDir          string
	JwtSecret          string
	TokenEncryptionKey string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI      string
	HuggingFace string
	SerpApi     string
}

type AIConfig struct {
	LLMProvider   string // "openai", "openrouter", "huggingface" or "ollama"
	LLMModel      string
	OpenAIBaseURL string
	OllamaBaseURL string
}

type GoogleConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	CalendarBaseURL string
}

type CircloConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type TracingConfig struct {
	Enabled        bool
	Endpoint       string // host:port of the OTLP HTTP collector
	ServiceName    string
	ServiceVersion string
	SampleRatio    float64
}

type AgentConfig struct {
	DefaultUserID string
	ActionTimeout time.Duration
	SlotTimezone  string
	HelperDelay   time.Duration
	BookingTopic  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://127.0.0.1:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/haruhi.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			StaticDir:          getEnv("STATIC_DIR", "./static"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			TokenEncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnv("DB_LOG_SQL", "false") == "true",
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Haruhi Agent"),
		},
		Keys: APIKeys{
			OpenAI:      getEnv("OPENAI_API_KEY", ""),
			HuggingFace: firstEnv("HUGGINGFACE_API_KEY", "HF_TOKEN"),
			SerpApi:     firstEnv("SERPAPI_API_KEY", "SECHAPI_KEY", "SEARCH_API_KEY"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Google: GoogleConfig{
			ClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:     getEnv("GOOGLE_REDIRECT_URI", ""),
			CalendarBaseURL: getEnv("GOOGLE_CALENDAR_BASE_URL", "https://www.googleapis.com/calendar/v3"),
		},
		Circlo: CircloConfig{
			BaseURL: getEnv("CIRCLO_BASE_URL", "https://api.getcirclo.com"),
			Token:   CircloToken(),
			Timeout: getEnvAsDuration("CIRCLO_TIMEOUT", 10*time.Second),
		},
		Agent: AgentConfig{
			DefaultUserID: getEnv("DEFAULT_USER_ID", "demo-user"),
			ActionTimeout: getEnvAsDuration("ACTION_TIMEOUT", 20*time.Second),
			SlotTimezone:  getEnv("SLOT_TIMEZONE", "Asia/Singapore"),
			HelperDelay:   getEnvAsDuration("HELPER_DELAY", 200*time.Millisecond),
			BookingTopic:  getEnv("BOOKING_TOPIC_NAME", "BOOKING_RECORDED"),
		},
		Tracing: TracingConfig{
			Enabled:        getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "haruhi-agent-be"),
			ServiceVersion: getEnv("APP_VERSION", "dev"),
			SampleRatio:    getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// CircloToken prefers CIRCLO_TOKEN over CIRCLO_API_TOKEN and strips a stored "Bearer " prefix.
func CircloToken() string {
	token := firstEnv("CIRCLO_TOKEN", "CIRCLO_API_TOKEN")
	if token == "" {
		log.Println("Warn: No Circlo token found in environment (CIRCLO_TOKEN or CIRCLO_API_TOKEN)")
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[len("bearer "):])
	}
	return strings.TrimSpace(token)
}

// LLMCredentials picks the key and base URL that belong to the configured provider.
func (c *Config) LLMCredentials() (apiKey, baseURL string) {
	switch c.Ai.LLMProvider {
	case "huggingface":
		return c.Keys.HuggingFace, c.Ai.OpenAIBaseURL
	case "ollama":
		return "", c.Ai.OllamaBaseURL
	default:
		return c.Keys.OpenAI, c.Ai.OpenAIBaseURL
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
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
