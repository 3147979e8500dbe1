package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config, .env, opsiyonel YAML dosyası ve ortam değişkenlerinden yüklenen tüm ayarları tutar.
// Öncelik: varsayılanlar < YAML < environment.
type Config struct {
	ListenAddress string          `yaml:"listen_address"`
	LogMode       string          `yaml:"log_mode"`
	DB            DBConfig        `yaml:"db"`
	Memory        MemoryConfig    `yaml:"memory"`
	LLM           LLMConfig       `yaml:"llm"`
	Agent         AgentConfig     `yaml:"agent"`
	Events        EventsConfig    `yaml:"events"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite | mysql | postgres
	DSN    string `yaml:"dsn"`
}

type MemoryConfig struct {
	Backend       string        `yaml:"backend"` // sqlite | redis
	Path          string        `yaml:"path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	KeyPrefix     string        `yaml:"key_prefix"`
	TTL           time.Duration `yaml:"ttl"`
	HistoryLimit  int           `yaml:"history_limit"`
}

// Temperature nil ise sağlayıcının varsayılanı kullanılır (openai 0, ollama 0.5).
type LLMConfig struct {
	Provider      string        `yaml:"provider"` // openai | ollama
	Model         string        `yaml:"model"`
	Temperature   *float64      `yaml:"temperature"`
	MaxRetries    int           `yaml:"max_retries"`
	Timeout       time.Duration `yaml:"timeout"`
	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	OllamaBaseURL string        `yaml:"ollama_base_url"`
}

type AgentConfig struct {
	MaxSteps     int    `yaml:"max_steps"`
	SystemPrompt string `yaml:"system_prompt"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Default, hiçbir dosya ya da env yokken kullanılan ayarlardır.
func Default() *Config {
	return &Config{
		ListenAddress: ":8000",
		LogMode:       "development",
		DB: DBConfig{
			Driver: DriverSQLite,
			DSN:    "./data/assets.db",
		},
		Memory: MemoryConfig{
			Backend:      BackendSQLite,
			Path:         "./data/agent_memory.db",
			KeyPrefix:    "asset-smith:memory",
			HistoryLimit: 20,
		},
		LLM: LLMConfig{
			Provider:   ProviderOpenAI,
			MaxRetries: 2,
			Timeout:    60 * time.Second,
		},
		Agent: AgentConfig{
			MaxSteps: 8,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "asset-smith",
		},
	}
}

// LoadDotEnv .env dosyalarını okur. Dosya yoksa hata döner ama çağıran genelde sadece uyarı loglar.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load varsayılanların üstüne YAML dosyasını (path boşsa ASSET_CONFIG), onun da üstüne env değerlerini yazar.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("ASSET_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config dosyası okunamadı: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config dosyası parse edilemedi (%s): %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddress = ":" + port
	}
	setString(&cfg.ListenAddress, "LISTEN_ADDR")
	setString(&cfg.LogMode, "LOG_MODE")

	setString(&cfg.DB.Driver, "DB_DRIVER")
	setString(&cfg.DB.DSN, "DB_DSN")

	setString(&cfg.Memory.Backend, "MEMORY_BACKEND")
	setString(&cfg.Memory.Path, "MEMORY_DB_PATH")
	setString(&cfg.Memory.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Memory.RedisPassword, "REDIS_PASSWORD")
	if err := setInt(&cfg.Memory.HistoryLimit, "MEMORY_HISTORY_LIMIT"); err != nil {
		return err
	}

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LLM_TEMPERATURE geçersiz: %w", err)
		}
		cfg.LLM.Temperature = &t
	}
	if err := setInt(&cfg.LLM.MaxRetries, "LLM_MAX_RETRIES"); err != nil {
		return err
	}
	// Gateway'deki isimle aynı
	if v := os.Getenv("HTTP_CLIENT_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_CLIENT_TIMEOUT_SECONDS geçersiz: %w", err)
		}
		cfg.LLM.Timeout = time.Duration(secs) * time.Second
	}
	setString(&cfg.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.OllamaBaseURL, "OLLAMA_BASE_URL")

	if err := setInt(&cfg.Agent.MaxSteps, "AGENT_MAX_STEPS"); err != nil {
		return err
	}

	setString(&cfg.Events.NATSURL, "NATS_URL")

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_ENABLED geçersiz: %w", err)
		}
		cfg.Telemetry.Enabled = enabled
	}
	return nil
}

// Validate desteklenmeyen sürücü/sağlayıcı isimlerini ve negatif sayıları reddeder.
func (c *Config) Validate() error {
	var errs []error
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("db.driver desteklenmiyor: %q", c.DB.Driver))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn boş olamaz"))
	}

	c.Memory.Backend = strings.ToLower(strings.TrimSpace(c.Memory.Backend))
	switch c.Memory.Backend {
	case BackendSQLite:
		if c.Memory.Path == "" {
			errs = append(errs, errors.New("memory.path boş olamaz"))
		}
	case BackendRedis:
		if c.Memory.RedisAddr == "" {
			errs = append(errs, errors.New("memory.redis_addr boş olamaz"))
		}
	default:
		errs = append(errs, fmt.Errorf("memory.backend desteklenmiyor: %q", c.Memory.Backend))
	}
	if c.Memory.HistoryLimit < 0 {
		errs = append(errs, errors.New("memory.history_limit negatif olamaz"))
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("llm.provider desteklenmiyor: %q", c.LLM.Provider))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, errors.New("llm.max_retries negatif olamaz"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout pozitif olmalı"))
	}
	if c.Agent.MaxSteps <= 0 {
		errs = append(errs, errors.New("agent.max_steps pozitif olmalı"))
	}
	return errors.Join(errs...)
}

// ---------------------- HELPERS ----------------------

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s geçersiz: %w", key, err)
	}
	*dst = n
	return nil
}
