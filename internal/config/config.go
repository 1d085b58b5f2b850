package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	LLM       LLMConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Image     ImageConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type CORSConfig struct {
	AllowOrigins string
}

// RateLimitConfig limits inbound requests per client IP. Max == 0 disables it.
type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
}

type LLMConfig struct {
	Provider string
	Model    string
	// RPS paces outbound model calls; 0 means unlimited.
	RPS     float64
	Burst   int
	Timeout time.Duration

	GeminiAPIKey    string
	OllamaServerURL string
	OpenAIAPIKey    string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	TTL time.Duration
}

type ImageConfig struct {
	MaxWidth int
	// MaxPixels caps width*height of uploaded images before they are decoded.
	MaxPixels int
}

type LoggerConfig struct {
	Level      string
	Env        string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Enabled reports whether the response cache should be wired.
func (c CacheConfig) Enabled(redis RedisConfig) bool {
	return redis.Address != "" && c.TTL > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("cors.allow_origins", "*")

	v.SetDefault("rate_limit.max", 0)
	v.SetDefault("rate_limit.expiration", 60)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.rps", 0)
	v.SetDefault("llm.burst", 1)
	v.SetDefault("llm.timeout", 0)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("ollama.server_url", "http://localhost:11434")
	v.SetDefault("openai.api_key", "")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", 3600)

	v.SetDefault("image.max_width", 1024)
	v.SetDefault("image.max_pixels", 25_000_000)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("logger.compress", true)
}

// LoadConfig reads .env, an optional config.yaml and the environment, in that order of precedence (lowest first).
func LoadConfig() (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: v.GetDuration("server.write_timeout") * time.Second,
			IdleTimeout:  v.GetDuration("server.idle_timeout") * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
		RateLimit: RateLimitConfig{
			Max:        v.GetInt("rate_limit.max"),
			Expiration: v.GetDuration("rate_limit.expiration") * time.Second,
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("llm.provider")),
			Model:           v.GetString("llm.model"),
			RPS:             v.GetFloat64("llm.rps"),
			Burst:           v.GetInt("llm.burst"),
			Timeout:         v.GetDuration("llm.timeout") * time.Second,
			GeminiAPIKey:    v.GetString("gemini.api_key"),
			OllamaServerURL: v.GetString("ollama.server_url"),
			OpenAIAPIKey:    v.GetString("openai.api_key"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			TTL: v.GetDuration("cache.ttl") * time.Second,
		},
		Image: ImageConfig{
			MaxWidth:  v.GetInt("image.max_width"),
			MaxPixels: v.GetInt("image.max_pixels"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("logger.level"),
			Env:        v.GetString("logger.env"),
			File:       v.GetString("logger.file"),
			MaxSizeMB:  v.GetInt("logger.max_size_mb"),
			MaxBackups: v.GetInt("logger.max_backups"),
			MaxAgeDays: v.GetInt("logger.max_age_days"),
			Compress:   v.GetBool("logger.compress"),
		},
	}
}
