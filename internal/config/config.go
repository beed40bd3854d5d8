package config

import "github.com/caarlos0/env/v10"

// Config centralizes service configuration, loaded once at startup.
// OpenAIAPIKey is deliberately not required here: a missing credential is
// reported by the completion gateway as a configuration error instead of
// crashing the process on boot.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	LLMBaseURL    string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gpt-4o"`
	JWTSecret     string `env:"JWT_SECRET"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
