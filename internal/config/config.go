package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"` // CDN or public endpoint prefix
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	PromptBudget    int    `yaml:"prompt_budget"` // token budget for page text in prompts
}

type PipelineConfig struct {
	Versions        int           `yaml:"versions"` // generation attempts per job
	Workers         int           `yaml:"workers"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	SlugAttempts    int           `yaml:"slug_attempts"`
	StatusCacheSize int           `yaml:"status_cache_size"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	Pipeline PipelineConfig `yaml:"pipeline"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Database.PoolSize <= 0 {
		c.Database.PoolSize = 10
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 15 * time.Minute
	}
	// DefaultModel stays empty here; each provider adapter fills in its own
	// default so a Gemini deployment never inherits an OpenAI model name.
	if c.AI.ConcurrentLimit <= 0 {
		c.AI.ConcurrentLimit = 16
	}
	if c.AI.MaxOutputTokens <= 0 {
		c.AI.MaxOutputTokens = 8192
	}
	if c.AI.PromptBudget <= 0 {
		c.AI.PromptBudget = 2500
	}
	if c.Pipeline.Versions <= 0 {
		c.Pipeline.Versions = 3
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 8
	}
	if c.Pipeline.FetchTimeout <= 0 {
		c.Pipeline.FetchTimeout = 15 * time.Second
	}
	if c.Pipeline.GenerateTimeout <= 0 {
		c.Pipeline.GenerateTimeout = 2 * time.Minute
	}
	if c.Pipeline.SlugAttempts <= 0 {
		c.Pipeline.SlugAttempts = 100
	}
	if c.Pipeline.StatusCacheSize <= 0 {
		c.Pipeline.StatusCacheSize = 1024
	}
}
