package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"hybridgate/internal/domain/entity"
)

// Config is the resolved gateway configuration. Values come from an
// optional YAML file, overridden by environment variables.
type Config struct {
	Port         string
	CacheBackend string
	CacheTTL     time.Duration

	RedisAddr string

	QdrantHost       string
	QdrantPort       int
	QdrantCollection string

	GoogleProject  string
	GoogleLocation string
	GeminiModel    string
	EmbeddingModel string

	GrokAPIKey  string
	GrokBaseURL string
	GrokModel   string

	AnthropicAPIKey string
	AnthropicModel  string

	ProbeURL     string
	ProbeTimeout time.Duration

	Thresholds entity.ConfidenceThresholds
}

type fileConfig struct {
	Port         string        `yaml:"port"`
	CacheBackend string        `yaml:"cache_backend"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`

	RedisAddr string `yaml:"redis_addr"`

	Qdrant struct {
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		Collection string `yaml:"collection"`
	} `yaml:"qdrant"`

	Google struct {
		Project        string `yaml:"project"`
		Location       string `yaml:"location"`
		GeminiModel    string `yaml:"gemini_model"`
		EmbeddingModel string `yaml:"embedding_model"`
	} `yaml:"google"`

	Grok struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"grok"`

	Anthropic struct {
		Model string `yaml:"model"`
	} `yaml:"anthropic"`

	Probe struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"probe"`

	Thresholds struct {
		Escalation *float64 `yaml:"escalation"`
		High       *float64 `yaml:"high"`
		Medium     *float64 `yaml:"medium"`
		Low        *float64 `yaml:"low"`
	} `yaml:"thresholds"`
}

// Load resolves the configuration. path may be empty or point to a missing
// file; both fall back to defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:             "8080",
		CacheBackend:     "redis",
		CacheTTL:         entity.DefaultCacheTTL,
		RedisAddr:        "localhost:6379",
		QdrantHost:       "localhost",
		QdrantPort:       6334,
		QdrantCollection: "gateway_cache",
		GeminiModel:      "gemini-2.5-flash",
		EmbeddingModel:   "text-embedding-004",
		GrokModel:        "grok-2-latest",
		AnthropicModel:   "claude-sonnet-4-5",
		ProbeTimeout:     5 * time.Second,
		Thresholds:       entity.DefaultThresholds(),
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.Thresholds = cfg.Thresholds.Clamped()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.CacheBackend, fc.CacheBackend)
	if fc.CacheTTL > 0 {
		c.CacheTTL = fc.CacheTTL
	}
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.QdrantHost, fc.Qdrant.Host)
	if fc.Qdrant.Port > 0 {
		c.QdrantPort = fc.Qdrant.Port
	}
	setString(&c.QdrantCollection, fc.Qdrant.Collection)
	setString(&c.GoogleProject, fc.Google.Project)
	setString(&c.GoogleLocation, fc.Google.Location)
	setString(&c.GeminiModel, fc.Google.GeminiModel)
	setString(&c.EmbeddingModel, fc.Google.EmbeddingModel)
	setString(&c.GrokBaseURL, fc.Grok.BaseURL)
	setString(&c.GrokModel, fc.Grok.Model)
	setString(&c.AnthropicModel, fc.Anthropic.Model)
	setString(&c.ProbeURL, fc.Probe.URL)
	if fc.Probe.Timeout > 0 {
		c.ProbeTimeout = fc.Probe.Timeout
	}
	if fc.Thresholds.Escalation != nil {
		c.Thresholds.Escalation = *fc.Thresholds.Escalation
	}
	if fc.Thresholds.High != nil {
		c.Thresholds.High = *fc.Thresholds.High
	}
	if fc.Thresholds.Medium != nil {
		c.Thresholds.Medium = *fc.Thresholds.Medium
	}
	if fc.Thresholds.Low != nil {
		c.Thresholds.Low = *fc.Thresholds.Low
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.CacheBackend, os.Getenv("CACHE_BACKEND"))
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.CacheTTL = d
		}
	}
	setString(&c.RedisAddr, os.Getenv("REDIS_ADDR"))
	setString(&c.QdrantHost, os.Getenv("QDRANT_HOST"))
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.QdrantPort = p
		}
	}
	setString(&c.QdrantCollection, os.Getenv("QDRANT_COLLECTION"))
	setString(&c.GoogleProject, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	setString(&c.GoogleLocation, os.Getenv("GOOGLE_CLOUD_LOCATION"))
	setString(&c.GeminiModel, os.Getenv("GEMINI_MODEL"))
	setString(&c.EmbeddingModel, os.Getenv("EMBEDDING_MODEL"))
	setString(&c.GrokAPIKey, os.Getenv("GROK_API_KEY"))
	setString(&c.GrokBaseURL, os.Getenv("GROK_BASE_URL"))
	setString(&c.GrokModel, os.Getenv("GROK_MODEL"))
	setString(&c.AnthropicAPIKey, os.Getenv("ANTHROPIC_API_KEY"))
	setString(&c.AnthropicModel, os.Getenv("ANTHROPIC_MODEL"))
	setString(&c.ProbeURL, os.Getenv("PROBE_URL"))
	if v := os.Getenv("PROBE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.ProbeTimeout = d
		}
	}
	applyEnvFloat("ESCALATION_THRESHOLD", &c.Thresholds.Escalation)
	applyEnvFloat("HIGH_CONFIDENCE_THRESHOLD", &c.Thresholds.High)
	applyEnvFloat("MEDIUM_CONFIDENCE_THRESHOLD", &c.Thresholds.Medium)
	applyEnvFloat("LOW_CONFIDENCE_THRESHOLD", &c.Thresholds.Low)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyEnvFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
