package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Analytics struct {
		Endpoint          string        `yaml:"endpoint"`
		CredentialsJSON   string        `yaml:"credentials_json"`
		CredentialsFile   string        `yaml:"credentials_file"`
		DefaultPropertyID string        `yaml:"default_property_id"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"analytics"`
	BrandConfig struct {
		ProviderURL string        `yaml:"provider_url"`
		Collection  string        `yaml:"collection"`
		CacheTTL    time.Duration `yaml:"cache_ttl"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"brand_config"`
	Cache struct {
		TTL struct {
			Now     time.Duration `yaml:"now"`
			Today   time.Duration `yaml:"today"`
			Days30  time.Duration `yaml:"days_30"`
			Days365 time.Duration `yaml:"days_365"`
		} `yaml:"ttl"`
		MinNowInterval time.Duration `yaml:"min_now_interval"`
		Redis          struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Snapshot struct {
		Timeout       time.Duration `yaml:"timeout"`
		BrandParallel int           `yaml:"brand_parallel"`
	} `yaml:"snapshot"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("GA_CREDENTIALS_JSON"); v != "" {
		c.Analytics.CredentialsJSON = v
	}
	if v := os.Getenv("GA_CREDENTIALS_FILE"); v != "" {
		c.Analytics.CredentialsFile = v
	}
	if v := os.Getenv("GA_DEFAULT_PROPERTY_ID"); v != "" {
		c.Analytics.DefaultPropertyID = v
	}
	if v := os.Getenv("BRAND_CONFIG_URL"); v != "" {
		c.BrandConfig.ProviderURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Analytics.Endpoint == "" {
		c.Analytics.Endpoint = "https://analyticsdata.googleapis.com"
	}
	if c.Analytics.Timeout == 0 {
		c.Analytics.Timeout = 10 * time.Second
	}
	if c.BrandConfig.Collection == "" {
		c.BrandConfig.Collection = "dashboard-config"
	}
	if c.BrandConfig.CacheTTL == 0 {
		c.BrandConfig.CacheTTL = 10 * time.Minute
	}
	if c.BrandConfig.Timeout == 0 {
		c.BrandConfig.Timeout = 5 * time.Second
	}
	if c.Cache.TTL.Now == 0 {
		c.Cache.TTL.Now = time.Minute
	}
	if c.Cache.TTL.Today == 0 {
		c.Cache.TTL.Today = 5 * time.Minute
	}
	if c.Cache.TTL.Days30 == 0 {
		c.Cache.TTL.Days30 = 30 * time.Minute
	}
	if c.Cache.TTL.Days365 == 0 {
		c.Cache.TTL.Days365 = 30 * time.Minute
	}
	if c.Cache.MinNowInterval == 0 {
		c.Cache.MinNowInterval = 5 * time.Second
	}
	if c.Snapshot.Timeout == 0 {
		c.Snapshot.Timeout = 30 * time.Second
	}
	if c.Snapshot.BrandParallel == 0 {
		c.Snapshot.BrandParallel = 8
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Analytics.CredentialsJSON == "" && c.Analytics.CredentialsFile == "" {
		return fmt.Errorf("analytics credentials are required (credentials_json or credentials_file)")
	}
	if c.Cache.MinNowInterval < time.Second {
		return fmt.Errorf("cache.min_now_interval must be at least 1s")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}
	return nil
}

// Credentials returns the service account JSON, reading the file variant
// when the inline one is not set.
func (c *Config) Credentials() ([]byte, error) {
	if c.Analytics.CredentialsJSON != "" {
		return []byte(c.Analytics.CredentialsJSON), nil
	}
	b, err := os.ReadFile(c.Analytics.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return b, nil
}
