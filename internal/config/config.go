package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName     = "moderation"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8080
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "moderator"
	defaultDBName          = "content_moderation"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultRedisURL        = "localhost:6379"
	defaultEventChannel    = "moderation.classified"
	defaultScorerURL       = "http://toxicity-scorer:8090"
	defaultScorerTimeout   = 5 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultPublishWorkers  = 2
	defaultPublishQueue    = 256
	defaultPublishTimeout  = 10 * time.Second
	defaultPostsPerSecond  = 1.0
	defaultToxicityHigh    = 0.8
	defaultToxicityMedium  = 0.6
	defaultSpamHigh        = 0.7
	defaultSpamMedium      = 0.5
	defaultConfidenceLow   = 0.6
	defaultConnMaxLifetime = time.Hour
)

// Config holds all configuration for the moderation service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Scorer     ScorerConfig     `yaml:"scorer"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Publisher  PublisherConfig  `yaml:"publisher"`
	Logging    LoggingConfig    `yaml:"logging"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"MODERATION_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"       yaml:"debug"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// RedisConfig holds Redis configuration for the classified-event channel.
type RedisConfig struct {
	URL          string `env:"REDIS_URL"      yaml:"url"`
	Password     string `env:"REDIS_PASSWORD" yaml:"password"`
	Database     int    `yaml:"database"`
	Enabled      bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
	EventChannel string `yaml:"event_channel"`
}

// ScorerConfig holds configuration for the toxicity/sentiment model sidecar.
type ScorerConfig struct {
	URL     string        `env:"SCORER_URL"     yaml:"url"`
	Timeout time.Duration `env:"SCORER_TIMEOUT" yaml:"timeout"`
}

// ThresholdsConfig holds the initial classification thresholds.
// The running values live in the verdict engine and can be updated at
// runtime through the admin API.
type ThresholdsConfig struct {
	ToxicityHigh   float64 `yaml:"toxicity_high"`
	ToxicityMedium float64 `yaml:"toxicity_medium"`
	SpamHigh       float64 `yaml:"spam_high"`
	SpamMedium     float64 `yaml:"spam_medium"`
	ConfidenceLow  float64 `yaml:"confidence_low"`
}

// PublisherConfig holds social publishing configuration.
type PublisherConfig struct {
	FacebookToken       string        `env:"FACEBOOK_TOKEN"        yaml:"facebook_token"`
	TwitterAPIKey       string        `env:"TWITTER_API_KEY"       yaml:"twitter_api_key"`
	TwitterAPISecret    string        `env:"TWITTER_API_SECRET"    yaml:"twitter_api_secret"`
	TwitterAccessToken  string        `env:"TWITTER_ACCESS_TOKEN"  yaml:"twitter_access_token"`
	TwitterAccessSecret string        `env:"TWITTER_ACCESS_SECRET" yaml:"twitter_access_secret"`
	Workers             int           `yaml:"workers"`
	QueueSize           int           `yaml:"queue_size"`
	PostTimeout         time.Duration `yaml:"post_timeout"`
	PostsPerSecond      float64       `yaml:"posts_per_second"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// AuthConfig holds authentication configuration for admin routes.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// Load loads configuration from the specified path, applies defaults, then
// re-applies environment overrides (env always wins).
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setScorerDefaults(&cfg.Scorer)
	setThresholdDefaults(&cfg.Thresholds)
	setPublisherDefaults(&cfg.Publisher)
	setLoggingDefaults(&cfg.Logging)
	// Auth defaults are handled by env tags - no explicit defaults needed
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = defaultConnMaxLifetime
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
	if r.EventChannel == "" {
		r.EventChannel = defaultEventChannel
	}
}

func setScorerDefaults(s *ScorerConfig) {
	if s.URL == "" {
		s.URL = defaultScorerURL
	}
	if s.Timeout == 0 {
		s.Timeout = defaultScorerTimeout
	}
}

func setThresholdDefaults(t *ThresholdsConfig) {
	if t.ToxicityHigh == 0 {
		t.ToxicityHigh = defaultToxicityHigh
	}
	if t.ToxicityMedium == 0 {
		t.ToxicityMedium = defaultToxicityMedium
	}
	if t.SpamHigh == 0 {
		t.SpamHigh = defaultSpamHigh
	}
	if t.SpamMedium == 0 {
		t.SpamMedium = defaultSpamMedium
	}
	if t.ConfidenceLow == 0 {
		t.ConfidenceLow = defaultConfidenceLow
	}
}

func setPublisherDefaults(p *PublisherConfig) {
	if p.Workers == 0 {
		p.Workers = defaultPublishWorkers
	}
	if p.QueueSize == 0 {
		p.QueueSize = defaultPublishQueue
	}
	if p.PostTimeout == 0 {
		p.PostTimeout = defaultPublishTimeout
	}
	if p.PostsPerSecond == 0 {
		p.PostsPerSecond = defaultPostsPerSecond
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
