package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Debug        bool          `yaml:"debug" env:"DEBUG"`
	AppSecret    string        `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Server       Server        `yaml:"server"`
	DB           DB            `yaml:"db"`
	Limiter      Limiter       `yaml:"limiter"`
	CORS         CORS          `yaml:"cors"`
	Auth         Auth          `yaml:"auth"`
	Clients      ClientsConfig `yaml:"clients"`
	WatchHistory WatchHistory  `yaml:"watch_history"`
	SMTPServer   SMTPServer    `yaml:"smtp"`
	BgTasks      BgTasks       `yaml:"bg_tasks"`
}

type Server struct {
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"BACKEND_CORS_ORIGINS" env-separator:","`
}

type Auth struct {
	TokenTTL time.Duration `yaml:"token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"30m"`
}

type TMDB struct {
	APIKey  string        `yaml:"api_key" env:"TMDB_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"TMDB_BASE_URL" env-default:"https://api.themoviedb.org/3"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type ClientsConfig struct {
	TMDB TMDB `yaml:"tmdb"`
}

type WatchHistory struct {
	// UniquePerMovie rejects a watch event for a movie the user already has a
	// history row for. Off by default: every event is appended as a new row.
	UniquePerMovie bool `yaml:"unique_per_movie" env:"WATCH_HISTORY_UNIQUE_PER_MOVIE"`
}

type SMTPServer struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env:"SMTP_SENDER" env-default:"Movie App <no-reply@movieapp.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

func (s SMTPServer) Enabled() bool {
	return s.Host != ""
}

type BgTasks struct {
	Workers   int `yaml:"workers" env-default:"2"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Limiter.Enabled && (c.Limiter.Rps <= 0 || c.Limiter.Burst <= 0) {
		return fmt.Errorf("limiter.rps and limiter.burst must be positive when the limiter is enabled")
	}
	if c.BgTasks.Workers < 1 {
		return fmt.Errorf("bg_tasks.workers must be at least 1")
	}
	return nil
}
