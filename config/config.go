package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Business   BusinessConfig   `yaml:"business"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// BusinessConfig holds the time-clock policy knobs. All hours and dates are
// interpreted in the single business timezone.
type BusinessConfig struct {
	Timezone           string         `yaml:"timezone"`
	WorkdayStartHour   int            `yaml:"workday_start_hour"`
	WorkdayEndHour     int            `yaml:"workday_end_hour"`
	MinGapMinutes      int            `yaml:"min_gap_minutes"`
	WeekStartDay       string         `yaml:"week_start_day"`
	DuplicateScanLimit int            `yaml:"duplicate_scan_limit"`
	LockTTLSeconds     int            `yaml:"lock_ttl_seconds"`
	SeenTTLMinutes     int            `yaml:"seen_ttl_minutes"`
	Location           *time.Location `yaml:"-"` // Ignored by YAML parser
	WeekStart          time.Weekday   `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Business.FillDefaults(); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}

// FillDefaults back-fills unset policy knobs and resolves the derived fields.
func (b *BusinessConfig) FillDefaults() error {
	if b.Timezone == "" {
		b.Timezone = "America/New_York"
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fmt.Errorf("invalid business timezone %q: %w", b.Timezone, err)
	}
	b.Location = loc

	// A zero start hour is a valid midnight-start window, so the defaults
	// apply only when the whole window is absent from the file. Setting one
	// bound without the other is a config error caught by the range checks.
	if b.WorkdayStartHour == 0 && b.WorkdayEndHour == 0 {
		b.WorkdayStartHour = 7
		b.WorkdayEndHour = 19
	}
	if b.WorkdayStartHour < 0 || b.WorkdayStartHour > 23 {
		return fmt.Errorf("workday_start_hour (%d) must be in [0, 23]", b.WorkdayStartHour)
	}
	if b.WorkdayEndHour < 1 || b.WorkdayEndHour > 24 {
		return fmt.Errorf("workday_end_hour (%d) must be in [1, 24]", b.WorkdayEndHour)
	}
	if b.WorkdayEndHour <= b.WorkdayStartHour {
		return fmt.Errorf("workday_end_hour (%d) must be after workday_start_hour (%d)", b.WorkdayEndHour, b.WorkdayStartHour)
	}

	if b.MinGapMinutes <= 0 {
		b.MinGapMinutes = 5
	}
	if b.DuplicateScanLimit <= 0 {
		b.DuplicateScanLimit = 50
	}
	if b.LockTTLSeconds <= 0 {
		b.LockTTLSeconds = 10
	}
	if b.SeenTTLMinutes <= 0 {
		b.SeenTTLMinutes = 10
	}

	if b.WeekStartDay == "" {
		b.WeekStartDay = "monday"
	}
	day, ok := weekdays[strings.ToLower(b.WeekStartDay)]
	if !ok {
		return fmt.Errorf("invalid week_start_day %q", b.WeekStartDay)
	}
	b.WeekStart = day

	return nil
}

// LockTTL returns the advisory lock TTL as a duration.
func (b *BusinessConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

// SeenTTL returns the idempotency marker TTL as a duration.
func (b *BusinessConfig) SeenTTL() time.Duration {
	return time.Duration(b.SeenTTLMinutes) * time.Minute
}
