// Package config loads service settings from a .env file and EQUIPTRACK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/honlab/equiptrack/internal/retention"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "EQUIPTRACK_"

// Retention modes.
const (
	RetentionFixed  = "fixed"
	RetentionWeekly = "weekly"
)

// Config holds every runtime setting.
type Config struct {
	DBPath    string
	Addr      string
	LogPath   string
	AdminUser string

	Retention     string
	RetentionDays int
	CutoffWeekday string
	CutoffTime    string
	Timezone      string

	PurgeInterval time.Duration
	CronSecret    string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:        "equiptrack.sqlite3",
		Addr:          ":8080",
		AdminUser:     "Admin",
		Retention:     RetentionFixed,
		RetentionDays: 3,
		CutoffWeekday: "sunday",
		CutoffTime:    "23:59",
		Timezone:      "Local",
		PurgeInterval: time.Hour,
	}
}

// Load reads envFile into the process environment (a missing file is fine,
// and variables already set win) and then builds the config from it.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the config from Default overridden by EQUIPTRACK_* values
// found through lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("DB"); ok {
		c.DBPath = v
	}
	if v, ok := get("ADDR"); ok {
		c.Addr = v
	}
	if v, ok := get("LOG"); ok {
		c.LogPath = v
	}
	if v, ok := get("ADMIN_USER"); ok {
		c.AdminUser = v
	}
	if v, ok := get("RETENTION"); ok {
		c.Retention = strings.ToLower(v)
	}
	if v, ok := get("RETENTION_DAYS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sRETENTION_DAYS: %w", EnvPrefix, err)
		}
		c.RetentionDays = n
	}
	if v, ok := get("CUTOFF_WEEKDAY"); ok {
		c.CutoffWeekday = v
	}
	if v, ok := get("CUTOFF_TIME"); ok {
		c.CutoffTime = v
	}
	if v, ok := get("TIMEZONE"); ok {
		c.Timezone = v
	}
	if v, ok := get("PURGE_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%sPURGE_INTERVAL: %w", EnvPrefix, err)
		}
		c.PurgeInterval = d
	}
	if v, ok := get("CRON_SECRET"); ok {
		c.CronSecret = v
	}

	return c, c.Validate()
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.PurgeInterval < 0 {
		return errors.New("purge interval must not be negative")
	}
	_, err := c.RetentionPolicy()
	return err
}

// RetentionPolicy builds the configured retention policy.
func (c Config) RetentionPolicy() (retention.Policy, error) {
	switch c.Retention {
	case RetentionFixed:
		if c.RetentionDays < 1 {
			return nil, fmt.Errorf("retention days must be at least 1, got %d", c.RetentionDays)
		}
		return retention.FixedWindow{Days: c.RetentionDays}, nil
	case RetentionWeekly:
		day, err := retention.ParseWeekday(c.CutoffWeekday)
		if err != nil {
			return nil, err
		}
		hour, minute, err := retention.ParseClock(c.CutoffTime)
		if err != nil {
			return nil, err
		}
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading time zone: %w", err)
		}
		return retention.WeeklyCutoff{Weekday: day, Hour: hour, Minute: minute, Location: loc}, nil
	default:
		return nil, fmt.Errorf("unknown retention mode %q (want %s or %s)", c.Retention, RetentionFixed, RetentionWeekly)
	}
}
