package config

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/mrgud155/weatherman/internal/common"
	"github.com/mrgud155/weatherman/internal/scheduler"
)

var validate = validator.New()

// AppConfig is the process configuration. WeatherAPIKey and DatabaseURL are
// fatal when missing; everything else has a default.
type AppConfig struct {
	WeatherAPIKey string `validate:"required"`
	DatabaseURL   string `validate:"required"`

	// Bearer tokens accepted by the read API.
	APITokens []string

	// Entries the scheduler should drive.
	Entries []scheduler.Entry `validate:"min=1"`

	// DefaultInterval applies to locations configured without an explicit
	// interval.
	DefaultInterval time.Duration

	HTTPTimeout time.Duration
	Port        string
	AutoMigrate bool
}

// Load reads configuration from the environment (and .env, when present).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := &AppConfig{
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		APITokens:     common.SplitAndTrim(os.Getenv("API_TOKENS"), ","),
		Port:          getenvDefault("PORT", "8080"),
		AutoMigrate:   os.Getenv("DB_AUTO_MIGRATE") == "true",
	}

	intervalStr := getenvDefault("DEFAULT_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid DEFAULT_INTERVAL %q", intervalStr)
	}
	cfg.DefaultInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	if path := os.Getenv("LOCATIONS_FILE"); path != "" {
		entries, err := LoadLocationsFile(path, cfg.DefaultInterval)
		if err != nil {
			return nil, err
		}
		cfg.Entries = entries
	} else {
		for _, loc := range common.SplitAndTrim(os.Getenv("LOCATIONS"), ",") {
			cfg.Entries = append(cfg.Entries, scheduler.Entry{Location: loc, Interval: cfg.DefaultInterval})
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadLocationsFile reads a line-oriented location list. Each non-empty,
// non-comment line is `location,interval_minutes`. Invalid lines are logged
// and skipped; they never abort startup of the valid entries.
func LoadLocationsFile(path string, defaultInterval time.Duration) ([]scheduler.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locations file: %w", err)
	}
	defer f.Close()

	var entries []scheduler.Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := ParseLocationLine(line, defaultInterval)
		if err != nil {
			log.Printf("config: skipping locations file line %d: %v", lineNo, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	return entries, nil
}

// ParseLocationLine parses one `location,interval_minutes` line. The interval
// part is optional; when present it must be a positive integer number of
// minutes. The location must be a non-empty textual identifier.
func ParseLocationLine(line string, defaultInterval time.Duration) (scheduler.Entry, error) {
	parts := strings.Split(line, ",")
	location := strings.TrimSpace(parts[0])
	if location == "" {
		return scheduler.Entry{}, fmt.Errorf("empty location in line %q", line)
	}
	if _, err := strconv.Atoi(location); err == nil {
		return scheduler.Entry{}, fmt.Errorf("numeric location %q in line %q", location, line)
	}

	switch len(parts) {
	case 1:
		return scheduler.Entry{Location: location, Interval: defaultInterval}, nil
	case 2:
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minutes <= 0 {
			return scheduler.Entry{}, fmt.Errorf("invalid interval %q in line %q", parts[1], line)
		}
		return scheduler.Entry{Location: location, Interval: time.Duration(minutes) * time.Minute}, nil
	default:
		return scheduler.Entry{}, fmt.Errorf("malformed line %q", line)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
