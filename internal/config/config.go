package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string
	Env             string // either prod or dev, dev disables the https redirect and security headers
	APIBaseURL      string // job tracker REST API the dashboard reads from
	SessionKey      []byte
	SiteName        string
	SiteURL         string        // public address of the dashboard, used as the feed link
	LogsLimit       int           // how many run logs are fetched per load
	SentryDSN       string        // optional, errors are only logged when empty
	RefreshCooldown time.Duration // minimum time between manual refreshes, 0 disables the limit
	ConfirmTTL      time.Duration // how long a delete confirmation dialog stays valid
	StaticDir       string
}

// fileConfig is the optional YAML file named by DASHBOARD_CONFIG. Its values
// are defaults, environment variables win.
type fileConfig struct {
	Port            string `yaml:"port"`
	Env             string `yaml:"env"`
	APIBaseURL      string `yaml:"api_base_url"`
	SessionKey      string `yaml:"session_key"`
	SiteName        string `yaml:"site_name"`
	SiteURL         string `yaml:"site_url"`
	LogsLimit       string `yaml:"logs_limit"`
	SentryDSN       string `yaml:"sentry_dsn"`
	RefreshCooldown string `yaml:"refresh_cooldown"`
	ConfirmTTL      string `yaml:"confirm_ttl"`
	StaticDir       string `yaml:"static_dir"`
}

func (f fileConfig) defaults() map[string]string {
	return map[string]string{
		"PORT":             f.Port,
		"ENV":              f.Env,
		"API_BASE_URL":     f.APIBaseURL,
		"SESSION_KEY":      f.SessionKey,
		"SITE_NAME":        f.SiteName,
		"SITE_URL":         f.SiteURL,
		"LOGS_LIMIT":       f.LogsLimit,
		"SENTRY_DSN":       f.SentryDSN,
		"REFRESH_COOLDOWN": f.RefreshCooldown,
		"CONFIRM_TTL":      f.ConfirmTTL,
		"STATIC_DIR":       f.StaticDir,
	}
}

func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", path)
	}
	return fc.defaults(), nil
}

func LoadConfig() (Config, error) {
	file, err := loadFile(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		return Config{}, err
	}
	get := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	}

	port := get("PORT")
	if port == "" {
		port = "8081"
	}
	env := strings.ToLower(get("ENV"))
	if env == "" {
		env = "dev"
	}
	apiBaseURL := get("API_BASE_URL")
	if apiBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL cannot be empty")
	}
	var sessionKeyBytes []byte
	sessionKeyString := get("SESSION_KEY")
	switch {
	case sessionKeyString != "":
		sessionKeyBytes, err = base64.StdEncoding.DecodeString(sessionKeyString)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
		}
	case env == "dev":
		sessionKeyBytes = make([]byte, 32)
		if _, err := rand.Read(sessionKeyBytes); err != nil {
			return Config{}, errors.Wrap(err, "unable to generate dev session key")
		}
	default:
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	siteName := get("SITE_NAME")
	if siteName == "" {
		siteName = "Job Tracker"
	}
	siteURL := get("SITE_URL")
	if siteURL == "" {
		siteURL = fmt.Sprintf("http://localhost:%s", port)
	}
	logsLimit := 20
	if s := get("LOGS_LIMIT"); s != "" {
		logsLimit, err = strconv.Atoi(s)
		if err != nil || logsLimit <= 0 {
			return Config{}, fmt.Errorf("LOGS_LIMIT must be a positive integer, got %q", s)
		}
	}
	refreshCooldown, err := durationOrDefault(get("REFRESH_COOLDOWN"), 0)
	if err != nil {
		return Config{}, errors.Wrap(err, "REFRESH_COOLDOWN")
	}
	confirmTTL, err := durationOrDefault(get("CONFIRM_TTL"), 10*time.Minute)
	if err != nil {
		return Config{}, errors.Wrap(err, "CONFIRM_TTL")
	}
	if confirmTTL <= 0 {
		return Config{}, fmt.Errorf("CONFIRM_TTL must be positive")
	}
	staticDir := get("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./static/assets"
	}

	return Config{
		Port:            port,
		Env:             env,
		APIBaseURL:      apiBaseURL,
		SessionKey:      sessionKeyBytes,
		SiteName:        siteName,
		SiteURL:         siteURL,
		LogsLimit:       logsLimit,
		SentryDSN:       get("SENTRY_DSN"),
		RefreshCooldown: refreshCooldown,
		ConfirmTTL:      confirmTTL,
		StaticDir:       staticDir,
	}, nil
}

func durationOrDefault(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", s)
	}
	return d, nil
}
