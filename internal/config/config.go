// internal/config/config.go
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	custom_errors "github.com/kalidyasin/github-commit-notifier/internal/errors"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel    string
	GithubToken string
	Orgs        []string
	Interval    time.Duration
	StatusAddr  string
}

// LoadConfig reads configuration from a .env file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SLEEP_SECS", "60")
	v.SetDefault("STATUS_ADDR", "")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.AutomaticEnv()
	for _, key := range []string{"LOG_LEVEL", "GITHUB_TOKEN", "ORGS", "SLEEP_SECS", "STATUS_ADDR"} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		LogLevel:    v.GetString("LOG_LEVEL"),
		GithubToken: v.GetString("GITHUB_TOKEN"),
		Orgs:        splitOrgs(v.GetString("ORGS")),
		StatusAddr:  v.GetString("STATUS_ADDR"),
	}

	interval, err := parseInterval(v.GetString("SLEEP_SECS"))
	if err != nil {
		return nil, err
	}
	cfg.Interval = interval

	// Validate required fields
	if cfg.GithubToken == "" {
		return nil, &custom_errors.ErrMissingConfig{Key: "GITHUB_TOKEN"}
	}
	if len(cfg.Orgs) == 0 {
		return nil, &custom_errors.ErrMissingConfig{Key: "ORGS"}
	}

	return cfg, nil
}

// splitOrgs parses the comma-separated ORGS value, trimming whitespace and
// dropping empty entries.
func splitOrgs(raw string) []string {
	var orgs []string
	for _, part := range strings.Split(raw, ",") {
		if org := strings.TrimSpace(part); org != "" {
			orgs = append(orgs, org)
		}
	}
	return orgs
}

func parseInterval(raw string) (time.Duration, error) {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 1 {
		return 0, &custom_errors.ErrInvalidInterval{Value: raw}
	}
	return time.Duration(secs) * time.Second, nil
}
