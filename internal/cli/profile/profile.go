package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	APIBase string `json:"api_base"`
	Account string `json:"account"`
}

type Credentials struct {
	Token     string `json:"token"`
	Account   string `json:"account"`
	ExpiresAt string `json:"expires_at"`
}

func DefaultConfig() Config {
	return Config{APIBase: "http://localhost:8080"}
}

// Dir holds config.json and credentials.json. DA_CLI_DIR overrides the default
// ~/.auctionctl.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DA_CLI_DIR")); v != "" {
		return v, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ".auctionctl"), nil
}

func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	d, err := Dir()
	if err != nil {
		return Config{}, err
	}
	p := filepath.Join(d, "config.json")
	if b, err := os.ReadFile(p); err == nil {
		var onDisk Config
		if err := json.Unmarshal(b, &onDisk); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", p, err)
		}
		if strings.TrimSpace(onDisk.APIBase) != "" {
			cfg.APIBase = strings.TrimRight(strings.TrimSpace(onDisk.APIBase), "/")
		}
		cfg.Account = strings.TrimSpace(onDisk.Account)
	}

	if v := strings.TrimSpace(os.Getenv("DA_API_BASE")); v != "" {
		cfg.APIBase = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("DA_ACCOUNT")); v != "" {
		cfg.Account = v
	}

	if cfg.APIBase == "" {
		return Config{}, errors.New("api_base is empty")
	}
	return cfg, nil
}

func LoadCredentials() (Credentials, error) {
	d, err := Dir()
	if err != nil {
		return Credentials{}, err
	}
	p := filepath.Join(d, "credentials.json")
	b, err := os.ReadFile(p)
	if err != nil {
		return Credentials{}, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

func SaveCredentials(c Credentials) error {
	d, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d, "credentials.json"), b, 0o600)
}

// Expired reports whether the saved token has passed its expiry. Tokens without a
// parseable expiry are treated as live.
func (c Credentials) Expired(now time.Time) bool {
	v := strings.TrimSpace(c.ExpiresAt)
	if v == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return false
	}
	return !now.Before(t)
}
