package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Backend   BackendConfig
	Committer CommitterConfig
	UI        UIConfig
}

// BackendConfig holds the import service connection settings.
type BackendConfig struct {
	URL         string `mapstructure:"url"`
	APIKeyEnv   string `mapstructure:"api_key_env"`
	APIKey      string `mapstructure:"api_key"`
	LogRequests bool   `mapstructure:"log_requests"`
}

// CommitterConfig is the identity used for journal commits, persisted after
// the first save.
type CommitterConfig struct {
	Name  string
	Email string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Currency string `mapstructure:"currency"`
	LogFile  string `mapstructure:"log_file"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// LEDGERDASH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.url", "http://localhost:8080")
	v.SetDefault("backend.api_key_env", "LEDGERDASH_API_KEY")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.log_requests", false)
	v.SetDefault("committer.name", "")
	v.SetDefault("committer.email", "")
	v.SetDefault("ui.currency", "EUR")
	v.SetDefault("ui.log_file", filepath.Join(os.Getenv("HOME"), ".local", "state", "ledgerdash", "ledgerdash.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LEDGERDASH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ledgerdash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LEDGERDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// APIKey resolves the backend token: the env var named in the config wins,
// then the stored key.
func (c Config) APIKey() string {
	if env := strings.TrimSpace(c.Backend.APIKeyEnv); env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Backend.APIKey)
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used for the API key and the journal committer identity; the key is
// stored in plain text, so env vars are preferred.
func Save(cfg Config) error {
	path := os.Getenv("LEDGERDASH_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "ledgerdash", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.api_key_env", cfg.Backend.APIKeyEnv)
	v.Set("backend.api_key", cfg.Backend.APIKey)
	v.Set("backend.log_requests", cfg.Backend.LogRequests)
	v.Set("committer.name", cfg.Committer.Name)
	v.Set("committer.email", cfg.Committer.Email)
	v.Set("ui.currency", cfg.UI.Currency)
	v.Set("ui.log_file", cfg.UI.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
