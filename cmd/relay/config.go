package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configDirName = ".relay"

// Config holds the resolved settings for one invocation.
type Config struct {
	URL         string
	ChatflowID  string
	APIKey      string
	LogLevel    string
	SessionPath string
	LogFile     string
}

// Validate reports missing connection settings.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "url (FLOWISE_URL)")
	}
	if strings.TrimSpace(c.ChatflowID) == "" {
		missing = append(missing, "chatflow id (FLOWISE_CHATFLOW_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), relay.ErrValidation)
	}
	return nil
}

// bindFlags registers the persistent flags and binds them, together with
// their environment variables, to v.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default ~/.relay/config.yaml)")
	flags.String("url", "", "Flowise base URL")
	flags.String("chatflow", "", "Flowise chatflow id")
	flags.String("api-key", "", "Flowise API key")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("session", "", "session file (default ~/.relay/session.json)")

	_ = v.BindPFlag("url", flags.Lookup("url"))
	_ = v.BindPFlag("chatflow_id", flags.Lookup("chatflow"))
	_ = v.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("session", flags.Lookup("session"))

	_ = v.BindEnv("url", "FLOWISE_URL")
	_ = v.BindEnv("chatflow_id", "FLOWISE_CHATFLOW_ID")
	_ = v.BindEnv("api_key", "FLOWISE_API_KEY")
	_ = v.BindEnv("log_level", "RELAY_LOG_LEVEL")
}

// readConfigFile loads path, or the default config file when path is empty.
// A missing default file is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	dir, err := configDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// loadConfig resolves Config from v, filling in default paths.
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		URL:         v.GetString("url"),
		ChatflowID:  v.GetString("chatflow_id"),
		APIKey:      v.GetString("api_key"),
		LogLevel:    v.GetString("log_level"),
		SessionPath: v.GetString("session"),
		LogFile:     v.GetString("log_file"),
	}
	if cfg.SessionPath == "" || cfg.LogFile == "" {
		dir, err := configDir()
		if err != nil {
			return Config{}, err
		}
		if cfg.SessionPath == "" {
			cfg.SessionPath = filepath.Join(dir, "session.json")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "relay.log")
		}
	}
	return cfg, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
