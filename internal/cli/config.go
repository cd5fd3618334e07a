package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// Config keys.
const (
	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyUser         = "user"
	cfgKeyLogLevel     = "log_level"
	cfgKeyBusyTimeout  = "busy_timeout_ms"
	cfgKeyHTTPAddr     = "http.addr"
	cfgKeyAuthSecret   = "auth.secret"
	cfgKeyAuthJWKSURL  = "auth.jwks_url"
	cfgKeyAuthAudience = "auth.audience"
	cfgKeyAuthIssuer   = "auth.issuer"
)

// Defaults applied before config.yaml is read.
const (
	defaultLogLevel = "info"
	defaultHTTPAddr = ":8080"
)

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend       string     `yaml:"backend"`
	DataDir       string     `yaml:"data_dir,omitempty"`
	User          string     `yaml:"user,omitempty"`
	LogLevel      string     `yaml:"log_level"`
	BusyTimeoutMS int        `yaml:"busy_timeout_ms"`
	HTTP          httpConfig `yaml:"http"`
}

type httpConfig struct {
	Addr string `yaml:"addr"`
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), defaultConfigFile()); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyBusyTimeout, types.DefaultBusyTimeoutMS)
	v.SetDefault(cfgKeyHTTPAddr, defaultHTTPAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:       types.BackendSQLite,
		User:          os.Getenv("USER"),
		LogLevel:      defaultLogLevel,
		BusyTimeoutMS: types.DefaultBusyTimeoutMS,
		HTTP:          httpConfig{Addr: defaultHTTPAddr},
	}
}

// writeConfigIfMissing creates path with cfg if the file does not exist.
// An existing file is left untouched.
func writeConfigIfMissing(path string, cfg configFile) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
