package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/walkcat/internal/paths"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "WALKCAT"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyDocument = "document"
	cfgKeySync     = "sync"
	cfgKeyLogLevel = "log_level"

	defaultLogLevel = "warn"
)

// configFile holds the structure of config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	Document string `yaml:"document,omitempty"`
	Sync     string `yaml:"sync"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() configFile {
	return configFile{
		Backend:  types.BackendJSON,
		Sync:     types.SyncImmediate,
		LogLevel: defaultLogLevel,
	}
}

// loadConfig reads config.yaml from configDir, writing a default one on
// first run. WALKCAT_<KEY> environment variables override file values.
func loadConfig(configDir string) (configFile, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return configFile{}, fmt.Errorf("create config directory: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return configFile{}, fmt.Errorf("write default config: %w", err)
	}

	def := defaultConfig()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeySync, def.Sync)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyDocument, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return configFile{}, fmt.Errorf("read config: %w", err)
		}
	}

	return configFile{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  v.GetString(cfgKeyDataDir),
		Document: v.GetString(cfgKeyDocument),
		Sync:     v.GetString(cfgKeySync),
		LogLevel: v.GetString(cfgKeyLogLevel),
	}, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left alone.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# walkcat configuration\n# backend: json | sqlite, sync: immediate | on_close\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
