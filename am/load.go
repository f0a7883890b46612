package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/teranos/umlconf/errors"
)

// EnvPrefix prefixes every environment variable read by the configuration
const EnvPrefix = "UMLCONF"

// ProjectFileName is the configuration file searched for from the working
// directory upwards
const ProjectFileName = "umlconf.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records, for every key set by a file, which file set it.
// Keys absent from the map come from defaults or the environment.
var ConfigSources = map[string]SourceInfo{}

// Load reads the umlconf configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path. Environment
// variables still override the file; the user and project files are not read.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}

	viperInstance = v
	globalConfig = config
	ConfigSources = map[string]SourceInfo{}
	for _, key := range v.AllKeys() {
		if v.InConfig(key) {
			ConfigSources[key] = SourceInfo{Source: SourceFile, Path: configPath}
		}
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	return v
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := newViper()
	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// findProjectConfig searches for umlconf.toml by walking up the directory tree
// Returns the path to the first file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// UserConfigPath returns ~/.umlconf/umlconf.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".umlconf", ProjectFileName)
}

// CandidateFiles lists the configuration files in merge order with their source
func CandidateFiles() []SourceInfo {
	var files []SourceInfo
	if user := UserConfigPath(); user != "" {
		files = append(files, SourceInfo{Source: SourceUser, Path: user})
	}
	if project := findProjectConfig(); project != "" {
		files = append(files, SourceInfo{Source: SourceProject, Path: project})
	}
	return files
}

// mergeConfigFiles merges configuration files in precedence order
// (lowest to highest): user < project < env vars. A file that exists but
// does not parse is an error.
func mergeConfigFiles(v *viper.Viper) error {
	ConfigSources = map[string]SourceInfo{}

	for _, file := range CandidateFiles() {
		if _, err := os.Stat(file.Path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(file.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", file.Path)
		}

		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", file.Path)
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = file
		}
	}
	return nil
}

// Get returns a configuration value using dot notation
func Get(key string) (interface{}, bool) {
	v, err := initViper()
	if err != nil || !v.IsSet(key) {
		return nil, false
	}
	return v.Get(key), true
}
