// Package config resolves comic-collector settings from flags, environment,
// a .env file and an optional .comicstore.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. COMICSTORE_DATA_DIR.
const EnvPrefix = "COMICSTORE"

// Config is the resolved application configuration.
type Config struct {
	DataDir    string `mapstructure:"data_dir"`
	ComicsFile string `mapstructure:"comics_file"`
	UsersFile  string `mapstructure:"users_file"`
	DBPath     string `mapstructure:"db_path"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogOutput string `mapstructure:"log_output"`

	Output string `mapstructure:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("comics_file", "comics.csv")
	v.SetDefault("users_file", "usuarios.csv")
	v.SetDefault("db_path", "comics.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("output", "table")
}

// New returns a viper instance wired for env lookups and the optional config
// file. .env.local and then .env are loaded first; neither overrides variables
// that are already set.
func New(configFile string) (*viper.Viper, error) {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".comicstore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return nil, fmt.Errorf("data_dir must not be empty")
	}
	return &cfg, nil
}

// ComicsPath is the comics flat file, relative to DataDir unless absolute.
func (c *Config) ComicsPath() string { return c.resolve(c.ComicsFile) }

// UsersPath is the users flat file.
func (c *Config) UsersPath() string { return c.resolve(c.UsersFile) }

// DBFile is the SQLite mirror.
func (c *Config) DBFile() string { return c.resolve(c.DBPath) }

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
