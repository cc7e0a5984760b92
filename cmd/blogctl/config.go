package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	APIURL      string `mapstructure:"API_URL"`
	SessionFile string `mapstructure:"SESSION_FILE"`
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "quillpost", "session.json")
}

// loadConfig reads BLOGCTL_* variables. Flags in fs, when set, take precedence.
func loadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BLOGCTL")
	v.AutomaticEnv()

	v.SetDefault("API_URL", "http://localhost:4000")
	v.SetDefault("SESSION_FILE", defaultSessionFile())

	if fs != nil {
		if err := v.BindPFlag("API_URL", fs.Lookup("api")); err != nil {
			return nil, err
		}
		if err := v.BindPFlag("SESSION_FILE", fs.Lookup("session")); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
