package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys are nil.
type FileConfig struct {
	API     APIFileConfig     `toml:"api"`
	Client  ClientFileConfig  `toml:"client"`
	Storage StorageFileConfig `toml:"storage"`
	Log     LogFileConfig     `toml:"log"`
}

// APIFileConfig maps backend settings.
type APIFileConfig struct {
	URL     *string `toml:"url"`
	Timeout *string `toml:"timeout"`
}

// ClientFileConfig maps client behaviour.
type ClientFileConfig struct {
	Demo *bool `toml:"demo"`
}

// StorageFileConfig maps storage locations.
type StorageFileConfig struct {
	DB *string `toml:"db"`
}

// LogFileConfig maps logging settings.
type LogFileConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return fc, nil
}

// Apply overlays the values set in fc onto cfg.
func (fc FileConfig) Apply(cfg *Config) error {
	if fc.API.URL != nil {
		cfg.APIURL = *fc.API.URL
	}
	if fc.API.Timeout != nil {
		d, err := parseTimeout(*fc.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.Client.Demo != nil {
		cfg.Demo = *fc.Client.Demo
	}
	if fc.Storage.DB != nil {
		cfg.DBPath = *fc.Storage.DB
	}
	if fc.Log.File != nil {
		cfg.LogPath = *fc.Log.File
	}
	if fc.Log.Level != nil {
		cfg.LogLevel = *fc.Log.Level
	}
	return nil
}
