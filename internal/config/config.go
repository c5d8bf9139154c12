// Copyright (c) 2026 ToeiRei
// Rostermaster - roster-driven account and SSH provisioning
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the rostermaster configuration: a YAML file in the
// home or current directory, overridden by ROSTERMASTER_* environment
// variables and command-line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
)

// DefaultConfigName is the config file written on first run.
const DefaultConfigName = ".rostermaster.yaml"

// Settings is the file-backed configuration shape.
type Settings struct {
	Database struct {
		Type string `yaml:"type"`
		DSN  string `yaml:"dsn"`
	} `yaml:"database"`
	Language string `yaml:"language"`
	Roster   struct {
		Delimiter string `yaml:"delimiter"`
		Format    string `yaml:"format"`
	} `yaml:"roster"`
}

// Default returns the settings written to a fresh config file.
func Default() Settings {
	var s Settings
	s.Database.Type = "sqlite"
	s.Database.DSN = "./rostermaster.db"
	s.Language = "en"
	s.Roster.Delimiter = ","
	s.Roster.Format = "auto"
	return s
}

// SetDefaults installs the in-memory defaults used when neither file,
// environment nor flags provide a value.
func SetDefaults() {
	d := Default()
	viper.SetDefault("database.type", d.Database.Type)
	viper.SetDefault("database.dsn", d.Database.DSN)
	viper.SetDefault("language", d.Language)
	viper.SetDefault("roster.delimiter", d.Roster.Delimiter)
	viper.SetDefault("roster.format", d.Roster.Format)
}

// Load reads the configuration. With cfgFile set that exact file is used;
// otherwise the home and current directories are searched. A missing file
// is not an error: defaults apply, and when no explicit file was requested
// a default config is written so configuration stays discoverable.
// It returns the path of a freshly created default config, if any.
func Load(cfgFile string) (created string, err error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, herr := os.UserHomeDir()
		if herr == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rostermaster")
	}

	viper.SetEnvPrefix("ROSTERMASTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return "", fmt.Errorf("read config: %w", err)
		}
		if cfgFile == "" {
			// Write defaults to the current directory; failure to do so
			// (read-only dir) just means running on in-memory defaults.
			if werr := WriteDefault(DefaultConfigName); werr == nil {
				created = DefaultConfigName
			}
		}
	}
	return created, nil
}

// WriteDefault writes the default settings to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	// 0600: the DSN may contain database credentials.
	return os.WriteFile(path, data, 0600)
}
