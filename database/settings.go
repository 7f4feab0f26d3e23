/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is looked up in the working directory when no path is given.
const DefaultSettingsFile = "appsettings.json"

// Settings is the externally loaded application configuration. Only
// ConnectionString is required at the boundary; the rest tune diagnostics.
type Settings struct {
	ConnectionString string `json:"ConnectionString" yaml:"ConnectionString" toml:"ConnectionString"`
	Driver           string `json:"Driver" yaml:"Driver" toml:"Driver"`
	EnableQueryLog   bool   `json:"EnableQueryLog" yaml:"EnableQueryLog" toml:"EnableQueryLog"`
	SlowQueryTime    string `json:"SlowQueryTime" yaml:"SlowQueryTime" toml:"SlowQueryTime"`
	LogLevel         string `json:"LogLevel" yaml:"LogLevel" toml:"LogLevel"`
}

// LoadSettings reads path as JSON, YAML or TOML depending on its extension.
// A missing file yields empty settings: the file is optional.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = DefaultSettingsFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := &Settings{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(data, s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	case ".toml":
		err = toml.Unmarshal(data, s)
	default:
		return nil, fmt.Errorf("unsupported settings format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return s, nil
}

// ApplyTo overlays the non-empty settings onto cfg.
func (s *Settings) ApplyTo(cfg *ConnectionConfig) error {
	if s.ConnectionString != "" {
		cfg.DSN = s.ConnectionString
	}
	if s.Driver != "" {
		cfg.Type = strings.ToLower(s.Driver)
	}
	if s.EnableQueryLog {
		cfg.EnableQueryLog = true
	}
	if s.SlowQueryTime != "" {
		d, err := time.ParseDuration(s.SlowQueryTime)
		if err != nil {
			return fmt.Errorf("invalid SlowQueryTime %q: %w", s.SlowQueryTime, err)
		}
		cfg.SlowQueryTime = d
	}
	return nil
}

// ConnectionConfig returns the default config with the settings applied.
func (s *Settings) ConnectionConfig() (*ConnectionConfig, error) {
	cfg := DefaultConnectionConfig()
	if err := s.ApplyTo(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
