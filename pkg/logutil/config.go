// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"github.com/BurntSushi/toml"
)

// LogConfig is the logging section of an embedder's TOML config.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is console or json.
	Format string `toml:"format"`
	// Filename routes output to a rotated file instead of stderr.
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

// LoadConfig reads a LogConfig from a TOML file.
func LoadConfig(path string) (*LogConfig, error) {
	var cfg LogConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeConfig reads a LogConfig from TOML text.
func DecodeConfig(data string) (*LogConfig, error) {
	var cfg LogConfig
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
