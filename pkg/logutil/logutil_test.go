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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(`
level = "debug"
format = "json"
filename = "mo.log"
max-size = 128
max-days = 7
max-backups = 3
`)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Level)
	require.Equal(t, "json", cfg.Format)
	require.Equal(t, "mo.log", cfg.Filename)
	require.Equal(t, 128, cfg.MaxSize)
	require.Equal(t, 7, cfg.MaxDays)
	require.Equal(t, 3, cfg.MaxBackups)

	_, err = DecodeConfig(`level = [`)
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.toml")
	require.NoError(t, os.WriteFile(path, []byte("level = \"warn\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Level)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	logger, err := (&LogConfig{Level: "error", Format: "json"}).Build()
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.InfoLevel))
	require.True(t, logger.Core().Enabled(zap.ErrorLevel))

	_, err = (&LogConfig{Level: "loud"}).Build()
	require.Error(t, err)
}

func TestSetupFileOutput(t *testing.T) {
	old := GetGlobalLogger()
	defer globalLogger.Store(old)

	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, Setup(&LogConfig{Level: "info", Format: "json", Filename: path}))

	Info("hello", zap.Int("rows", 3))
	Debug("dropped")
	require.NoError(t, GetGlobalLogger().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
	require.Contains(t, string(data), `"rows":3`)
	require.NotContains(t, string(data), "dropped")
}
