// Copyright 2025 Archivista Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the YAML application configuration used by the
// archivista CLI. Command-line flags override config values; secrets are
// never stored in the file, only the name of the environment variable
// that carries them.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ArchiveConfig locates the archive database.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding provider.
type EmbeddingConfig struct {
	Host              string  `yaml:"host"`
	Model             string  `yaml:"model"`
	APITokenEnv       string  `yaml:"api_token_env"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// IngestionConfig tunes the ingestion orchestrator.
type IngestionConfig struct {
	PoolSize    int    `yaml:"pool_size"`
	MaxAttempts int    `yaml:"max_attempts"`
	RetryDelay  string `yaml:"retry_delay"`
}

// SearchConfig tunes the search engine.
type SearchConfig struct {
	MinSimilarity float64 `yaml:"min_similarity"`
	MaxHits       int     `yaml:"max_hits"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Archive   ArchiveConfig   `yaml:"archive"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Search    SearchConfig    `yaml:"search"`
}

// APIToken resolves the provider token from the configured environment
// variable. Returns empty when the variable is unset.
func (c *EmbeddingConfig) APIToken() string {
	if c.APITokenEnv == "" {
		return ""
	}
	return os.Getenv(c.APITokenEnv)
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./archivista.yaml first, then
// ~/.config/archivista/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "archivista.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "archivista", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Archive: ArchiveConfig{Path: "archivista.db"},
		Embedding: EmbeddingConfig{
			Host:        "http://localhost:11434/v1",
			Model:       "embeddinggemma",
			APITokenEnv: "ARCHIVISTA_API_TOKEN",
			BatchSize:   64,
		},
		Ingestion: IngestionConfig{
			MaxAttempts: 3,
			RetryDelay:  "500ms",
		},
		Search: SearchConfig{
			MinSimilarity: 0.6,
			MaxHits:       10,
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = "archivista.db"
	}
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = "http://localhost:11434/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embeddinggemma"
	}
	if cfg.Embedding.APITokenEnv == "" {
		cfg.Embedding.APITokenEnv = "ARCHIVISTA_API_TOKEN"
	}
	if cfg.Embedding.BatchSize <= 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Ingestion.MaxAttempts <= 0 {
		cfg.Ingestion.MaxAttempts = 3
	}
	if cfg.Ingestion.RetryDelay == "" {
		cfg.Ingestion.RetryDelay = "500ms"
	}
	if cfg.Search.MinSimilarity <= 0 {
		cfg.Search.MinSimilarity = 0.6
	}
	if cfg.Search.MaxHits <= 0 {
		cfg.Search.MaxHits = 10
	}
}
