package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the optional single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Search struct {
		Provider string `yaml:"provider"`
	} `yaml:"search"`

	Tavily struct {
		Key  string `yaml:"key"`
		Base string `yaml:"base"`
	} `yaml:"tavily"`

	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"searx"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	Max struct {
		Sources int `yaml:"sources"`
	} `yaml:"max"`

	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	DB           string        `yaml:"db"`
	Verbose      bool          `yaml:"verbose"`
}

// LoadFileConfig reads a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// MergeFileConfig overlays file values onto unset cfg fields. Explicit cfg
// values (flags) take precedence over the file.
func MergeFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.SearchProvider == "" {
		cfg.SearchProvider = fc.Search.Provider
	}
	if cfg.TavilyAPIKey == "" {
		cfg.TavilyAPIKey = fc.Tavily.Key
	}
	if cfg.TavilyBaseURL == "" {
		cfg.TavilyBaseURL = fc.Tavily.Base
	}
	if cfg.SearxURL == "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if cfg.SearxKey == "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.MaxSources == 0 {
		cfg.MaxSources = fc.Max.Sources
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = fc.FetchTimeout
	}
	if cfg.DBPath == "" {
		cfg.DBPath = fc.DB
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
