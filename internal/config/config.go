package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yutawtr1214/tubesum/internal/models"
)

type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Debug    bool           `yaml:"debug"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"DEFAULT_MODEL"`
}

type YouTubeConfig struct {
	APIKey      string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	AccessToken string `yaml:"access_token" env:"YOUTUBE_ACCESS_TOKEN"`
	CacheFile   string `yaml:"cache_file" env:"TUBESUM_CACHE_FILE"`
}

type DefaultsConfig struct {
	Length   string `yaml:"length" env:"DEFAULT_SUMMARY_LENGTH"`
	Format   string `yaml:"format" env:"DEFAULT_OUTPUT_FORMAT"`
	Language string `yaml:"language" env:"DEFAULT_LANGUAGE"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	explicit := configFile != ""
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config

	data, err := os.ReadFile(configFile)
	if err != nil {
		// The default config.yaml is optional; one named via CONFIG_FILE is not.
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = os.Getenv("DEFAULT_MODEL")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.AccessToken == "" {
		cfg.YouTube.AccessToken = os.Getenv("YOUTUBE_ACCESS_TOKEN")
	}
	if cfg.YouTube.CacheFile == "" {
		cfg.YouTube.CacheFile = os.Getenv("TUBESUM_CACHE_FILE")
	}
	if cfg.Defaults.Length == "" {
		cfg.Defaults.Length = os.Getenv("DEFAULT_SUMMARY_LENGTH")
	}
	if cfg.Defaults.Format == "" {
		cfg.Defaults.Format = os.Getenv("DEFAULT_OUTPUT_FORMAT")
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = os.Getenv("DEFAULT_LANGUAGE")
	}
	if v := os.Getenv("DEBUG_MODE"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Defaults.Length == "" {
		cfg.Defaults.Length = "normal"
	}
	if cfg.Defaults.Format == "" {
		cfg.Defaults.Format = "text"
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = "ja"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key)")
	}
	if _, err := models.ParseLength(c.Defaults.Length); err != nil {
		return fmt.Errorf("invalid default length: %w", err)
	}
	if _, err := models.ParseFormat(c.Defaults.Format); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}
	return nil
}
