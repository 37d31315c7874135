package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIKeyEnv is read when no key is given on the command line.
const APIKeyEnv = "QUASARR_API_KEY"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	URL           string        `mapstructure:"url"`
	APIKey        string        `mapstructure:"api_key"`
	GetTimeout    time.Duration `mapstructure:"get_timeout"`
	DeleteTimeout time.Duration `mapstructure:"delete_timeout"`
}

type UIConfig struct {
	PageSize    int           `mapstructure:"page_size"`
	NoticeDelay time.Duration `mapstructure:"notice_delay"`
	Colors      UIColors      `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
	Warn      string `mapstructure:"warn"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			URL:           "http://localhost:8080",
			GetTimeout:    60 * time.Second,
			DeleteTimeout: 30 * time.Second,
		},
		UI: UIConfig{
			PageSize:    10,
			NoticeDelay: 1500 * time.Millisecond,
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#EF4444",
				Success:   "#10B981",
				Warn:      "#FFE66D",
			},
		},
		Log: LogConfig{
			Level:      "off",
			File:       filepath.Join(homeDir, ".qtui", "qtui.log"),
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "qtui", "config.toml")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.api_key", cfg.Server.APIKey)
	v.SetDefault("server.get_timeout", cfg.Server.GetTimeout)
	v.SetDefault("server.delete_timeout", cfg.Server.DeleteTimeout)

	v.SetDefault("ui.page_size", cfg.UI.PageSize)
	v.SetDefault("ui.notice_delay", cfg.UI.NoticeDelay)
	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.colors.warn", cfg.UI.Colors.Warn)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
	}

	// QUASARR_SERVER_URL, QUASARR_UI_PAGE_SIZE, ... plus the bare key variable.
	v.SetEnvPrefix("QUASARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.api_key", APIKeyEnv); err != nil {
		return nil, fmt.Errorf("binding %s: %w", APIKeyEnv, err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	normalize(&config)

	return &config, nil
}

// normalize fills in values a partial config file may have zeroed.
func normalize(cfg *Config) {
	def := defaultConfig()
	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	if cfg.Server.URL == "" {
		cfg.Server.URL = def.Server.URL
	}
	if cfg.Server.GetTimeout <= 0 {
		cfg.Server.GetTimeout = def.Server.GetTimeout
	}
	if cfg.Server.DeleteTimeout <= 0 {
		cfg.Server.DeleteTimeout = def.Server.DeleteTimeout
	}
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = def.UI.PageSize
	}
	cfg.Log.File = expandPath(cfg.Log.File)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability.
	serverCfg := map[string]interface{}{
		"url":            config.Server.URL,
		"api_key":        config.Server.APIKey,
		"get_timeout":    config.Server.GetTimeout.String(),
		"delete_timeout": config.Server.DeleteTimeout.String(),
	}

	colors := config.UI.Colors
	uiCfg := map[string]interface{}{
		"page_size":    config.UI.PageSize,
		"notice_delay": config.UI.NoticeDelay.String(),
		"colors": map[string]interface{}{
			"primary":   colors.Primary,
			"secondary": colors.Secondary,
			"accent":    colors.Accent,
			"text":      colors.Text,
			"muted":     colors.Muted,
			"error":     colors.Error,
			"success":   colors.Success,
			"warn":      colors.Warn,
		},
	}

	logCfg := map[string]interface{}{
		"level":       config.Log.Level,
		"file":        config.Log.File,
		"max_size_mb": config.Log.MaxSizeMB,
		"max_backups": config.Log.MaxBackups,
	}

	v.Set("server", serverCfg)
	v.Set("ui", uiCfg)
	v.Set("log", logCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
