package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		Server: ServerConfig{
			URL:           "http://localhost:8080",
			APIKey:        "test-key",
			GetTimeout:    5 * time.Second,
			DeleteTimeout: 5 * time.Second,
		},
		UI: UIConfig{
			PageSize:    10,
			NoticeDelay: 10 * time.Millisecond,
			Colors:      def.UI.Colors,
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}
