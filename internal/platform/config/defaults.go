package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Relay: RelayConfig{
			Path:          "/api/generate",
			AllowedOrigin: "https://imgcaption.com",
			UpstreamURL:   "https://generativelanguage.googleapis.com/v1beta/models",
			Model:         "gemini-2.5-flash",
		},
		Web: WebConfig{
			StaticDir: "./web",
		},
		Client: ClientConfig{
			RelayURL:             "http://127.0.0.1:8080/api/generate",
			AssetsDir:            "./web",
			TranslationsFile:     "translations.json",
			PromptFile:           "prompt.txt",
			PageURL:              "https://imgcaption.com/",
			DefaultLanguage:      "zh",
			MaxExtraLength:       128,
			ToastDuration:        3 * time.Second,
			CopyFeedbackDuration: 2 * time.Second,
		},
		Image: ImageConfig{
			MaxFileSize: 10 * 1024 * 1024,
			AllowedTypes: []string{
				"image/png",
				"image/jpeg",
				"image/gif",
				"image/webp",
				"image/heic",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
