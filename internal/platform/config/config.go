package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Relay   RelayConfig   `yaml:"relay" mapstructure:"relay"`
	Web     WebConfig     `yaml:"web" mapstructure:"web"`
	Client  ClientConfig  `yaml:"client" mapstructure:"client"`
	Image   ImageConfig   `yaml:"image" mapstructure:"image"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	IP   string `yaml:"ip" mapstructure:"ip"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level" mapstructure:"log_level"`
	Dir   string `yaml:"log_dir" mapstructure:"log_dir"`
	File  string `yaml:"log_file" mapstructure:"log_file"`
}

// RelayConfig 凭据中继配置
type RelayConfig struct {
	Path          string `yaml:"path" mapstructure:"path"`
	AllowedOrigin string `yaml:"allowed_origin" mapstructure:"allowed_origin"`
	UpstreamURL   string `yaml:"upstream_url" mapstructure:"upstream_url"`
	Model         string `yaml:"model" mapstructure:"model"`
	// APIKey 通常只来自环境变量 GEMINI_API_KEY
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`
}

type WebConfig struct {
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// ClientConfig 客户端配置
type ClientConfig struct {
	RelayURL             string        `yaml:"relay_url" mapstructure:"relay_url"`
	AssetsDir            string        `yaml:"assets_dir" mapstructure:"assets_dir"`
	TranslationsFile     string        `yaml:"translations_file" mapstructure:"translations_file"`
	PromptFile           string        `yaml:"prompt_file" mapstructure:"prompt_file"`
	PageURL              string        `yaml:"page_url" mapstructure:"page_url"`
	DefaultLanguage      string        `yaml:"default_language" mapstructure:"default_language"`
	MaxExtraLength       int           `yaml:"max_extra_length" mapstructure:"max_extra_length"`
	ToastDuration        time.Duration `yaml:"toast_duration" mapstructure:"toast_duration"`
	CopyFeedbackDuration time.Duration `yaml:"copy_feedback_duration" mapstructure:"copy_feedback_duration"`
	RequestTimeout       time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// ImageConfig 上传图片限制
type ImageConfig struct {
	MaxFileSize  int64    `yaml:"max_file_size" mapstructure:"max_file_size"`
	AllowedTypes []string `yaml:"allowed_types" mapstructure:"allowed_types"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// HasCredential 只报告是否配置了凭据，不暴露凭据本身
func (c RelayConfig) HasCredential() bool {
	return c.APIKey != ""
}
