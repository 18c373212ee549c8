package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "IMGCAPTION_CONFIG"
	EnvAPIKey        = "GEMINI_API_KEY"
	EnvRelayURL      = "IMGCAPTION_RELAY_URL"
	EnvPort          = "IMGCAPTION_PORT"
	EnvAllowedOrigin = "IMGCAPTION_ALLOWED_ORIGIN"
	EnvLogLevel      = "IMGCAPTION_LOG_LEVEL"
)

var defaultPaths = []string{".config.yaml", "config.yaml"}

// Loader 负责读取 YAML 配置文件并叠加环境变量。
type Loader struct {
	useDotEnv bool
	path      string
	lookupEnv func(string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		lookupEnv: os.LookupEnv,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath pins the configuration file instead of searching the default locations.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithEnv overrides environment lookup (useful for tests).
func (l *Loader) WithEnv(lookup func(string) (string, bool)) *Loader {
	if lookup != nil {
		l.lookupEnv = lookup
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("未找到 .env 文件，使用系统环境变量")
		}
	}

	cfg := DefaultConfig()
	path := l.resolvePath()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	} else {
		path = "default"
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

func (l *Loader) resolvePath() string {
	if l.path != "" {
		return l.path
	}
	if p, ok := l.lookupEnv(EnvConfigPath); ok && p != "" {
		return p
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.lookupEnv(EnvAPIKey); ok && v != "" {
		cfg.Relay.APIKey = strings.TrimSpace(v)
	}
	if v, ok := l.lookupEnv(EnvRelayURL); ok && v != "" {
		cfg.Client.RelayURL = v
	}
	if v, ok := l.lookupEnv(EnvAllowedOrigin); ok && v != "" {
		cfg.Relay.AllowedOrigin = v
	}
	if v, ok := l.lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := l.lookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s 不是有效端口: %q", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	return nil
}

// Validate 校验配置取值范围
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.Relay.Path, "/") {
		return fmt.Errorf("relay path must start with '/': %q", c.Relay.Path)
	}
	if c.Relay.UpstreamURL == "" || c.Relay.Model == "" {
		return fmt.Errorf("relay upstream url and model are required")
	}
	if c.Image.MaxFileSize <= 0 {
		return fmt.Errorf("invalid image max_file_size: %d", c.Image.MaxFileSize)
	}
	if len(c.Image.AllowedTypes) == 0 {
		return fmt.Errorf("image allowed_types must not be empty")
	}
	if c.Client.MaxExtraLength < 0 {
		return fmt.Errorf("invalid client max_extra_length: %d", c.Client.MaxExtraLength)
	}
	return nil
}
