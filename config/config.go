package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	CORS       CORSConfig
	WebSocket  WebSocketConfig
	Throttle   ThrottleConfig

	// Collaboration runtime
	Session SessionConfig
	Archive ArchiveConfig
	Agents  AgentsConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	v *viper.Viper
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Host string
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type CORSConfig struct {
	FrontendURL    string
	AllowedOrigins []string
}

type WebSocketConfig struct {
	WriteTimeout time.Duration
	ReadLimit    int64
}

type ThrottleConfig struct {
	RequestsPerMin int
}

// SessionConfig controls session expiry. Timeout is measured from the last mutation.
type SessionConfig struct {
	Timeout              time.Duration
	SweepInterval        time.Duration
	TeardownOnDisconnect bool
}

type ArchiveConfig struct {
	Enabled bool
	Path    string
}

type AgentsConfig struct {
	PersonaFile string
	Temperature float64
	MaxTokens   int
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
	DefaultModel    string           `yaml:"default_model"`
	OpenAIAPIKey    string           `yaml:"-"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	return load(v)
}

// LoadFile loads configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindFlatEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := decode(v)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	cfg.v = v

	return cfg, nil
}

func decode(v *viper.Viper) *Config {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Host = v.GetString("http_server.host")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	cfg.CORS.FrontendURL = v.GetString("cors.frontend_url")
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))
	if cfg.CORS.FrontendURL != "" {
		cfg.CORS.AllowedOrigins = append([]string{cfg.CORS.FrontendURL}, cfg.CORS.AllowedOrigins...)
	}

	cfg.WebSocket.WriteTimeout = v.GetDuration("websocket.write_timeout")
	cfg.WebSocket.ReadLimit = v.GetInt64("websocket.read_limit")
	cfg.Throttle.RequestsPerMin = v.GetInt("throttle.requests_per_min")

	// SESSION_TIMEOUT is expressed in seconds
	cfg.Session.Timeout = time.Duration(v.GetInt("session.timeout")) * time.Second
	cfg.Session.SweepInterval = v.GetDuration("session.sweep_interval")
	cfg.Session.TeardownOnDisconnect = v.GetBool("session.teardown_on_disconnect")

	cfg.Archive.Enabled = v.GetBool("archive.enabled")
	cfg.Archive.Path = v.GetString("archive.path")

	cfg.Agents.PersonaFile = v.GetString("agents.persona_file")
	cfg.Agents.Temperature = v.GetFloat64("agents.temperature")
	cfg.Agents.MaxTokens = v.GetInt("agents.max_tokens")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = v.GetString("llm.max_total_timeout")
	cfg.LLM.DefaultModel = v.GetString("llm.default_model")
	cfg.LLM.OpenAIAPIKey = v.GetString("llm.openai_api_key")

	if v.IsSet("llm.providers") {
		if providersList, ok := v.Get("llm.providers").([]interface{}); ok {
			for _, p := range providersList {
				providerMap, ok := p.(map[string]interface{})
				if !ok {
					continue
				}
				cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
					Name:     getStringFromMap(providerMap, "name"),
					Enabled:  getBoolFromMap(providerMap, "enabled"),
					Priority: getIntFromMap(providerMap, "priority"),
					APIKey:   expandEnvVar(v, getStringFromMap(providerMap, "api_key")),
					BaseURL:  getStringFromMap(providerMap, "base_url"),
					Model:    getStringFromMap(providerMap, "model"),
				})
			}
		}
	}

	// A bare OPENAI_API_KEY deployment gets one synthesized provider
	if len(cfg.LLM.Providers) == 0 && cfg.LLM.OpenAIAPIKey != "" {
		cfg.LLM.Providers = []ProviderConfig{{
			Name:     "openai",
			Enabled:  true,
			Priority: 1,
			APIKey:   cfg.LLM.OpenAIAPIKey,
			Model:    cfg.LLM.DefaultModel,
		}}
	}

	return cfg
}

// Watch re-decodes the configuration whenever the backing file changes and
// hands the fresh value to onChange. Invalid reloads are dropped.
func (c *Config) Watch(onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := decode(c.v)
		if err := validate(next); err != nil {
			return
		}
		next.v = c.v
		onChange(next)
	})
	c.v.WatchConfig()
}

// FileUsed returns the path of the config file that was read, if any.
func (c *Config) FileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.host", "0.0.0.0")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("cors.frontend_url", "http://localhost:8080")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.read_limit", 64*1024)
	v.SetDefault("throttle.requests_per_min", 30)

	v.SetDefault("session.timeout", 3600)
	v.SetDefault("session.sweep_interval", "60s")
	v.SetDefault("session.teardown_on_disconnect", false)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", "data/transcripts.db")

	v.SetDefault("agents.temperature", 0.7)
	v.SetDefault("agents.max_tokens", 4096)

	// LLM defaults
	v.SetDefault("llm.fallback_enabled", true)
	v.SetDefault("llm.retry_attempts", 3)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "120s")
	v.SetDefault("llm.default_model", "gpt-4-turbo")
}

// bindFlatEnv honors the single-word variables of container deployments.
func bindFlatEnv(v *viper.Viper) {
	_ = v.BindEnv("http_server.port", "HTTP_SERVER_PORT", "PORT")
	_ = v.BindEnv("http_server.host", "HTTP_SERVER_HOST", "HOST")
	_ = v.BindEnv("cors.frontend_url", "CORS_FRONTEND_URL", "FRONTEND_URL")
	_ = v.BindEnv("agents.max_tokens", "AGENTS_MAX_TOKENS", "MAX_TOKENS")
	_ = v.BindEnv("llm.default_model", "LLM_DEFAULT_MODEL", "DEFAULT_MODEL")
	_ = v.BindEnv("llm.openai_api_key", "LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
}

func validate(cfg *Config) error {
	if cfg.HTTPServer.Port <= 0 || cfg.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port out of range: %d", cfg.HTTPServer.Port)
	}
	if cfg.Session.Timeout <= 0 {
		return fmt.Errorf("session.timeout must be positive")
	}
	if cfg.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive")
	}
	return validateLLMConfig(&cfg.LLM)
}

// validateLLMConfig validates the LLM configuration. An empty provider list is
// allowed; the service then reports the responder as unconfigured.
func validateLLMConfig(cfg *LLMConfig) error {
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if !provider.Enabled {
			continue
		}
		if provider.Priority <= 0 {
			return fmt.Errorf("provider %s: priority must be positive", provider.Name)
		}
		if priorityMap[provider.Priority] {
			return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
		}
		priorityMap[provider.Priority] = true
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := os.Getenv(envVar); envValue != "" {
		return envValue
	}
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}
