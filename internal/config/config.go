package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the wordguess configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Chat       ChatConfig       `yaml:"chat"`
	Search     SearchConfig     `yaml:"search"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds HTTP API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Enabled         bool `yaml:"enabled"`
	Port            int  `yaml:"port"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"`
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
}

// ChatConfig holds the chat (Twitch IRC) connection and command settings.
type ChatConfig struct {
	Enabled           bool     `yaml:"enabled"`
	ServerAddr        string   `yaml:"server_addr"`
	Plaintext         bool     `yaml:"plaintext"` // dial without TLS (local IRC servers)
	Username          string   `yaml:"username"`
	OAuthToken        string   `yaml:"oauth_token"`
	Channels          []string `yaml:"channels"`
	Prefix            string   `yaml:"prefix"`
	AllowedBadges     []string `yaml:"allowed_badges"`
	NotifyErrors      bool     `yaml:"notify_errors"`
	EmptyReply        string   `yaml:"empty_reply"` // sent instead of an empty result; empty = send nothing
	ReconnectDelaySec int      `yaml:"reconnect_delay_sec"`
}

// SearchConfig holds word search defaults.
type SearchConfig struct {
	DefaultMinLength int `yaml:"default_min_length"`
	ChunkCapBytes    int `yaml:"chunk_cap_bytes"`
	MaxBonusLetters  int `yaml:"max_bonus_letters"`
}

// DictionaryConfig selects where word lists are read from.
type DictionaryConfig struct {
	Driver     string `yaml:"driver"` // file, sqlite (default: file)
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// CacheConfig holds the optional Redis/Valkey word list cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the process
// environment first; variables already set take precedence.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it and applies defaults and validation.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Chat.ServerAddr == "" {
		c.Chat.ServerAddr = "irc.chat.twitch.tv:6697"
	}
	if c.Chat.Prefix == "" {
		c.Chat.Prefix = "!"
	}
	if len(c.Chat.AllowedBadges) == 0 {
		c.Chat.AllowedBadges = []string{"moderator", "broadcaster"}
	}
	if c.Chat.ReconnectDelaySec <= 0 {
		c.Chat.ReconnectDelaySec = 5
	}
	c.Chat.Channels = splitChannels(c.Chat.Channels)

	if c.Search.DefaultMinLength <= 0 {
		c.Search.DefaultMinLength = 4
	}
	if c.Search.ChunkCapBytes <= 0 {
		c.Search.ChunkCapBytes = 500
	}
	if c.Search.MaxBonusLetters <= 0 {
		c.Search.MaxBonusLetters = 3
	}

	if c.Dictionary.Driver == "" {
		c.Dictionary.Driver = "file"
	}
	if c.Dictionary.Dir == "" {
		c.Dictionary.Dir = "word-lists"
	}
	if c.Dictionary.SQLitePath == "" {
		c.Dictionary.SQLitePath = "wordguess.db"
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "wordguess:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !c.HTTP.Enabled && !c.Chat.Enabled {
		return fmt.Errorf("at least one of http.enabled or chat.enabled must be true")
	}
	if c.HTTP.Enabled && (c.HTTP.Port <= 0 || c.HTTP.Port > 65535) {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Chat.Enabled {
		if c.Chat.Username == "" {
			return fmt.Errorf("chat.username is required")
		}
		if c.Chat.OAuthToken == "" {
			return fmt.Errorf("chat.oauth_token is required")
		}
		if len(c.Chat.Channels) == 0 {
			return fmt.Errorf("chat.channels must list at least one channel")
		}
		if strings.TrimSpace(c.Chat.Prefix) == "" {
			return fmt.Errorf("chat.prefix must not be blank")
		}
	}
	switch c.Dictionary.Driver {
	case "file", "sqlite":
		// ok
	default:
		return fmt.Errorf("dictionary.driver must be \"file\" or \"sqlite\", got %q", c.Dictionary.Driver)
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "valkey", "redis":
			// ok
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when the cache is enabled")
		}
	}
	return nil
}

// splitChannels accepts both YAML lists and comma-separated entries
// (channels: ["${CHANNELS}"]), lowercases names and drops a leading '#'.
func splitChannels(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, ch := range strings.Split(entry, ",") {
			ch = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ch)), "#")
			if ch != "" {
				out = append(out, ch)
			}
		}
	}
	return out
}

func loadDotEnv(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
