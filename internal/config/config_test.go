package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func validChatConfig() Config {
	cfg := Config{
		Chat: ChatConfig{
			Enabled:    true,
			Username:   "guessbot",
			OAuthToken: "secret",
			Channels:   []string{"somechannel"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.Chat.ServerAddr != "irc.chat.twitch.tv:6697" {
		t.Errorf("ServerAddr = %q", cfg.Chat.ServerAddr)
	}
	if cfg.Chat.Prefix != "!" {
		t.Errorf("Prefix = %q", cfg.Chat.Prefix)
	}
	if !slices.Equal(cfg.Chat.AllowedBadges, []string{"moderator", "broadcaster"}) {
		t.Errorf("AllowedBadges = %v", cfg.Chat.AllowedBadges)
	}
	if cfg.Search.DefaultMinLength != 4 {
		t.Errorf("DefaultMinLength = %d, want 4", cfg.Search.DefaultMinLength)
	}
	if cfg.Search.ChunkCapBytes != 500 {
		t.Errorf("ChunkCapBytes = %d, want 500", cfg.Search.ChunkCapBytes)
	}
	if cfg.Dictionary.Driver != "file" || cfg.Dictionary.Dir != "word-lists" {
		t.Errorf("unexpected dictionary defaults: %+v", cfg.Dictionary)
	}
	if cfg.Cache.Driver != "valkey" || cfg.Cache.TTLSec != 3600 || cfg.Cache.KeyPrefix != "wordguess:" {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30},
		Chat:       ChatConfig{Prefix: "?", AllowedBadges: []string{"vip"}},
		Search:     SearchConfig{DefaultMinLength: 3, ChunkCapBytes: 200},
		Dictionary: DictionaryConfig{Driver: "sqlite", Dir: "lists"},
		Cache:      CacheConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("ReadTimeoutSec = %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Chat.Prefix != "?" || !slices.Equal(cfg.Chat.AllowedBadges, []string{"vip"}) {
		t.Errorf("chat overridden: %+v", cfg.Chat)
	}
	if cfg.Search.DefaultMinLength != 3 || cfg.Search.ChunkCapBytes != 200 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.Dictionary.Driver != "sqlite" || cfg.Dictionary.Dir != "lists" {
		t.Errorf("dictionary overridden: %+v", cfg.Dictionary)
	}
	if cfg.Cache.KeyPrefix != "custom:" {
		t.Errorf("KeyPrefix = %q", cfg.Cache.KeyPrefix)
	}
}

func TestApplyDefaults_SplitsChannels(t *testing.T) {
	cfg := Config{Chat: ChatConfig{Channels: []string{"#Foo, bar", "", "Baz"}}}
	cfg.ApplyDefaults()
	if !slices.Equal(cfg.Chat.Channels, []string{"foo", "bar", "baz"}) {
		t.Errorf("Channels = %v", cfg.Chat.Channels)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid chat only", func(_ *Config) {}, false},
		{"nothing enabled", func(c *Config) { c.Chat.Enabled = false }, true},
		{"http bad port", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Port = 0 }, true},
		{"http ok", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Port = 8080 }, false},
		{"missing username", func(c *Config) { c.Chat.Username = "" }, true},
		{"missing token", func(c *Config) { c.Chat.OAuthToken = "" }, true},
		{"no channels", func(c *Config) { c.Chat.Channels = nil }, true},
		{"blank prefix", func(c *Config) { c.Chat.Prefix = " " }, true},
		{"bad dictionary driver", func(c *Config) { c.Dictionary.Driver = "s3" }, true},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }, true},
		{"cache bad driver", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addrs = []string{"localhost:6379"}
			c.Cache.Driver = "memcached"
		}, true},
		{"cache ok", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addrs = []string{"localhost:6379"}
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validChatConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("WG_TEST_TOKEN", "abc123")
	t.Setenv("WG_TEST_CHANNELS", "one,two")

	data := []byte(`
chat:
  enabled: true
  username: ${WG_TEST_USER:-guessbot}
  oauth_token: ${WG_TEST_TOKEN}
  channels: ["${WG_TEST_CHANNELS}"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Chat.Username != "guessbot" {
		t.Errorf("Username = %q, want default", cfg.Chat.Username)
	}
	if cfg.Chat.OAuthToken != "abc123" {
		t.Errorf("OAuthToken = %q", cfg.Chat.OAuthToken)
	}
	if !slices.Equal(cfg.Chat.Channels, []string{"one", "two"}) {
		t.Errorf("Channels = %v", cfg.Chat.Channels)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  enabled: false\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("WG_DOTENV_ONLY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WG_DOTENV_ONLY", "")
	_ = os.Unsetenv("WG_DOTENV_ONLY")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if got := os.Getenv("WG_DOTENV_ONLY"); got != "from-file" {
		t.Errorf("WG_DOTENV_ONLY = %q", got)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}
