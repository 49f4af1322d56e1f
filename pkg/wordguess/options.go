package wordguess

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	wordListDir string
	sqlitePath  string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration
	cachePrefix   string

	defaultMinLength int
	maxBonusLetters  int
	chunkCapBytes    int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWordListDir reads word lists from <dir>/<name>.txt. This is the default
// source, with dir "word-lists".
func WithWordListDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.wordListDir = dir
		c.sqlitePath = ""
	})
}

// WithSQLite reads word lists imported into the SQLite database at path.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sqlitePath = path
	})
}

// WithValkey caches word lists in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedis caches word lists in a Redis instance.
func WithRedis(addr, password string) Option {
	return WithValkey(addr, password)
}

// WithCacheTTL sets how long cached word lists live. Default: 1h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithDefaultMinLength sets the minimum word length used when Guess is
// called without MinLength. Default: 4.
func WithDefaultMinLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultMinLength = n
	})
}

// WithMaxBonusLetters caps the Bonus a caller may ask for. Default: 3.
func WithMaxBonusLetters(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBonusLetters = n
	})
}

// WithMessageSize sets the byte budget used to split results into messages.
// Default: 500.
func WithMessageSize(capBytes int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkCapBytes = capBytes
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// GuessOption adjusts a single Guess call.
type GuessOption func(*guessConfig)

type guessConfig struct {
	minLength *int
	maxLength *int
	bonus     *int
}

// MinLength sets the shortest word to return.
func MinLength(n int) GuessOption {
	return func(g *guessConfig) { g.minLength = &n }
}

// MaxLength sets the longest word to return. Defaults to the pool length.
func MaxLength(n int) GuessOption {
	return func(g *guessConfig) { g.maxLength = &n }
}

// Bonus allows up to n letters the pool does not supply.
func Bonus(n int) GuessOption {
	return func(g *guessConfig) { g.bonus = &n }
}
