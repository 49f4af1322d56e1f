package wordguess

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/wordguess/internal/db"
	dbRedis "github.com/kailas-cloud/wordguess/internal/db/redis"
	"github.com/kailas-cloud/wordguess/internal/domain/chunk"
	"github.com/kailas-cloud/wordguess/internal/repository/dictionary"
	healthuc "github.com/kailas-cloud/wordguess/internal/usecase/health"
	searchuc "github.com/kailas-cloud/wordguess/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Hour
	defaultWordListDir      = "word-lists"
)

// source is what the client needs from a word list source.
type source interface {
	searchuc.DictionarySource
	healthuc.DictionaryChecker
}

// Result is the answer to a Guess.
type Result struct {
	// Words holds the matches, shortest first, alphabetical within a length.
	Words []string
	// Messages holds Words packed into chat-sized lines. An empty result
	// yields one empty message.
	Messages []string
}

// Client runs word searches against a word list source.
type Client struct {
	search   *searchuc.Service
	health   *healthuc.Service
	capBytes int
	closers  []func()
	obs      *observer
}

// New creates a Client. When a cache is configured, ctx bounds the initial
// readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		wordListDir: defaultWordListDir,
		cacheTTL:    defaultCacheTTL,
		cachePrefix: "wordguess:",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{capBytes: cfg.chunkCapBytes, obs: obs}

	src, err := c.openSource(cfg)
	if err != nil {
		return nil, err
	}

	var cache healthuc.CachePinger
	if len(cfg.cacheAddrs) > 0 {
		store, err := c.openCache(ctx, cfg)
		if err != nil {
			c.Close()
			return nil, err
		}
		src = dictionary.NewCachedSource(src, store, cfg.cachePrefix, cfg.cacheTTL, nil, nil)
		cache = store
	}

	c.search = searchuc.New(src, nil).WithLimits(cfg.defaultMinLength, cfg.maxBonusLetters)
	c.health = healthuc.New(src, cache, nil)
	return c, nil
}

func (c *Client) openSource(cfg *clientConfig) (source, error) {
	if cfg.sqlitePath == "" {
		return dictionary.NewFileSource(cfg.wordListDir), nil
	}
	s, err := dictionary.NewSQLSource(cfg.sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("wordguess: %w", err)
	}
	c.closers = append(c.closers, func() { _ = s.Close() })
	return s, nil
}

func (c *Client) openCache(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("wordguess: create cache store: %w", err)
	}
	c.closers = append(c.closers, store.Close)

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		return nil, fmt.Errorf("wordguess: cache not ready: %w", err)
	}
	return store, nil
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Guess returns the words of list that can be spelled from the letters of word.
func (c *Client) Guess(ctx context.Context, word, list string, opts ...GuessOption) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("guess", start, err, "list", list, "words", len(res.Words)) }()

	var g guessConfig
	for _, o := range opts {
		o(&g)
	}

	found, segments, err := c.search.Search(ctx, searchuc.Params{
		Pool:      word,
		List:      list,
		MinLength: g.minLength,
		MaxLength: g.maxLength,
		Bonus:     g.bonus,
	}, c.capBytes)
	if err != nil {
		return Result{}, fmt.Errorf("guess: %w", err)
	}

	return Result{
		Words:    found.Words(),
		Messages: chunk.Render(segments),
	}, nil
}

// Lists returns the names of the available word lists.
func (c *Client) Lists(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("lists", start, err) }()

	names, err = c.search.Lists(ctx)
	if err != nil {
		return nil, fmt.Errorf("lists: %w", err)
	}
	return names, nil
}

// HealthStatus represents the aggregated health of the client's backends.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the word list source and the cache, if any.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
