package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/chunk"
	"github.com/kailas-cloud/wordguess/internal/domain/letters"
	"github.com/kailas-cloud/wordguess/internal/domain/search/request"
	"github.com/kailas-cloud/wordguess/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/wordguess/internal/logger"
	"github.com/kailas-cloud/wordguess/internal/metrics"
)

// Service finds the dictionary words that can be spelled from a letter pool.
type Service struct {
	source           DictionarySource
	logger           *zap.Logger
	defaultMinLength int
	maxBonusLetters  int
}

// New creates a search service.
func New(source DictionarySource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:           source,
		logger:           logger,
		defaultMinLength: DefaultMinLength,
		maxBonusLetters:  DefaultMaxBonusLetters,
	}
}

// Scan loads the requested word list and returns every matching word,
// ordered by length and then lexicographically.
func (s *Service) Scan(ctx context.Context, req *request.Request) (result.Result, error) {
	policyLabel := string(req.Policy().Kind())
	start := time.Now()

	text, err := s.source.Load(ctx, req.Dictionary())
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrDictionaryNotFound) {
			status = "not_found"
		}
		metrics.SearchScansTotal.WithLabelValues(policyLabel, status).Inc()
		return result.Result{}, fmt.Errorf("load word list %q: %w", req.Dictionary(), err)
	}

	words, scanned := scanWords(text, req)
	res := result.New(words)

	duration := time.Since(start)
	metrics.SearchScansTotal.WithLabelValues(policyLabel, "ok").Inc()
	metrics.SearchScanDuration.WithLabelValues(policyLabel).Observe(duration.Seconds())
	metrics.SearchResultWords.Observe(float64(res.Len()))

	logpkg.FromContextOr(ctx, s.logger).Debug("Scan completed",
		zap.String("list", req.Dictionary()),
		zap.String("policy", req.Policy().String()),
		zap.Int("min_length", req.MinLength()),
		zap.Int("max_length", req.MaxLength()),
		zap.Int("scanned", scanned),
		zap.Int("matched", res.Len()),
		zap.Duration("duration", duration),
	)

	return res, nil
}

// Guess scans and then packs the result into chat-sized segments.
func (s *Service) Guess(
	ctx context.Context, req *request.Request, capBytes int,
) (result.Result, []chunk.Segment, error) {
	res, err := s.Scan(ctx, req)
	if err != nil {
		return result.Result{}, nil, err
	}
	return res, chunk.Split(res.Words(), capBytes), nil
}

// Lists returns the available word list names.
func (s *Service) Lists(ctx context.Context) ([]string, error) {
	lister, ok := s.source.(Lister)
	if !ok {
		return nil, domain.ErrListingNotSupported
	}
	names, err := lister.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list word lists: %w", err)
	}
	return names, nil
}

// scanWords filters the lines of text against req and reports how many
// candidate lines were examined. Blank lines are skipped; every other line is
// lowercased whole and compared as-is.
func scanWords(text []byte, req *request.Request) ([]string, int) {
	pool := letters.Build(req.Pool())
	p := req.Policy()
	minLen, maxLen := req.MinLength(), req.MaxLength()

	var words []string
	scanned := 0
	for len(text) > 0 {
		var line []byte
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			line, text = text, nil
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		scanned++
		if len(line) < minLen || len(line) > maxLen {
			continue
		}
		word := letters.Lower(string(line))
		candidate := letters.Build(word)
		if p.Matches(&pool, &candidate) {
			words = append(words, word)
		}
	}
	return words, scanned
}
