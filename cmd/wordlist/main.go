// wordlist imports plain-text word lists (one word per line) into the SQLite
// store read by wordguess when dictionary.driver is "sqlite".
//
// Usage:
//
//	wordlist -db wordguess.db -name english -file english.txt
//	wordlist -db wordguess.db -dir word-lists
//	wordlist -db wordguess.db -ls
//
// With -cache-addr the imported lists are also evicted from the Redis/Valkey
// word list cache so the next search sees the new contents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/wordguess/internal/db/redis"
	logpkg "github.com/kailas-cloud/wordguess/internal/logger"
	"github.com/kailas-cloud/wordguess/internal/repository/dictionary"
)

type options struct {
	dbPath        string
	name          string
	file          string
	dir           string
	list          bool
	cacheAddr     string
	cachePassword string
	cachePrefix   string
}

func main() {
	opts := parseFlags()

	logger, err := logpkg.NewLogger("local")
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, opts, logger); err != nil {
		cancel()
		logger.Fatal("wordlist failed", zap.Error(err))
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.dbPath, "db", "wordguess.db", "SQLite database path")
	flag.StringVar(&o.name, "name", "", "word list name (defaults to the file name without .txt)")
	flag.StringVar(&o.file, "file", "", "word list file to import")
	flag.StringVar(&o.dir, "dir", "", "import every *.txt file in this directory")
	flag.BoolVar(&o.list, "ls", false, "print stored word list names and exit")
	flag.StringVar(&o.cacheAddr, "cache-addr", os.Getenv("CACHE_ADDR"), "Redis/Valkey address to evict cached lists from")
	flag.StringVar(&o.cachePassword, "cache-password", os.Getenv("CACHE_PASSWORD"), "Redis/Valkey password")
	flag.StringVar(&o.cachePrefix, "cache-prefix", "wordguess:", "cache key prefix")
	flag.Parse()
	return o
}

func run(ctx context.Context, o options, logger *zap.Logger) error {
	src, err := dictionary.NewSQLSource(o.dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if o.list {
		names, err := src.Names(ctx)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil
	}

	files, err := importFiles(o)
	if err != nil {
		return err
	}

	var cache *dictionary.CachedSource
	if o.cacheAddr != "" {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: []string{o.cacheAddr}, Password: o.cachePassword})
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, 5*time.Second); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		cache = dictionary.NewCachedSource(src, store, o.cachePrefix, time.Hour, nil, logger)
	}

	for name, path := range files {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		start := time.Now()
		n, err := src.Import(ctx, name, string(data))
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		logger.Info("Imported word list",
			zap.String("name", name),
			zap.String("file", path),
			zap.Int("words", n),
			zap.Duration("took", time.Since(start)),
		)

		if cache != nil {
			if err := cache.Invalidate(ctx, name); err != nil {
				logger.Warn("Cache eviction failed", zap.String("name", name), zap.Error(err))
			}
		}
	}
	return nil
}

// importFiles maps word list names to the files that hold them.
func importFiles(o options) (map[string]string, error) {
	files := make(map[string]string)

	switch {
	case o.file != "":
		name := o.name
		if name == "" {
			name = listName(o.file)
		}
		files[name] = o.file
	case o.dir != "":
		if o.name != "" {
			return nil, errors.New("-name cannot be combined with -dir")
		}
		paths, err := filepath.Glob(filepath.Join(o.dir, "*.txt"))
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no *.txt files in %s", o.dir)
		}
		for _, p := range paths {
			files[listName(p)] = p
		}
	default:
		return nil, errors.New("one of -file, -dir or -ls is required")
	}
	return files, nil
}

func listName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".txt")
}
