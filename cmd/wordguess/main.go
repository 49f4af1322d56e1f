package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/wordguess/internal/config"
	dbRedis "github.com/kailas-cloud/wordguess/internal/db/redis"
	logpkg "github.com/kailas-cloud/wordguess/internal/logger"
	"github.com/kailas-cloud/wordguess/internal/metrics"
	"github.com/kailas-cloud/wordguess/internal/repository/dictionary"
	"github.com/kailas-cloud/wordguess/internal/transport/chat"
	chiTransport "github.com/kailas-cloud/wordguess/internal/transport/chi"
	healthuc "github.com/kailas-cloud/wordguess/internal/usecase/health"
	searchuc "github.com/kailas-cloud/wordguess/internal/usecase/search"
	"github.com/kailas-cloud/wordguess/internal/version"
)

// wordListSource is what the composition root needs from a dictionary source.
type wordListSource interface {
	searchuc.DictionarySource
	healthuc.DictionaryChecker
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wordguess",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Bool("http", cfg.HTTP.Enabled),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("chat", cfg.Chat.Enabled),
		zap.Strings("channels", cfg.Chat.Channels),
		zap.String("dictionary_driver", cfg.Dictionary.Driver),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(cfg.Dictionary)
	if err != nil {
		logger.Fatal("Failed to open word lists", zap.Error(err))
	}
	defer closeSource()

	// Optional Redis/Valkey cache in front of the source.
	// Pass nil interfaces (not typed nil pointers) to the health service.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.String("driver", cfg.Cache.Driver), zap.Strings("addrs", cfg.Cache.Addrs))

		source = dictionary.NewCachedSource(source, store, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.DictionaryCacheTotal, logger)
		cachePinger = store
	}

	searchSvc := searchuc.New(source, logger).
		WithLimits(cfg.Search.DefaultMinLength, cfg.Search.MaxBonusLetters)

	g, gctx := errgroup.WithContext(ctx)

	var chatChecker healthuc.ChatChecker
	if cfg.Chat.Enabled {
		client := chat.NewClient(chat.Config{
			Addr:           cfg.Chat.ServerAddr,
			Plaintext:      cfg.Chat.Plaintext,
			Username:       cfg.Chat.Username,
			OAuthToken:     cfg.Chat.OAuthToken,
			Channels:       cfg.Chat.Channels,
			ReconnectDelay: time.Duration(cfg.Chat.ReconnectDelaySec) * time.Second,
		}, logger.Named("chat"))
		handler := chat.NewCommandHandler(chat.HandlerConfig{
			Prefix:        cfg.Chat.Prefix,
			AllowedBadges: cfg.Chat.AllowedBadges,
			CapBytes:      cfg.Search.ChunkCapBytes,
			NotifyErrors:  cfg.Chat.NotifyErrors,
			EmptyReply:    cfg.Chat.EmptyReply,
		}, searchSvc, client, logger.Named("chat"))
		chatChecker = client

		g.Go(func() error {
			if err := client.Run(gctx, handler); err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			return nil
		})
	}

	healthSvc := healthuc.New(source, cachePinger, chatChecker)

	if cfg.HTTP.Enabled {
		srv := newHTTPServer(cfg, searchSvc, healthSvc, logger)

		g.Go(func() error {
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Error during shutdown", zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Stopped with error", zap.Error(err))
		return
	}
	logger.Info("Stopped gracefully")
}

// openSource builds the configured word list source. The returned func
// releases it.
func openSource(cfg config.DictionaryConfig) (wordListSource, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		src, err := dictionary.NewSQLSource(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return dictionary.NewFileSource(cfg.Dir), func() {}, nil
	}
}

func newHTTPServer(
	cfg config.Config,
	searchSvc *searchuc.Service,
	healthSvc *healthuc.Service,
	logger *zap.Logger,
) *http.Server {
	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Search.ChunkCapBytes, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.NotFound(jsonStatus(http.StatusNotFound, "not_found", "route not found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed"))
	server.Routes(r)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}
}

func jsonStatus(status int, code, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    code,
			"message": message,
		})
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					jsonStatus(http.StatusInternalServerError, "internal_error", "internal error")(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger; the search service picks it up from the context.
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
