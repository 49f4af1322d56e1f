package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/chunk"
	healthuc "github.com/kailas-cloud/wordguess/internal/usecase/health"
	searchuc "github.com/kailas-cloud/wordguess/internal/usecase/search"
)

// ErrorCode is a machine-readable API error code.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeWordListNotFound    ErrorCode = "word_list_not_found"
	ErrorCodeListingNotSupported ErrorCode = "listing_not_supported"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Words    []string `json:"words"`
	Segments []string `json:"segments"`
	Count    int      `json:"count"`
}

// ListsResponse is the body of GET /v1/lists.
type ListsResponse struct {
	Lists []string `json:"lists"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the word search HTTP API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	capBytes      int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. capBytes is the default segment size
// for search responses.
func NewServer(search *searchuc.Service, health *healthuc.Service, capBytes int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		health:   health,
		capBytes: capBytes,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrDictionaryNotFound, http.StatusNotFound, ErrorCodeWordListNotFound),
		sentinelHandler(domain.ErrListingNotSupported, http.StatusNotImplemented, ErrorCodeListingNotSupported),
	}
	return s
}

// Routes registers the API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/search", s.Search)
	r.Get("/v1/lists", s.Lists)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type searchParams struct {
	Word  string
	List  string
	Min   *int
	Max   *int
	Bonus *int
	Cap   *int
}

func bindSearchParams(q url.Values) (searchParams, error) {
	var p searchParams
	if err := runtime.BindQueryParameter("form", true, true, "word", q, &p.Word); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, true, "list", q, &p.List); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "min", q, &p.Min); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "max", q, &p.Max); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "bonus", q, &p.Bonus); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "cap", q, &p.Cap); err != nil {
		return p, err
	}
	return p, nil
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid query: "+err.Error())
		return
	}

	capBytes := s.capBytes
	if params.Cap != nil {
		if *params.Cap <= 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "cap must be positive")
			return
		}
		capBytes = *params.Cap
	}

	res, segments, err := s.search.Search(r.Context(), searchuc.Params{
		Pool:      params.Word,
		List:      params.List,
		MinLength: params.Min,
		MaxLength: params.Max,
		Bonus:     params.Bonus,
	}, capBytes)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	words := res.Words()
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Words:    words,
		Segments: chunk.Render(segments),
		Count:    res.Len(),
	})
}

// Lists handles GET /v1/lists.
func (s *Server) Lists(w http.ResponseWriter, r *http.Request) {
	names, err := s.search.Lists(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ListsResponse{Lists: names})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Validation errors carry
// their detail since it only echoes the caller's input.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return err.Error()
	case errors.Is(err, domain.ErrDictionaryNotFound):
		return domain.ErrDictionaryNotFound.Error()
	case errors.Is(err, domain.ErrListingNotSupported):
		return domain.ErrListingNotSupported.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
