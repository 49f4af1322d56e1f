package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/wordguess/internal/domain"
	healthuc "github.com/kailas-cloud/wordguess/internal/usecase/health"
	searchuc "github.com/kailas-cloud/wordguess/internal/usecase/search"
)

// --- Mocks ---

type mockSource struct {
	lists map[string]string
	err   error
}

func (m *mockSource) Load(_ context.Context, name string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.lists[name]
	if !ok {
		return nil, domain.ErrDictionaryNotFound
	}
	return []byte(text), nil
}

func (m *mockSource) Names(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.lists))
	for n := range m.lists {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

func (m *mockSource) HealthCheck(_ context.Context) error { return m.err }

type unlistableSource struct{}

func (unlistableSource) Load(_ context.Context, _ string) ([]byte, error) { return nil, nil }

func newTestRouter(src searchuc.DictionarySource, checker healthuc.DictionaryChecker) http.Handler {
	srv := NewServer(searchuc.New(src, nil), healthuc.New(checker, nil, nil), 0, nil)
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	src := &mockSource{lists: map[string]string{"english": "abc\nabcc\naabbcc\nxx\nab\n"}}
	h := newTestRouter(src, src)

	rr := doGet(t, h, "/v1/search?word=aabbccx&list=english&min=4&max=7")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(resp.Words, []string{"abcc", "aabbcc"}) {
		t.Errorf("words: got %v", resp.Words)
	}
	if resp.Count != 2 {
		t.Errorf("count: got %d, want 2", resp.Count)
	}
	if !slices.Equal(resp.Segments, []string{"abcc aabbcc"}) {
		t.Errorf("segments: got %v", resp.Segments)
	}
}

func TestSearch_CapSplitsSegments(t *testing.T) {
	src := &mockSource{lists: map[string]string{"pairs": "aa\nbb\ncc\n"}}
	h := newTestRouter(src, src)

	rr := doGet(t, h, "/v1/search?word=aabbcc&list=pairs&min=2&cap=6")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(resp.Segments, []string{"aa bb", "cc"}) {
		t.Errorf("segments: got %v", resp.Segments)
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	src := &mockSource{lists: map[string]string{"english": "zzzz\n"}}
	h := newTestRouter(src, src)

	rr := doGet(t, h, "/v1/search?word=abcd&list=english")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Words == nil || len(resp.Words) != 0 {
		t.Errorf("words: got %#v, want empty array", resp.Words)
	}
	if !slices.Equal(resp.Segments, []string{""}) {
		t.Errorf("segments: got %#v, want one empty segment", resp.Segments)
	}
}

func TestSearch_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		src    *mockSource
		target string
		status int
		code   ErrorCode
	}{
		{"missing word", &mockSource{}, "/v1/search?list=english", http.StatusBadRequest, ErrorCodeBadRequest},
		{"malformed min", &mockSource{}, "/v1/search?word=abc&list=english&min=x", http.StatusBadRequest, ErrorCodeBadRequest},
		{"min above max", &mockSource{}, "/v1/search?word=abc&list=english&min=5&max=3",
			http.StatusBadRequest, ErrorCodeValidationFailed},
		{"bad list name", &mockSource{}, "/v1/search?word=abc&list=..%2Fetc&min=1",
			http.StatusBadRequest, ErrorCodeValidationFailed},
		{"zero cap", &mockSource{}, "/v1/search?word=abc&list=english&cap=0",
			http.StatusBadRequest, ErrorCodeValidationFailed},
		{"unknown list", &mockSource{}, "/v1/search?word=abcd&list=klingon",
			http.StatusNotFound, ErrorCodeWordListNotFound},
		{"source failure", &mockSource{err: errors.New("disk on fire")}, "/v1/search?word=abcd&list=english",
			http.StatusInternalServerError, ErrorCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doGet(t, newTestRouter(tt.src, tt.src), tt.target)
			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}
			if resp := decodeError(t, rr); resp.Code != tt.code {
				t.Errorf("code: got %s, want %s", resp.Code, tt.code)
			}
		})
	}
}

func TestSearch_InternalErrorHidesDetail(t *testing.T) {
	src := &mockSource{err: errors.New("secret path /var/lib/x")}
	rr := doGet(t, newTestRouter(src, src), "/v1/search?word=abcd&list=english")

	if resp := decodeError(t, rr); resp.Message != "internal error" {
		t.Errorf("message: got %q, want %q", resp.Message, "internal error")
	}
}

func TestLists(t *testing.T) {
	src := &mockSource{lists: map[string]string{"english": "", "french": ""}}
	rr := doGet(t, newTestRouter(src, src), "/v1/lists")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp ListsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(resp.Lists, []string{"english", "french"}) {
		t.Errorf("lists: got %v", resp.Lists)
	}
}

func TestLists_NotSupported(t *testing.T) {
	rr := doGet(t, newTestRouter(unlistableSource{}, nil), "/v1/lists")

	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotImplemented)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeListingNotSupported {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := &mockSource{}
	rr := doGet(t, newTestRouter(healthy, healthy), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthy: got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Checks["word_lists"] != "ok" {
		t.Errorf("healthy body: %+v", resp)
	}

	broken := &mockSource{err: errors.New("gone")}
	rr = doGet(t, newTestRouter(broken, broken), "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("broken: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	src := &mockSource{}
	rr := doGet(t, newTestRouter(src, src), "/metrics")
	if rr.Code != http.StatusOK {
		t.Errorf("metrics: got %d, want %d", rr.Code, http.StatusOK)
	}
}
