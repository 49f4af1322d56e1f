package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDictionary struct{ err error }

func (m *mockDictionary) HealthCheck(_ context.Context) error { return m.err }

type mockCache struct{ err error }

func (m *mockCache) Ping(_ context.Context) error { return m.err }

type mockChat struct{ connected bool }

func (m *mockChat) Connected() bool { return m.connected }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDictionary{}, &mockCache{}, &mockChat{connected: true})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"word_lists", "cache", "chat"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_DictionaryError_Unhealthy(t *testing.T) {
	svc := New(&mockDictionary{err: errors.New("no such dir")}, &mockCache{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["word_lists"] != CheckError {
		t.Errorf("expected word_lists %q, got %q", CheckError, r.Checks["word_lists"])
	}
}

func TestCheck_CacheError_Degraded(t *testing.T) {
	svc := New(&mockDictionary{}, &mockCache{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_ChatDisconnected_Degraded(t *testing.T) {
	svc := New(&mockDictionary{}, nil, &mockChat{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["chat"] != CheckError {
		t.Errorf("expected chat %q, got %q", CheckError, r.Checks["chat"])
	}
}

func TestCheck_OptionalComponentsAbsent(t *testing.T) {
	svc := New(&mockDictionary{}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
	if _, ok := r.Checks["chat"]; ok {
		t.Error("chat check should be absent when chat is nil")
	}
}
