package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/search/policy"
)

func intPtr(v int) *int { return &v }

func TestRequest_Defaults(t *testing.T) {
	svc := New(&mockSource{}, nil)

	req, ok, err := svc.Request(Params{Pool: "garden", List: "english"})
	if err != nil || !ok {
		t.Fatalf("Request: ok=%v err=%v", ok, err)
	}
	if req.MinLength() != DefaultMinLength {
		t.Errorf("min: got %d, want %d", req.MinLength(), DefaultMinLength)
	}
	if req.MaxLength() != 6 {
		t.Errorf("max: got %d, want 6", req.MaxLength())
	}
	if req.Policy().Kind() != policy.KindExact {
		t.Errorf("policy: got %s, want exact", req.Policy())
	}
}

func TestRequest_Explicit(t *testing.T) {
	svc := New(&mockSource{}, nil)

	req, ok, err := svc.Request(Params{
		Pool: "garden", List: "english",
		MinLength: intPtr(2), MaxLength: intPtr(9), Bonus: intPtr(2),
	})
	if err != nil || !ok {
		t.Fatalf("Request: ok=%v err=%v", ok, err)
	}
	if req.MinLength() != 2 || req.MaxLength() != 9 {
		t.Errorf("bounds: got %d..%d, want 2..9", req.MinLength(), req.MaxLength())
	}
	if req.Policy().Kind() != policy.KindBounded || req.Policy().MaxExcess() != 2 {
		t.Errorf("policy: got %s, want bounded(2)", req.Policy())
	}
}

func TestRequest_WithLimits(t *testing.T) {
	svc := New(&mockSource{}, nil).WithLimits(3, 1)

	req, _, err := svc.Request(Params{Pool: "garden", List: "english"})
	if err != nil {
		t.Fatal(err)
	}
	if req.MinLength() != 3 {
		t.Errorf("min: got %d, want 3", req.MinLength())
	}

	_, _, err = svc.Request(Params{Pool: "garden", List: "english", Bonus: intPtr(2)})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("bonus above limit: expected ErrInvalidRequest, got %v", err)
	}
}

func TestRequest_Invalid(t *testing.T) {
	svc := New(&mockSource{}, nil)

	tests := []struct {
		name string
		p    Params
	}{
		{"empty pool", Params{List: "english"}},
		{"empty list", Params{Pool: "garden"}},
		{"min above max", Params{Pool: "garden", List: "english", MinLength: intPtr(5), MaxLength: intPtr(4)}},
		{"zero max", Params{Pool: "garden", List: "english", MinLength: intPtr(1), MaxLength: intPtr(0)}},
		{"negative bonus", Params{Pool: "garden", List: "english", Bonus: intPtr(-1)}},
		{"path in list", Params{Pool: "garden", List: "../etc/passwd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Request(tt.p)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestRequest_ShortPoolDefaultRangeEmpty(t *testing.T) {
	svc := New(&mockSource{}, nil)

	req, ok, err := svc.Request(Params{Pool: "cat", List: "english"})
	if err != nil {
		t.Fatal(err)
	}
	if ok || req != nil {
		t.Errorf("expected empty range, got ok=%v req=%v", ok, req)
	}
}

func TestSearch_ShortPoolSkipsLoad(t *testing.T) {
	src := &mockSource{err: errors.New("must not be called")}
	svc := New(src, nil)

	res, segs, err := svc.Search(context.Background(), Params{Pool: "cat", List: "english"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected empty result, got %v", res.Words())
	}
	if len(segs) != 1 || len(segs[0]) != 0 {
		t.Errorf("expected one empty segment, got %v", segs)
	}
}

func TestSearch_EndToEnd(t *testing.T) {
	src := &mockSource{lists: map[string]string{"english": "den\ngarden\ndanger\nrange\nnerd\ngrand\n"}}
	svc := New(src, nil)

	res, segs, err := svc.Search(context.Background(), Params{Pool: "garden", List: "english"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"nerd", "grand", "range", "danger", "garden"}
	if !slices.Equal(res.Words(), want) {
		t.Errorf("words: got %v, want %v", res.Words(), want)
	}
	if len(segs) != 1 || segs[0].String() != "nerd grand range danger garden" {
		t.Errorf("segments: got %v", segs)
	}
}
