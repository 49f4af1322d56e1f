package letters

import (
	"bytes"
	"testing"
)

func TestBuild_CountsLowercased(t *testing.T) {
	m := Build("AaBbCcX")
	for _, tc := range []struct {
		b    byte
		want int
	}{
		{'a', 2}, {'b', 2}, {'c', 2}, {'x', 1}, {'z', 0},
	} {
		if got := m.Count(tc.b); got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.b, got, tc.want)
		}
	}
	if m.Count('A') != 2 {
		t.Errorf("Count('A') = %d, want 2 (folded)", m.Count('A'))
	}
	if m.Len() != 7 {
		t.Errorf("Len() = %d, want 7", m.Len())
	}
}

func TestBuild_Empty(t *testing.T) {
	m := Build("")
	if m.Len() != 0 {
		t.Errorf("Len() = %d", m.Len())
	}
	if d := m.Distinct(); len(d) != 0 {
		t.Errorf("Distinct() = %v, want empty", d)
	}
}

func TestBuild_NonASCIIBytesKept(t *testing.T) {
	m := Build("É")
	// "É" is two UTF-8 bytes; neither is ASCII so neither is folded.
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if m.Count(0xC3) != 1 || m.Count(0x89) != 1 {
		t.Errorf("unexpected counts: %v", m.Distinct())
	}
}

func TestDistinct_Sorted(t *testing.T) {
	m := Build("banana")
	if got := m.Distinct(); !bytes.Equal(got, []byte("abn")) {
		t.Errorf("Distinct() = %q, want %q", got, "abn")
	}
}

func TestDeficit(t *testing.T) {
	tests := []struct {
		pool, cand string
		want       int
	}{
		{"cat", "cat", 0},
		{"cat", "cats", 1},
		{"cat", "cards", 2},
		{"aabbccx", "abcc", 0},
		{"a", "aaa", 2},
		{"", "ab", 2},
		{"xyz", "", 0},
	}
	for _, tc := range tests {
		pool, cand := Build(tc.pool), Build(tc.cand)
		if got := cand.Deficit(&pool); got != tc.want {
			t.Errorf("Deficit(%q against %q) = %d, want %d", tc.cand, tc.pool, got, tc.want)
		}
	}
}

func TestLower(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"abc":     "abc",
		"ABC":     "abc",
		"MiXeD-1": "mixed-1",
		"ÉCOLE":   "École",
	}
	for in, want := range tests {
		if got := Lower(in); got != want {
			t.Errorf("Lower(%q) = %q, want %q", in, got, want)
		}
	}
}
