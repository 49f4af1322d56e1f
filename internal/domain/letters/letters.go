// Package letters counts byte occurrences in words.
package letters

// Multiset maps each byte value to the number of times it occurs.
// Counting is byte-wise after ASCII lowercasing; non-ASCII bytes are counted as-is.
type Multiset struct {
	counts [256]int
	total  int
}

// Build lowercases s (ASCII only) and counts its bytes.
func Build(s string) Multiset {
	var m Multiset
	for i := 0; i < len(s); i++ {
		m.counts[lower(s[i])]++
	}
	m.total = len(s)
	return m
}

// Count returns how many times b occurs. Uppercase ASCII is folded first.
func (m *Multiset) Count(b byte) int { return m.counts[lower(b)] }

// Len returns the total number of bytes counted.
func (m *Multiset) Len() int { return m.total }

// Distinct returns the bytes present, in ascending order.
func (m *Multiset) Distinct() []byte {
	out := make([]byte, 0, 16)
	for b, n := range m.counts {
		if n > 0 {
			out = append(out, byte(b))
		}
	}
	return out
}

// Deficit sums, over every byte of m, how many more times it occurs in m than in pool.
func (m *Multiset) Deficit(pool *Multiset) int {
	deficit := 0
	for b, n := range m.counts {
		if n > pool.counts[b] {
			deficit += n - pool.counts[b]
		}
	}
	return deficit
}

// Lower lowercases ASCII letters and leaves every other byte untouched.
func Lower(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			buf := []byte(s)
			for j := i; j < len(buf); j++ {
				buf[j] = lower(buf[j])
			}
			return string(buf)
		}
	}
	return s
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
