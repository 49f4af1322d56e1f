package result

import "sort"

// Result is an ordered list of matching words: shortest first, then lexicographic.
// Duplicates are kept.
type Result struct {
	words []string
}

// New sorts words in place and wraps them.
func New(words []string) Result {
	Sort(words)
	return Result{words: words}
}

// Sort orders words lexicographically, then stably by length, so length is the
// primary key and byte order breaks ties.
func Sort(words []string) {
	sort.Strings(words)
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) < len(words[j])
	})
}

// Words returns the ordered words.
func (r *Result) Words() []string { return r.words }

// Len returns the number of words.
func (r *Result) Len() int { return len(r.words) }

// IsEmpty reports whether nothing matched.
func (r *Result) IsEmpty() bool { return len(r.words) == 0 }
