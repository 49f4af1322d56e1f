package search

import "context"

// DictionarySource resolves a word list name to its raw text, one word per line.
// Unknown names must yield an error wrapping domain.ErrDictionaryNotFound.
type DictionarySource interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// Lister is implemented by sources that can enumerate their word lists.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}
