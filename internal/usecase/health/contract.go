package health

import "context"

// DictionaryChecker checks that word lists can be read.
type DictionaryChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks word list cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ChatChecker reports whether the chat connection is up.
type ChatChecker interface {
	Connected() bool
}
