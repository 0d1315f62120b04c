package sentinel

import "errors"

// Sentinel dependency errors. Backends should return these (optionally wrapped)
// so the keeper can translate them into behavior exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
