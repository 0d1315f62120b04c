package store

import "context"

// Backend is the external key-value collaborator the keeper persists through.
// It is origin/process scoped and string keyed; the keeper stores the whole
// consent map as one blob under a single fixed key.
//
// Error Contract:
// - Read returns sentinel.ErrNotFound (optionally wrapped) when the key is absent
// - Probe returns nil when the backend is usable; any error marks it unavailable
//   for the rest of the process
// - Write and Remove return nil on success or wrapped errors on infrastructure
//   failure; the keeper treats both as best-effort
type Backend interface {
	Probe(ctx context.Context) error
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
