package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aid-lo/cookie-consent/internal/consent/metrics"
	"github.com/aid-lo/cookie-consent/internal/consent/models"
	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Backend

// Backend is the persistence collaborator the keeper writes through.
// Error Contract:
// - Read returns sentinel.ErrNotFound when the key is absent
// - Probe returns nil when the backend is usable
// - Write/Remove return nil on success or wrapped errors on failure;
//   the keeper treats both as best-effort
type Backend interface {
	Probe(ctx context.Context) error
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Option func(*Keeper)

// Keeper tracks per-cookie-type consent decisions, persists them through a
// backend when one is usable, and holds callbacks deferred until consent is
// granted. It is safe for concurrent use; callbacks run synchronously on the
// goroutine that triggers them, outside the internal lock.
//
// Construct one Keeper per process and share it; state lives for the process
// lifetime and is never explicitly destroyed.
type Keeper struct {
	mu        sync.Mutex
	state     models.StateMap
	waiters   map[string][]func()
	backend   Backend
	available bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New constructs a Keeper and loads prior state from the backend.
//
// The backend is probed once: if the probe fails (or backend is nil) the
// keeper runs memory-only for the rest of the process and all persistence
// calls become no-ops. A stored blob that is absent yields an empty map; a
// blob that does not decode as a consent mapping is removed and the map
// starts empty. Construction never fails.
func New(ctx context.Context, backend Backend, logger *slog.Logger, opts ...Option) *Keeper {
	k := &Keeper{
		state:   make(models.StateMap),
		waiters: make(map[string][]func()),
		backend: backend,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.load(ctx)
	return k
}

// WithMetrics sets the metrics instance for the keeper.
func WithMetrics(m *metrics.Metrics) Option {
	return func(k *Keeper) {
		k.metrics = m
	}
}

func (k *Keeper) load(ctx context.Context) {
	if k.backend == nil {
		k.logWarn(ctx, "no consent backend configured, running memory-only")
		return
	}
	if err := k.backend.Probe(ctx); err != nil {
		k.logWarn(ctx, "consent backend unavailable, running memory-only", "error", err)
		return
	}
	k.available = true

	blob, err := k.backend.Read(ctx, models.StateKey)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			k.logWarn(ctx, "failed to read consent state, starting empty", "error", err)
		}
		return
	}
	state, err := models.DecodeState(blob)
	if err != nil {
		// Corrupt blob: discard it so the next write starts clean.
		k.logWarn(ctx, "discarding corrupt consent state", "error", err)
		if rmErr := k.backend.Remove(ctx, models.StateKey); rmErr != nil {
			k.logWarn(ctx, "failed to remove corrupt consent state", "error", rmErr)
		}
		return
	}
	// Adopted as-is: individual out-of-range values are normalized lazily on read.
	k.state = state
}

// Grant records consent for the cookie type (empty string selects the
// default type), persists the map if the backend is available, then invokes
// every callback waiting on that type in registration order and discards the
// list. Callbacks registered before an earlier grant never re-fire.
func (k *Keeper) Grant(ctx context.Context, cookieType string) {
	t := normalize(cookieType)

	k.mu.Lock()
	k.state[t] = models.ValueGranted
	k.persistLocked(ctx)
	pending := k.waiters[t]
	delete(k.waiters, t)
	k.mu.Unlock()

	if k.metrics != nil {
		k.metrics.IncrementGranted(t)
		if n := len(pending); n > 0 {
			k.metrics.AddWaitersFired(float64(n))
			k.metrics.AddWaitersPending(-float64(n))
		}
	}
	for _, callback := range pending {
		callback()
	}
}

// Revoke records refusal for the cookie type and persists the map if the
// backend is available. Revocation is silent: waiting callbacks are neither
// invoked nor discarded.
func (k *Keeper) Revoke(ctx context.Context, cookieType string) {
	t := normalize(cookieType)

	k.mu.Lock()
	k.state[t] = models.ValueRevoked
	k.persistLocked(ctx)
	k.mu.Unlock()

	if k.metrics != nil {
		k.metrics.IncrementRevoked(t)
	}
}

// HasConsent reports whether the cookie type is currently granted.
//
// Not a pure query: a recorded value that is neither granted nor revoked is
// treated as corruption and deleted from the in-memory map, reverting the
// type to unset. The repair is not re-persisted until the next grant/revoke.
func (k *Keeper) HasConsent(cookieType string) bool {
	v, ok := k.read(cookieType)
	granted := ok && v == models.ValueGranted
	if k.metrics != nil {
		k.metrics.IncrementCheck(granted)
	}
	return granted
}

// OfferedConsent reports whether the user has responded at all for the
// cookie type, in either direction. Same lazy corruption repair as HasConsent.
func (k *Keeper) OfferedConsent(cookieType string) bool {
	_, ok := k.read(cookieType)
	return ok
}

// WaitForConsent runs callback once consent for the cookie type is granted.
// If consent is already granted the callback runs immediately and
// synchronously; otherwise it is queued and fires, in registration order, at
// the first matching Grant. There is no cancellation: a callback whose type
// is never granted is held for the life of the process.
func (k *Keeper) WaitForConsent(cookieType string, callback func()) {
	t := normalize(cookieType)

	k.mu.Lock()
	v, ok := k.readLocked(t)
	if ok && v == models.ValueGranted {
		k.mu.Unlock()
		callback()
		return
	}
	k.waiters[t] = append(k.waiters[t], callback)
	k.mu.Unlock()

	if k.metrics != nil {
		k.metrics.AddWaitersPending(1)
	}
}

// PersistenceAvailable reports whether the startup probe succeeded. Once
// false it stays false for the process lifetime.
func (k *Keeper) PersistenceAvailable() bool {
	return k.available
}

// Snapshot returns a copy of the in-memory consent map, including any
// not-yet-repaired values. Intended for diagnostics and tooling.
func (k *Keeper) Snapshot() models.StateMap {
	k.mu.Lock()
	defer k.mu.Unlock()
	snapshot := make(models.StateMap, len(k.state))
	for t, v := range k.state {
		snapshot[t] = v
	}
	return snapshot
}

// read fetches the recorded value for a type, repairing corruption in place.
func (k *Keeper) read(cookieType string) (models.Value, bool) {
	t := normalize(cookieType)
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.readLocked(t)
}

func (k *Keeper) readLocked(t string) (models.Value, bool) {
	v, ok := k.state[t]
	if !ok {
		return 0, false
	}
	if !v.IsValid() {
		delete(k.state, t)
		return 0, false
	}
	return v, true
}

// persistLocked mirrors the full map to the backend. Best-effort: failures
// are logged and never block the in-memory update or listener firing.
func (k *Keeper) persistLocked(ctx context.Context) {
	if !k.available {
		return
	}
	blob, err := models.EncodeState(k.state)
	if err != nil {
		k.logWarn(ctx, "failed to encode consent state", "error", err)
		return
	}
	if err := k.backend.Write(ctx, models.StateKey, blob); err != nil {
		k.logWarn(ctx, "failed to persist consent state", "error", err)
	}
}

func (k *Keeper) logWarn(ctx context.Context, msg string, args ...any) {
	if k.logger == nil {
		return
	}
	k.logger.Log(ctx, slog.LevelWarn, msg, args...)
}

func normalize(cookieType string) string {
	if cookieType == "" {
		return models.DefaultCookieType
	}
	return cookieType
}
