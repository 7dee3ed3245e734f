// Package manager is the single entry point presentation code uses to read
// and change the roster and settings. It owns both snapshots, loads them once
// at startup, and writes each new snapshot back to storage in the background.
package manager

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/warband/internal/roster"
	"github.com/samdwyer/warband/internal/settings"
	"github.com/samdwyer/warband/internal/storage"
	"github.com/samdwyer/warband/internal/telemetry"
)

// ErrNotReady is returned by commands issued before Load has completed.
var ErrNotReady = errors.New("manager not loaded")

// Confirmer asks the user whether the roster may be cleared.
type Confirmer interface {
	ConfirmClear(ctx context.Context) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context) bool

// ConfirmClear calls f.
func (f ConfirmFunc) ConfirmClear(ctx context.Context) bool { return f(ctx) }

// Snapshot is an immutable view of the manager state at one point in time.
type Snapshot struct {
	Enemies      roster.Roster
	Settings     settings.Settings
	TotalEnemies int
	TotalHP      int
	Ready        bool
}

// Manager composes the roster engine, settings and persistent store.
type Manager struct {
	store  storage.Store
	engine *roster.Engine
	logger *slog.Logger
	tracer trace.Tracer

	mu       sync.Mutex
	ready    bool
	enemies  roster.Roster
	settings settings.Settings
	issued   map[string]uint64

	writers map[string]*keyWriter
	writes  sync.WaitGroup
}

// keyWriter serializes write-backs for one key and remembers the newest
// generation attempted so an older snapshot never lands after a newer one.
type keyWriter struct {
	mu        sync.Mutex
	attempted uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEngine replaces the roster engine, e.g. to control id generation.
func WithEngine(engine *roster.Engine) Option {
	return func(m *Manager) {
		if engine != nil {
			m.engine = engine
		}
	}
}

// WithTracer sets the tracer used for command spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// New creates a manager backed by store. The roster is empty and settings are
// defaults until Load completes; commands return ErrNotReady until then.
func New(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		engine:   roster.NewEngine(),
		logger:   slog.Default(),
		tracer:   telemetry.Tracer("manager"),
		enemies:  roster.Roster{},
		settings: settings.Default(),
		issued:   make(map[string]uint64),
		writers: map[string]*keyWriter{
			storage.SettingsKey: {},
			storage.EnemiesKey:  {},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ready reports whether Load has completed.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Enemies:      m.enemies.Clone(),
		Settings:     m.settings,
		TotalEnemies: m.enemies.Len(),
		TotalHP:      m.enemies.TotalHP(),
		Ready:        m.ready,
	}
}

// Enemies returns a copy of the roster.
func (m *Manager) Enemies() roster.Roster {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enemies.Clone()
}

// Settings returns the current settings.
func (m *Manager) Settings() settings.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// TotalEnemies returns the roster length.
func (m *Manager) TotalEnemies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enemies.Len()
}

// TotalHP returns the sum of current HP over the roster.
func (m *Manager) TotalHP() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enemies.TotalHP()
}

func (m *Manager) policy() roster.Policy {
	return roster.Policy{
		AutoRemoveDead: m.settings.AutoRemoveDead,
		CompactCards:   m.settings.CompactCards,
	}
}
