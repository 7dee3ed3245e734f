package manager

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/warband/internal/roster"
	"github.com/samdwyer/warband/internal/settings"
	"github.com/samdwyer/warband/internal/storage"
)

// Load reads both documents in parallel and marks the manager ready. A missing
// or unreadable document falls back to its default; only cancellation of ctx
// is reported, in which case the manager stays not ready. Only the first Load
// to finish installs state; later or overlapping calls leave live state alone.
func (m *Manager) Load(ctx context.Context) error {
	if m.Ready() {
		return nil
	}
	ctx, span := m.tracer.Start(ctx, "manager.load")
	defer span.End()

	var (
		loadedSettings = settings.Default()
		loadedEnemies  = roster.Roster{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		blob, ok := m.loadBlob(gctx, storage.SettingsKey)
		if !ok {
			return gctx.Err()
		}
		s, err := storage.DecodeSettings(blob)
		if err != nil {
			m.logger.Warn("discarding unreadable settings", "key", storage.SettingsKey, "error", err)
			return nil
		}
		loadedSettings = s
		return nil
	})
	g.Go(func() error {
		blob, ok := m.loadBlob(gctx, storage.EnemiesKey)
		if !ok {
			return gctx.Err()
		}
		r, err := storage.DecodeRoster(blob)
		if err != nil {
			m.logger.Warn("discarding unreadable roster", "key", storage.EnemiesKey, "error", err)
			return nil
		}
		loadedEnemies = r
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.ready {
		// An overlapping Load finished first and commands may already have run.
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("superseded", true))
		return nil
	}
	m.settings = loadedSettings
	m.enemies = loadedEnemies
	m.ready = true
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Int("roster.size", loadedEnemies.Len()),
		attribute.Int("roster.total_hp", loadedEnemies.TotalHP()),
	)
	m.logger.Info("state loaded", "enemies", loadedEnemies.Len())
	return nil
}

// loadBlob returns the stored blob, or false when absent or unreadable.
func (m *Manager) loadBlob(ctx context.Context, key string) (string, bool) {
	blob, err := m.store.Load(ctx, key)
	switch {
	case err == nil:
		return blob, true
	case errors.Is(err, storage.ErrNotFound):
		m.logger.Debug("no stored state", "key", key)
	default:
		m.logger.Warn("load failed, using defaults", "key", key, "error", err)
	}
	return "", false
}
