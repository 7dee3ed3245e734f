package manager

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/roster"
	"github.com/samdwyer/warband/internal/settings"
	"github.com/samdwyer/warband/internal/storage"
)

// AddEnemy adds quantity enemies at full health. name must already be
// trimmed and maxHP at least 1.
func (m *Manager) AddEnemy(ctx context.Context, name string, maxHP int, t entity.EnemyType, quantity int) error {
	return m.mutate(ctx, "add", func(r roster.Roster, p roster.Policy) (roster.Roster, bool) {
		return m.engine.Add(r, name, maxHP, t, quantity, p)
	},
		attribute.String("enemy.name", name),
		attribute.String("enemy.type", t.String()),
		attribute.Int("enemy.max_hp", maxHP),
		attribute.Int("quantity", quantity),
	)
}

// RemoveEnemy deletes one enemy. Unknown ids are ignored.
func (m *Manager) RemoveEnemy(ctx context.Context, id string) error {
	return m.mutate(ctx, "remove", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.Remove(r, id)
	}, attribute.String("enemy.id", id))
}

// DuplicateEnemy appends a fresh copy of an enemy under the next free number.
func (m *Manager) DuplicateEnemy(ctx context.Context, id string) error {
	return m.mutate(ctx, "duplicate", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.Duplicate(r, id)
	}, attribute.String("enemy.id", id))
}

// UpdateEnemyHP applies damage (negative delta) or healing (positive delta).
func (m *Manager) UpdateEnemyHP(ctx context.Context, id string, delta int) error {
	return m.mutate(ctx, "update_hp", func(r roster.Roster, p roster.Policy) (roster.Roster, bool) {
		return m.engine.UpdateHP(r, id, delta, p)
	}, attribute.String("enemy.id", id), attribute.Int("delta", delta))
}

// UpdateEnemyMaxHP changes an enemy's maximum health. maxHP must be at least 1.
func (m *Manager) UpdateEnemyMaxHP(ctx context.Context, id string, maxHP int) error {
	return m.mutate(ctx, "update_max_hp", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.UpdateMaxHP(r, id, maxHP)
	}, attribute.String("enemy.id", id), attribute.Int("enemy.max_hp", maxHP))
}

// UpdateEnemyName renames an enemy without renumbering it.
func (m *Manager) UpdateEnemyName(ctx context.Context, id, name string) error {
	return m.mutate(ctx, "update_name", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.UpdateName(r, id, name)
	}, attribute.String("enemy.id", id), attribute.String("enemy.name", name))
}

// UpdateEnemyNumber sets an enemy's display number directly.
func (m *Manager) UpdateEnemyNumber(ctx context.Context, id string, number int) error {
	return m.mutate(ctx, "update_number", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.UpdateNumber(r, id, number)
	}, attribute.String("enemy.id", id), attribute.Int("enemy.number", number))
}

// ToggleStatus adds or removes one status effect.
func (m *Manager) ToggleStatus(ctx context.Context, id string, s entity.StatusEffect) error {
	return m.mutate(ctx, "toggle_status", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.ToggleStatus(r, id, s)
	}, attribute.String("enemy.id", id), attribute.String("status", string(s)))
}

// ToggleCollapse flips one enemy's collapsed flag.
func (m *Manager) ToggleCollapse(ctx context.Context, id string) error {
	return m.mutate(ctx, "toggle_collapse", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.ToggleCollapse(r, id)
	}, attribute.String("enemy.id", id))
}

// CollapseAll collapses every enemy, or expands them all if all are collapsed.
func (m *Manager) CollapseAll(ctx context.Context) error {
	return m.mutate(ctx, "collapse_all", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.CollapseAll(r)
	})
}

// ClearAllEnemies empties the roster. When the confirmClear setting is on,
// confirm is consulted first and a decline (or a nil confirm) leaves the
// roster untouched. It reports whether the roster was cleared.
func (m *Manager) ClearAllEnemies(ctx context.Context, confirm Confirmer) (bool, error) {
	if !m.Ready() {
		return false, ErrNotReady
	}
	if m.Settings().ConfirmClear {
		if confirm == nil || !confirm.ConfirmClear(ctx) {
			m.logger.Debug("clear declined")
			return false, nil
		}
	}
	err := m.mutate(ctx, "clear", func(r roster.Roster, _ roster.Policy) (roster.Roster, bool) {
		return m.engine.Clear(r)
	})
	return err == nil, err
}

// UpdateSetting replaces one boolean setting. It only affects future commands.
func (m *Manager) UpdateSetting(ctx context.Context, key settings.Key, value bool) error {
	ctx, span := m.tracer.Start(ctx, "settings.update", trace.WithAttributes(
		attribute.String("setting.key", string(key)),
		attribute.Bool("setting.value", value),
	))
	defer span.End()

	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		return ErrNotReady
	}
	next, err := m.settings.With(key, value)
	if err != nil {
		m.mu.Unlock()
		span.RecordError(err)
		return err
	}
	m.settings = next
	blob, encErr := storage.Encode(next)
	gen := m.nextGeneration(storage.SettingsKey)
	m.mu.Unlock()

	if encErr != nil {
		m.logger.Warn("encode settings failed", "error", encErr)
		return nil
	}
	m.scheduleWrite(ctx, storage.SettingsKey, blob, gen)
	return nil
}

// mutate applies fn to the roster under the lock and schedules a write-back
// when fn reports a change.
func (m *Manager) mutate(ctx context.Context, op string, fn func(roster.Roster, roster.Policy) (roster.Roster, bool), attrs ...attribute.KeyValue) error {
	ctx, span := m.tracer.Start(ctx, "roster."+op, trace.WithAttributes(attrs...))
	defer span.End()

	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("rejected", true))
		return ErrNotReady
	}
	next, changed := fn(m.enemies, m.policy())
	if !changed {
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("changed", false))
		return nil
	}
	m.enemies = next
	blob, encErr := storage.EncodeRoster(next)
	gen := m.nextGeneration(storage.EnemiesKey)
	size, totalHP := next.Len(), next.TotalHP()
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Bool("changed", true),
		attribute.Int("roster.size", size),
		attribute.Int("roster.total_hp", totalHP),
	)
	if encErr != nil {
		m.logger.Warn("encode roster failed", "error", encErr)
		return nil
	}
	m.scheduleWrite(ctx, storage.EnemiesKey, blob, gen)
	return nil
}
