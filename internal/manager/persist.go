package manager

import (
	"context"
	"fmt"
)

// nextGeneration must be called with m.mu held.
func (m *Manager) nextGeneration(key string) uint64 {
	m.issued[key]++
	return m.issued[key]
}

// scheduleWrite saves blob on its own goroutine. Failures are logged and
// dropped: each mutation gets exactly one best-effort attempt, and a
// generation older than one already attempted is skipped.
func (m *Manager) scheduleWrite(ctx context.Context, key, blob string, gen uint64) {
	w := m.writers[key]
	ctx = context.WithoutCancel(ctx)

	m.writes.Add(1)
	go func() {
		defer m.writes.Done()

		w.mu.Lock()
		defer w.mu.Unlock()
		if gen <= w.attempted {
			m.logger.Debug("skipping stale write", "key", key, "generation", gen)
			return
		}
		w.attempted = gen

		if err := m.store.Save(ctx, key, blob); err != nil {
			m.logger.Warn("persist failed", "key", key, "generation", gen, "error", err)
		}
	}()
}

// Flush blocks until every scheduled write-back has finished or ctx is done.
// Write failures are never reported here.
func (m *Manager) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.writes.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush: %w", ctx.Err())
	}
}
