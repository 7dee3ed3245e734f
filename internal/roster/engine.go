package roster

import (
	"slices"

	"github.com/google/uuid"

	"github.com/samdwyer/warband/internal/entity"
)

// Policy carries the settings that modulate engine behavior.
type Policy struct {
	AutoRemoveDead bool // Remove an enemy whose HP reaches 0
	CompactCards   bool // New enemies from Add start collapsed
}

// Engine applies mutations to a Roster. It is stateless apart from its id source.
type Engine struct {
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides the id source. Ids must never repeat.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// NewEngine creates an engine that issues random UUIDs.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add appends quantity new enemies at full health. Each number is computed
// against the roster plus the enemies already created earlier in this call.
// An empty name or a quantity below 1 is a no-op. maxHP >= 1 is a precondition.
func (eng *Engine) Add(r Roster, name string, maxHP int, t entity.EnemyType, quantity int, p Policy) (Roster, bool) {
	if name == "" || quantity < 1 {
		return r, false
	}

	out := make(Roster, len(r), len(r)+quantity)
	copy(out, r)
	for range quantity {
		out = append(out, entity.Enemy{
			ID:          eng.newID(),
			Name:        name,
			Number:      NextNumber(out, name),
			Type:        t,
			MaxHP:       maxHP,
			CurrentHP:   maxHP,
			Statuses:    []entity.StatusEffect{},
			IsCollapsed: p.CompactCards,
		})
	}
	return out, true
}

// Remove deletes the enemy with the given id.
func (eng *Engine) Remove(r Roster, id string) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	return slices.Delete(slices.Clone(r), i, i+1), true
}

// Duplicate appends a fully healed, expanded, status-free copy of the enemy
// with the lowest number free for its name. The source keeps its own number.
func (eng *Engine) Duplicate(r Roster, id string) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	src := r[i]
	clone := entity.Enemy{
		ID:          eng.newID(),
		Name:        src.Name,
		Number:      NextNumber(r, src.Name),
		Type:        src.Type,
		MaxHP:       src.MaxHP,
		CurrentHP:   src.MaxHP,
		Statuses:    []entity.StatusEffect{},
		IsCollapsed: false,
	}
	out := make(Roster, len(r), len(r)+1)
	copy(out, r)
	return append(out, clone), true
}

// UpdateHP adds delta to the enemy's current HP, clamped into [0, MaxHP].
// When the result is 0 and the policy auto-removes the dead, the enemy is
// dropped from the roster instead.
func (eng *Engine) UpdateHP(r Roster, id string, delta int, p Policy) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	updated := r[i].WithHP(r[i].CurrentHP + delta)
	if updated.CurrentHP == 0 && p.AutoRemoveDead {
		return slices.Delete(slices.Clone(r), i, i+1), true
	}
	return r.replace(i, updated), true
}

// UpdateMaxHP sets MaxHP and lowers CurrentHP to fit. maxHP >= 1 is a precondition.
func (eng *Engine) UpdateMaxHP(r Roster, id string, maxHP int) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	return r.replace(i, r[i].WithMaxHP(maxHP)), true
}

// UpdateName renames the enemy. The number is kept as is, so it may collide
// with an enemy already using it under the new name.
func (eng *Engine) UpdateName(r Roster, id, name string) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	e := r[i].Clone()
	e.Name = name
	return r.replace(i, e), true
}

// UpdateNumber sets the display number directly without a uniqueness check.
func (eng *Engine) UpdateNumber(r Roster, id string, number int) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	e := r[i].Clone()
	e.Number = number
	return r.replace(i, e), true
}

// ToggleStatus adds the status if absent and removes it if present.
func (eng *Engine) ToggleStatus(r Roster, id string, s entity.StatusEffect) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	return r.replace(i, r[i].WithStatusToggled(s)), true
}

// ToggleCollapse flips the collapsed flag of one enemy.
func (eng *Engine) ToggleCollapse(r Roster, id string) (Roster, bool) {
	i := r.index(id)
	if i < 0 {
		return r, false
	}
	e := r[i].Clone()
	e.IsCollapsed = !e.IsCollapsed
	return r.replace(i, e), true
}

// CollapseAll expands every enemy when all are collapsed, otherwise collapses every enemy.
func (eng *Engine) CollapseAll(r Roster) (Roster, bool) {
	collapse := !r.AllCollapsed()
	out := make(Roster, len(r))
	for i, e := range r {
		e = e.Clone()
		e.IsCollapsed = collapse
		out[i] = e
	}
	return out, true
}

// Clear returns an empty roster.
func (eng *Engine) Clear(_ Roster) (Roster, bool) {
	return Roster{}, true
}
