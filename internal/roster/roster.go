// Package roster implements the enemy roster state machine: display number
// assignment, health and status mutation, and auto-removal of defeated enemies.
//
// Every operation is copy-on-write. A Roster passed in is never modified; the
// returned Roster is a fresh slice so a reader holding the old one always sees
// a complete snapshot.
package roster

import (
	"slices"

	"github.com/samdwyer/warband/internal/entity"
)

// Roster is the ordered sequence of enemies. Order is insertion order.
type Roster []entity.Enemy

// Len returns the number of enemies in the roster.
func (r Roster) Len() int { return len(r) }

// TotalHP returns the sum of CurrentHP over every enemy present.
func (r Roster) TotalHP() int {
	total := 0
	for _, e := range r {
		total += e.CurrentHP
	}
	return total
}

// Find returns the enemy with the given id.
func (r Roster) Find(id string) (entity.Enemy, bool) {
	if i := r.index(id); i >= 0 {
		return r[i].Clone(), true
	}
	return entity.Enemy{}, false
}

// AllCollapsed reports whether every enemy is collapsed. An empty roster counts as collapsed.
func (r Roster) AllCollapsed() bool {
	for _, e := range r {
		if !e.IsCollapsed {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	if r == nil {
		return Roster{}
	}
	out := make(Roster, len(r))
	for i, e := range r {
		out[i] = e.Clone()
	}
	return out
}

func (r Roster) index(id string) int {
	return slices.IndexFunc(r, func(e entity.Enemy) bool { return e.ID == id })
}

// replace returns a copy of r with the enemy at i swapped for e.
func (r Roster) replace(i int, e entity.Enemy) Roster {
	out := slices.Clone(r)
	out[i] = e
	return out
}

// NextNumber returns the smallest positive integer not used as a number by
// any enemy in enemies whose name equals name.
func NextNumber(enemies []entity.Enemy, name string) int {
	used := make(map[int]struct{})
	for _, e := range enemies {
		if e.Name == name {
			used[e.Number] = struct{}{}
		}
	}
	for n := 1; ; n++ {
		if _, taken := used[n]; !taken {
			return n
		}
	}
}
