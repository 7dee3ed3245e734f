// Package entity provides the enemy combatants tracked during a session.
package entity

import (
	"slices"
	"strconv"
)

// EnemyType represents the rank of an enemy.
type EnemyType string

const (
	EnemyNormal    EnemyType = "normal"
	EnemyElite     EnemyType = "elite"
	EnemyBoss      EnemyType = "boss"
	EnemyObjective EnemyType = "objective"
)

// EnemyTypes lists every enemy type in display order.
var EnemyTypes = []EnemyType{EnemyNormal, EnemyElite, EnemyBoss, EnemyObjective}

// String returns the enemy type name.
func (t EnemyType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known enemy types.
func (t EnemyType) Valid() bool {
	return slices.Contains(EnemyTypes, t)
}

// Symbol returns the default display symbol for an enemy type.
func (t EnemyType) Symbol() rune {
	switch t {
	case EnemyNormal:
		return 'n'
	case EnemyElite:
		return 'E'
	case EnemyBoss:
		return 'B'
	case EnemyObjective:
		return 'O'
	default:
		return '?'
	}
}

// HasStatuses reports whether the presentation offers status toggles for this type.
// Objectives never show them; the engine itself does not enforce this.
func (t EnemyType) HasStatuses() bool {
	return t != EnemyObjective
}

// Enemy is one combatant instance. Values are treated as immutable: every
// mutation in the roster produces a replacement value.
type Enemy struct {
	ID          string         `json:"id"`          // Opaque unique identifier, never reused
	Name        string         `json:"name"`        // Free-text label, not unique
	Number      int            `json:"number"`      // Unique among enemies sharing Name
	Type        EnemyType      `json:"type"`        // normal, elite, boss or objective
	MaxHP       int            `json:"maxHp"`       // At least 1
	CurrentHP   int            `json:"currentHp"`   // Clamped into [0, MaxHP]
	Statuses    []StatusEffect `json:"statuses"`    // Set of active status tags, insertion ordered
	IsCollapsed bool           `json:"isCollapsed"` // Display state, persisted
}

// Clone returns a copy of e that shares no memory with it.
func (e Enemy) Clone() Enemy {
	e.Statuses = slices.Clone(e.Statuses)
	if e.Statuses == nil {
		e.Statuses = []StatusEffect{}
	}
	return e
}

// Label returns the display label, e.g. "Bandit #3".
func (e Enemy) Label() string {
	return e.Name + " #" + strconv.Itoa(e.Number)
}

// IsAlive returns true if the enemy has HP remaining.
func (e Enemy) IsAlive() bool { return e.CurrentHP > 0 }

// HasStatus reports whether the status is active on the enemy.
func (e Enemy) HasStatus(s StatusEffect) bool {
	return slices.Contains(e.Statuses, s)
}

// WithHP returns a copy with CurrentHP set to hp clamped into [0, MaxHP].
func (e Enemy) WithHP(hp int) Enemy {
	e = e.Clone()
	e.CurrentHP = max(0, min(e.MaxHP, hp))
	return e
}

// WithMaxHP returns a copy with MaxHP replaced and CurrentHP re-clamped.
func (e Enemy) WithMaxHP(maxHP int) Enemy {
	e = e.Clone()
	e.MaxHP = maxHP
	e.CurrentHP = min(e.CurrentHP, maxHP)
	return e
}

// WithStatusToggled returns a copy with s added if absent or removed if present.
func (e Enemy) WithStatusToggled(s StatusEffect) Enemy {
	e = e.Clone()
	if i := slices.Index(e.Statuses, s); i >= 0 {
		e.Statuses = slices.Delete(e.Statuses, i, i+1)
	} else {
		e.Statuses = append(e.Statuses, s)
	}
	return e
}
