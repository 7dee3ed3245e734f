package entity

import (
	"encoding/json"
	"testing"
)

func TestEnemyTypeValid(t *testing.T) {
	tests := []struct {
		input EnemyType
		valid bool
	}{
		{EnemyNormal, true},
		{EnemyElite, true},
		{EnemyBoss, true},
		{EnemyObjective, true},
		{EnemyType("minion"), false},
		{EnemyType(""), false},
	}

	for _, tt := range tests {
		if got := tt.input.Valid(); got != tt.valid {
			t.Errorf("EnemyType(%q).Valid() = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestEnemyWithHPClamps(t *testing.T) {
	e := Enemy{MaxHP: 10, CurrentHP: 5}

	if got := e.WithHP(100).CurrentHP; got != 10 {
		t.Errorf("WithHP(100).CurrentHP = %d, want 10", got)
	}
	if got := e.WithHP(-4).CurrentHP; got != 0 {
		t.Errorf("WithHP(-4).CurrentHP = %d, want 0", got)
	}
	if e.CurrentHP != 5 {
		t.Errorf("original CurrentHP changed to %d", e.CurrentHP)
	}
}

func TestEnemyWithMaxHPReclamps(t *testing.T) {
	e := Enemy{MaxHP: 10, CurrentHP: 8}

	lowered := e.WithMaxHP(4)
	if lowered.MaxHP != 4 || lowered.CurrentHP != 4 {
		t.Errorf("WithMaxHP(4) = %d/%d, want 4/4", lowered.CurrentHP, lowered.MaxHP)
	}

	raised := e.WithMaxHP(20)
	if raised.MaxHP != 20 || raised.CurrentHP != 8 {
		t.Errorf("WithMaxHP(20) = %d/%d, want 8/20", raised.CurrentHP, raised.MaxHP)
	}
}

func TestEnemyWithStatusToggledDoesNotAlias(t *testing.T) {
	statuses := make([]StatusEffect, 1, 4)
	statuses[0] = StatusStun
	e := Enemy{Statuses: statuses}

	a := e.WithStatusToggled(StatusPoison)
	b := e.WithStatusToggled(StatusWound)

	if !a.HasStatus(StatusPoison) || a.HasStatus(StatusWound) {
		t.Errorf("a.Statuses = %v, want [stun poison]", a.Statuses)
	}
	if !b.HasStatus(StatusWound) || b.HasStatus(StatusPoison) {
		t.Errorf("b.Statuses = %v, want [stun wound]", b.Statuses)
	}
	if len(e.Statuses) != 1 {
		t.Errorf("original Statuses = %v, want [stun]", e.Statuses)
	}
}

func TestEnemyLabel(t *testing.T) {
	e := Enemy{Name: "Bandit Guard", Number: 12}
	if got := e.Label(); got != "Bandit Guard #12" {
		t.Errorf("Label() = %q, want %q", got, "Bandit Guard #12")
	}
}

func TestEnemyJSONFieldNames(t *testing.T) {
	e := Enemy{
		ID:          "abc",
		Name:        "Orc",
		Number:      2,
		Type:        EnemyElite,
		MaxHP:       9,
		CurrentHP:   4,
		Statuses:    []StatusEffect{StatusPoison},
		IsCollapsed: true,
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"id":"abc","name":"Orc","number":2,"type":"elite","maxHp":9,"currentHp":4,"statuses":["poison"],"isCollapsed":true}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestStatusEffectAbbrevUnique(t *testing.T) {
	seen := map[string]StatusEffect{}
	for _, s := range StatusEffects {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false", s)
		}
		if other, ok := seen[s.Abbrev()]; ok {
			t.Errorf("%q and %q share abbreviation %q", s, other, s.Abbrev())
		}
		seen[s.Abbrev()] = s
	}
}
