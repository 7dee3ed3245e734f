package entity

import "slices"

// StatusEffect is a condition tag that can be toggled on an enemy.
type StatusEffect string

const (
	StatusPoison     StatusEffect = "poison"
	StatusWound      StatusEffect = "wound"
	StatusImmobilize StatusEffect = "immobilize"
	StatusDisarm     StatusEffect = "disarm"
	StatusStun       StatusEffect = "stun"
	StatusMuddle     StatusEffect = "muddle"
	StatusStrengthen StatusEffect = "strengthen"
	StatusShield     StatusEffect = "shield"
)

// StatusEffects lists every status effect in display order.
var StatusEffects = []StatusEffect{
	StatusPoison,
	StatusWound,
	StatusImmobilize,
	StatusDisarm,
	StatusStun,
	StatusMuddle,
	StatusStrengthen,
	StatusShield,
}

// Valid reports whether s is a known status effect.
func (s StatusEffect) Valid() bool {
	return slices.Contains(StatusEffects, s)
}

// Abbrev returns a short tag for compact rendering.
func (s StatusEffect) Abbrev() string {
	switch s {
	case StatusPoison:
		return "PSN"
	case StatusWound:
		return "WND"
	case StatusImmobilize:
		return "IMB"
	case StatusDisarm:
		return "DSR"
	case StatusStun:
		return "STN"
	case StatusMuddle:
		return "MDL"
	case StatusStrengthen:
		return "STR"
	case StatusShield:
		return "SHD"
	default:
		return "???"
	}
}
