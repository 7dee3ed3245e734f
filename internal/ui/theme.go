package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/warband/internal/entity"
)

// typeColors maps each enemy type to its badge color.
var typeColors = map[entity.EnemyType]string{
	entity.EnemyNormal:    "#b8862a",
	entity.EnemyElite:     "#9061e4",
	entity.EnemyBoss:      "#dc4545",
	entity.EnemyObjective: "#3cb97a",
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// TypeColor returns the badge color for an enemy type.
func TypeColor(t entity.EnemyType) tcell.Color {
	color, err := ParseHexColor(typeColors[t])
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// hpColor grades the health bar from green through yellow to red.
func hpColor(current, maxHP int) tcell.Color {
	if maxHP <= 0 {
		return tcell.ColorGray
	}
	switch pct := current * 100 / maxHP; {
	case pct > 60:
		return tcell.ColorGreen
	case pct > 30:
		return tcell.ColorYellow
	default:
		return tcell.ColorRed
	}
}
