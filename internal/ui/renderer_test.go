package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/roster"
)

func newTestScreen(t *testing.T) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom failed: %v", err)
	}
	sim.SetSize(80, 24)
	t.Cleanup(screen.Close)
	return screen
}

func testRoster() roster.Roster {
	return roster.Roster{
		{ID: "a", Name: "Orc", Number: 1, Type: entity.EnemyElite, MaxHP: 10, CurrentHP: 6, Statuses: []entity.StatusEffect{entity.StatusPoison}},
		{ID: "b", Name: "Orc", Number: 2, Type: entity.EnemyNormal, MaxHP: 5, CurrentHP: 5, Statuses: []entity.StatusEffect{entity.StatusStun}, IsCollapsed: true},
	}
}

func TestRenderHeaderAndCards(t *testing.T) {
	screen := newTestScreen(t)
	r := NewRenderer(screen)

	r.Render(View{
		Enemies:      testRoster(),
		TotalEnemies: 2,
		TotalHP:      11,
		Message:      "Added Orc",
		Help:         "a add  q quit",
	})

	if got := screen.Line(0); !strings.Contains(got, "Enemies: 2  Total HP: 11") {
		t.Errorf("header = %q, want totals", got)
	}

	expanded := screen.Line(2)
	if !strings.Contains(expanded, "Orc #1") || !strings.Contains(expanded, "[elite]") || !strings.Contains(expanded, "6/10") {
		t.Errorf("expanded card = %q", expanded)
	}
	if got := screen.Line(3); !strings.Contains(got, "1:PSN") || !strings.Contains(got, "8:SHD") {
		t.Errorf("status row = %q, want every toggle listed", got)
	}

	collapsed := screen.Line(4)
	if !strings.Contains(collapsed, "Orc #2") || !strings.Contains(collapsed, "STN") || strings.Contains(collapsed, "[normal]") {
		t.Errorf("collapsed card = %q", collapsed)
	}

	if got := screen.Line(22); !strings.Contains(got, "Added Orc") {
		t.Errorf("message line = %q", got)
	}
	if got := screen.Line(23); !strings.Contains(got, "a add  q quit") {
		t.Errorf("help line = %q", got)
	}
}

func TestRenderObjectiveHasNoStatusToggles(t *testing.T) {
	screen := newTestScreen(t)
	r := NewRenderer(screen)

	r.Render(View{
		Enemies: roster.Roster{{ID: "o", Name: "Door", Number: 1, Type: entity.EnemyObjective, MaxHP: 8, CurrentHP: 8}},
	})

	if got := screen.Line(3); strings.Contains(got, "PSN") {
		t.Errorf("objective row = %q, want no status toggles", got)
	}
}

func TestRenderEmptyRoster(t *testing.T) {
	screen := newTestScreen(t)
	NewRenderer(screen).Render(View{})

	if got := screen.Line(2); !strings.Contains(got, "No enemies") {
		t.Errorf("empty roster line = %q", got)
	}
}

func TestRenderPanel(t *testing.T) {
	screen := newTestScreen(t)
	NewRenderer(screen).Render(View{
		Panel: &Panel{Title: "Clear roster?", Lines: []string{"y: clear  n: keep"}, Selected: -1},
	})

	var found bool
	for y := 0; y < 24; y++ {
		if strings.Contains(screen.Line(y), "Clear roster?") {
			found = true
			if !strings.Contains(screen.Line(y+1), "y: clear  n: keep") {
				t.Errorf("panel body = %q", screen.Line(y+1))
			}
		}
	}
	if !found {
		t.Error("panel title not drawn")
	}
}

func TestFirstVisible(t *testing.T) {
	enemies := make(roster.Roster, 10) // all expanded, two rows each

	tests := []struct {
		name   string
		cursor int
		rows   int
		want   int
	}{
		{"fits", 3, 20, 0},
		{"scrolls to cursor", 9, 6, 7},
		{"cursor out of range", 42, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstVisible(enemies, tt.cursor, tt.rows); got != tt.want {
				t.Errorf("firstVisible(cursor=%d, rows=%d) = %d, want %d", tt.cursor, tt.rows, got, tt.want)
			}
		})
	}
}

func TestHPBar(t *testing.T) {
	tests := []struct {
		current, max int
		filled       int
	}{
		{10, 10, barWidth},
		{0, 10, 0},
		{5, 10, barWidth / 2},
		{1, 100, 1},
	}
	for _, tt := range tests {
		bar := hpBar(tt.current, tt.max)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("hpBar(%d, %d) filled = %d, want %d", tt.current, tt.max, got, tt.filled)
		}
		if got := len([]rune(bar)); got != barWidth {
			t.Errorf("hpBar(%d, %d) width = %d, want %d", tt.current, tt.max, got, barWidth)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	if _, err := ParseHexColor("#b8862a"); err != nil {
		t.Errorf("ParseHexColor(#b8862a) error: %v", err)
	}
	for _, bad := range []string{"", "#fff", "#zz0000"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) expected error", bad)
		}
	}
}

func TestDrawTextWideRunes(t *testing.T) {
	screen := newTestScreen(t)

	end := screen.DrawText(0, 0, "日本x", tcell.StyleDefault)
	if end != 5 {
		t.Errorf("DrawText end column = %d, want 5", end)
	}
	if got := []rune(screen.Line(0))[4]; got != 'x' {
		t.Errorf("column 4 = %q, want 'x' after two wide runes", got)
	}
	if end := screen.DrawText(0, 1, "Orc", tcell.StyleDefault); end != 3 {
		t.Errorf("DrawText(Orc) end column = %d, want 3", end)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Orc", 5, "Orc  "},
		{"Goblin Archer", 6, "Goblin"},
		{"日本語", 5, "日本 "},
		{"日本", 4, "日本"},
	}
	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
