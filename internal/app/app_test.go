package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/manager"
	"github.com/samdwyer/warband/internal/settings"
	"github.com/samdwyer/warband/internal/storage/memory"
	"github.com/samdwyer/warband/internal/ui"
)

type harness struct {
	app     *App
	sim     tcell.SimulationScreen
	manager *manager.Manager
}

func newHarness(t *testing.T, load bool) *harness {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom failed: %v", err)
	}
	sim.SetSize(100, 30)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := manager.New(memory.NewStore(), manager.WithLogger(logger))
	if load {
		if err := m.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	a := New(screen, m, nil, logger)
	if load {
		a.mode = ModeRoster
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Flush(ctx); err != nil {
			t.Errorf("Flush failed: %v", err)
		}
		a.Close()
	})
	return &harness{app: a, sim: sim, manager: m}
}

func (h *harness) key(k tcell.Key) {
	h.app.handleKeyEvent(context.Background(), tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (h *harness) runes(s string) {
	for _, r := range s {
		h.app.handleKeyEvent(context.Background(), tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (h *harness) addEnemies(t *testing.T, name string, maxHP int, quantity int) {
	t.Helper()
	if err := h.manager.AddEnemy(context.Background(), name, maxHP, entity.EnemyNormal, quantity); err != nil {
		t.Fatalf("AddEnemy failed: %v", err)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeLoading, "loading"},
		{ModeRoster, "roster"},
		{ModeAdd, "add"},
		{ModePrompt, "prompt"},
		{ModeSettings, "settings"},
		{ModeHelp, "help"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}
}

func TestAddFlow(t *testing.T) {
	h := newHarness(t, true)

	h.runes("a")
	if h.app.Mode() != ModeAdd {
		t.Fatalf("mode = %v, want add", h.app.Mode())
	}
	h.runes("Goblin")
	h.key(tcell.KeyTab)
	h.runes("6")
	h.key(tcell.KeyTab) // type
	h.key(tcell.KeyRight)
	h.key(tcell.KeyTab) // quantity
	h.key(tcell.KeyRight)
	h.key(tcell.KeyRight)
	h.key(tcell.KeyEnter)

	if h.app.Mode() != ModeRoster {
		t.Fatalf("mode after submit = %v, want roster", h.app.Mode())
	}
	snap := h.manager.Snapshot()
	if snap.TotalEnemies != 3 || snap.TotalHP != 18 {
		t.Fatalf("totals = %d enemies / %d HP, want 3 / 18", snap.TotalEnemies, snap.TotalHP)
	}
	for i, e := range snap.Enemies {
		if e.Name != "Goblin" || e.Number != i+1 || e.Type != entity.EnemyElite {
			t.Errorf("enemy %d = %+v", i, e)
		}
	}
	if h.app.cursor != 2 {
		t.Errorf("cursor = %d, want last added enemy", h.app.cursor)
	}
}

func TestAddFlowRejectsEmptyName(t *testing.T) {
	h := newHarness(t, true)

	h.runes("a")
	h.key(tcell.KeyEnter)

	if h.app.Mode() != ModeAdd {
		t.Errorf("mode = %v, want form to stay open", h.app.Mode())
	}
	if h.app.message != ErrEmptyName.Error() {
		t.Errorf("message = %q, want %q", h.app.message, ErrEmptyName.Error())
	}
	h.key(tcell.KeyEscape)
	if h.app.Mode() != ModeRoster || h.manager.TotalEnemies() != 0 {
		t.Errorf("escape: mode = %v, enemies = %d", h.app.Mode(), h.manager.TotalEnemies())
	}
}

func TestHPKeys(t *testing.T) {
	h := newHarness(t, true)
	h.addEnemies(t, "Orc", 10, 1)

	h.runes("D")
	h.runes("-")
	if got := h.manager.Enemies()[0].CurrentHP; got != 4 {
		t.Errorf("CurrentHP after -5 and -1 = %d, want 4", got)
	}
	h.runes("h+")
	if got := h.manager.Enemies()[0].CurrentHP; got != 7 {
		t.Errorf("CurrentHP after +2 and +1 = %d, want 7", got)
	}
}

func TestStatusKeysSkipObjectives(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.addEnemies(t, "Orc", 5, 1)
	if err := h.manager.AddEnemy(ctx, "Altar", 6, entity.EnemyObjective, 1); err != nil {
		t.Fatalf("AddEnemy failed: %v", err)
	}

	h.runes("1")
	if got := h.manager.Enemies()[0].Statuses; len(got) != 1 || got[0] != entity.StatusPoison {
		t.Errorf("Orc statuses = %v, want [poison]", got)
	}

	h.key(tcell.KeyDown)
	h.runes("5")
	if got := h.manager.Enemies()[1].Statuses; len(got) != 0 {
		t.Errorf("objective statuses = %v, want none", got)
	}
}

func TestCursorClampsAfterRemove(t *testing.T) {
	h := newHarness(t, true)
	h.addEnemies(t, "Orc", 5, 2)

	h.key(tcell.KeyDown)
	h.key(tcell.KeyDown)
	h.runes("x")
	if got := h.manager.TotalEnemies(); got != 1 {
		t.Fatalf("TotalEnemies = %d, want 1", got)
	}
	h.app.render()
	if h.app.cursor != 0 {
		t.Errorf("cursor = %d, want 0", h.app.cursor)
	}
	if e, ok := h.app.selected(); !ok || e.Number != 1 {
		t.Errorf("selected = %+v, %v", e, ok)
	}
}

func TestDuplicateAndCollapse(t *testing.T) {
	h := newHarness(t, true)
	h.addEnemies(t, "Orc", 5, 1)

	h.runes("u")
	if got := h.manager.Enemies(); len(got) != 2 || got[1].Number != 2 {
		t.Fatalf("after duplicate = %+v", got)
	}
	h.runes("c")
	if !h.manager.Enemies()[0].IsCollapsed {
		t.Error("c did not collapse the selected enemy")
	}
	h.runes("C")
	for _, e := range h.manager.Enemies() {
		if !e.IsCollapsed {
			t.Errorf("%s not collapsed after C", e.Label())
		}
	}
}

func TestPrompts(t *testing.T) {
	h := newHarness(t, true)
	h.addEnemies(t, "Orc", 5, 1)

	h.runes("r")
	if h.app.Mode() != ModePrompt || h.app.prompt.text != "Orc" {
		t.Fatalf("rename prompt = %v / %+v", h.app.Mode(), h.app.prompt)
	}
	h.key(tcell.KeyBackspace2)
	h.key(tcell.KeyBackspace2)
	h.key(tcell.KeyBackspace2)
	h.runes("Ogre")
	h.key(tcell.KeyEnter)

	h.runes("m")
	h.key(tcell.KeyBackspace2)
	h.runes("12")
	h.key(tcell.KeyEnter)

	h.runes("n")
	h.key(tcell.KeyBackspace2)
	h.runes("0")
	h.key(tcell.KeyEnter)
	if h.app.Mode() != ModePrompt {
		t.Fatalf("invalid number closed the prompt")
	}
	h.key(tcell.KeyBackspace2)
	h.runes("4")
	h.key(tcell.KeyEnter)

	if h.app.message != "Updated Ogre #4" {
		t.Errorf("message = %q, want %q", h.app.message, "Updated Ogre #4")
	}
	e := h.manager.Enemies()[0]
	if e.Name != "Ogre" || e.MaxHP != 12 || e.CurrentHP != 5 || e.Number != 4 {
		t.Errorf("edited enemy = %+v", e)
	}
	if h.app.Mode() != ModeRoster {
		t.Errorf("mode = %v, want roster", h.app.Mode())
	}
}

func TestSettingsMode(t *testing.T) {
	h := newHarness(t, true)

	h.runes("s")
	h.key(tcell.KeyDown)
	h.key(tcell.KeyDown)
	h.runes(" ")
	h.key(tcell.KeyEscape)

	if got := h.manager.Settings(); !got.CompactCards {
		t.Errorf("settings = %+v, want compactCards on", got)
	}
	h.addEnemies(t, "Orc", 5, 1)
	if !h.manager.Enemies()[0].IsCollapsed {
		t.Error("new enemy not collapsed with compactCards on")
	}
}

func TestClearConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		answer  rune
		cleared bool
	}{
		{"accept", 'y', true},
		{"decline", 'n', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			h.addEnemies(t, "Orc", 5, 2)

			h.sim.InjectKey(tcell.KeyRune, tt.answer, tcell.ModNone)
			h.runes("X")

			if got := h.manager.TotalEnemies() == 0; got != tt.cleared {
				t.Errorf("cleared = %v, want %v", got, tt.cleared)
			}
		})
	}
}

func TestClearWithoutConfirmation(t *testing.T) {
	h := newHarness(t, true)
	if err := h.manager.UpdateSetting(context.Background(), settings.KeyConfirmClear, false); err != nil {
		t.Fatalf("UpdateSetting failed: %v", err)
	}
	h.addEnemies(t, "Orc", 5, 2)

	h.runes("X")
	if got := h.manager.TotalEnemies(); got != 0 {
		t.Errorf("TotalEnemies = %d, want 0", got)
	}
}

func TestConfirmAnswer(t *testing.T) {
	tests := []struct {
		key    tcell.Key
		ch     rune
		answer bool
		done   bool
	}{
		{tcell.KeyRune, 'y', true, true},
		{tcell.KeyRune, 'N', false, true},
		{tcell.KeyEscape, 0, false, true},
		{tcell.KeyRune, 'z', false, false},
		{tcell.KeyEnter, 0, false, false},
	}
	for _, tt := range tests {
		answer, done := confirmAnswer(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone))
		if answer != tt.answer || done != tt.done {
			t.Errorf("confirmAnswer(%v, %q) = %v, %v, want %v, %v", tt.key, tt.ch, answer, done, tt.answer, tt.done)
		}
	}
}

func TestRunLoadsThenQuits(t *testing.T) {
	h := newHarness(t, false)

	done := make(chan error, 1)
	go func() { done <- h.app.Run(context.Background()) }()

	deadline := time.After(5 * time.Second)
	for !h.manager.Ready() {
		select {
		case <-deadline:
			t.Fatal("manager never loaded")
		case <-time.After(10 * time.Millisecond):
		}
	}
	h.sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after q")
	}
}

func TestCommandsWhileLoading(t *testing.T) {
	h := newHarness(t, false)

	h.runes("a")
	if h.app.Mode() != ModeLoading {
		t.Errorf("mode = %v, want loading to ignore keys", h.app.Mode())
	}
	h.app.handleEvent(context.Background(), &loadedEvent{})
	if h.app.Mode() != ModeRoster {
		t.Errorf("mode after load = %v, want roster", h.app.Mode())
	}
}

func TestConfirmDialogSurvivesResize(t *testing.T) {
	h := newHarness(t, true)
	h.addEnemies(t, "Orc", 5, 1)

	h.sim.SetSize(120, 30)
	if err := h.sim.PostEvent(tcell.NewEventResize(120, 30)); err != nil {
		t.Fatalf("PostEvent failed: %v", err)
	}
	h.sim.InjectKey(tcell.KeyRune, 'y', tcell.ModNone)

	if !h.app.ConfirmClear(context.Background()) {
		t.Fatal("ConfirmClear = false after resize then y, want true")
	}
	if w, _ := h.app.screen.Size(); w != 120 {
		t.Errorf("screen width = %d, want 120", w)
	}
}

func TestDialogAnswer(t *testing.T) {
	h := newHarness(t, true)

	if answer, done := h.app.dialogAnswer(nil); answer || !done {
		t.Errorf("dialogAnswer(nil) = %v, %v, want decline", answer, done)
	}
	if _, done := h.app.dialogAnswer(tcell.NewEventResize(90, 25)); done {
		t.Error("dialogAnswer(resize) ended the dialog")
	}
	if answer, done := h.app.dialogAnswer(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone)); !answer || !done {
		t.Errorf("dialogAnswer(y) = %v, %v, want accept", answer, done)
	}
}
