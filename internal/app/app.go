package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/warband/internal/bestiary"
	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/manager"
	"github.com/samdwyer/warband/internal/settings"
	"github.com/samdwyer/warband/internal/telemetry"
	"github.com/samdwyer/warband/internal/ui"
)

const rosterHelp = "a add  -/+ hp  1-8 status  c fold  u dup  x del  X clear  s settings  ? keys  q quit"

var settingLabels = map[settings.Key]string{
	settings.KeyConfirmClear:   "Confirm before clearing",
	settings.KeyAutoRemoveDead: "Remove enemies at 0 HP",
	settings.KeyCompactCards:   "New enemies start folded",
}

// hpKeys maps runes to HP deltas, mirroring the -5/-2/-1/+1/+2/+5 buttons.
var hpKeys = map[rune]int{
	'-': -1, '+': 1, '=': 1,
	'd': -2, 'h': 2,
	'D': -5, 'H': 5,
}

// loadedEvent is posted once the manager has finished loading.
type loadedEvent struct {
	tcell.EventTime
	err error
}

// App holds the presentation state around a Manager.
type App struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	manager  *manager.Manager
	bestiary *bestiary.Registry
	logger   *slog.Logger
	tracer   trace.Tracer

	mode           Mode
	cursor         int
	settingsCursor int
	message        string
	form           *addForm
	prompt         *prompt
	running        bool
}

// New creates an app drawing to screen. reg may be nil to disable presets.
func New(screen *ui.Screen, m *manager.Manager, reg *bestiary.Registry, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		manager:  m,
		bestiary: reg,
		logger:   logger,
		tracer:   telemetry.Tracer("app"),
		mode:     ModeLoading,
		running:  true,
	}
}

// Mode returns the current input mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Run loads stored state in the background and processes input until the
// user quits or the screen is finalized.
func (a *App) Run(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "app.run")
	defer span.End()

	if a.manager.Ready() {
		a.mode = ModeRoster
	} else {
		go func() {
			ev := &loadedEvent{err: a.manager.Load(ctx)}
			ev.SetEventNow()
			if err := a.screen.PostEvent(ev); err != nil {
				a.logger.Warn("post load event", "error", err)
			}
		}()
	}

	for a.running {
		a.render()
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		a.handleEvent(ctx, ev)
	}
	span.SetAttributes(attribute.Int("roster.size", a.manager.TotalEnemies()))
	return nil
}

// Close cleans up app resources.
func (a *App) Close() {
	if a.screen != nil {
		a.screen.Close()
	}
}

// ConfirmClear shows a yes/no dialog and blocks until the user answers.
func (a *App) ConfirmClear(ctx context.Context) bool {
	for {
		a.render(&ui.Panel{
			Title:    "Clear all enemies?",
			Lines:    []string{fmt.Sprintf("%d enemies will be removed.", a.manager.TotalEnemies()), "", "y clear  n keep"},
			Selected: -1,
		})
		if ctx.Err() != nil {
			return false
		}
		if answer, done := a.dialogAnswer(a.screen.PollEvent()); done {
			return answer
		}
	}
}

// dialogAnswer handles one event while the clear dialog is open. A nil event
// means the screen was finalized and counts as a decline.
func (a *App) dialogAnswer(ev tcell.Event) (answer, done bool) {
	switch ev := ev.(type) {
	case nil:
		return false, true
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return confirmAnswer(ev)
	}
	return false, false
}

func confirmAnswer(ev *tcell.EventKey) (answer, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'y', 'Y':
			return true, true
		case 'n', 'N':
			return false, true
		}
	}
	return false, false
}

func (a *App) render(overlay ...*ui.Panel) {
	snap := a.manager.Snapshot()
	a.cursor = clampCursor(a.cursor, snap.TotalEnemies)

	view := ui.View{
		Enemies:      snap.Enemies,
		TotalEnemies: snap.TotalEnemies,
		TotalHP:      snap.TotalHP,
		Cursor:       a.cursor,
		Message:      a.message,
		Help:         rosterHelp,
	}
	switch a.mode {
	case ModeLoading:
		view.Message = "Loading..."
	case ModeAdd:
		view.Panel = a.form.panel()
	case ModePrompt:
		view.Panel = a.prompt.panel()
	case ModeSettings:
		view.Panel = settingsPanel(snap.Settings, a.settingsCursor)
	case ModeHelp:
		view.Panel = helpPanel()
	}
	if len(overlay) > 0 {
		view.Panel = overlay[0]
	}
	a.renderer.Render(view)
}

func (a *App) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *loadedEvent:
		a.handleLoaded(ev)
	case *tcell.EventKey:
		a.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

func (a *App) handleLoaded(ev *loadedEvent) {
	if ev.err != nil {
		a.logger.Error("load state", "error", ev.err)
		a.running = false
		return
	}
	if a.mode == ModeLoading {
		a.mode = ModeRoster
	}
}

// handleKeyEvent dispatches a key to the active mode.
func (a *App) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		a.running = false
		return
	}
	a.message = ""

	switch a.mode {
	case ModeLoading:
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			a.running = false
		}
	case ModeRoster:
		a.handleRosterKey(ctx, ev)
	case ModeAdd:
		a.handleAddKey(ctx, ev)
	case ModePrompt:
		a.handlePromptKey(ev)
	case ModeSettings:
		a.handleSettingsKey(ctx, ev)
	case ModeHelp:
		a.mode = ModeRoster
	}
}

func (a *App) handleRosterKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.running = false
		return
	case tcell.KeyUp:
		a.moveCursor(-1)
		return
	case tcell.KeyDown:
		a.moveCursor(1)
		return
	case tcell.KeyEnter:
		a.onSelected(ctx, a.manager.ToggleCollapse)
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if delta, ok := hpKeys[r]; ok {
		a.onSelected(ctx, func(ctx context.Context, id string) error {
			return a.manager.UpdateEnemyHP(ctx, id, delta)
		})
		return
	}
	if r >= '1' && r <= '8' {
		a.toggleStatus(ctx, entity.StatusEffects[r-'1'])
		return
	}

	switch r {
	case 'q':
		a.running = false
	case 'k':
		a.moveCursor(-1)
	case 'j':
		a.moveCursor(1)
	case 'a':
		a.form = newAddForm()
		a.mode = ModeAdd
	case 'c':
		a.onSelected(ctx, a.manager.ToggleCollapse)
	case 'C':
		a.report(a.manager.CollapseAll(ctx))
	case 'u':
		a.onSelected(ctx, a.manager.DuplicateEnemy)
	case 'x':
		a.onSelected(ctx, a.manager.RemoveEnemy)
	case 'r':
		a.editSelected(ctx, "Rename", func(e entity.Enemy) string { return e.Name }, func(ctx context.Context, id, text string) error {
			if text == "" {
				return ErrEmptyName
			}
			return a.manager.UpdateEnemyName(ctx, id, text)
		})
	case 'm':
		a.editSelected(ctx, "Max HP", func(e entity.Enemy) string { return strconv.Itoa(e.MaxHP) }, func(ctx context.Context, id, text string) error {
			return a.manager.UpdateEnemyMaxHP(ctx, id, ParseMaxHP(text))
		})
	case 'n':
		a.editSelected(ctx, "Number", func(e entity.Enemy) string { return strconv.Itoa(e.Number) }, func(ctx context.Context, id, text string) error {
			n, err := ParseNumber(text)
			if err != nil {
				return err
			}
			return a.manager.UpdateEnemyNumber(ctx, id, n)
		})
	case 'X':
		a.clearAll(ctx)
	case 's':
		a.settingsCursor = 0
		a.mode = ModeSettings
	case '?':
		a.mode = ModeHelp
	}
}

func (a *App) handleAddKey(ctx context.Context, ev *tcell.EventKey) {
	f := a.form
	switch ev.Key() {
	case tcell.KeyEscape:
		a.form = nil
		a.mode = ModeRoster
	case tcell.KeyTab, tcell.KeyDown:
		if f.focus == fieldName {
			f.applyPreset(a.bestiary)
		}
		f.moveFocus(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		f.moveFocus(-1)
	case tcell.KeyLeft:
		f.adjust(-1)
	case tcell.KeyRight:
		f.adjust(1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		f.backspace()
	case tcell.KeyEnter:
		a.submitAdd(ctx)
	case tcell.KeyRune:
		f.insert(ev.Rune())
	}
}

func (a *App) submitAdd(ctx context.Context) {
	req, err := a.form.request()
	if err != nil {
		a.message = err.Error()
		return
	}
	if err := a.manager.AddEnemy(ctx, req.Name, req.MaxHP, req.Type, req.Quantity); err != nil {
		a.report(err)
		return
	}
	a.form = nil
	a.mode = ModeRoster
	a.cursor = a.manager.TotalEnemies() - 1
	a.message = fmt.Sprintf("Added %d × %s", req.Quantity, req.Name)
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	p := a.prompt
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = nil
		a.mode = ModeRoster
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		p.text = trimLastRune(p.text)
	case tcell.KeyEnter:
		if err := p.submit(p.text); err != nil {
			a.message = err.Error()
			return
		}
		a.prompt = nil
		a.mode = ModeRoster
	case tcell.KeyRune:
		p.text += string(ev.Rune())
	}
}

func (a *App) handleSettingsKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = ModeRoster
	case tcell.KeyUp:
		a.settingsCursor = clampCursor(a.settingsCursor-1, len(settings.Keys))
	case tcell.KeyDown:
		a.settingsCursor = clampCursor(a.settingsCursor+1, len(settings.Keys))
	case tcell.KeyEnter:
		a.toggleSetting(ctx)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			a.toggleSetting(ctx)
		case 's', 'q':
			a.mode = ModeRoster
		}
	}
}

func (a *App) toggleSetting(ctx context.Context) {
	key := settings.Keys[a.settingsCursor]
	current, err := a.manager.Settings().Get(key)
	if err != nil {
		a.report(err)
		return
	}
	a.report(a.manager.UpdateSetting(ctx, key, !current))
}

func (a *App) clearAll(ctx context.Context) {
	cleared, err := a.manager.ClearAllEnemies(ctx, a)
	if err != nil {
		a.report(err)
		return
	}
	if cleared {
		a.cursor = 0
		a.message = "Roster cleared"
	}
}

func (a *App) toggleStatus(ctx context.Context, s entity.StatusEffect) {
	e, ok := a.selected()
	if !ok || !e.Type.HasStatuses() {
		return
	}
	a.report(a.manager.ToggleStatus(ctx, e.ID, s))
}

// onSelected runs fn against the enemy under the cursor.
func (a *App) onSelected(ctx context.Context, fn func(ctx context.Context, id string) error) {
	e, ok := a.selected()
	if !ok {
		return
	}
	a.report(fn(ctx, e.ID))
}

// editSelected opens a prompt prefilled from the enemy under the cursor.
func (a *App) editSelected(ctx context.Context, title string, current func(entity.Enemy) string, save func(ctx context.Context, id, text string) error) {
	e, ok := a.selected()
	if !ok {
		return
	}
	a.prompt = &prompt{
		title: title + ": " + e.Label(),
		text:  current(e),
		submit: func(text string) error {
			if err := save(ctx, e.ID, text); err != nil {
				return err
			}
			if updated, ok := a.manager.Enemies().Find(e.ID); ok {
				a.message = "Updated " + updated.Label()
			}
			return nil
		},
	}
	a.mode = ModePrompt
}

func (a *App) moveCursor(delta int) {
	a.cursor = clampCursor(a.cursor+delta, a.manager.TotalEnemies())
}

func (a *App) selected() (entity.Enemy, bool) {
	enemies := a.manager.Enemies()
	if a.cursor < 0 || a.cursor >= len(enemies) {
		return entity.Enemy{}, false
	}
	return enemies[a.cursor], true
}

// report shows a command error on the message line.
func (a *App) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, manager.ErrNotReady):
		a.message = "Still loading..."
	default:
		a.logger.Warn("command failed", "error", err)
		a.message = err.Error()
	}
}

func settingsPanel(s settings.Settings, cursor int) *ui.Panel {
	lines := make([]string, 0, len(settings.Keys)+2)
	for _, key := range settings.Keys {
		on, _ := s.Get(key)
		box := "[ ]"
		if on {
			box = "[x]"
		}
		lines = append(lines, box+" "+settingLabels[key])
	}
	lines = append(lines, "", "Space toggle  Esc back")
	return &ui.Panel{Title: "Settings", Lines: lines, Selected: cursor}
}

func helpPanel() *ui.Panel {
	lines := []string{
		"↑/↓ j/k   select enemy",
		"a         add enemies",
		"- +       damage / heal 1",
		"d h       damage / heal 2",
		"D H       damage / heal 5",
	}
	for i, s := range entity.StatusEffects {
		lines = append(lines, fmt.Sprintf("%d         toggle %s", i+1, s))
	}
	lines = append(lines,
		"c Enter   fold / unfold",
		"C         fold / unfold all",
		"u         duplicate",
		"x         remove",
		"r m n     edit name, max HP, number",
		"X         clear roster",
		"s         settings",
		"q Esc     quit",
	)
	return &ui.Panel{Title: "Keys", Lines: lines, Selected: -1}
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}
