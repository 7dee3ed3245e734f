package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/roster"
)

const (
	headerRows = 2
	footerRows = 2
	barWidth   = 20
	nameWidth  = 24
)

// Panel is a modal box drawn over the roster.
type Panel struct {
	Title    string
	Lines    []string
	Selected int // Highlighted line, -1 for none
}

// View is everything the renderer needs for one frame.
type View struct {
	Enemies      roster.Roster
	TotalEnemies int
	TotalHP      int
	Cursor       int
	Message      string
	Help         string
	Panel        *Panel
}

// Renderer handles drawing the roster to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	width, height := r.screen.Size()

	r.renderHeader(v, width)
	r.renderRoster(v, height-headerRows-footerRows)

	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	r.screen.DrawText(0, height-2, v.Message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	r.screen.DrawText(0, height-1, v.Help, dim)

	if v.Panel != nil {
		r.renderPanel(*v.Panel, width, height)
	}
	r.screen.Show()
}

func (r *Renderer) renderHeader(v View, width int) {
	title := tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	x := r.screen.DrawText(0, 0, "WARBAND", title)
	r.screen.DrawText(x+2, 0, fmt.Sprintf("Enemies: %d  Total HP: %d", v.TotalEnemies, v.TotalHP), tcell.StyleDefault)
	r.screen.DrawText(0, 1, strings.Repeat("─", width), tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
}

func (r *Renderer) renderRoster(v View, rows int) {
	if len(v.Enemies) == 0 {
		r.screen.DrawText(2, headerRows, "No enemies. Press a to add one.", tcell.StyleDefault.Foreground(tcell.ColorGray))
		return
	}

	y := headerRows
	for i := firstVisible(v.Enemies, v.Cursor, rows); i < len(v.Enemies) && y < headerRows+rows; i++ {
		y = r.renderEnemy(v.Enemies[i], i == v.Cursor, y, headerRows+rows)
	}
}

// renderEnemy draws one card starting at row y and returns the next free row.
func (r *Renderer) renderEnemy(e entity.Enemy, selected bool, y, limit int) int {
	base := tcell.StyleDefault
	if selected {
		base = base.Reverse(true)
	}
	if !e.IsAlive() {
		base = base.Dim(true)
	}

	marker := "▾ "
	if e.IsCollapsed {
		marker = "▸ "
	}
	x := r.screen.DrawText(0, y, marker, base)
	x = r.screen.DrawText(x, y, padRight(e.Label(), nameWidth), base.Bold(true))
	if e.IsCollapsed {
		x = r.screen.DrawText(x, y, padRight(string(e.Type.Symbol()), 2), base.Foreground(TypeColor(e.Type)))
	} else {
		x = r.screen.DrawText(x, y, padRight("["+e.Type.String()+"]", 12), base.Foreground(TypeColor(e.Type)))
	}
	x = r.screen.DrawText(x, y, fmt.Sprintf("%3d/%-3d", e.CurrentHP, e.MaxHP), base.Foreground(hpColor(e.CurrentHP, e.MaxHP)))
	if e.IsCollapsed {
		for _, s := range e.Statuses {
			x = r.screen.DrawText(x+1, y, s.Abbrev(), base.Foreground(tcell.ColorTeal))
		}
		return y + 1
	}

	y++
	if y >= limit {
		return y
	}
	x = r.screen.DrawText(4, y, hpBar(e.CurrentHP, e.MaxHP), tcell.StyleDefault.Foreground(hpColor(e.CurrentHP, e.MaxHP)))
	if e.Type.HasStatuses() {
		for i, s := range entity.StatusEffects {
			style := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
			if e.HasStatus(s) {
				style = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
			}
			x = r.screen.DrawText(x+1, y, fmt.Sprintf("%d:%s", i+1, s.Abbrev()), style)
		}
	}
	return y + 1
}

func (r *Renderer) renderPanel(p Panel, width, height int) {
	inner := uniseg.StringWidth(p.Title) + 2
	for _, line := range p.Lines {
		inner = max(inner, uniseg.StringWidth(line))
	}
	inner = min(inner+2, width-2)
	boxW, boxH := inner+2, len(p.Lines)+2
	left, top := max(0, (width-boxW)/2), max(0, (height-boxH)/2)

	border := tcell.StyleDefault.Foreground(tcell.ColorGold)
	fill := tcell.StyleDefault.Background(tcell.ColorBlack)
	for yy := top; yy < top+boxH; yy++ {
		for xx := left; xx < left+boxW; xx++ {
			ch := ' '
			switch {
			case yy == top || yy == top+boxH-1:
				ch = '─'
			case xx == left || xx == left+boxW-1:
				ch = '│'
			}
			r.screen.SetContent(xx, yy, ch, border)
		}
	}
	r.screen.DrawText(left+2, top, " "+p.Title+" ", border.Bold(true))
	for i, line := range p.Lines {
		style := fill
		if i == p.Selected {
			style = style.Reverse(true)
		}
		r.screen.DrawText(left+2, top+1+i, padRight(line, inner-2), style)
	}
}

// firstVisible returns the first enemy index to draw so that the cursor's
// card fits within rows.
func firstVisible(enemies roster.Roster, cursor, rows int) int {
	if cursor < 0 || cursor >= len(enemies) {
		return 0
	}
	start, used := cursor, cardHeight(enemies[cursor])
	for start > 0 && used+cardHeight(enemies[start-1]) <= rows {
		start--
		used += cardHeight(enemies[start])
	}
	return start
}

func cardHeight(e entity.Enemy) int {
	if e.IsCollapsed {
		return 1
	}
	return 2
}

func hpBar(current, maxHP int) string {
	if maxHP <= 0 {
		return strings.Repeat("░", barWidth)
	}
	filled := current * barWidth / maxHP
	if current > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// padRight cuts or pads s to exactly width display columns.
func padRight(s string, width int) string {
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + strings.Repeat(" ", width-used)
}
