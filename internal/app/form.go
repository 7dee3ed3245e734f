package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samdwyer/warband/internal/bestiary"
	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/ui"
)

// ErrEmptyName is returned when the add form is submitted without a name.
var ErrEmptyName = errors.New("name is required")

const (
	defaultMaxHP = 10
	maxQuantity  = 20
	maxEditHP    = 999
)

// AddRequest is an add-enemy command with every default applied.
type AddRequest struct {
	Name     string
	MaxHP    int
	Type     entity.EnemyType
	Quantity int
}

// ParseAddForm turns raw form input into an AddRequest. Health that does not
// start with a number, or is zero, becomes 10; anything below 1 becomes 1.
// Quantity is clamped into [1, 20]. The name is trimmed and must not be empty.
func ParseAddForm(name, health string, t entity.EnemyType, quantity int) (AddRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AddRequest{}, ErrEmptyName
	}
	hp, ok := parseLeadingInt(health)
	if !ok || hp == 0 {
		hp = defaultMaxHP
	}
	if !t.Valid() {
		t = entity.EnemyNormal
	}
	return AddRequest{
		Name:     name,
		MaxHP:    max(1, hp),
		Type:     t,
		Quantity: clampQuantity(quantity),
	}, nil
}

// ParseMaxHP reads an edited max HP, falling back to 1 and capping at 999.
func ParseMaxHP(text string) int {
	n, ok := parseLeadingInt(text)
	if !ok || n == 0 {
		n = 1
	}
	return min(max(n, 1), maxEditHP)
}

// ParseNumber reads an edited display number, which must be at least 1.
func ParseNumber(text string) (int, error) {
	n, ok := parseLeadingInt(text)
	if !ok || n < 1 {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return n, nil
}

func clampQuantity(q int) int {
	return min(max(q, 1), maxQuantity)
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows, so "12hp" reads as 12.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

type formField int

const (
	fieldName formField = iota
	fieldHealth
	fieldType
	fieldQuantity
	fieldCount
)

// addForm holds the in-progress add dialog.
type addForm struct {
	name      string
	health    string
	typeIndex int
	quantity  int
	focus     formField
	hint      string
}

func newAddForm() *addForm {
	return &addForm{quantity: 1}
}

func (f *addForm) enemyType() entity.EnemyType {
	return entity.EnemyTypes[f.typeIndex]
}

func (f *addForm) moveFocus(delta int) {
	f.focus = formField((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
}

// adjust steps the type or quantity field.
func (f *addForm) adjust(delta int) {
	switch f.focus {
	case fieldType:
		n := len(entity.EnemyTypes)
		f.typeIndex = (f.typeIndex + delta + n) % n
	case fieldQuantity:
		f.quantity = clampQuantity(f.quantity + delta)
	}
}

func (f *addForm) insert(r rune) {
	switch f.focus {
	case fieldName:
		f.name += string(r)
	case fieldHealth:
		f.health += string(r)
	case fieldQuantity:
		if r >= '0' && r <= '9' {
			f.quantity = clampQuantity(f.quantity*10 + int(r-'0'))
		}
	}
}

func (f *addForm) backspace() {
	switch f.focus {
	case fieldName:
		f.name = trimLastRune(f.name)
	case fieldHealth:
		f.health = trimLastRune(f.health)
	case fieldQuantity:
		f.quantity = clampQuantity(f.quantity / 10)
	}
}

// applyPreset fills health and type from the bestiary when the name matches
// a preset exactly. A near miss is only offered in the hint, so custom names
// are never rewritten. A typed health value is never overwritten.
func (f *addForm) applyPreset(reg *bestiary.Registry) {
	f.hint = ""
	if reg == nil || strings.TrimSpace(f.name) == "" {
		return
	}
	if p, ok := reg.Lookup(f.name); ok {
		f.name = p.Name
		if f.health == "" {
			f.health = strconv.Itoa(p.MaxHP)
		}
		if i := slices.Index(entity.EnemyTypes, p.Type); i >= 0 {
			f.typeIndex = i
		}
		f.hint = fmt.Sprintf("Preset: %s (%d HP, %s)", p.Name, p.MaxHP, p.Type)
		return
	}
	if p, ok := reg.Suggest(f.name); ok {
		f.hint = fmt.Sprintf("Did you mean %s (%d HP, %s)?", p.Name, p.MaxHP, p.Type)
	}
}

func (f *addForm) request() (AddRequest, error) {
	return ParseAddForm(f.name, f.health, f.enemyType(), f.quantity)
}

func (f *addForm) panel() *ui.Panel {
	cursor := func(field formField) string {
		if f.focus == field {
			return "_"
		}
		return ""
	}
	lines := []string{
		"Name:      " + f.name + cursor(fieldName),
		"Health:    " + f.health + cursor(fieldHealth),
		"Type:      < " + f.enemyType().String() + " >",
		"Quantity:  < " + strconv.Itoa(f.quantity) + " >",
		"",
		f.hint,
		"Tab next  ←/→ change  Enter add  Esc cancel",
	}
	return &ui.Panel{Title: "Add enemies", Lines: lines, Selected: int(f.focus)}
}

// prompt edits one value of the selected enemy.
type prompt struct {
	title  string
	text   string
	submit func(text string) error
}

func (p *prompt) panel() *ui.Panel {
	return &ui.Panel{
		Title:    p.title,
		Lines:    []string{p.text + "_", "", "Enter save  Esc cancel"},
		Selected: -1,
	}
}

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
