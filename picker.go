package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// pickerRows is the most names the picker lists at once.
const pickerRows = 6

// fuzzyMatch reports whether the runes of search appear in order in text,
// ignoring case, and the rune positions they matched.
func fuzzyMatch(search, text string) (bool, []int) {
	want := []rune(strings.ToLower(search))
	if len(want) == 0 {
		return true, nil
	}
	var positions []int
	i := 0
	for pos, r := range []rune(strings.ToLower(text)) {
		if r == want[i] {
			positions = append(positions, pos)
			i++
			if i == len(want) {
				return true, positions
			}
		}
	}
	return false, nil
}

func isPrefixMatch(search, text string) bool {
	return strings.HasPrefix(strings.ToLower(text), strings.ToLower(search))
}

// highlightMatches wraps the matched runes of name in tview color tags.
func highlightMatches(name string, positions []int) string {
	if len(positions) == 0 {
		return tview.Escape(name)
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(name) {
		if marked[i] {
			b.WriteString("[darkgreen::b]")
			b.WriteString(tview.Escape(string(r)))
			b.WriteString("[-::-]")
		} else {
			b.WriteString(tview.Escape(string(r)))
		}
	}
	return b.String()
}

// cleanNames drops blank names and strips embedded newlines.
func cleanNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.ReplaceAll(n, "\n", ""))
		if n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned
}

// Picker is a search box over the tables or sheets of the open source.
// Names starting with the search text are listed before fuzzy matches.
type Picker struct {
	*tview.Box
	items  []string
	search string

	input  *tview.InputField
	list   *tview.List
	layout *tview.Flex

	onSelect func(name string)
	onClose  func()
}

func NewPicker(onSelect func(name string), onClose func()) *Picker {
	p := &Picker{
		Box:      tview.NewBox(),
		onSelect: onSelect,
		onClose:  onClose,
	}
	p.input = tview.NewInputField().
		SetPlaceholder("Search tables and sheets...").
		SetFieldWidth(0)
	p.input.SetChangedFunc(func(text string) {
		p.search = text
		p.refresh()
	})
	p.input.SetInputCapture(p.captureInput)

	p.list = tview.NewList().
		SetWrapAround(true).
		ShowSecondaryText(false)

	p.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.input, 1, 0, true).
		AddItem(p.list, 0, 1, false)
	p.refresh()
	return p
}

// SetItems replaces the names on offer and clears the search.
func (p *Picker) SetItems(names []string) *Picker {
	p.items = cleanNames(names)
	p.search = ""
	p.input.SetText("")
	p.refresh()
	return p
}

// Height is the number of rows the picker needs.
func (p *Picker) Height() int {
	filtered, _, _ := p.calculateFiltered(p.search)
	return 1 + min(max(len(filtered), 1), pickerRows)
}

// calculateFiltered returns the names matching search, prefix matches
// first, with the matched rune positions of each and the number of prefix
// matches.
func (p *Picker) calculateFiltered(search string) ([]string, map[int][]int, int) {
	positions := make(map[int][]int)
	if search == "" {
		return p.items, positions, len(p.items)
	}
	var prefix, fuzzy []string
	var prefixPos, fuzzyPos [][]int
	for _, name := range p.items {
		ok, pos := fuzzyMatch(search, name)
		switch {
		case isPrefixMatch(search, name):
			prefix = append(prefix, name)
			prefixPos = append(prefixPos, prefixPositions(search))
		case ok:
			fuzzy = append(fuzzy, name)
			fuzzyPos = append(fuzzyPos, pos)
		}
	}
	filtered := append(prefix, fuzzy...)
	for i, pos := range append(prefixPos, fuzzyPos...) {
		positions[i] = pos
	}
	return filtered, positions, len(prefix)
}

func prefixPositions(search string) []int {
	positions := make([]int, len([]rune(search)))
	for i := range positions {
		positions[i] = i
	}
	return positions
}

func (p *Picker) refresh() {
	filtered, positions, _ := p.calculateFiltered(p.search)
	current := p.list.GetCurrentItem()
	p.list.Clear()
	if len(filtered) == 0 {
		p.list.AddItem("No results", "", 0, nil)
		return
	}
	for i, name := range filtered {
		p.list.AddItem(highlightMatches(name, positions[i]), "", 0, nil)
	}
	p.list.SetCurrentItem(min(current, len(filtered)-1))
}

func (p *Picker) choose() {
	filtered, _, _ := p.calculateFiltered(p.search)
	i := p.list.GetCurrentItem()
	if i < 0 || i >= len(filtered) {
		return
	}
	if p.onSelect != nil {
		p.onSelect(filtered[i])
	}
}

func (p *Picker) captureInput(event *tcell.EventKey) *tcell.EventKey {
	count := p.list.GetItemCount()
	switch event.Key() {
	case tcell.KeyEscape:
		if p.onClose != nil {
			p.onClose()
		}
		return nil
	case tcell.KeyDown, tcell.KeyTab:
		if count > 0 {
			p.list.SetCurrentItem((p.list.GetCurrentItem() + 1) % count)
		}
		return nil
	case tcell.KeyUp, tcell.KeyBacktab:
		if count > 0 {
			p.list.SetCurrentItem((p.list.GetCurrentItem() - 1 + count) % count)
		}
		return nil
	case tcell.KeyEnter:
		p.choose()
		return nil
	}
	return event
}

func (p *Picker) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)
	x, y, width, height := p.GetInnerRect()
	p.layout.SetRect(x, y, width, height)
	p.layout.Draw(screen)
}

// InputHandler sends every key to the search box.
func (p *Picker) InputHandler() func(event *tcell.EventKey, setFocus func(tview.Primitive)) {
	return p.WrapInputHandler(func(event *tcell.EventKey, setFocus func(tview.Primitive)) {
		if handler := p.input.InputHandler(); handler != nil {
			handler(event, setFocus)
		}
	})
}

// MouseHandler highlights the name under the pointer and picks it on click.
func (p *Picker) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(tview.Primitive)) (bool, tview.Primitive) {
	return p.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(tview.Primitive)) (bool, tview.Primitive) {
		mx, my := event.Position()
		lx, ly, lw, lh := p.list.GetRect()
		if mx < lx || mx >= lx+lw || my < ly || my >= ly+lh {
			return p.layout.MouseHandler()(action, event, setFocus)
		}
		filtered, _, _ := p.calculateFiltered(p.search)
		offset, _ := p.list.GetOffset()
		i := my - ly + offset
		if i < 0 || i >= len(filtered) {
			return false, nil
		}
		switch action {
		case tview.MouseMove:
			p.list.SetCurrentItem(i)
			return true, nil
		case tview.MouseLeftClick:
			p.list.SetCurrentItem(i)
			p.choose()
			return true, nil
		}
		return false, nil
	})
}

func (p *Picker) Focus(delegate func(tview.Primitive)) { delegate(p.input) }

func (p *Picker) HasFocus() bool { return p.input.HasFocus() }
