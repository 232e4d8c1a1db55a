package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	Plus     key.Binding
	Minus    key.Binding
	Period   key.Binding
	NewGame  key.Binding
	Mood     key.Binding
	Prev     key.Binding
	Next     key.Binding
	Pick     key.Binding
	Surprise key.Binding
	Clear    key.Binding
	Crisis   key.Binding
	Appoint  key.Binding
	Featured key.Binding
	Search   key.Binding
	StartRun key.Binding
	AddSite  key.Binding
	DropSite key.Binding
	Cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextPage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Plus:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Minus:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		Period:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "period")),
		NewGame:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		Mood:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mood")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "color")),
		Next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next color")),
		Pick:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "pick color")),
		Surprise: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "surprise")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear palette")),
		Crisis:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "crisis line")),
		Appoint:  key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "appointment")),
		Featured: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "featured")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		StartRun: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		AddSite:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add site")),
		DropSite: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove site")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// pageHelp lists the bindings shown in the footer for a page.
func (k keyMap) pageHelp(page int) []key.Binding {
	nav := []key.Binding{k.NextPage, k.Quit}
	var local []key.Binding
	switch page {
	case pageMonitor:
		local = []key.Binding{k.Period}
	case pageRelax:
		enter := k.Enter
		enter.SetHelp("enter", "start")
		plus := k.Plus
		plus.SetHelp("+/-", "volume")
		local = []key.Binding{k.Down, enter, k.Toggle, k.Reset, plus}
	case pageGames:
		toggle := k.Toggle
		toggle.SetHelp("space", "breathe")
		enter := k.Enter
		enter.SetHelp("enter", "flip")
		local = []key.Binding{toggle, k.Reset, enter, k.NewGame, k.Mood, k.Prev, k.Pick, k.Surprise, k.Clear}
	case pageChat:
		enter := k.Enter
		enter.SetHelp("enter", "send")
		quit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
		return []key.Binding{enter, k.Crisis, k.Appoint, k.NextPage, quit}
	case pageLibrary:
		left := k.Left
		left.SetHelp("h/l", "category")
		local = []key.Binding{left, k.Featured, k.Search}
	case pageBlocker:
		plus := k.Plus
		plus.SetHelp("+/-", "minutes")
		toggle := k.Toggle
		toggle.SetHelp("space", "toggle app")
		local = []key.Binding{plus, k.StartRun, toggle, k.AddSite, k.DropSite}
	}
	return append(local, nav...)
}
