// Package tui provides the Bubble Tea interface for calma.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/blocker"
	"github.com/verte-zerg/calma/internal/chat"
	"github.com/verte-zerg/calma/internal/colortherapy"
	"github.com/verte-zerg/calma/internal/library"
	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/memorygame"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/monitor"
	"github.com/verte-zerg/calma/internal/relax"
	"github.com/verte-zerg/calma/internal/snapshot"
	"github.com/verte-zerg/calma/internal/timer"
)

const (
	pageDashboard = iota
	pageMonitor
	pageRelax
	pageGames
	pageChat
	pageLibrary
	pageBlocker
)

const (
	// TickInterval is how often the UI advances the scheduler.
	TickInterval = 100 * time.Millisecond
	noticeTTL    = 4 * time.Second
	minuteStep   = 5
	minMinutes   = 5
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputSite
)

type tickMsg time.Time

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#7FB77E"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A5A40"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8AB4F8")).Bold(true)
	botStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E")).Bold(true)
)

// Model implements the calma Bubble Tea UI.
type Model struct {
	cfg    model.Config
	sched  *timer.Virtual
	logger zerolog.Logger

	dashboard   model.Dashboard
	specialists []model.Specialist
	usage       *monitor.Usage
	player      *relax.Player
	breath      *timer.Sequencer
	breathing   bool
	game        *memorygame.Game
	colors      *colortherapy.Board
	conv        *chat.Conversation
	block       *blocker.Blocker
	catalog     *library.Catalog

	pages []string
	page  int
	keys  keyMap
	help  help.Model
	bar   progress.Model

	width  int
	height int

	relaxCursor int
	blockCursor int

	chatInput textinput.Model
	chatView  viewport.Model

	categories []model.Category
	category   int
	featured   bool
	query      string
	resources  []model.Resource
	resTable   table.Model
	detail     string

	mode      inputMode
	lineInput textinput.Model

	notice     string
	noticeErr  bool
	noticeStop func()
}

// NewModel wires every page from the snapshot. The scheduler is advanced by
// the UI tick; catalog may be shared with other callers and is not closed.
func NewModel(cfg model.Config, snap model.Snapshot, catalog *library.Catalog, sched *timer.Virtual) (*Model, error) {
	breath, err := relax.NewBreathing(sched, snapshot.Phases(snap.Breathing))
	if err != nil {
		return nil, fmt.Errorf("breathing: %w", err)
	}
	game, err := memorygame.New(sched, snap.MemoryCards, nil)
	if err != nil {
		return nil, err
	}
	colors, err := colortherapy.New(snap.Colors, nil)
	if err != nil {
		return nil, fmt.Errorf("color therapy: %w", err)
	}
	block, err := blocker.New(sched, snap.Apps, snap.Websites, cfg.FocusMinutes, snap.Dashboard.FocusSessionsDone)
	if err != nil {
		return nil, fmt.Errorf("blocker: %w", err)
	}
	m := &Model{
		cfg:         cfg,
		sched:       sched,
		logger:      log.WithComponent("tui"),
		dashboard:   snap.Dashboard,
		specialists: snap.Specialists,
		usage:       monitor.New(snap, cfg.DailyGoalMinutes),
		player:      relax.NewPlayer(sched, snap.Exercises, cfg.Volume),
		breath:      breath,
		game:        game,
		colors:      colors,
		conv:        chat.NewConversation(sched, snap.Chat, chat.Options{ReplyDelay: cfg.ReplyDelay}),
		block:       block,
		catalog:     catalog,
		pages:       []string{"Dashboard", "Monitor", "Relax", "Games", "Chat", "Library", "Blocker"},
		keys:        defaultKeyMap(),
		help:        help.New(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		chatView:    viewport.New(0, 0),
		chatInput:   newLineInput("> ", "Type a message"),
		lineInput:   newLineInput("", ""),
	}
	m.player.OnComplete(func(ex model.Exercise) {
		m.setNotice(relax.CompletionNotice, false)
	})
	m.player.OnPhaseChange(func(ex model.Exercise, p timer.Phase) {
		m.logger.Debug().Str("exercise", ex.ID).Str("phase", p.Name).Msg("guide phase")
	})
	m.block.OnComplete(func() {
		m.setNotice(blocker.CompletedNotice, false)
	})
	m.game.OnComplete(func(moves int) {
		m.setNotice(fmt.Sprintf("Well done! You finished the game in %d moves.", moves), false)
	})
	m.conv.OnMessage(func(chat.Message) { m.refreshChat() })
	m.resTable = table.New(
		table.WithColumns(resourceColumns(80)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	m.resTable.SetStyles(resourceTableStyles())
	if err := m.loadCategories(); err != nil {
		return nil, err
	}
	if err := m.refreshResources(); err != nil {
		return nil, err
	}
	m.refreshChat()
	return m, nil
}

func newLineInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 280
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), textinput.Blink)
}

// Close cancels pending timers owned by the model.
func (m *Model) Close() {
	m.conv.Close()
	m.player.Session().Stop()
	m.block.Stop()
	m.breath.Pause()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		m.sched.Advance(TickInterval)
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			return m.updateLineInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.NextPage):
			return m, m.setPage(m.page + 1)
		case key.Matches(msg, m.keys.PrevPage):
			return m, m.setPage(m.page - 1)
		}
		if m.page == pageChat {
			return m.updateChat(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] < '1'+byte(len(m.pages)) {
			return m, m.setPage(int(s[0] - '1'))
		}
		return m.updatePage(msg)
	}
	if m.page == pageChat || m.mode != inputNone {
		return m.updateInputs(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) setPage(page int) tea.Cmd {
	count := len(m.pages)
	if page < 0 {
		page = count - 1
	}
	if page >= count {
		page = 0
	}
	m.page = page
	if m.page == pageChat {
		return m.chatInput.Focus()
	}
	m.chatInput.Blur()
	return nil
}

func (m *Model) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.page {
	case pageMonitor:
		if key.Matches(msg, m.keys.Period) {
			m.usage.NextPeriod()
		}
	case pageRelax:
		m.updateRelax(msg)
	case pageGames:
		m.updateGames(msg)
	case pageLibrary:
		return m.updateLibrary(msg)
	case pageBlocker:
		return m.updateBlocker(msg)
	}
	return m, nil
}

func (m *Model) updateRelax(msg tea.KeyMsg) {
	exercises := m.player.Exercises()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.relaxCursor = maxInt(0, m.relaxCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.relaxCursor = minInt(len(exercises)-1, m.relaxCursor+1)
	case key.Matches(msg, m.keys.Enter):
		if m.relaxCursor < 0 || m.relaxCursor >= len(exercises) {
			return
		}
		if err := m.player.Select(exercises[m.relaxCursor].ID); err != nil {
			m.setNotice(err.Error(), true)
		}
	case key.Matches(msg, m.keys.Toggle):
		m.player.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.player.Reset()
	case key.Matches(msg, m.keys.Plus):
		m.player.SetVolume(m.player.Volume() + 10)
	case key.Matches(msg, m.keys.Minus):
		m.player.SetVolume(m.player.Volume() - 10)
	}
}

func (m *Model) updateGames(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if !m.breathing {
			if err := m.breath.Start(0); err != nil {
				m.setNotice(err.Error(), true)
				return
			}
			m.breathing = true
			return
		}
		m.breath.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.breath.Reset()
		m.breathing = false
	case key.Matches(msg, m.keys.NewGame):
		m.game.Restart()
	case key.Matches(msg, m.keys.Enter):
		if _, err := m.game.FlipCursor(); err != nil {
			m.setNotice(err.Error(), true)
		}
	case key.Matches(msg, m.keys.Mood):
		m.colors.NextMood()
	case key.Matches(msg, m.keys.Prev):
		m.colors.Move(-1)
	case key.Matches(msg, m.keys.Next):
		m.colors.Move(1)
	case key.Matches(msg, m.keys.Pick):
		if err := m.colors.ToggleCursor(); err != nil {
			m.setNotice(err.Error(), true)
		}
	case key.Matches(msg, m.keys.Surprise):
		m.colors.Surprise()
	case key.Matches(msg, m.keys.Clear):
		m.colors.Clear()
	case msg.String() == "up":
		m.game.Move(0, -1)
	case msg.String() == "down":
		m.game.Move(0, 1)
	case msg.String() == "left":
		m.game.Move(-1, 0)
	case msg.String() == "right":
		m.game.Move(1, 0)
	}
}

func (m *Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Crisis):
		m.setNotice(m.conv.CrisisLine(), false)
		return m, nil
	case key.Matches(msg, m.keys.Appoint):
		m.setNotice(m.conv.RequestAppointment(), false)
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if _, err := m.conv.Send(m.chatInput.Value()); err != nil {
			return m, nil
		}
		m.chatInput.Reset()
		m.refreshChat()
		return m, nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveCategory(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCategory(1)
	case key.Matches(msg, m.keys.Featured):
		m.featured = !m.featured
		m.applyResourceFilter()
	case key.Matches(msg, m.keys.Search):
		return m, m.startLineInput(inputSearch, "Search: ", m.query)
	case key.Matches(msg, m.keys.Enter):
		m.showDetail()
	default:
		var cmd tea.Cmd
		m.resTable, cmd = m.resTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateBlocker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	apps := m.block.Apps()
	sites := m.block.Sites()
	rows := len(apps) + len(sites)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.blockCursor = maxInt(0, m.blockCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.blockCursor = minInt(rows-1, m.blockCursor+1)
	case key.Matches(msg, m.keys.Plus):
		m.changeMinutes(minuteStep)
	case key.Matches(msg, m.keys.Minus):
		m.changeMinutes(-minuteStep)
	case key.Matches(msg, m.keys.StartRun):
		if m.block.Active() {
			m.block.Stop()
			m.setNotice(m.block.Notice(), false)
			break
		}
		if err := m.block.Start(); err != nil {
			m.setNotice(err.Error(), true)
			break
		}
		m.setNotice(m.block.Notice(), false)
	case key.Matches(msg, m.keys.Toggle):
		if m.blockCursor >= len(apps) {
			break
		}
		if err := m.block.ToggleApp(apps[m.blockCursor].Name); err != nil {
			m.setNotice(err.Error(), true)
		}
	case key.Matches(msg, m.keys.AddSite):
		return m, m.startLineInput(inputSite, "Website: ", "")
	case key.Matches(msg, m.keys.DropSite):
		idx := m.blockCursor - len(apps)
		if idx < 0 || idx >= len(sites) {
			break
		}
		m.block.RemoveSite(sites[idx])
		m.blockCursor = minInt(m.blockCursor, len(apps)+len(sites)-2)
		m.blockCursor = maxInt(0, m.blockCursor)
	}
	return m, nil
}

func (m *Model) changeMinutes(delta int) {
	if m.block.Active() {
		m.setNotice(blocker.ErrSessionActive.Error(), true)
		return
	}
	next := m.block.Minutes() + delta
	if next < minMinutes {
		next = minMinutes
	}
	if err := m.block.SetMinutes(next); err != nil {
		m.setNotice(err.Error(), true)
	}
}

func (m *Model) startLineInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.lineInput.Prompt = prompt
	m.lineInput.SetValue(value)
	m.lineInput.CursorEnd()
	return m.lineInput.Focus()
}

func (m *Model) updateLineInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = inputNone
		m.lineInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		value := strings.TrimSpace(m.lineInput.Value())
		switch m.mode {
		case inputSearch:
			m.query = value
			m.applyResourceFilter()
		case inputSite:
			if value == "" || !m.block.AddSite(value) {
				m.setNotice(fmt.Sprintf("%q is empty or already listed", value), true)
			}
		}
		m.mode = inputNone
		m.lineInput.Blur()
		m.lineInput.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.lineInput, cmd = m.lineInput.Update(msg)
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode != inputNone {
		m.lineInput, cmd = m.lineInput.Update(msg)
		return m, cmd
	}
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// setNotice shows text in the footer until noticeTTL passes on the
// scheduler or another notice replaces it.
func (m *Model) setNotice(text string, isErr bool) {
	if m.noticeStop != nil {
		m.noticeStop()
	}
	m.notice = text
	m.noticeErr = isErr
	m.noticeStop = m.sched.After(noticeTTL, func() {
		m.notice = ""
		m.noticeErr = false
		m.noticeStop = nil
	})
	if isErr {
		m.logger.Warn().Str("notice", text).Msg("validation notice")
	}
}

func (m *Model) loadCategories() error {
	cats, err := m.catalog.Categories(context.Background())
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if len(cats) == 0 {
		cats = []model.Category{{ID: library.AllCategories, Name: "All"}}
	}
	m.categories = cats
	return nil
}

func (m *Model) moveCategory(delta int) {
	count := len(m.categories)
	m.category = (m.category + delta + count) % count
	m.applyResourceFilter()
}

func (m *Model) applyResourceFilter() {
	if err := m.refreshResources(); err != nil {
		m.setNotice(err.Error(), true)
	}
}

func (m *Model) refreshResources() error {
	res, err := m.catalog.List(context.Background(), library.Filter{
		Category: m.categories[m.category].ID,
		Featured: m.featured,
		Query:    m.query,
	})
	if err != nil {
		return fmt.Errorf("list resources: %w", err)
	}
	m.resources = res
	m.detail = ""
	rows := make([]table.Row, 0, len(res))
	for _, r := range res {
		star := ""
		if r.Featured {
			star = "★"
		}
		rows = append(rows, table.Row{star, r.Title, r.Kind, fmt.Sprintf("%d min", r.ReadMinutes), r.Author})
	}
	m.resTable.SetRows(rows)
	m.resTable.SetCursor(0)
	return nil
}

func (m *Model) showDetail() {
	idx := m.resTable.Cursor()
	if idx < 0 || idx >= len(m.resources) {
		return
	}
	r := m.resources[idx]
	m.detail = fmt.Sprintf("%s\n%s\n%s · %d min read · %s", r.Title, r.Description, r.Author, r.ReadMinutes, r.URL)
}

func (m *Model) refreshChat() {
	m.chatView.SetContent(m.renderMessages(maxInt(20, m.chatView.Width)))
	m.chatView.GotoBottom()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight = 2
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.help.Width = m.width
	m.bar.Width = minInt(60, maxInt(10, m.width-20))
	m.chatView.Width = m.width
	m.chatView.Height = maxInt(1, bodyHeight-3)
	m.chatInput.Width = maxInt(10, m.width-lipgloss.Width(m.chatInput.Prompt)-2)
	m.lineInput.Width = maxInt(10, m.width-20)
	m.resTable.SetColumns(resourceColumns(m.width))
	m.resTable.SetHeight(maxInt(3, bodyHeight-6))
	m.refreshChat()
}

func resourceColumns(width int) []table.Column {
	title := maxInt(20, width-2-8-12-10-22)
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Title", Width: title},
		{Title: "Kind", Width: 10},
		{Title: "Length", Width: 8},
		{Title: "Author", Width: 20},
	}
}

func resourceTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
