package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/calma/internal/blocker"
	"github.com/verte-zerg/calma/internal/chat"
	"github.com/verte-zerg/calma/internal/colortherapy"
	"github.com/verte-zerg/calma/internal/memorygame"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/monitor"
	"github.com/verte-zerg/calma/internal/relax"
)

const breathRadius = 4

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.pages))
	for i, name := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == m.page {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	helpLine := m.help.ShortHelpView(m.keys.pageHelp(m.page))
	if m.notice == "" {
		return helpLine
	}
	style := noticeStyle
	if m.noticeErr {
		style = errorStyle
	}
	return helpLine + "\n" + style.Render(truncateLine(m.notice, m.width))
}

func (m *Model) renderBody() string {
	switch m.page {
	case pageMonitor:
		return m.renderMonitor()
	case pageRelax:
		return m.renderRelax()
	case pageGames:
		return m.renderGames()
	case pageChat:
		return m.renderChat()
	case pageLibrary:
		return m.renderLibrary()
	case pageBlocker:
		return m.renderBlocker()
	default:
		return m.renderDashboard()
	}
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderDashboard() string {
	d := m.dashboard
	change := fmt.Sprintf("%+d%%", d.TopAppChangePct)
	cards := []string{
		metricCard("Screen time today", monitor.FormatMinutes(d.ScreenMinutes)),
		metricCard("Wellbeing", fmt.Sprintf("%d/100", d.WellbeingScore)),
		metricCard("Breaks", fmt.Sprintf("%d/%d", d.BreaksTaken, d.BreaksGoal)),
		metricCard("Top app", fmt.Sprintf("%dm (%s)", d.TopAppMinutes, change)),
		metricCard("Focus sessions", fmt.Sprintf("%d", m.block.CompletedSessions())),
	}
	var grid string
	if m.width < 100 {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	} else {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	lines := []string{
		grid,
		"",
		titleStyle.Render("Daily goal") + mutedStyle.Render(fmt.Sprintf("  %s of %s",
			monitor.FormatMinutes(d.ScreenMinutes), monitor.FormatMinutes(m.usage.GoalMinutes()))),
		m.bar.ViewAs(m.usage.GoalProgress()),
		titleStyle.Render("Wellbeing score"),
		m.bar.ViewAs(m.usage.WellbeingProgress()),
	}
	if m.block.Active() {
		lines = append(lines, "", accentStyle.Render("Focus mode on · "+m.block.Clock()+" left"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderMonitor() string {
	width := maxInt(40, m.width)
	lines := []string{titleStyle.Render("Usage · " + m.usage.Period().Label())}
	lines = append(lines, m.usage.SummaryLines()...)
	lines = append(lines, "", titleStyle.Render("Weekly screen time"))
	lines = append(lines, m.usage.WeeklyLines(minInt(width, 80))...)
	lines = append(lines, "", titleStyle.Render("App share"))
	lines = append(lines, m.usage.ShareLines(minInt(width, 80), true)...)
	return strings.Join(lines, "\n")
}

func (m *Model) renderRelax() string {
	var lines []string
	lines = append(lines, titleStyle.Render("Relaxation exercises"))
	for i, ex := range m.player.Exercises() {
		line := fmt.Sprintf("%s · %s · %s", ex.Title, relax.FormatClock(ex.Seconds), ex.Description)
		if active, ok := m.player.Active(); ok && active.ID == ex.ID {
			line += " ●"
		}
		if i == m.relaxCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	if ex, ok := m.player.Active(); ok {
		s := m.player.Session()
		state := "paused"
		if s.Running() {
			state = "running"
		}
		if s.Completed() {
			state = "complete"
		}
		lines = append(lines,
			titleStyle.Render(ex.Title)+mutedStyle.Render("  "+state),
			accentStyle.Render(m.player.Clock()),
		)
		if label := m.player.PhaseLabel(); label != "" {
			lines = append(lines, label)
		}
		lines = append(lines, m.bar.ViewAs(s.Progress()))
		for i, step := range ex.Steps {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d. %s", i+1, step)))
		}
	} else {
		lines = append(lines, mutedStyle.Render("Pick an exercise and press enter."))
	}
	lines = append(lines, "", fmt.Sprintf("Volume %3d%% %s", m.player.Volume(),
		monitor.Bar(float64(m.player.Volume())/relax.MaxVolume, 20)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderGames() string {
	phase := m.breath.Phase()
	breath := []string{titleStyle.Render("Breathing")}
	breath = append(breath, relax.Circle(m.breath.Scale(), breathRadius)...)
	status := fmt.Sprintf("%s · %ds", phase.Label, m.breath.Remaining())
	if !m.breathing {
		status = "Press space to start"
	} else if !m.breath.Running() {
		status += " · paused"
	}
	breath = append(breath, accentStyle.Render(status), mutedStyle.Render(fmt.Sprintf("Cycles: %d", m.breath.Cycles())))

	memory := []string{titleStyle.Render("Memory")}
	memory = append(memory, renderBoard(m.game.Cards(), m.game.Cursor())...)
	memory = append(memory, mutedStyle.Render(fmt.Sprintf("Pairs: %d/%d  Moves: %d",
		m.game.Matches(), m.game.Pairs(), m.game.Moves())))
	if m.game.Complete() {
		memory = append(memory, noticeStyle.Render(fmt.Sprintf("Complete in %d moves!", m.game.Moves())))
	}

	gap := lipgloss.NewStyle().MarginRight(4)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		gap.Render(strings.Join(breath, "\n")),
		gap.Render(strings.Join(memory, "\n")),
		strings.Join(m.renderColors(), "\n"))
}

func (m *Model) renderColors() []string {
	lines := []string{titleStyle.Render("Colors")}
	if mood, ok := m.colors.Mood(); ok {
		lines = append(lines, accentStyle.Render("Feeling "+strings.ToLower(mood.Name)))
		lines = append(lines, swatchRow(m.colors.Recommendation()))
	} else {
		lines = append(lines, mutedStyle.Render("Press m to pick a mood"))
	}
	lines = append(lines, "")
	swatches := m.colors.Swatches()
	for i, s := range swatches {
		mark := "  "
		if m.colors.IsSelected(i) {
			mark = "✓ "
		}
		label := fmt.Sprintf("%s%s", mark, s.Name)
		if i == m.colors.Cursor() {
			label = selectedStyle.Render(label)
		}
		lines = append(lines, swatchBlock(s.Hex)+" "+label)
	}
	if picked := m.colors.Selected(); len(picked) > 0 {
		lines = append(lines, "", titleStyle.Render("Your palette"), swatchRow(picked),
			mutedStyle.Render(colortherapy.Hint))
	}
	return lines
}

func swatchBlock(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

func swatchRow(swatches []model.Swatch) string {
	blocks := make([]string, 0, len(swatches))
	for _, s := range swatches {
		blocks = append(blocks, swatchBlock(s.Hex))
	}
	return strings.Join(blocks, " ")
}

func renderBoard(cards []memorygame.Card, cursor int) []string {
	var lines []string
	for start := 0; start < len(cards); start += memorygame.Columns {
		end := minInt(start+memorygame.Columns, len(cards))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cell := fmt.Sprintf("[%s]", cards[i].Face())
			switch {
			case i == cursor:
				cell = selectedStyle.Render(cell)
			case cards[i].Matched:
				cell = noticeStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func (m *Model) renderMessages(width int) string {
	var lines []string
	for _, msg := range m.conv.Messages() {
		label := botStyle.Render("Calma")
		switch msg.Sender {
		case chat.SenderUser:
			label = userStyle.Render("You")
		case chat.SenderSpecialist:
			label = botStyle.Render("Specialist")
		}
		lines = append(lines, label+mutedStyle.Render(" "+msg.At.Format("15:04")))
		lines = append(lines, wrapText(msg.Text, width-2)...)
		lines = append(lines, "")
	}
	if m.conv.Typing() {
		lines = append(lines, mutedStyle.Render("Calma is typing..."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChat() string {
	parts := make([]string, 0, len(m.specialists))
	for _, s := range m.specialists {
		state := "busy"
		if s.Available {
			state = "available"
		}
		parts = append(parts, fmt.Sprintf("%s (%s, %s)", s.Name, s.Specialty, state))
	}
	specialists := headerStyle.Render(truncateLine("Specialists: "+strings.Join(parts, " · "), m.width))
	return strings.Join([]string{specialists, m.chatView.View(), "", m.chatInput.View()}, "\n")
}

func (m *Model) renderLibrary() string {
	cats := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		if i == m.category {
			cats = append(cats, selectedStyle.Render(" "+c.Name+" "))
		} else {
			cats = append(cats, mutedStyle.Render(" "+c.Name+" "))
		}
	}
	filter := "all"
	if m.featured {
		filter = "featured"
	}
	if m.query != "" {
		filter += fmt.Sprintf(" · %q", m.query)
	}
	lines := []string{strings.Join(cats, ""), headerStyle.Render("Showing " + filter)}
	if m.mode == inputSearch {
		lines = append(lines, m.lineInput.View())
	}
	if len(m.resources) == 0 {
		lines = append(lines, "No resources found.")
	} else {
		lines = append(lines, m.resTable.View())
	}
	if m.detail != "" {
		lines = append(lines, "", m.detail)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBlocker() string {
	state := mutedStyle.Render("Focus mode off")
	if m.block.Active() {
		state = accentStyle.Render("Focus mode on · " + m.block.Clock() + " left")
	}
	lines := []string{
		titleStyle.Render("Focus session") + mutedStyle.Render(fmt.Sprintf("  %d min · %d completed",
			m.block.Minutes(), m.block.CompletedSessions())),
		state,
	}
	if m.block.Active() {
		lines = append(lines, m.bar.ViewAs(m.block.Session().Progress()))
	}
	lines = append(lines, "", titleStyle.Render(fmt.Sprintf("Apps (%d blocked, %s today)",
		m.block.BlockedCount(), monitor.FormatMinutes(m.block.TotalMinutes()))))
	apps := m.block.Apps()
	for i, a := range apps {
		box := "[ ]"
		if a.Blocked {
			box = "[x]"
		}
		lines = append(lines, m.blockRow(i, fmt.Sprintf("%s %s %s · %dm", box, a.Icon, a.Name, a.MinutesToday)))
	}
	lines = append(lines, "", titleStyle.Render("Websites"))
	for i, site := range m.block.Sites() {
		lines = append(lines, m.blockRow(len(apps)+i, site))
	}
	if m.mode == inputSite {
		lines = append(lines, m.lineInput.View())
	}
	if !m.block.Active() && m.block.Notice() == blocker.CompletedNotice {
		lines = append(lines, "", noticeStyle.Render(blocker.CompletedNotice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) blockRow(i int, text string) string {
	if i == m.blockCursor {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}
