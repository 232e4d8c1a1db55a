package monitor

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	fallbackWidth = 80
	minBarWidth   = 10
	barFill       = "█"
	barEmpty      = "░"
)

// TerminalWidth reports the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// UseColor reports whether w is a terminal that accepts color.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Bar renders a fixed-width bar filled to fraction.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 || math.IsNaN(fraction) {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat(barFill, filled) + strings.Repeat(barEmpty, width-filled)
}

// WeeklyLines renders one labeled bar per day, scaled to the busiest day.
func (u *Usage) WeeklyLines(width int) []string {
	if len(u.weekly) == 0 {
		return nil
	}
	peak, _ := u.PeakDay()
	labelWidth := 0
	for _, d := range u.weekly {
		if w := runewidth.StringWidth(d.Day); w > labelWidth {
			labelWidth = w
		}
	}
	barWidth := width - labelWidth - 8
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	lines := make([]string, 0, len(u.weekly))
	for _, d := range u.weekly {
		fraction := 0.0
		if peak.Hours > 0 {
			fraction = d.Hours / peak.Hours
		}
		lines = append(lines, fmt.Sprintf("%s %s %4.1fh",
			padCell(d.Day, labelWidth, false), Bar(fraction, barWidth), d.Hours))
	}
	return lines
}

// ShareLines renders the app share table with a bar column. Bars take the
// app color when color is set.
func (u *Usage) ShareLines(width int, color bool) []string {
	barWidth := width / 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	rows := make([][]string, 0, len(u.share))
	for _, s := range u.share {
		bar := Bar(float64(s.Percent)/100, barWidth)
		if color && s.Color != "" {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(bar)
		}
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Percent) + "%", bar})
	}
	return formatTable([]string{"App", "Share", ""}, rows, map[int]bool{1: true})
}

// AppLines renders today's per-app minutes and block state.
func (u *Usage) AppLines() []string {
	rows := make([][]string, 0, len(u.apps))
	for _, a := range u.apps {
		state := "allowed"
		if a.Blocked {
			state = "blocked"
		}
		rows = append(rows, []string{a.Icon + " " + a.Name, FormatMinutes(a.MinutesToday), state})
	}
	return formatTable([]string{"App", "Today", "State"}, rows, map[int]bool{1: true})
}

// SummaryLines renders the headline figures for the selected period.
func (u *Usage) SummaryLines() []string {
	lines := []string{
		fmt.Sprintf("%s: %s", u.period.Label(), FormatMinutes(u.PeriodMinutes())),
		fmt.Sprintf("Daily goal: %s (%d%% used)", FormatMinutes(u.goal), int(math.Round(u.GoalProgress()*100))),
		fmt.Sprintf("Daily average: %.1fh", u.AverageHours()),
	}
	if peak, ok := u.PeakDay(); ok {
		lines = append(lines, fmt.Sprintf("Peak day: %s (%.1fh, %d opens)", peak.Day, peak.Hours, peak.Opens))
	}
	if top, ok := u.TopApp(); ok {
		lines = append(lines, fmt.Sprintf("Top app: %s (%d%%)", top.Name, top.Percent))
	}
	return lines
}

// WriteReport prints the full usage report.
func (u *Usage) WriteReport(w io.Writer, width int, color bool) error {
	if width <= 0 {
		width = TerminalWidth()
	}
	sections := []struct {
		title string
		lines []string
	}{
		{title: "Summary", lines: u.SummaryLines()},
		{title: "Weekly screen time", lines: u.WeeklyLines(width)},
		{title: "App share", lines: u.ShareLines(width, color)},
		{title: "Apps today", lines: u.AppLines()},
	}
	for i, s := range sections {
		if len(s.lines) == 0 {
			continue
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		for _, line := range s.lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatTable aligns rows under headers; columns in rightAlign are padded
// on the left. Widths are measured in terminal cells.
func FormatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	return formatTable(headers, rows, rightAlign)
}

func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < len(row); i++ {
			if w := displayWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlign[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, right bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := strings.Repeat(" ", width-valueWidth)
	if right {
		return padding + value
	}
	return value + padding
}

// displayWidth ignores ANSI styling so colored cells still align.
func displayWidth(value string) int {
	return lipgloss.Width(value)
}
