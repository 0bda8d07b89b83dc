package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/todoable/internal/todoable"
)

// renderMain renders header, command bar, the two panes and the footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderPanes())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the logo, totals, freshness and connection health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("todoable", styles.Logo)}

	if !m.snapshot.HasData {
		if m.snapshot.LastError != nil {
			parts = append(parts, bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText))
		} else {
			parts = append(parts, bg.Render("Connecting...", styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	open, done := 0, 0
	for _, l := range m.snapshot.Lists {
		for _, item := range l.Items {
			if item.Done() {
				done++
			} else {
				open++
			}
		}
	}
	parts = append(parts,
		bg.Render(fmt.Sprintf("%d lists", len(m.snapshot.Lists)), styles.Text),
		bg.Render(fmt.Sprintf("%d open", open), styles.WarningText),
		bg.Render(fmt.Sprintf("%d done", done), styles.SuccessText),
	)

	if !m.snapshot.LastUpdated.IsZero() {
		label := "updated now"
		if age := humanizeDuration(time.Since(m.snapshot.LastUpdated)); age != "now" {
			label = "updated " + age + " ago"
		}
		parts = append(parts, bg.Render(label, styles.FaintText))
	}

	if m.snapshot.LastError != nil {
		label := classifyConnectionError(m.snapshot.LastError)
		if m.snapshot.IsOffline() {
			label += fmt.Sprintf(" (%d failures)", m.snapshot.ConsecutiveFailures)
		}
		parts = append(parts, bg.Render(label, styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// classifyConnectionError maps a refresh error to a short header label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var authErr *todoable.AuthenticationError
	if errors.As(err, &authErr) || errors.Is(err, todoable.ErrUnauthorized) {
		return "UNAUTHORIZED"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	segments := make([]string, 0, 8)
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}

	hideLabel := "Hide done"
	if m.prefs.HideDone {
		hideLabel = "Show done"
	}
	segments = append(segments,
		bg.Render("h", styles.AccentText)+colon+bg.Render(hideLabel, styles.MutedText),
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderFooter shows the open prompt, or the last status message.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch m.prompt {
	case promptNewList:
		content = bg.Render("New list:", styles.AccentText) + bg.Space() + m.input.View()
	case promptAddItem:
		list, _ := m.selectedList()
		content = bg.Render("Add to "+truncate(list.Name, 24)+":", styles.AccentText) + bg.Space() + m.input.View()
	case promptRename:
		content = bg.Render("Rename to:", styles.AccentText) + bg.Space() + m.input.View()
	case promptDelete:
		what := "list"
		if m.pending.itemID != "" {
			what = "item"
		}
		content = bg.Render(fmt.Sprintf("Delete %s %s? y/N", what, quote(truncate(m.pending.name, 40))), styles.WarningText)
	default:
		switch {
		case m.busy:
			content = bg.Render("Working...", styles.InfoText)
		case m.status != "" && m.statusIsErr:
			content = bg.Render(m.status, styles.DangerText)
		case m.status != "":
			content = bg.Render(m.status, styles.MutedText)
		default:
			content = bg.Render("Ready", styles.FaintText)
		}
	}

	return styles.Footer.Width(m.width).Render(content)
}

// renderPanes renders the lists pane and the items pane side by side.
func (m Model) renderPanes() string {
	styles := m.theme.Styles()
	contentHeight := max(m.height-3, 3) // header, command bar, footer

	if len(m.snapshot.Lists) == 0 {
		text := "No lists yet. Press n to create one."
		if !m.snapshot.HasData {
			text = "Loading lists..."
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(text))
	}

	listWidth := m.width * 35 / 100
	if m.width >= 160 {
		listWidth = m.width * 25 / 100
	}
	listWidth = max(listWidth, 20)
	itemWidth := max(m.width-listWidth, 20)

	listsFocused := m.focus == paneLists
	listsTitle := fmt.Sprintf("Lists (%d)", len(m.snapshot.Lists))
	listsBody := m.renderListRows(listWidth-2, contentHeight-2, m.paneBg(listsFocused))
	listsPane := m.renderTitledBox(listsTitle, listsBody, listWidth, contentHeight, listsFocused)

	itemsFocused := m.focus == paneItems
	list, _ := m.selectedList()
	itemsTitle := truncate(list.Name, itemWidth-16)
	if len(list.Items) > 0 {
		itemsTitle += fmt.Sprintf(" (%d/%d)", len(list.Pending()), len(list.Items))
	}
	itemsBody := m.renderItemRows(itemWidth-2, contentHeight-2, m.paneBg(itemsFocused))
	itemsPane := m.renderTitledBox(itemsTitle, itemsBody, itemWidth, contentHeight, itemsFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, listsPane, itemsPane)
}

func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// renderListRows renders one row per list: name and open item count.
func (m Model) renderListRows(width, height int, bgColor string) string {
	lists := m.snapshot.Lists
	start, end := visibleWindow(m.listRow, len(lists), height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		l := lists[i]
		selected := i == m.listRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		bg := NewBgStyle(rowBg)

		nameStyle, countStyle := m.rowStyles(selected)
		count := fmt.Sprintf("%d", len(l.Pending()))
		nameWidth := max(width-len(count)-3, 4)

		content := bg.Render(truncate(l.Name, nameWidth), nameStyle) +
			bg.Render(" · ", countStyle) +
			bg.Render(count, countStyle)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width).Render(content))
	}
	return strings.Join(lines, "\n")
}

// renderItemRows renders the selected list's items with a status marker.
func (m Model) renderItemRows(width, height int, bgColor string) string {
	items := m.visibleItems()
	if len(items) == 0 {
		text := "No items. Press a to add one."
		if m.prefs.HideDone {
			text = "Nothing pending. Press h to show finished items."
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(text)
	}

	start, end := visibleWindow(m.itemRow, len(items), height)
	itemsFocused := m.focus == paneItems
	styles := m.theme.Styles()

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		selected := itemsFocused && i == m.itemRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		bg := NewBgStyle(rowBg)

		marker := "[ ]"
		if item.Done() {
			marker = "[x]"
		}
		markerStyle := styles.StatusStyle(item.Status)
		nameStyle := styles.Text
		if item.Done() {
			nameStyle = styles.FaintText.Strikethrough(true)
		}
		if selected {
			sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			markerStyle, nameStyle = sel, sel
		}

		content := bg.Render(marker, markerStyle) + bg.Space() + bg.Render(truncate(item.Name, width-5), nameStyle)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width).Render(content))
	}
	return strings.Join(lines, "\n")
}

// rowStyles returns name and secondary styles; selected rows use
// SelectionText throughout for contrast.
func (m Model) rowStyles(selected bool) (lipgloss.Style, lipgloss.Style) {
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		return sel, sel
	}
	styles := m.theme.Styles()
	return styles.Text, styles.MutedText
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// visibleWindow returns the [start, end) range of rows to draw so that the
// selected row stays on screen.
func visibleWindow(selected, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	return start, start + height
}

// truncate shortens s to max runes, ending with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// renderLogs renders the activity log full screen, newest lines at the bottom.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	height := max(m.height, 3)
	innerHeight := height - 2

	var lines []string
	switch {
	case m.logErr != nil:
		lines = []string{styles.DangerText.Render("read log: " + m.logErr.Error())}
	case m.logPath == "":
		lines = []string{styles.MutedText.Render("Logging to a file is disabled.")}
	case len(m.logLines) == 0:
		lines = []string{styles.MutedText.Render("No activity yet.")}
	default:
		start := max(len(m.logLines)-innerHeight, 0)
		for _, line := range m.logLines[start:] {
			lines = append(lines, truncate(line, m.width-2))
		}
	}

	title := "Activity"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}
