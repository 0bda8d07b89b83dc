package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/todoable/internal/prefs"
	"github.com/five82/todoable/internal/state"
	"github.com/five82/todoable/internal/todoable"
)

// pane identifies which half of the screen has focus.
type pane int

const (
	paneLists pane = iota
	paneItems
)

// promptKind is the footer prompt currently open, if any.
type promptKind int

const (
	promptNone promptKind = iota
	promptNewList
	promptAddItem
	promptRename
	promptDelete
)

const (
	defaultUITick = time.Second
	actionTimeout = 15 * time.Second
)

// Options configures the UI. Refresh reloads the store from the API after
// every mutation and on R; nil leaves refreshing to the poller. LogPath is the
// file the activity view tails, usually the logger's output.
type Options struct {
	Context   context.Context
	Client    todoable.API
	Store     *state.Store
	Refresh   func(context.Context) error
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
	LogPath   string
	PollTick  time.Duration
}

// deleteTarget is what a pending delete confirmation will remove.
type deleteTarget struct {
	listID string
	itemID string // empty deletes the list
	name   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    todoable.API
	store     *state.Store
	refresh   func(context.Context) error
	logger    *zap.Logger
	prefsPath string
	prefs     prefs.Prefs
	logPath   string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    pane
	showHelp bool
	showLogs bool

	// Data state
	snapshot state.Snapshot
	logLines []string
	logErr   error

	// Selection
	listRow int
	itemRow int

	// Prompt state
	prompt  promptKind
	input   textinput.Model
	pending deleteTarget

	// Footer status
	busy        bool
	status      string
	statusIsErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultUITick
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.CharLimit = 200
	input.Prompt = ""

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		refresh:   opts.Refresh,
		logger:    logger,
		prefsPath: prefsPath,
		prefs:     opts.Prefs,
		logPath:   opts.LogPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		input:     input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-30, 10)
		m.ready = true
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.showLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case logsMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		return m, nil

	case actionMsg:
		return m.handleAction(msg)

	case refreshedMsg:
		m.busy = false
		m.applySnapshot(msg.snapshot)
		if msg.err != nil {
			m.setError("refresh failed: " + describeError(msg.err))
		}
		return m, nil
	}

	if m.prompt != promptNone && m.prompt != promptDelete {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

// handleKey routes keyboard input: help overlay, then prompt, then global
// bindings, then navigation in the focused pane.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		m.showLogs = false
		return m, nil
	}

	if m.prompt == promptDelete {
		return m.handleConfirmKey(msg)
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDone):
		m.prefs.HideDone = !m.prefs.HideDone
		m.clampItemRow()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		m.setStatus("Refreshing...")
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.Tab):
		if m.focus == paneLists {
			m.focus = paneItems
		} else {
			m.focus = paneLists
		}
		return m, nil

	case key.Matches(msg, m.keys.NewList):
		return m.openPrompt(promptNewList, "")

	case key.Matches(msg, m.keys.AddItem):
		if _, ok := m.selectedList(); !ok {
			m.setError("no list selected")
			return m, nil
		}
		return m.openPrompt(promptAddItem, "")

	case key.Matches(msg, m.keys.RenameList):
		list, ok := m.selectedList()
		if !ok {
			m.setError("no list selected")
			return m, nil
		}
		return m.openPrompt(promptRename, list.Name)

	case key.Matches(msg, m.keys.FinishItem):
		return m.finishSelected()

	case key.Matches(msg, m.keys.Delete):
		return m.confirmDelete()
	}

	m.navigate(msg)
	return m, nil
}

// navigate moves the selection in the focused pane.
func (m *Model) navigate(msg tea.KeyMsg) {
	if m.focus == paneItems {
		count := len(m.visibleItems())
		m.itemRow = moveRow(m.itemRow, count, msg, m.keys)
		return
	}

	count := len(m.snapshot.Lists)
	row := moveRow(m.listRow, count, msg, m.keys)
	if row != m.listRow {
		m.listRow = row
		m.itemRow = 0
		m.prefs.LastList = m.snapshot.Lists[row].ID
	}
}

func moveRow(row, count int, msg tea.KeyMsg, keys keyMap) int {
	if count == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Down):
		if row < count-1 {
			row++
		}
	case key.Matches(msg, keys.Up):
		if row > 0 {
			row--
		}
	case key.Matches(msg, keys.Top):
		row = 0
	case key.Matches(msg, keys.Bottom):
		row = count - 1
	}
	return row
}

func (m Model) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.pending = deleteTarget{}
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.pending
	m.closePrompt()
	if !key.Matches(msg, m.keys.Yes) {
		m.setStatus("Delete cancelled")
		return m, nil
	}

	m.busy = true
	client := m.client
	if target.itemID == "" {
		return m, m.runAction("Deleted list "+quote(target.name), func(ctx context.Context) (string, error) {
			_, err := client.DeleteList(ctx, target.listID)
			return "", err
		})
	}
	return m, m.runAction("Deleted item "+quote(target.name), func(ctx context.Context) (string, error) {
		_, err := client.DeleteItem(ctx, target.listID, target.itemID)
		return "", err
	})
}

// submitPrompt sends the prompt value as-is; blank or duplicate names are
// left to the server, whose field errors end up in the footer.
func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	kind := m.prompt
	value := strings.TrimSpace(m.input.Value())
	list, hasList := m.selectedList()
	m.closePrompt()

	client := m.client
	m.busy = true
	switch kind {
	case promptNewList:
		return m, m.runAction("Created list "+quote(value), func(ctx context.Context) (string, error) {
			created, err := client.CreateList(ctx, value)
			if err != nil {
				return "", err
			}
			return created.ID, nil
		})

	case promptAddItem:
		if !hasList {
			break
		}
		return m, m.runAction("Added "+quote(value)+" to "+quote(list.Name), func(ctx context.Context) (string, error) {
			_, err := client.CreateItem(ctx, list.ID, value)
			return "", err
		})

	case promptRename:
		if !hasList {
			break
		}
		return m, m.runAction("Renamed "+quote(list.Name)+" to "+quote(value), func(ctx context.Context) (string, error) {
			_, err := client.RenameList(ctx, list.ID, value)
			return "", err
		})
	}

	m.busy = false
	return m, nil
}

func (m Model) finishSelected() (tea.Model, tea.Cmd) {
	list, ok := m.selectedList()
	if !ok {
		m.setError("no list selected")
		return m, nil
	}
	item, ok := m.selectedItem()
	if !ok {
		m.setError("no item selected")
		return m, nil
	}
	if item.Done() {
		m.setStatus(quote(item.Name) + " is already finished")
		return m, nil
	}

	m.busy = true
	client := m.client
	return m, m.runAction("Finished "+quote(item.Name), func(ctx context.Context) (string, error) {
		_, err := client.FinishItem(ctx, list.ID, item.ID)
		return "", err
	})
}

// confirmDelete opens the y/N prompt for the list or item under focus.
func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	list, ok := m.selectedList()
	if !ok {
		m.setError("no list selected")
		return m, nil
	}
	target := deleteTarget{listID: list.ID, name: list.Name}
	if m.focus == paneItems {
		item, ok := m.selectedItem()
		if !ok {
			m.setError("no item selected")
			return m, nil
		}
		target.itemID = item.ID
		target.name = item.Name
	}
	m.prompt = promptDelete
	m.pending = target
	return m, nil
}

func (m Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.busy = false
		m.logger.Warn("action failed", zap.String("action", msg.desc), zap.Error(msg.err))
		m.setError(describeError(msg.err))
		return m, nil
	}

	m.logger.Info("action succeeded", zap.String("action", msg.desc))
	m.setStatus(msg.desc)
	if msg.selectID != "" && msg.selectID != todoable.MissingID {
		m.prefs.LastList = msg.selectID
	}
	return m, m.reloadCmd()
}

// applySnapshot installs a new snapshot and keeps the selected list by id.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap

	lists := snap.Lists
	if len(lists) == 0 {
		m.listRow = 0
		m.itemRow = 0
		return
	}

	found := false
	if m.prefs.LastList != "" {
		for i, l := range lists {
			if l.ID == m.prefs.LastList {
				if i != m.listRow {
					m.itemRow = 0
				}
				m.listRow = i
				found = true
				break
			}
		}
	}
	if !found {
		m.listRow = min(m.listRow, len(lists)-1)
		m.itemRow = 0
		m.prefs.LastList = lists[m.listRow].ID
	}
	m.clampItemRow()
}

func (m *Model) clampItemRow() {
	count := len(m.visibleItems())
	if count == 0 {
		m.itemRow = 0
		return
	}
	m.itemRow = min(m.itemRow, count-1)
}

func (m Model) selectedList() (todoable.List, bool) {
	if m.listRow < 0 || m.listRow >= len(m.snapshot.Lists) {
		return todoable.List{}, false
	}
	return m.snapshot.Lists[m.listRow], true
}

func (m Model) selectedItem() (todoable.ListItem, bool) {
	items := m.visibleItems()
	if m.itemRow < 0 || m.itemRow >= len(items) {
		return todoable.ListItem{}, false
	}
	return items[m.itemRow], true
}

// visibleItems returns the selected list's items, pending first, without
// finished ones when they are hidden.
func (m Model) visibleItems() []todoable.ListItem {
	list, ok := m.selectedList()
	if !ok {
		return nil
	}
	items := make([]todoable.ListItem, 0, len(list.Items))
	for _, item := range list.Items {
		if !item.Done() {
			items = append(items, item)
		}
	}
	if m.prefs.HideDone {
		return items
	}
	for _, item := range list.Items {
		if item.Done() {
			items = append(items, item)
		}
	}
	return items
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsErr = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusIsErr = true
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	return m, tea.Quit
}

func (m Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
