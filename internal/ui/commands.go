package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/todoable/internal/logtail"
	"github.com/five82/todoable/internal/state"
	"github.com/five82/todoable/internal/todoable"
)

const logTailLines = 500

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// actionMsg reports the outcome of a mutation. selectID, when set, is the
// list to select once the store reloads.
type actionMsg struct {
	desc     string
	selectID string
	err      error
}

type logsMsg struct {
	lines []string
	err   error
}

type refreshedMsg struct {
	snapshot state.Snapshot
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// readLogsCmd loads the newest activity log entries.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.Tail(path, logTailLines)
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.String())
		}
		return logsMsg{lines: lines, err: err}
	}
}

// runAction runs fn off the UI goroutine with a bounded context.
func (m Model) runAction(desc string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()
		id, err := fn(ctx)
		return actionMsg{desc: desc, selectID: id, err: err}
	}
}

// reloadCmd refreshes the store and hands back the new snapshot.
func (m Model) reloadCmd() tea.Cmd {
	parent, refresh, store := m.ctx, m.refresh, m.store
	return func() tea.Msg {
		var err error
		if refresh != nil {
			ctx, cancel := context.WithTimeout(parent, actionTimeout)
			err = refresh(ctx)
			cancel()
		}
		var snap state.Snapshot
		if store != nil {
			snap = store.Snapshot()
		}
		return refreshedMsg{snapshot: snap, err: err}
	}
}

// describeError turns client errors into a short footer message.
func describeError(err error) string {
	var (
		unprocessable *todoable.UnprocessableError
		authErr       *todoable.AuthenticationError
		statusErr     *todoable.StatusError
	)
	switch {
	case errors.As(err, &unprocessable):
		return unprocessable.Error()
	case errors.As(err, &authErr):
		return "authentication failed, check username and password"
	case errors.Is(err, todoable.ErrUnauthorized):
		return "token rejected by server"
	case errors.Is(err, todoable.ErrNotAuthenticated):
		return "not signed in"
	case errors.Is(err, todoable.ErrContentNotFound):
		return "no longer exists on the server"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("server error (HTTP %d)", statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return err.Error()
	}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
