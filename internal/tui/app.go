// Package tui is the interactive review screen.
//
// It follows the bubbletea (Elm) architecture: key presses become messages,
// Update applies them to the review session, View renders the current lead.
// Autosave is driven through tea.Tick: whenever the session arms its
// scheduler, the app schedules a tick carrying that ticket and fires it when
// the tick arrives. Ticks for superseded tickets are ignored by the scheduler.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/witherBattler/edit-hunt-ai/internal/autosave"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	dispositionStyles = map[review.Disposition]lipgloss.Style{
		review.Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		review.Accepted: positiveStyle,
		review.Rejected: negativeStyle,
		review.Deleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Strikethrough(true),
	}
)

type mode int

const (
	modeReview mode = iota
	modeJump
)

// autosaveTickMsg arrives when a ticket's delay has elapsed.
type autosaveTickMsg struct {
	ticket autosave.Ticket
}

// Options configures the app.
type Options struct {
	Highlighter *Highlighter
	Logger      *slog.Logger
}

// App is the review screen model.
type App struct {
	session     *review.Session
	highlighter *Highlighter
	logger      *slog.Logger

	keys  keyMap
	help  help.Model
	jump  textinput.Model
	mode  mode
	armed uint64 // generation of the last ticket handed to tea.Tick

	notice string
	err    error
	saved  bool // true once the final save on exit succeeded
	width  int
	height int
}

// NewApp creates the review screen for an open session.
func NewApp(session *review.Session, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	jump := textinput.New()
	jump.Placeholder = fmt.Sprintf("1-%d", session.Len())
	jump.Prompt = "Go to lead: "
	jump.CharLimit = 10

	return &App{
		session:     session,
		highlighter: opts.Highlighter,
		logger:      logger,
		keys:        defaultKeyMap(),
		help:        help.New(),
		jump:        jump,
	}
}

// Saved reports whether the app exited through a successful save.
func (a *App) Saved() bool { return a.saved }

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update applies a message to the session.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case autosaveTickMsg:
		return a, a.handleAutosave(msg.ticket)

	case tea.KeyMsg:
		if a.mode == modeJump {
			return a.updateJump(msg)
		}
		return a.updateReview(msg)
	}
	return a, nil
}

func (a *App) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""
	a.err = nil

	switch {
	case key.Matches(msg, a.keys.Abort):
		a.session.Close()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Quit):
		if err := a.session.Save(); err != nil {
			a.err = fmt.Errorf("%w (ctrl+c quits without saving)", err)
			return a, nil
		}
		a.saved = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Accept):
		a.classify(review.Accepted)
	case key.Matches(msg, a.keys.Reject):
		a.classify(review.Rejected)
	case key.Matches(msg, a.keys.Delete):
		move, err := a.session.Delete()
		a.reportMove(move, err)
	case key.Matches(msg, a.keys.Next):
		if a.session.Advance() == review.EndOfList {
			a.notice = "End of list"
		}
	case key.Matches(msg, a.keys.Prev):
		a.session.Retreat()
	case key.Matches(msg, a.keys.Jump):
		a.mode = modeJump
		a.jump.SetValue("")
		return a, a.jump.Focus()
	case key.Matches(msg, a.keys.Save):
		if err := a.session.Save(); err != nil {
			a.err = err
		} else {
			c := a.session.Counts()
			a.notice = fmt.Sprintf("Saved: %d job, %d not job, %d deleted", c.Accepted, c.Rejected, c.Deleted)
		}
	case key.Matches(msg, a.keys.Reload):
		found, err := a.session.Reload()
		switch {
		case err != nil:
			a.err = err
		case found:
			a.notice = "Previous session restored"
		default:
			a.notice = "No saved session"
		}
	}
	return a, a.armAutosave()
}

func (a *App) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = modeReview
		a.jump.Blur()
		return a, nil
	case tea.KeyEnter:
		a.mode = modeReview
		a.jump.Blur()
		a.notice = ""
		a.err = nil
		n, err := strconv.Atoi(strings.TrimSpace(a.jump.Value()))
		if err != nil {
			a.err = fmt.Errorf("not a lead number: %q", a.jump.Value())
			return a, nil
		}
		if err := a.session.JumpTo(n); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.armAutosave()
	}

	var cmd tea.Cmd
	a.jump, cmd = a.jump.Update(msg)
	return a, cmd
}

func (a *App) classify(outcome review.Disposition) {
	move, err := a.session.Classify(outcome)
	a.reportMove(move, err)
}

func (a *App) reportMove(move review.Move, err error) {
	if err != nil {
		a.err = err
		return
	}
	if move == review.EndOfList {
		a.notice = "End of list"
	}
}

// armAutosave starts a tick for the scheduler's pending ticket unless one
// is already running for it.
func (a *App) armAutosave() tea.Cmd {
	ticket, pending := a.session.Scheduler().Current()
	if !pending || ticket.Generation == a.armed {
		return nil
	}
	a.armed = ticket.Generation
	return tea.Tick(ticket.Delay, func(time.Time) tea.Msg {
		return autosaveTickMsg{ticket: ticket}
	})
}

func (a *App) handleAutosave(ticket autosave.Ticket) tea.Cmd {
	fired, err := a.session.Scheduler().FireTicket(ticket)
	switch {
	case err != nil:
		a.err = fmt.Errorf("autosave failed: %w", err)
	case fired:
		a.notice = "Autosaved"
	}
	return nil
}

// View renders the screen.
func (a *App) View() string {
	if a.session.Len() == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Lead review"),
			progressStyle.Render("No leads to review."),
			a.help.View(a.keys),
		)
	}

	index := a.session.Current()
	rec, _ := a.session.CurrentRecord()
	status, _ := a.session.Status(index)

	statusLine := dispositionStyles[status].Render(status.String())
	if a.session.IsReviewed(index) {
		statusLine += progressStyle.Render(" (reviewed)")
	}

	width := a.width - 4
	if width < 20 {
		width = 76
	}
	text := a.highlighter.Render(rec.Text, positiveStyle, negativeStyle)
	body := boxStyle.Width(width).Render(text)

	parts := []string{
		titleStyle.Render("Lead review"),
		progressStyle.Render(ProgressLine(index, a.session.Counts())),
		"Status: " + statusLine,
		body,
	}
	if a.mode == modeJump {
		parts = append(parts, a.jump.View())
	}
	switch {
	case a.err != nil:
		parts = append(parts, errorStyle.Render(a.err.Error()))
	case a.notice != "":
		parts = append(parts, noticeStyle.Render(a.notice))
	}
	parts = append(parts, a.help.View(a.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ProgressLine formats the position and totals:
// "Lead 3 of 120 | Reviewed: 2 | Deleted: 0 | Remaining: 118".
func ProgressLine(index int, c review.Counts) string {
	return fmt.Sprintf("Lead %d of %d | Reviewed: %d | Deleted: %d | Remaining: %d",
		index+1, c.Total, c.Reviewed, c.Deleted, c.Remaining)
}
