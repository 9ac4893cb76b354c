package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/freeflow/internal/config"
	"github.com/ramanasai/freeflow/internal/db"
	"github.com/ramanasai/freeflow/internal/editor"
	"github.com/ramanasai/freeflow/internal/notify"
	"github.com/ramanasai/freeflow/internal/prefs"
	"github.com/ramanasai/freeflow/internal/share"
	"github.com/ramanasai/freeflow/internal/timer"
	"github.com/ramanasai/freeflow/internal/version"
)

const (
	sidebarWidth = 34
	noticeTTL    = 4 * time.Second
)


// notice is the transient status line shared with controller callbacks.
type notice struct {
	mu   sync.Mutex
	text string
	at   time.Time
	now  func() time.Time
}

func newNotice() *notice { return &notice{now: time.Now} }

func (n *notice) set(msg string) {
	n.mu.Lock()
	n.text, n.at = msg, n.now()
	n.mu.Unlock()
}

func (n *notice) current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.text == "" || n.now().Sub(n.at) > noticeTTL {
		return ""
	}
	return n.text
}

type Model struct {
	ctrl   *editor.Controller
	timer  *timer.Timer
	prefs  *prefs.Store
	note   *notice
	logger *slog.Logger
	share  func(share.Target, string) (string, error)

	editor     textarea.Model
	timerInput textinput.Model

	theme       prefs.Theme
	st          style
	showSidebar bool

	width, height int
	now           time.Time
	loc           *time.Location
}

type deps struct {
	ctrl   *editor.Controller
	timer  *timer.Timer
	prefs  *prefs.Store
	note   *notice
	logger *slog.Logger
	share  func(share.Target, string) (string, error)
}

func newModel(d deps) Model {
	ed := textarea.New()
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetHeight(20)
	ed.Focus()

	ti := textinput.New()
	ti.Placeholder = "mm:ss"
	ti.CharLimit = 8
	ti.Width = 8

	if d.share == nil {
		d.share = share.Copy
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	m := Model{
		ctrl:        d.ctrl,
		timer:       d.timer,
		prefs:       d.prefs,
		note:        d.note,
		logger:      d.logger,
		share:       d.share,
		editor:      ed,
		timerInput:  ti,
		theme:       d.prefs.Theme(),
		showSidebar: d.prefs.Sidebar(),
		now:         time.Now(),
		loc:         time.Local,
	}
	m.applyTheme()
	m.sync()
	return m
}

// Run blocks until the editor is closed, then writes any unsaved text.
func Run(cfg config.Config, store *db.Store, logger *slog.Logger) error {
	b := &bridge{}
	w := newWorker(b.post)
	lc := loopClock{b: b}
	note := newNotice()

	ctrl := editor.New(store, w,
		editor.WithLogger(logger),
		editor.WithClock(lc),
		editor.WithAutosaveDelay(cfg.AutosaveDelay),
		editor.WithNotifier(note.set),
		editor.WithDefaultStyle(cfg.Editor.Font, cfg.Editor.Size),
	)

	var tmr *timer.Timer
	tmr = timer.New(cfg.TimerSeconds(),
		timer.WithClock(lc),
		timer.WithExpireHook(func() {
			note.set("Time's up")
			if !cfg.Notifications.Enabled {
				return
			}
			seconds := tmr.Duration()
			go func() {
				if err := notify.TimerDone(seconds); err != nil {
					logger.Warn("notification failed", "err", err)
				}
			}()
		}),
	)

	m := newModel(deps{
		ctrl:   ctrl,
		timer:  tmr,
		prefs:  prefs.Open(filepath.Join(cfg.DataDir, "prefs")),
		note:   note,
		logger: logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	b.attach(p.Send)
	w.start()
	logger.Info("editor started", "data_dir", cfg.DataDir, "version", version.GetVersion())

	_, runErr := p.Run()
	w.Close()
	tmr.Close()
	if err := ctrl.Close(); err != nil {
		logger.Error("final save", "err", err)
		runErr = errors.Join(runErr, fmt.Errorf("final save: %w", err))
	}
	return runErr
}

func (m Model) Init() tea.Cmd {
	m.ctrl.Load()
	return tea.Batch(tickNow(), textarea.Blink)
}

// ---------- messages & commands ----------

type tickMsg struct{ now time.Time }

type sharedMsg struct {
	target share.Target
	err    error
}

func tickNow() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg{now: t} })
}

func (m Model) shareCmd(t share.Target) tea.Cmd {
	text := m.ctrl.State().Text
	if strings.TrimSpace(text) == "" {
		m.note.set("Nothing to share yet")
		return nil
	}
	copyLink := m.share
	return func() tea.Msg {
		_, err := copyLink(t, text)
		return sharedMsg{target: t, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loopMsg:
		msg.fn()
	case tickMsg:
		m.now = msg.now
		cmd = tickNow()
	case sharedMsg:
		if msg.err != nil {
			m.logger.Warn("copy share link", "target", msg.target.String(), "err", msg.err)
			m.note.set("Could not copy the " + msg.target.String() + " link")
		} else {
			m.note.set(msg.target.String() + " link copied to clipboard")
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		return m.updateKey(msg)
	default:
		m.editor, cmd = m.editor.Update(msg)
	}
	m.sync()
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	if m.ctrl.State().PendingDelete != "" {
		m.updateConfirm(k)
		m.sync()
		return m, nil
	}
	if m.timer.Editing() {
		cmd := m.updateTimerField(msg)
		m.sync()
		return m, cmd
	}

	var cmd tea.Cmd
	switch k {
	case "ctrl+n":
		m.ctrl.NewEntry()
	case "ctrl+s":
		if m.ctrl.CanSave() {
			m.ctrl.Save()
		}
	case "ctrl+d":
		if id := m.ctrl.State().SelectedID; id != "" {
			m.ctrl.RequestDelete(id)
		}
	case "ctrl+b":
		m.showSidebar = !m.showSidebar
		if err := m.prefs.SetSidebar(m.showSidebar); err != nil {
			m.logger.Warn("save sidebar preference", "err", err)
		}
		m.resize()
	case "ctrl+up":
		m.ctrl.SelectRelative(-1)
	case "ctrl+down":
		m.ctrl.SelectRelative(1)
	case "ctrl+t":
		m.theme = m.theme.Toggle()
		if err := m.prefs.SetTheme(m.theme); err != nil {
			m.logger.Warn("save theme preference", "err", err)
		}
		m.applyTheme()
	case "ctrl+f":
		m.ctrl.CycleFont()
	case "ctrl+g":
		m.ctrl.CycleSize()
	case "ctrl+o":
		cmd = m.shareCmd(share.ChatGPT)
	case "ctrl+l":
		cmd = m.shareCmd(share.Claude)
	case "ctrl+e":
		if !m.timer.BeginEdit() {
			m.note.set("Stop the timer to change it")
			break
		}
		m.timerInput.SetValue(m.timer.Input())
		m.timerInput.CursorEnd()
		m.editor.Blur()
		cmd = m.timerInput.Focus()
	case "ctrl+p":
		m.timer.Toggle()
	case "ctrl+r":
		m.timer.Reset()
	default:
		if m.timer.DeletionLocked() && deletesText(m.editor.KeyMap, msg) {
			return m, nil
		}
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if v := m.editor.Value(); v != before {
			m.ctrl.Type(v)
		}
	}
	m.sync()
	return m, cmd
}

// deletesText reports whether msg is bound to one of the editor's delete
// actions. These are swallowed while the timer runs.
func deletesText(km textarea.KeyMap, msg tea.KeyMsg) bool {
	return key.Matches(msg,
		km.DeleteAfterCursor,
		km.DeleteBeforeCursor,
		km.DeleteCharacterBackward,
		km.DeleteCharacterForward,
		km.DeleteWordBackward,
		km.DeleteWordForward,
	)
}

func (m *Model) updateConfirm(k string) {
	switch k {
	case "y", "Y":
		m.ctrl.ResolveDelete(true)
	case "n", "N", "esc":
		m.ctrl.ResolveDelete(false)
	}
}

func (m *Model) updateTimerField(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.timer.SetInput(m.timerInput.Value())
		m.timer.Commit()
		return m.closeTimerField()
	case "esc":
		m.timer.Cancel()
		return m.closeTimerField()
	case "ctrl+p":
		m.timer.SetInput(m.timerInput.Value())
		m.timer.Start()
		return m.closeTimerField()
	case "up", "down":
		delta := 1
		if msg.String() == "down" {
			delta = -1
		}
		m.timer.SetInput(m.timerInput.Value())
		caret := m.timer.Step(m.timerInput.Position(), delta)
		m.timerInput.SetValue(m.timer.Input())
		m.timerInput.SetCursor(caret)
		return nil
	}
	var cmd tea.Cmd
	m.timerInput, cmd = m.timerInput.Update(msg)
	m.timer.SetInput(m.timerInput.Value())
	return cmd
}

func (m *Model) closeTimerField() tea.Cmd {
	m.timerInput.Blur()
	return m.editor.Focus()
}

// sync pulls controller state into the widgets after every message.
func (m *Model) sync() {
	st := m.ctrl.State()
	if m.editor.Value() != st.Text {
		m.editor.SetValue(st.Text)
	}
	m.editor.Placeholder = st.Placeholder
}

func (m *Model) applyTheme() {
	m.st = newStyle(m.theme)
	m.editor.FocusedStyle.CursorLine = m.st.cursorLine
	m.editor.FocusedStyle.Text = m.st.text
	m.editor.BlurredStyle.Text = m.st.textDim
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w := m.width - 4
	if m.showSidebar {
		w -= sidebarWidth
	}
	m.editor.SetWidth(max(w, 10))
	m.editor.SetHeight(max(m.height-6, 3))
}

// ---------- view ----------

func (m Model) View() string {
	st := m.ctrl.State()
	if st.PendingDelete != "" {
		return m.renderConfirm(st)
	}

	body := m.st.border(true).Render(m.editor.View())
	if m.showSidebar {
		side := m.renderSidebar(st, max(m.height-4, 3))
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(), body, m.statusBar(st))
}

func (m Model) renderTopBar() string {
	var t string
	switch {
	case m.timer.Editing():
		t = m.timerInput.View()
	case m.timer.Running():
		t = m.st.timerLive.Render("● " + m.timer.Display())
	default:
		t = m.timer.Display()
	}
	left := m.st.title.Render(version.GetShortVersion()) + "   " + t
	right := m.now.In(m.loc).Format("Mon Jan 2 15:04")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.st.topBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) statusBar(st editor.State) string {
	saved := "saved"
	switch {
	case st.SelectedID == "" && st.Text != "":
		saved = "not saved (ctrl+s)"
	case st.SelectedID == "":
		saved = "no entry"
	case m.ctrl.AutosavePending():
		saved = "saving…"
	case m.ctrl.Dirty():
		saved = "unsaved"
	}
	hints := "ctrl+n new • ctrl+s save • ctrl+d delete • ctrl+b entries • ctrl+p timer • ctrl+c quit"
	if n := m.note.current(); n != "" {
		hints = m.st.notice.Render(n)
	}
	return m.st.statusBar.Render(fmt.Sprintf("%s %d • %s   |   %s",
		editor.FontName(st.Font), st.Size, saved, hints))
}

func (m Model) renderSidebar(st editor.State, h int) string {
	lines := []string{m.st.title.Render("Entries"), ""}
	if len(st.Entries) == 0 {
		lines = append(lines, m.st.textDim.Render("nothing yet"))
	}
	for _, e := range st.Entries {
		preview := e.Preview()
		if preview == "" {
			preview = "(empty)"
		}
		line := fmt.Sprintf("%-6s %s", e.ShortDate(m.loc), preview)
		if e.ID == st.SelectedID {
			lines = append(lines, m.st.selected.Render("→ "+line))
			continue
		}
		lines = append(lines, m.st.text.Render("  "+line))
	}
	if len(lines) > h-2 && h > 2 {
		lines = lines[:h-2]
	}
	content := lipgloss.NewStyle().Width(sidebarWidth - 4).Render(strings.Join(lines, "\n"))
	return m.st.border(false).Width(sidebarWidth - 2).Height(h).Render(content)
}

func (m Model) renderConfirm(st editor.State) string {
	label := "this entry"
	for _, e := range st.Entries {
		if e.ID == st.PendingDelete && e.Preview() != "" {
			label = "“" + e.Preview() + "”"
		}
	}
	box := m.st.modalBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.st.modalTitle.Render("Delete entry?"),
		"",
		"Delete "+label+"? This cannot be undone.",
		"",
		m.st.textDim.Render("y delete • n/esc keep"),
	))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
