package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/activity"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/tui/theme"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
)

const (
	title = "Mergington High School Activities"

	msgSelectActivity = "Please select an activity"
	msgEnterEmail     = "Please enter the student's email"
	msgEnterLogin     = "Please enter a username and password"
)

// RunUI starts the interactive page, blocking until the user quits. log must
// not write to the terminal while the page is shown.
func RunUI(ctx context.Context, sessions *session.Manager, activities client.Activity, n *notify.Notifier, log logr.Logger) error {
	m := newModel(ctx, sessions, activities, n, log)
	defer m.close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type mode int

const (
	modeBrowse mode = iota
	modeLogin
	modeSignup
)

// pageMsg reports that a refresh, signup or unregister finished.
type pageMsg struct {
	err error
}

// sessionMsg reports that the session may have changed outside a key press.
type sessionMsg struct{}

type loginDoneMsg struct {
	err error
}

type noticeMsg struct{}

type model struct {
	ctx    context.Context
	cancel context.CancelFunc

	sessions *session.Manager
	view     *activity.View
	notifier *notify.Notifier
	notices  chan struct{}

	page    activity.Page
	mode    mode
	loading bool
	// cursor is the selected card, pcursor the selected participant in it.
	cursor  int
	pcursor int

	vp   viewport.Model
	spin spinner.Model

	username textinput.Model
	password textinput.Model
	email    textinput.Model
	option   int
	focus    int
	formErr  string
	busy     bool

	width  int
	height int
}

func newModel(ctx context.Context, sessions *session.Manager, activities client.Activity, n *notify.Notifier, log logr.Logger) *model {
	ctx, cancel := context.WithCancel(ctx)

	view := activity.NewView(activities, n, sessions.Current(), activity.WithViewLogger(log.WithName("activity")))
	sessions.OnChange(func(s session.Session) { view.SessionChanged(s) })

	notices := make(chan struct{}, 1)
	n.OnChange(func(notify.Message, bool) {
		select {
		case notices <- struct{}{}:
		default:
		}
	})

	username := textinput.New()
	username.Prompt = "Username: "
	username.CharLimit = 64
	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	email := textinput.New()
	email.Prompt = "Student email: "
	email.Placeholder = "student@mergington.edu"
	email.CharLimit = 254

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorPrimary)

	return &model{
		ctx:      ctx,
		cancel:   cancel,
		sessions: sessions,
		view:     view,
		notifier: n,
		notices:  notices,
		page:     view.Page(),
		loading:  true,
		vp:       vp,
		spin:     sp,
		username: username,
		password: password,
		email:    email,
		width:    80,
		height:   24,
	}
}

func (m *model) close() {
	m.cancel()
	m.notifier.Close()
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd(), m.waitNotice(), m.spin.Tick}
	if m.sessions.Current().Authenticated() {
		cmds = append(cmds, m.validateCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(5, msg.Height-chromeHeight)
		m.syncViewport()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case noticeMsg:
		return m, m.waitNotice()
	case pageMsg:
		m.loading = false
		if msg.err == nil && m.mode == modeSignup {
			m.resetSignup()
			m.mode = modeBrowse
		}
		m.reload()
		return m, nil
	case sessionMsg:
		m.reload()
		if m.mode == modeSignup && !m.page.ShowSignupForm {
			m.resetSignup()
			m.mode = modeBrowse
		}
		return m, nil
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			var loginErr *session.LoginError
			if errors.As(msg.err, &loginErr) {
				m.formErr = loginErr.Message
			} else {
				m.formErr = msg.err.Error()
			}
			return m, nil
		}
		m.resetLogin()
		m.mode = modeBrowse
		m.reload()
		return m, m.startRefresh()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeSignup:
			return m.updateSignup(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.pcursor = 0
			m.syncViewport()
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.page.Cards)-1 {
			m.cursor++
			m.pcursor = 0
			m.syncViewport()
		}
		return m, nil
	case "tab", "right":
		if card, ok := m.selectedCard(); ok && m.pcursor < len(card.Participants)-1 {
			m.pcursor++
			m.syncViewport()
		}
		return m, nil
	case "shift+tab", "left":
		if m.pcursor > 0 {
			m.pcursor--
			m.syncViewport()
		}
		return m, nil
	case "r":
		return m, m.startRefresh()
	case "l":
		if m.page.Header.ShowUserInfo {
			m.sessions.Logout()
			m.reload()
			return m, m.startRefresh()
		}
		m.mode = modeLogin
		m.formErr = ""
		m.focus = 0
		return m, m.focusLogin()
	case "s":
		if !m.page.ShowSignupForm {
			return m, nil
		}
		m.mode = modeSignup
		m.formErr = ""
		m.focus = 1
		if m.option == 0 && m.cursor+1 < len(m.page.Options) {
			m.option = m.cursor + 1
		}
		return m, m.email.Focus()
	case "x", "delete":
		card, ok := m.selectedCard()
		if !ok || m.pcursor >= len(card.Participants) || !card.Participants[m.pcursor].Removable {
			return m, nil
		}
		m.loading = true
		return m, m.unregisterCmd(card.Name, card.Participants[m.pcursor].Email)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetLogin()
		m.mode = modeBrowse
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		return m, m.focusLogin()
	case "enter":
		if m.busy {
			return m, nil
		}
		if m.focus == 0 {
			m.focus = 1
			return m, m.focusLogin()
		}
		u, p := strings.TrimSpace(m.username.Value()), m.password.Value()
		if u == "" || p == "" {
			m.formErr = msgEnterLogin
			return m, nil
		}
		m.busy = true
		m.formErr = ""
		return m, m.loginCmd(u, p)
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *model) updateSignup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.email.Blur()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		if m.focus == 1 {
			return m, m.email.Focus()
		}
		m.email.Blur()
		return m, nil
	case "left":
		if m.focus == 0 && m.option > 0 {
			m.option--
			return m, nil
		}
	case "right":
		if m.focus == 0 && m.option < len(m.page.Options)-1 {
			m.option++
			return m, nil
		}
	case "enter":
		if m.loading {
			return m, nil
		}
		if m.option <= 0 || m.option >= len(m.page.Options) {
			m.formErr = msgSelectActivity
			return m, nil
		}
		email := strings.TrimSpace(m.email.Value())
		if email == "" {
			m.formErr = msgEnterEmail
			return m, nil
		}
		m.formErr = ""
		m.loading = true
		return m, m.signupCmd(m.page.Options[m.option].Value, email)
	}

	if m.focus != 1 {
		return m, nil
	}
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	return m, cmd
}

func (m *model) startRefresh() tea.Cmd {
	m.loading = true
	return m.refreshCmd()
}

func (m *model) refreshCmd() tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		view.Refresh(ctx)
		return pageMsg{}
	}
}

func (m *model) validateCmd() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	return func() tea.Msg {
		// Network failures keep the session and are logged by the manager.
		_, _ = sessions.Validate(ctx)
		return sessionMsg{}
	}
}

func (m *model) loginCmd(username, password string) tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	return func() tea.Msg {
		_, err := sessions.Login(ctx, username, password)
		return loginDoneMsg{err: err}
	}
}

func (m *model) signupCmd(activityName, email string) tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		_, err := view.Signup(ctx, activityName, email)
		return pageMsg{err: err}
	}
}

func (m *model) unregisterCmd(activityName, email string) tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		_, err := view.Unregister(ctx, activityName, email)
		return pageMsg{err: err}
	}
}

func (m *model) waitNotice() tea.Cmd {
	ch := m.notices
	return func() tea.Msg {
		<-ch
		return noticeMsg{}
	}
}

func (m *model) focusLogin() tea.Cmd {
	if m.focus == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m *model) resetLogin() {
	m.username.Reset()
	m.password.Reset()
	m.username.Blur()
	m.password.Blur()
	m.formErr = ""
	m.focus = 0
}

func (m *model) resetSignup() {
	m.email.Reset()
	m.email.Blur()
	m.option = 0
	m.formErr = ""
}

// reload takes the view's current page and keeps the cursors in range.
func (m *model) reload() {
	m.page = m.view.Page()
	if m.cursor >= len(m.page.Cards) {
		m.cursor = max(0, len(m.page.Cards)-1)
	}
	if card, ok := m.selectedCard(); ok {
		if m.pcursor >= len(card.Participants) {
			m.pcursor = max(0, len(card.Participants)-1)
		}
	} else {
		m.pcursor = 0
	}
	if m.option >= len(m.page.Options) {
		m.option = 0
	}
	m.syncViewport()
}

func (m *model) selectedCard() (activity.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Cards) {
		return activity.Card{}, false
	}
	return m.page.Cards[m.cursor], true
}

// syncViewport redraws the cards and scrolls the selected one into view.
func (m *model) syncViewport() {
	content, offsets := renderCards(m.page, m.cursor, m.pcursor, m.vp.Width)
	m.vp.SetContent(content)
	if m.cursor < len(offsets) {
		top := offsets[m.cursor]
		if top < m.vp.YOffset || top >= m.vp.YOffset+m.vp.Height {
			m.vp.SetYOffset(top)
		}
	}
}

const chromeHeight = 7

func (m *model) View() string {
	width := max(20, m.width)
	sep := theme.SeparatorStyle().Render(strings.Repeat("─", width))

	var body string
	switch m.mode {
	case modeLogin:
		body = m.loginView()
	case modeSignup:
		body = m.signupView()
	default:
		if m.page.Error != "" {
			body = theme.ErrorStyle().Render(m.page.Error)
		} else {
			body = m.vp.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(width),
		sep,
		body,
		sep,
		m.bannerView(),
		m.statusView(),
		theme.HelpStyle().Render(m.helpText()),
	)
}

func (m *model) headerView(width int) string {
	left := theme.HeadingStyle().Render(title)
	var right string
	if m.page.Header.ShowUserInfo {
		right = "Logged in as " + theme.UserStyle().Render(m.page.Header.Username)
	} else {
		right = theme.StatusStyle().Render("[l] Login")
	}
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) bannerView() string {
	if m.page.Banner == "" {
		return ""
	}
	return theme.BannerStyle().Render(m.page.Banner)
}

func (m *model) statusView() string {
	if msg, ok := m.notifier.Current(); ok {
		return theme.MessageStyle(msg.Kind).Render(msg.Text)
	}
	if m.loading || m.busy {
		return fmt.Sprintf("%s %s", m.spin.View(), theme.StatusStyle().Render("Loading..."))
	}
	return ""
}

func (m *model) loginView() string {
	lines := []string{
		theme.HeadingStyle().Render("Teacher Login"),
		"",
		m.username.View(),
		m.password.View(),
	}
	if m.formErr != "" {
		lines = append(lines, "", theme.ErrorStyle().Render(m.formErr))
	}
	return theme.FormStyle().Render(strings.Join(lines, "\n"))
}

func (m *model) signupView() string {
	label := activity.PlaceholderLabel
	if m.option >= 0 && m.option < len(m.page.Options) {
		label = m.page.Options[m.option].Label
	}
	selector := "Activity: ◀ " + label + " ▶"
	if m.focus == 0 {
		selector = theme.ParticipantStyle(true).Render(selector)
	}
	lines := []string{
		theme.HeadingStyle().Render("Sign Up for an Activity"),
		"",
		selector,
		m.email.View(),
	}
	if m.formErr != "" {
		lines = append(lines, "", theme.ErrorStyle().Render(m.formErr))
	}
	return theme.FormStyle().Render(strings.Join(lines, "\n"))
}

func (m *model) helpText() string {
	switch m.mode {
	case modeLogin:
		return "tab switch field • enter submit • esc cancel"
	case modeSignup:
		return "tab switch field • ←/→ choose activity • enter sign up • esc cancel"
	}
	keys := []string{"↑/↓ activity", "r refresh"}
	if m.page.Header.ShowUserInfo {
		keys = append(keys, "tab participant", "x unregister", "s sign up", "l logout")
	} else {
		keys = append(keys, "l login")
	}
	return strings.Join(append(keys, "q quit"), " • ")
}
