package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/activity"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/testutil/fakeapi"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

var (
	enter      = tea.KeyMsg{Type: tea.KeyEnter}
	tab        = tea.KeyMsg{Type: tea.KeyTab}
	left       = tea.KeyMsg{Type: tea.KeyLeft}
	down       = tea.KeyMsg{Type: tea.KeyDown}
	escape     = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlC      = tea.KeyMsg{Type: tea.KeyCtrlC}
	windowSize = tea.WindowSizeMsg{Width: 100, Height: 60}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type harness struct {
	t     *testing.T
	m     *model
	fake  *fakeapi.Server
	store *session.MemoryStore
	mgr   *session.Manager
	clock *testingclock.FakeClock
}

func newHarness(t *testing.T, loggedIn bool) *harness {
	t.Helper()
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)

	cs := client.New(srv.URL)
	store := session.NewMemoryStore()
	mgr := session.NewManager(store, cs.Auth, cs.User)
	if loggedIn {
		_, err := mgr.Login(context.Background(), "mchen", "chess456")
		require.NoError(t, err)
	}
	clock := testingclock.NewFakeClock(time.Now())
	m := newModel(context.Background(), mgr, cs.Activity, notify.New(notify.WithClock(clock)), logr.Discard())
	t.Cleanup(m.close)
	m.Update(windowSize)

	h := &harness{t: t, m: m, fake: fake, store: store, mgr: mgr, clock: clock}
	h.run(m.refreshCmd())
	return h
}

// press feeds msg to the model and returns the resulting command.
func (h *harness) press(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = h.m.Update(msg)
	}
	return cmd
}

// run executes a single, non-batched command and feeds its message back.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.m.Update(cmd())
}

func (h *harness) message() string {
	msg, ok := h.m.notifier.Current()
	if !ok {
		return ""
	}
	return msg.Text
}

func TestInitialPageLoggedOut(t *testing.T) {
	h := newHarness(t, false)

	assert.False(t, h.m.loading)
	require.Len(t, h.m.page.Cards, len(fakeapi.DefaultActivities()))

	view := h.m.View()
	assert.Contains(t, view, title)
	assert.Contains(t, view, "[l] Login")
	assert.Contains(t, view, "Chess Club")
	assert.Contains(t, view, "10 spots left")
	assert.Contains(t, view, activity.MsgLoginRequired)
	assert.NotContains(t, view, removeMarker)
}

func TestLoggedOutCannotChangeRosters(t *testing.T) {
	h := newHarness(t, false)

	assert.Nil(t, h.press(runes("x")))
	assert.Nil(t, h.press(runes("s")))
	assert.Equal(t, modeBrowse, h.m.mode)
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t, false)

	h.press(runes("l"))
	require.Equal(t, modeLogin, h.m.mode)
	h.press(runes("mchen"), enter, runes("chess456"))
	cmd := h.press(enter)
	require.True(t, h.m.busy)

	h.run(cmd)
	assert.Equal(t, modeBrowse, h.m.mode)
	assert.True(t, h.m.loading, "login triggers a refresh")
	assert.Equal(t, "mchen", h.store.Snapshot()[session.UsernameKey])

	view := h.m.View()
	assert.Contains(t, view, "Logged in as")
	assert.Contains(t, view, "mchen")
	assert.Contains(t, view, removeMarker, "re-rendered with removal controls")
	assert.NotContains(t, view, activity.MsgLoginRequired)
	assert.Empty(t, h.m.username.Value(), "form is reset")
}

func TestLoginFailureStaysInForm(t *testing.T) {
	h := newHarness(t, false)

	h.press(runes("l"), runes("mchen"), tab, runes("wrong"))
	h.run(h.press(enter))

	assert.Equal(t, modeLogin, h.m.mode)
	assert.Equal(t, "Incorrect username or password", h.m.formErr)
	assert.Contains(t, h.m.View(), "Incorrect username or password")
	assert.Empty(t, h.store.Snapshot())
}

func TestLoginRequiresBothFields(t *testing.T) {
	h := newHarness(t, false)

	h.press(runes("l"), runes("mchen"), tab)
	assert.Nil(t, h.press(enter))
	assert.Equal(t, msgEnterLogin, h.m.formErr)

	h.press(escape)
	assert.Equal(t, modeBrowse, h.m.mode)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, true)
	require.True(t, h.m.page.ShowSignupForm)

	cmd := h.press(runes("l"))
	assert.Empty(t, h.store.Snapshot())
	assert.False(t, h.m.page.ShowSignupForm)
	assert.Equal(t, activity.MsgLoginRequired, h.m.page.Banner)
	assert.NotContains(t, h.m.View(), removeMarker)

	h.run(cmd)
	assert.False(t, h.m.loading)
}

func TestUnregisterSelectedParticipant(t *testing.T) {
	h := newHarness(t, true)

	h.press(tab) // daniel@mergington.edu
	h.run(h.press(runes("x")))

	card := h.m.page.Cards[0]
	assert.Equal(t, []activity.ParticipantRow{{Email: "michael@mergington.edu", Removable: true}}, card.Participants)
	assert.Equal(t, "Unregistered daniel@mergington.edu from Chess Club", h.message())
	assert.Equal(t, 0, h.m.pcursor, "cursor clamped to the shorter roster")
	assert.Contains(t, h.m.View(), "Unregistered daniel@mergington.edu from Chess Club")
}

func TestSignupForm(t *testing.T) {
	h := newHarness(t, true)

	h.press(down, runes("s"))
	require.Equal(t, modeSignup, h.m.mode)
	assert.Equal(t, "Programming Class", h.m.page.Options[h.m.option].Value, "defaults to the selected card")

	h.press(runes("new@mergington.edu"))
	h.run(h.press(enter))

	assert.Equal(t, modeBrowse, h.m.mode)
	assert.Equal(t, "Signed up new@mergington.edu for Programming Class", h.message())
	assert.Empty(t, h.m.email.Value())
	participants := h.m.page.Cards[1].Participants
	assert.Equal(t, "new@mergington.edu", participants[len(participants)-1].Email)

	h.clock.Step(notify.DefaultDismissAfter)
	require.Eventually(t, func() bool { return h.message() == "" }, time.Second, time.Millisecond)
	assert.NotContains(t, h.m.View(), "Signed up new@mergington.edu")
}

func TestSignupRejectionKeepsForm(t *testing.T) {
	h := newHarness(t, true)

	h.press(runes("s"), runes("michael@mergington.edu"))
	h.run(h.press(enter))

	assert.Equal(t, modeSignup, h.m.mode)
	assert.Equal(t, "Student is already signed up", h.message())
	assert.Equal(t, "michael@mergington.edu", h.m.email.Value())
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t, true)

	h.press(runes("s"), tab, left)
	assert.Equal(t, 0, h.m.option)
	assert.Nil(t, h.press(enter))
	assert.Equal(t, msgSelectActivity, h.m.formErr)

	h.press(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, h.press(enter))
	assert.Equal(t, msgEnterEmail, h.m.formErr)
}

func TestValidateDropsRejectedToken(t *testing.T) {
	h := newHarness(t, true)
	h.fake.Revoke(h.mgr.Current().Token)

	h.run(h.m.validateCmd())

	assert.True(t, h.m.page.Header.ShowLogin)
	assert.Empty(t, h.store.Snapshot())
	assert.Empty(t, h.message(), "silent logout")
}

// heldActivities holds the first ListActivities call until release is closed.
type heldActivities struct {
	client.Activity
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (a *heldActivities) ListActivities(ctx context.Context) (api.Activities, error) {
	first := false
	a.once.Do(func() { first = true })
	if first {
		close(a.started)
		<-a.release
	}
	return a.Activity.ListActivities(ctx)
}

func TestStartupWithRejectedTokenStillListsActivities(t *testing.T) {
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)
	cs := client.New(srv.URL)

	store := session.NewMemoryStore()
	token := fake.IssueToken("mchen")
	require.NoError(t, store.Set(session.TokenKey, token))
	require.NoError(t, store.Set(session.UsernameKey, "mchen"))
	fake.Revoke(token)
	mgr := session.NewManager(store, cs.Auth, cs.User)
	_, err := mgr.Load()
	require.NoError(t, err)

	acts := &heldActivities{Activity: cs.Activity, started: make(chan struct{}), release: make(chan struct{})}
	m := newModel(context.Background(), mgr, acts, notify.New(notify.WithClock(testingclock.NewFakeClock(time.Now()))), logr.Discard())
	t.Cleanup(m.close)
	require.True(t, m.sessions.Current().Authenticated())

	// The startup refresh is in flight when validation logs the user out.
	refreshed := make(chan tea.Msg, 1)
	refresh := m.refreshCmd()
	go func() { refreshed <- refresh() }()
	<-acts.started
	m.Update(m.validateCmd()())
	assert.Empty(t, store.Snapshot())

	close(acts.release)
	m.Update(<-refreshed)

	assert.False(t, m.loading)
	require.Len(t, m.page.Cards, len(fakeapi.DefaultActivities()))
	assert.True(t, m.page.Header.ShowLogin)
	assert.False(t, m.page.ShowSignupForm)
	assert.Equal(t, activity.MsgLoginRequired, m.page.Banner)
	assert.Contains(t, m.View(), "Chess Club")
}

func TestValidateLogoutLeavesSignupForm(t *testing.T) {
	h := newHarness(t, true)
	h.press(runes("s"), runes("new@mergington.edu"))
	require.Equal(t, modeSignup, h.m.mode)

	h.fake.Revoke(h.mgr.Current().Token)
	h.run(h.m.validateCmd())

	assert.Equal(t, modeBrowse, h.m.mode)
	assert.Empty(t, h.m.email.Value())
	assert.Nil(t, h.press(enter), "no signup is sent without a session")
	assert.Contains(t, h.m.View(), activity.MsgLoginRequired)
}

func TestRefreshFailureIsLogged(t *testing.T) {
	fake := fakeapi.New()
	srv := fake.Start()
	t.Cleanup(srv.Close)
	fake.FailActivityList(true)
	cs := client.New(srv.URL)

	core, logs := observer.New(zap.InfoLevel)
	mgr := session.NewManager(session.NewMemoryStore(), cs.Auth, cs.User)
	m := newModel(context.Background(), mgr, cs.Activity, notify.New(), zapr.NewLogger(zap.New(core)))
	t.Cleanup(m.close)

	m.Update(m.refreshCmd()())

	assert.Equal(t, activity.MsgLoadFailed, m.page.Error)
	entries := logs.FilterMessage("Error fetching activities").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "activity", entries[0].LoggerName)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestRefreshFailure(t *testing.T) {
	h := newHarness(t, false)
	h.fake.FailActivityList(true)

	h.run(h.press(runes("r")))
	assert.Contains(t, h.m.View(), activity.MsgLoadFailed)
}

func TestQuitCancelsRequests(t *testing.T) {
	h := newHarness(t, false)

	cmd := h.press(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, h.m.ctx.Err())
}

func TestHelpTextFollowsSession(t *testing.T) {
	h := newHarness(t, false)
	assert.Contains(t, h.m.helpText(), "l login")

	h = newHarness(t, true)
	assert.Contains(t, h.m.helpText(), "x unregister")
}

func TestRenderCardsOffsets(t *testing.T) {
	page := activity.Render(fakeapi.DefaultActivities(), session.Session{})
	content, offsets := renderCards(page, 0, 0, 80)

	require.Len(t, offsets, len(page.Cards))
	assert.Zero(t, offsets[0])
	for i := 1; i < len(offsets); i++ {
		assert.Greater(t, offsets[i], offsets[i-1])
	}
	lines := strings.Split(content, "\n")
	assert.Contains(t, lines[offsets[1]+1], "Programming Class")
}

func TestRenderCardEmptyRoster(t *testing.T) {
	out := renderCard(activity.Card{Name: "Choir", Availability: "10 spots left", EmptyRoster: true}, -1, 40)
	assert.Contains(t, out, activity.EmptyRosterText)
	assert.NotContains(t, out, "Participants:")
}
