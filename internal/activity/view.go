package activity

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// View owns the current Page. Every refresh bumps a generation counter, and a
// fetch that completes after a newer refresh started is dropped instead of
// replacing the page. Pages are always rendered for the session held at the
// time of rendering, so a fetch that spans a login or logout still lands.
type View struct {
	activities client.Activity
	notifier   *notify.Notifier
	log        logr.Logger

	mu      sync.Mutex
	gen     uint64
	session session.Session
	last    api.Activities
	page    Page
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithViewLogger sets the View's logger.
func WithViewLogger(l logr.Logger) ViewOption {
	return func(v *View) { v.log = l }
}

// NewView returns a View for s with an empty page. Call Refresh to load it.
func NewView(activities client.Activity, notifier *notify.Notifier, s session.Session, opts ...ViewOption) *View {
	v := &View{
		activities: activities,
		notifier:   notifier,
		log:        logr.Discard(),
		session:    s,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.page = Render(nil, s)
	return v
}

// Page returns the current page.
func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Session returns the session the view renders for.
func (v *View) Session() session.Session {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

// Activities returns the last successfully fetched activities.
func (v *View) Activities() api.Activities {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Refresh fetches every activity and rebuilds the page from scratch for the
// current session. If a newer refresh started while this one was in flight,
// the result is discarded and the current page is returned unchanged.
func (v *View) Refresh(ctx context.Context) Page {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	acts, err := v.activities.ListActivities(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.log.V(1).Info("Discarding stale activities response", "generation", gen, "current", v.gen)
		return v.page
	}
	if err != nil {
		v.log.Error(err, "Error fetching activities")
		v.page = RenderError(v.last, v.session)
		return v.page
	}
	v.last = acts
	v.page = Render(acts, v.session)
	return v.page
}

// SessionChanged re-renders the last fetched data for s. A refresh still in
// flight renders for s when it completes.
func (v *View) SessionChanged(s session.Session) Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.session = s
	if v.page.Error != "" {
		v.page = RenderError(v.last, s)
	} else {
		v.page = Render(v.last, s)
	}
	return v.page
}

// Signup registers email for activity. The outcome is shown on the notifier:
// the backend message on success, its detail (or a generic text) on
// rejection. The list is refreshed after any backend response. A transport
// failure shows a generic text and leaves the list alone. The returned error
// is the one already shown, for callers that need an exit status.
func (v *View) Signup(ctx context.Context, activity, email string) (Page, error) {
	token := v.Session().Token
	msg, err := v.activities.Signup(ctx, token, activity, email)
	return v.complete(ctx, msg, err, MsgSignupFailed, "Error signing up", "activity", activity)
}

// Unregister removes email from activity with the same contract as Signup.
func (v *View) Unregister(ctx context.Context, activity, email string) (Page, error) {
	token := v.Session().Token
	msg, err := v.activities.Unregister(ctx, token, activity, email)
	return v.complete(ctx, msg, err, MsgUnregisterFailed, "Error unregistering", "activity", activity)
}

func (v *View) complete(ctx context.Context, msg *api.MessageResponse, err error, transportMsg, logMsg string, kv ...any) (Page, error) {
	switch {
	case err == nil:
		v.notifier.Show(msg.Message, notify.Success)
	case client.IsTransport(err):
		v.log.Error(err, logMsg, kv...)
		v.notifier.Show(transportMsg, notify.Error)
		return v.Page(), err
	default:
		v.notifier.Show(client.DetailOr(err, MsgActionFailed), notify.Error)
	}
	return v.Refresh(ctx), err
}
