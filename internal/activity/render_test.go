package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/testutil/fakeapi"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

var teacher = session.Session{Token: "tok", Username: "mchen"}

func sample() api.Activities {
	return api.Activities{
		{Name: "Robotics", ActivityDetails: api.ActivityDetails{
			Description: "Build robots", Schedule: "Mondays", MaxParticipants: 20,
			Participants: []string{"c@m.edu", "a@m.edu", "b@m.edu"},
		}},
		{Name: "Choir", ActivityDetails: api.ActivityDetails{
			Description: "Sing", Schedule: "Fridays", MaxParticipants: 10,
			Participants: []string{},
		}},
		{Name: "Overbooked", ActivityDetails: api.ActivityDetails{
			MaxParticipants: 1,
			Participants:    []string{"x@m.edu", "y@m.edu"},
		}},
	}
}

func TestRenderUnauthenticated(t *testing.T) {
	page := Render(sample(), session.Session{})

	assert.False(t, page.ShowSignupForm)
	assert.Equal(t, MsgLoginRequired, page.Banner)
	assert.Equal(t, Header{ShowLogin: true}, page.Header)
	assert.Empty(t, page.Error)

	for _, card := range page.Cards {
		for _, p := range card.Participants {
			assert.False(t, p.Removable, "%s in %s", p.Email, card.Name)
		}
	}
}

func TestRenderAuthenticated(t *testing.T) {
	page := Render(sample(), teacher)

	assert.True(t, page.ShowSignupForm)
	assert.Empty(t, page.Banner)
	assert.Equal(t, Header{ShowUserInfo: true, Username: "mchen"}, page.Header)

	require.Len(t, page.Cards, 3)
	for _, p := range page.Cards[0].Participants {
		assert.True(t, p.Removable)
	}
}

func TestRenderCards(t *testing.T) {
	page := Render(sample(), teacher)
	require.Len(t, page.Cards, 3)

	robotics := page.Cards[0]
	assert.Equal(t, "Robotics", robotics.Name)
	assert.Equal(t, 17, robotics.SpotsLeft)
	assert.Equal(t, "17 spots left", robotics.Availability)
	assert.False(t, robotics.EmptyRoster)
	assert.Equal(t, []ParticipantRow{
		{Email: "c@m.edu", Removable: true},
		{Email: "a@m.edu", Removable: true},
		{Email: "b@m.edu", Removable: true},
	}, robotics.Participants, "server order, no sorting")

	choir := page.Cards[1]
	assert.True(t, choir.EmptyRoster)
	assert.Empty(t, choir.Participants)
	assert.Equal(t, "10 spots left", choir.Availability)

	assert.Equal(t, "-1 spots left", page.Cards[2].Availability)
}

func TestRenderOptions(t *testing.T) {
	page := Render(sample(), session.Session{})

	assert.Equal(t, []Option{
		{Value: "", Label: PlaceholderLabel},
		{Value: "Robotics", Label: "Robotics"},
		{Value: "Choir", Label: "Choir"},
		{Value: "Overbooked", Label: "Overbooked"},
	}, page.Options)
}

func TestRenderSpotsLeftForSeedData(t *testing.T) {
	acts := fakeapi.DefaultActivities()
	page := Render(acts, session.Session{})
	require.Len(t, page.Cards, len(acts))
	for i, act := range acts {
		want := act.MaxParticipants - len(act.Participants)
		assert.Equal(t, want, page.Cards[i].SpotsLeft, act.Name)
		assert.Equal(t, Availability(want), page.Cards[i].Availability, act.Name)
	}
}

func TestRenderEmpty(t *testing.T) {
	page := Render(nil, session.Session{})
	assert.Empty(t, page.Cards)
	assert.Equal(t, []Option{{Value: "", Label: PlaceholderLabel}}, page.Options)
}

func TestRenderError(t *testing.T) {
	page := RenderError(sample(), teacher)

	assert.Equal(t, MsgLoadFailed, page.Error)
	assert.Empty(t, page.Cards)
	assert.Len(t, page.Options, 4, "dropdown keeps the last good entries")
	assert.True(t, page.ShowSignupForm)
}
