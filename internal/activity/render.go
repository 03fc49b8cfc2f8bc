// Package activity turns the backend's activity mapping and the current
// session into a declarative Page, and drives refresh, signup and unregister.
package activity

import (
	"fmt"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/session"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/client/api"
)

// User-facing text.
const (
	MsgLoadFailed       = "Failed to load activities. Please try again later."
	MsgActionFailed     = "An error occurred"
	MsgSignupFailed     = "Failed to sign up. Please try again."
	MsgUnregisterFailed = "Failed to unregister. Please try again."
	MsgLoginRequired    = "Please login as a teacher to register or unregister students."
	PlaceholderLabel    = "-- Select an activity --"
	EmptyRosterText     = "No participants yet"
)

// Page is everything a surface needs to draw the activities screen.
type Page struct {
	Cards          []Card
	Options        []Option
	ShowSignupForm bool
	// Banner replaces the signup form for viewers who are not logged in.
	Banner string
	Header Header
	// Error is set when the activity list could not be fetched. Cards is
	// empty in that case.
	Error string
}

// Card is one activity.
type Card struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	SpotsLeft       int
	Availability    string
	Participants    []ParticipantRow
	EmptyRoster     bool
}

// ParticipantRow is one roster entry. Removable rows carry an unregister
// control.
type ParticipantRow struct {
	Email     string
	Removable bool
}

// Option is one entry of the signup dropdown.
type Option struct {
	Value string
	Label string
}

// Header drives the login button and the logged-in user display.
type Header struct {
	ShowLogin    bool
	ShowUserInfo bool
	Username     string
}

// Render builds the Page for acts as seen by s. It has no side effects.
func Render(acts api.Activities, s session.Session) Page {
	authed := s.Authenticated()

	page := Page{
		Cards:          make([]Card, 0, len(acts)),
		Options:        make([]Option, 0, len(acts)+1),
		ShowSignupForm: authed,
		Header:         renderHeader(s),
	}
	if !authed {
		page.Banner = MsgLoginRequired
	}

	page.Options = append(page.Options, Option{Value: "", Label: PlaceholderLabel})
	for _, act := range acts {
		page.Cards = append(page.Cards, renderCard(act, authed))
		page.Options = append(page.Options, Option{Value: act.Name, Label: act.Name})
	}
	return page
}

// RenderError builds the Page shown when the activity list could not be
// loaded. The dropdown keeps the entries of last, the last good fetch.
func RenderError(last api.Activities, s session.Session) Page {
	page := Render(last, s)
	page.Cards = []Card{}
	page.Error = MsgLoadFailed
	return page
}

// Availability formats the spots-left line.
func Availability(spotsLeft int) string {
	return fmt.Sprintf("%d spots left", spotsLeft)
}

func renderCard(act api.Activity, removable bool) Card {
	spots := act.SpotsLeft()
	card := Card{
		Name:            act.Name,
		Description:     act.Description,
		Schedule:        act.Schedule,
		MaxParticipants: act.MaxParticipants,
		SpotsLeft:       spots,
		Availability:    Availability(spots),
		Participants:    make([]ParticipantRow, 0, len(act.Participants)),
		EmptyRoster:     len(act.Participants) == 0,
	}
	for _, email := range act.Participants {
		card.Participants = append(card.Participants, ParticipantRow{Email: email, Removable: removable})
	}
	return card
}

func renderHeader(s session.Session) Header {
	if !s.Authenticated() {
		return Header{ShowLogin: true}
	}
	return Header{ShowUserInfo: true, Username: s.Username}
}
