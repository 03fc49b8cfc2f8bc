package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/activity"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/tui/theme"
)

const removeMarker = "✕"

// renderCards draws every card and returns the first line of each, so the
// caller can scroll a card into view.
func renderCards(page activity.Page, cursor, pcursor, width int) (string, []int) {
	if width <= 0 {
		width = 80
	}
	// border and padding take four columns
	inner := max(20, width-4)

	blocks := make([]string, 0, len(page.Cards))
	offsets := make([]int, 0, len(page.Cards))
	line := 0
	for i, card := range page.Cards {
		selected := i == cursor
		sel := -1
		if selected {
			sel = pcursor
		}
		block := theme.CardStyle(selected).Width(inner).Render(renderCard(card, sel, inner-2))
		offsets = append(offsets, line)
		line += lipgloss.Height(block)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n"), offsets
}

// renderCard draws one card body. sel is the highlighted participant, or -1.
func renderCard(card activity.Card, sel, width int) string {
	var b strings.Builder
	b.WriteString(theme.CardTitleStyle().Render(card.Name))
	b.WriteString("\n")
	if card.Description != "" {
		b.WriteString(wordwrap.String(card.Description, width))
		b.WriteString("\n")
	}
	b.WriteString(theme.LabelStyle().Render("Schedule:") + " " + card.Schedule + "\n")
	b.WriteString(theme.LabelStyle().Render("Availability:") + " " + card.Availability + "\n")

	if card.EmptyRoster {
		b.WriteString(theme.EmptyRosterStyle().Render(activity.EmptyRosterText))
		return b.String()
	}
	b.WriteString(theme.LabelStyle().Render("Participants:"))
	for i, p := range card.Participants {
		row := "• " + p.Email
		if p.Removable {
			row += " " + theme.ErrorStyle().Render(removeMarker)
		}
		b.WriteString("\n" + theme.ParticipantStyle(i == sel && p.Removable).Render(row))
	}
	return b.String()
}
