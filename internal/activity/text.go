package activity

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/reflow/wordwrap"
)

// DescriptionWidth is the column width descriptions are wrapped to.
const DescriptionWidth = 40

// RenderTable draws the page as a plain-text table, one row per activity.
// A page carrying a fetch error renders as that error text.
func RenderTable(page Page) string {
	if page.Error != "" {
		return page.Error
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Activity", "Description", "Schedule", "Availability", "Participants"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for i, card := range page.Cards {
		tw.AppendRow(table.Row{
			i + 1,
			card.Name,
			wordwrap.String(card.Description, DescriptionWidth),
			card.Schedule,
			card.Availability,
			roster(card),
		})
		if i < len(page.Cards)-1 {
			tw.AppendSeparator()
		}
	}

	out := tw.Render()
	if page.Banner != "" {
		out += "\n" + page.Banner
	}
	return out
}

func roster(card Card) string {
	if card.EmptyRoster {
		return EmptyRosterText
	}
	emails := make([]string, len(card.Participants))
	for i, p := range card.Participants {
		emails[i] = p.Email
	}
	return strings.Join(emails, "\n")
}
