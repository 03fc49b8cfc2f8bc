package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/notify"
)

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1a237e", Dark: "#7986cb"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#00695c", Dark: "#4db6ac"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#81c784"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#e57373"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0277bd", Dark: "#4fc3f7"}
)

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

func SeparatorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// CardStyle frames one activity. The selected card gets the primary border.
func CardStyle(selected bool) lipgloss.Style {
	border := ColorMuted
	if selected {
		border = ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginBottom(1)
}

func CardTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func ParticipantStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Reverse(true)
	}
	return lipgloss.NewStyle()
}

func EmptyRosterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true).Foreground(ColorMuted)
}

func BannerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorInfo).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(ColorInfo).PaddingLeft(1)
}

// MessageStyle colours the transient message line by kind.
func MessageStyle(kind notify.Kind) lipgloss.Style {
	switch kind {
	case notify.Success:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	case notify.Error:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	default:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	}
}

// FormStyle frames the login and signup forms.
func FormStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2)
}
