package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")

	// Border styles
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			BorderStyle(RoundedBorder).
			BorderForeground(Primary).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(1, 2).
			MarginBottom(1)

	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginBottom(1)

	StatusWorking = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusCompleted = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(lipgloss.Color("#37474F")).
			Padding(0, 2).
			Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)

	InputStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)
)

// Stage styles
var (
	SceneTitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SpriteStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Muted).
			Foreground(Muted).
			Padding(0, 1).
			Align(lipgloss.Center)

	SpeakingSpriteStyle = lipgloss.NewStyle().
				Border(ThickBorder).
				BorderForeground(Primary).
				Foreground(Foreground).
				Bold(true).
				Padding(0, 1).
				Align(lipgloss.Center)

	DialogueBoxStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Secondary).
				Padding(1, 2)

	SpeakerStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	NarrationStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Italic(true)

	ChoiceStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Padding(0, 2)

	SelectedChoiceStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true).
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(Primary)

	EndingStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true).
			Italic(true)
)

// StatusStyle maps a pipeline status to its style.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "generating", "keying":
		return StatusWorking
	case "completed", "complete":
		return StatusCompleted
	case "partial":
		return StatusWarning
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}
