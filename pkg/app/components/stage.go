package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/player"
)

const spriteWidth = 18

// Stage draws player frames in the terminal. Sprites are laid out on one row
// at their spread position; the speaker is highlighted.
type Stage struct {
	Width          int
	SelectedChoice int
}

func NewStage(width int) *Stage {
	return &Stage{Width: width}
}

func (s *Stage) View(f player.Frame) string {
	width := s.Width
	if width < spriteWidth+4 {
		width = spriteWidth + 4
	}

	header := styles.SceneTitleStyle.Render(f.SceneName)
	if f.LineCount > 0 {
		header += styles.MutedStyle.Render(fmt.Sprintf("  %d/%d", f.DialogueIndex+1, f.LineCount))
	}

	parts := []string{header, "", s.sprites(f.Sprites, width), s.dialogue(f, width)}
	if footer := s.footer(f); footer != "" {
		parts = append(parts, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *Stage) sprites(sprites []player.Sprite, width int) string {
	if len(sprites) == 0 {
		return ""
	}
	ordered := append([]player.Sprite{}, sprites...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Left < ordered[j].Left })

	var row []string
	cursor := 0
	for _, sp := range ordered {
		start := int(sp.Left/100*float64(width)) - spriteWidth/2
		if start < cursor {
			start = cursor
		}
		if gap := start - cursor; gap > 0 {
			row = append(row, strings.Repeat(" ", gap))
		}

		style := styles.SpriteStyle
		if sp.Speaking {
			style = styles.SpeakingSpriteStyle
		}
		box := style.Width(spriteWidth).Render(truncate(sp.Name, spriteWidth-2) + "\n" + sp.Expression)
		row = append(row, box)
		cursor = start + lipgloss.Width(box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, row...)
}

func (s *Stage) dialogue(f player.Frame, width int) string {
	var content string
	if f.Speaker != "" {
		content = styles.SpeakerStyle.Render(f.Speaker) + "\n" + styles.TextStyle.Render(f.Text)
	} else {
		content = styles.NarrationStyle.Render(f.Text)
	}
	return styles.DialogueBoxStyle.Width(width - 2).Render(content)
}

func (s *Stage) footer(f player.Frame) string {
	switch f.Affordance {
	case player.Ending:
		return styles.EndingStyle.Render("~ The End ~")
	case player.Choices:
		lines := make([]string, len(f.Choices))
		for i, c := range f.Choices {
			label := fmt.Sprintf("%d. %s", i+1, c.Text)
			if i == s.SelectedChoice {
				lines[i] = styles.SelectedChoiceStyle.Render(label)
			} else {
				lines[i] = styles.ChoiceStyle.Render(label)
			}
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

// TitleView draws the title card.
func (s *Stage) TitleView(card player.TitleCard) string {
	title := card.Title
	if title == "" {
		title = "Untitled"
	}
	parts := []string{styles.TitleStyle.Render(title)}
	if card.Description != "" {
		parts = append(parts, styles.SubtitleStyle.Width(s.Width).Render(card.Description))
	}
	parts = append(parts, "", styles.SelectedChoiceStyle.Render("Start"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
