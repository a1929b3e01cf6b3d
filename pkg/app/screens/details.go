package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/vnforge/pkg/app/components"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/kerbaras/vnforge/pkg/stage"
)

// DetailsScreen shows one library novel: its scene tree, orphans and cast.
// Portraits for the selected character can be generated from here.
type DetailsScreen struct {
	controller        *services.NovelController
	pipeline          *services.ArtPipeline
	novelID           string
	doc               *services.Document
	selectedCharacter int
	progressTracker   *components.ProgressTracker
	generating        bool
	listening         bool
	status            string
	width             int
	height            int
	err               error
}

func NewDetailsScreen(controller *services.NovelController, pipeline *services.ArtPipeline, novelID string) *DetailsScreen {
	return &DetailsScreen{
		controller:      controller,
		pipeline:        pipeline,
		novelID:         novelID,
		progressTracker: components.NewProgressTracker(80),
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return s.loadDetails
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progressTracker = components.NewProgressTracker(msg.Width - 4)

	case tea.KeyMsg:
		if s.doc == nil {
			if msg.String() == "esc" || msg.String() == "backspace" {
				return s, back
			}
			return s, nil
		}
		characters := s.doc.Novel.Characters
		switch msg.String() {
		case "up", "k":
			if s.selectedCharacter > 0 {
				s.selectedCharacter--
			}
		case "down", "j":
			if s.selectedCharacter < len(characters)-1 {
				s.selectedCharacter++
			}
		case "r":
			return s, s.loadDetails
		case "g":
			if s.generating || len(characters) == 0 {
				return s, nil
			}
			if s.pipeline == nil {
				s.err = errNoGenerator
				return s, nil
			}
			s.generating = true
			s.err = nil
			s.progressTracker.Clear()
			cmds := []tea.Cmd{s.generatePortraits(characters[s.selectedCharacter].ID)}
			if !s.listening {
				s.listening = true
				cmds = append(cmds, s.listenForProgress)
			}
			return s, tea.Batch(cmds...)
		case "e":
			s.status = "Exporting..."
			return s, s.export()
		case "p":
			doc := s.doc
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "player", Data: doc}
			}
		case "esc", "backspace":
			if s.generating {
				return s, nil
			}
			return s, back
		}

	case detailsLoadedMsg:
		s.doc = msg.doc
		s.err = msg.err
		if s.doc != nil && s.selectedCharacter >= len(s.doc.Novel.Characters) {
			s.selectedCharacter = 0
		}

	case progressMsg:
		s.listening = false
		if !msg.ok {
			return s, nil
		}
		s.progressTracker.Update(msg.progress)
		if s.generating {
			s.listening = true
			return s, s.listenForProgress
		}

	case portraitsGeneratedMsg:
		s.generating = false
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Generated %d portrait(s)", len(msg.report.Generated))
			if len(msg.report.Failed) > 0 {
				s.status += fmt.Sprintf(", %d failed", len(msg.report.Failed))
			}
		}
		return s, s.loadDetails

	case exportedMsg:
		s.err = msg.err
		s.status = ""
		if msg.err == nil {
			s.status = "Exported " + strings.Join(msg.paths, ", ")
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}
	if s.doc == nil {
		if s.err != nil {
			return styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		}
		return "Loading..."
	}
	n := &s.doc.Novel

	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", n.Title))

	var notice string
	if s.err != nil {
		notice = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	} else if s.status != "" {
		notice = styles.StatusCompleted.Render(s.status) + "\n\n"
	}

	info := styles.CardStyle.Width(s.width - 4).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TextStyle.Render(n.Description),
		"",
		styles.MutedStyle.Render(fmt.Sprintf("Scenes: %d • Characters: %d • Start: %s", len(n.Scenes), len(n.Characters), n.StartSceneID)),
	))

	structure := components.SceneTree(n)
	if orphans := components.Orphans(n); orphans != "" {
		structure += "\n\n" + orphans
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: select character • g: generate portraits • p: play • e: export all • r: refresh • esc: back • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s\n%s\n\n%s\n%s\n%s",
		header,
		notice,
		info,
		structure,
		s.renderCharacters(),
		s.progressTracker.View(),
		help,
	)
}

func (s *DetailsScreen) renderCharacters() string {
	characters := s.doc.Novel.Characters
	if len(characters) == 0 {
		return styles.MutedStyle.Render("No characters")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Characters (%d):", len(characters))))
	b.WriteString("\n\n")
	for i := range characters {
		c := &characters[i]
		drawn := 0
		for _, e := range c.Expressions {
			if e.ImageURL != "" {
				drawn++
			}
		}

		statusIcon := "○"
		statusColor := styles.MutedStyle
		if len(c.Expressions) > 0 && drawn == len(c.Expressions) {
			statusIcon = "●"
			statusColor = styles.StatusCompleted
		}

		line := fmt.Sprintf("%s %s [%s] %d/%d portraits", statusIcon, c.Name, stage.CharacterTag(c), drawn, len(c.Expressions))
		if i == s.selectedCharacter {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = statusColor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Messages
type detailsLoadedMsg struct {
	doc *services.Document
	err error
}

type progressMsg struct {
	progress services.Progress
	ok       bool
}

type portraitsGeneratedMsg struct {
	report services.Report
	err    error
}

// Commands
func back() tea.Msg {
	return SwitchScreenMsg{Screen: "library"}
}

func (s *DetailsScreen) loadDetails() tea.Msg {
	doc, err := s.controller.Open(s.novelID)
	return detailsLoadedMsg{doc: doc, err: err}
}

func (s *DetailsScreen) generatePortraits(characterID string) tea.Cmd {
	doc := *s.doc
	return func() tea.Msg {
		n, report, err := s.pipeline.GeneratePortraits(context.Background(), doc.Novel, characterID)
		if err != nil {
			return portraitsGeneratedMsg{report: report, err: err}
		}
		doc.Novel = n
		if err := s.controller.Save(&doc); err != nil {
			return portraitsGeneratedMsg{report: report, err: err}
		}
		return portraitsGeneratedMsg{report: report}
	}
}

func (s *DetailsScreen) export() tea.Cmd {
	n := s.doc.Novel
	return func() tea.Msg {
		paths, err := s.controller.Export(context.Background(), n, integrations.Formats, "")
		return exportedMsg{paths: paths, err: err}
	}
}

func (s *DetailsScreen) listenForProgress() tea.Msg {
	progress, ok := <-s.pipeline.GetProgressChannel()
	return progressMsg{progress: progress, ok: ok}
}
