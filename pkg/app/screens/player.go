package screens

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/vnforge/pkg/app/components"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/player"
	"github.com/kerbaras/vnforge/pkg/services"
)

// PlayerScreen plays a novel in the terminal.
type PlayerScreen struct {
	player  *player.Player
	stage   *components.Stage
	startAt string
	width   int
	height  int
	err     error
}

// NewPlayerScreen opens on the title screen, or directly at sceneID when it
// is set.
func NewPlayerScreen(doc *services.Document, sceneID string) *PlayerScreen {
	n := doc.Novel.Clone()
	return &PlayerScreen{
		player:  player.New(&n),
		stage:   components.NewStage(80),
		startAt: sceneID,
	}
}

func (s *PlayerScreen) Init() tea.Cmd {
	if s.startAt != "" {
		s.err = s.player.PlayFrom(s.startAt)
	}
	return nil
}

func (s *PlayerScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.stage.Width = msg.Width - 2

	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *PlayerScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "esc":
		return back
	case "r":
		if err := s.player.Restart(); err == nil {
			s.err = nil
			s.stage.SelectedChoice = 0
		}
		return nil
	}

	switch s.player.Mode() {
	case player.Title:
		if key == "enter" || key == " " {
			s.err = s.player.Start()
			s.stage.SelectedChoice = 0
		}
		return nil
	case player.Halted:
		return nil
	}

	frame, err := s.player.Frame()
	if err != nil {
		s.err = err
		return nil
	}

	switch frame.Affordance {
	case player.Advance:
		if key == "enter" || key == " " || key == "right" || key == "l" {
			s.player.Advance()
		}
	case player.Choices:
		switch key {
		case "up", "k":
			if s.stage.SelectedChoice > 0 {
				s.stage.SelectedChoice--
			}
		case "down", "j":
			if s.stage.SelectedChoice < len(frame.Choices)-1 {
				s.stage.SelectedChoice++
			}
		case "enter", " ":
			s.choose(s.stage.SelectedChoice)
		default:
			if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(frame.Choices) {
				s.choose(i - 1)
			}
		}
	case player.Ending:
		if key == "enter" || key == " " {
			s.err = s.player.Restart()
			s.stage.SelectedChoice = 0
		}
	}
	return nil
}

func (s *PlayerScreen) choose(i int) {
	s.err = s.player.Choose(i)
	s.stage.SelectedChoice = 0
}

func (s *PlayerScreen) View() string {
	var body, help string
	switch s.player.Mode() {
	case player.Title:
		body = s.stage.TitleView(s.player.TitleScreen())
		help = "enter: start • esc: back • q: quit"
	case player.Halted:
		body = styles.StatusError.Render(fmt.Sprintf("Playback stopped: %s", s.player.Err()))
		help = "r: back to title • esc: back • q: quit"
	default:
		frame, err := s.player.Frame()
		if err != nil {
			body = styles.StatusError.Render(err.Error())
			break
		}
		body = s.stage.View(frame)
		switch frame.Affordance {
		case player.Choices:
			help = "↑/↓: select • enter or 1-9: choose • esc: back • q: quit"
		case player.Ending:
			help = "enter/r: back to title • esc: back • q: quit"
		default:
			help = "enter/space: next • esc: back • q: quit"
		}
	}

	return fmt.Sprintf("%s\n%s", body, styles.HelpStyle.Render(help))
}
