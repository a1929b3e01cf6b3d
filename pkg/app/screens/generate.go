package screens

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/services"
)

var errNoGenerator = errors.New("story generation is not configured: set GOOGLE_API_KEY")

// GenerateScreen drafts a whole novel from a theme and adds it to the library.
type GenerateScreen struct {
	controller *services.NovelController
	pipeline   *services.ArtPipeline
	input      textinput.Model
	generating bool
	width      int
	height     int
	err        error
}

func NewGenerateScreen(controller *services.NovelController, pipeline *services.ArtPipeline) *GenerateScreen {
	ti := textinput.New()
	ti.Placeholder = "A lighthouse keeper befriends a sea serpent..."
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 60

	return &GenerateScreen{
		controller: controller,
		pipeline:   pipeline,
		input:      ti,
	}
}

func (s *GenerateScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *GenerateScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		if s.generating {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			theme := s.input.Value()
			if theme == "" {
				return s, nil
			}
			if s.pipeline == nil {
				s.err = errNoGenerator
				return s, nil
			}
			s.generating = true
			s.err = nil
			return s, s.generateStory(theme)
		case "esc":
			s.input.Reset()
			s.err = nil
			return s, nil
		}

	case storyGeneratedMsg:
		s.generating = false
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.input.Reset()
		id := msg.id
		return s, func() tea.Msg {
			return SwitchScreenMsg{Screen: "details", Data: id}
		}
	}

	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *GenerateScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("✨ Generate a Story")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var status string
	switch {
	case s.generating:
		status = styles.StatusWorking.Render("Writing your story...")
	case s.err != nil:
		status = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	}

	help := styles.HelpStyle.Render("enter: generate • esc: clear • tab: switch view • ctrl+c: quit")

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", header, inputView, status, help)
}

// Messages
type storyGeneratedMsg struct {
	id  string
	err error
}

// Commands
func (s *GenerateScreen) generateStory(theme string) tea.Cmd {
	return func() tea.Msg {
		n, err := s.pipeline.GenerateStory(context.Background(), theme)
		if err != nil {
			return storyGeneratedMsg{err: err}
		}
		novel.Normalize(&n)
		id, err := s.controller.Import(n)
		return storyGeneratedMsg{id: id, err: err}
	}
}
