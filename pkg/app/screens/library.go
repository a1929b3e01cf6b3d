package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/vnforge/pkg/app/components"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/data"
	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/services"
)

type LibraryScreen struct {
	controller *services.NovelController
	novelList  *components.NovelList
	status     string
	width      int
	height     int
	err        error
}

func NewLibraryScreen(controller *services.NovelController) *LibraryScreen {
	return &LibraryScreen{
		controller: controller,
		novelList:  components.NewNovelList(),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.novelList.Width = msg.Width - 4
		s.novelList.Height = msg.Height - 10

	case tea.KeyMsg:
		selected := s.novelList.Selected()
		switch msg.String() {
		case "up", "k":
			s.novelList.Prev()
		case "down", "j":
			s.novelList.Next()
		case "r":
			return s, s.loadLibrary
		case "d":
			if selected != nil {
				return s, s.deleteNovel(selected.ID)
			}
		case "e":
			if selected != nil {
				s.status = "Exporting..."
				return s, s.exportNovel(selected.ID)
			}
		case "p":
			if selected != nil {
				return s, s.openPlayer(selected.ID)
			}
		case "enter":
			if selected != nil {
				id := selected.ID
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: id}
				}
			}
		}

	case libraryLoadedMsg:
		s.novelList.SetItems(msg.items)
		s.err = msg.err

	case exportedMsg:
		s.err = msg.err
		s.status = ""
		if msg.err == nil {
			s.status = "Exported " + strings.Join(msg.paths, ", ")
		}

	case novelDeletedMsg:
		s.err = msg.err
		return s, s.loadLibrary

	case openedMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		doc := msg.doc
		return s, func() tea.Msg {
			return SwitchScreenMsg{Screen: "player", Data: doc}
		}
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Novel Library")

	var notice string
	if s.err != nil {
		notice = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	} else if s.status != "" {
		notice = styles.StatusCompleted.Render(s.status) + "\n\n"
	}

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: details • p: play • e: export all • d: delete • r: refresh • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, notice, s.novelList.View(), help)
}

// Messages
type libraryLoadedMsg struct {
	items []data.Summary
	err   error
}

type exportedMsg struct {
	paths []string
	err   error
}

type novelDeletedMsg struct {
	err error
}

type openedMsg struct {
	doc *services.Document
	err error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	items, err := s.controller.List()
	return libraryLoadedMsg{items: items, err: err}
}

func (s *LibraryScreen) exportNovel(id string) tea.Cmd {
	return func() tea.Msg {
		doc, err := s.controller.Open(id)
		if err != nil {
			return exportedMsg{err: err}
		}
		paths, err := s.controller.Export(context.Background(), doc.Novel, integrations.Formats, "")
		return exportedMsg{paths: paths, err: err}
	}
}

func (s *LibraryScreen) deleteNovel(id string) tea.Cmd {
	return func() tea.Msg {
		return novelDeletedMsg{err: s.controller.Delete(id)}
	}
}

func (s *LibraryScreen) openPlayer(id string) tea.Cmd {
	return func() tea.Msg {
		doc, err := s.controller.Open(id)
		return openedMsg{doc: doc, err: err}
	}
}
