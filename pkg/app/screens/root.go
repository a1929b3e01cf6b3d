package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/services"
)

type screenType int

const (
	libraryView screenType = iota
	generateView
	detailsView
	playerView
)

// SwitchScreenMsg asks the root screen to change views.
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

type RootScreen struct {
	controller *services.NovelController
	pipeline   *services.ArtPipeline

	currentView screenType
	library     *LibraryScreen
	generate    *GenerateScreen
	details     *DetailsScreen
	player      *PlayerScreen

	width  int
	height int
}

// NewRootScreen opens on the library. pipeline may be nil, which disables
// generation.
func NewRootScreen(controller *services.NovelController, pipeline *services.ArtPipeline) *RootScreen {
	return &RootScreen{
		controller:  controller,
		pipeline:    pipeline,
		currentView: libraryView,
		library:     NewLibraryScreen(controller),
		generate:    NewGenerateScreen(controller, pipeline),
	}
}

// NewPlayerRoot opens directly on the player for one document.
func NewPlayerRoot(doc *services.Document, sceneID string) *RootScreen {
	return &RootScreen{
		currentView: playerView,
		player:      NewPlayerScreen(doc, sceneID),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	switch r.currentView {
	case playerView:
		return r.player.Init()
	default:
		return r.library.Init()
	}
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if r.currentView != generateView {
				return r, tea.Quit
			}
		case "tab":
			if r.currentView != libraryView && r.currentView != generateView {
				break
			}
			if r.currentView == libraryView {
				r.currentView = generateView
				cmd = r.generate.Init()
			} else {
				r.currentView = libraryView
				cmd = r.library.Init()
			}
			return r, tea.Batch(cmd, r.resize())
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "library":
			if r.library == nil {
				return r, tea.Quit
			}
			r.currentView = libraryView
			cmd = r.library.Init()
		case "details":
			if id, ok := msg.Data.(string); ok {
				r.details = NewDetailsScreen(r.controller, r.pipeline, id)
				r.currentView = detailsView
				cmd = r.details.Init()
			}
		case "player":
			if doc, ok := msg.Data.(*services.Document); ok {
				r.player = NewPlayerScreen(doc, "")
				r.currentView = playerView
				cmd = r.player.Init()
			}
		}
		return r, tea.Batch(cmd, r.resize())
	}

	switch r.currentView {
	case libraryView:
		newModel, newCmd := r.library.Update(msg)
		r.library = newModel.(*LibraryScreen)
		return r, newCmd
	case generateView:
		newModel, newCmd := r.generate.Update(msg)
		r.generate = newModel.(*GenerateScreen)
		return r, newCmd
	case detailsView:
		if r.details != nil {
			newModel, newCmd := r.details.Update(msg)
			r.details = newModel.(*DetailsScreen)
			return r, newCmd
		}
	case playerView:
		if r.player != nil {
			newModel, newCmd := r.player.Update(msg)
			r.player = newModel.(*PlayerScreen)
			return r, newCmd
		}
	}

	return r, cmd
}

// resize replays the last window size to a freshly shown screen.
func (r *RootScreen) resize() tea.Cmd {
	if r.width == 0 {
		return nil
	}
	size := tea.WindowSizeMsg{Width: r.width, Height: r.height}
	return func() tea.Msg { return size }
}

func (r *RootScreen) View() string {
	var content string
	switch r.currentView {
	case libraryView:
		content = r.library.View()
	case generateView:
		content = r.generate.View()
	case detailsView:
		if r.details != nil {
			content = r.details.View()
		}
	case playerView:
		if r.player != nil {
			return r.player.View()
		}
	}

	if tabs := r.renderTabs(); tabs != "" {
		return fmt.Sprintf("%s\n\n%s", tabs, content)
	}
	return content
}

func (r *RootScreen) renderTabs() string {
	if r.currentView != libraryView && r.currentView != generateView {
		return ""
	}

	libraryTab := "Library"
	generateTab := "Generate"

	if r.currentView == libraryView {
		libraryTab = styles.ActiveTabStyle.Render(libraryTab)
		generateTab = styles.InactiveTabStyle.Render(generateTab)
	} else {
		libraryTab = styles.InactiveTabStyle.Render(libraryTab)
		generateTab = styles.ActiveTabStyle.Render(generateTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, libraryTab, generateTab)
}
