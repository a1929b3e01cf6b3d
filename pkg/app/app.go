package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/vnforge/pkg/app/screens"
	"github.com/kerbaras/vnforge/pkg/services"
)

type App struct {
	controller *services.NovelController
	pipeline   *services.ArtPipeline
}

// NewApp builds the library browser. pipeline may be nil when no generator
// is configured.
func NewApp(controller *services.NovelController, pipeline *services.ArtPipeline) *App {
	return &App{controller: controller, pipeline: pipeline}
}

func (a *App) Run() error {
	return run(screens.NewRootScreen(a.controller, a.pipeline))
}

// Play runs the terminal player for a single document, starting at sceneID
// when set or at the title screen otherwise.
func Play(doc *services.Document, sceneID string) error {
	return run(screens.NewPlayerRoot(doc, sceneID))
}

func run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
