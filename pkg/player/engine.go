package player

import (
	"fmt"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
)

// Player steps through a novel. It never modifies the novel it was given.
type Player struct {
	novel *novel.Novel
	mode  Mode
	state State
	err   error
}

// New returns a player sitting on the title screen.
func New(n *novel.Novel) *Player {
	return &Player{novel: n, mode: Title}
}

func (p *Player) Mode() Mode   { return p.mode }
func (p *Player) State() State { return p.state }

// Err returns the error that halted playback, if any.
func (p *Player) Err() error { return p.err }

// Novel returns the novel being played.
func (p *Player) Novel() *novel.Novel { return p.novel }

// Start leaves the title screen and begins at the start scene.
func (p *Player) Start() error {
	return p.PlayFrom(p.novel.StartSceneID)
}

// PlayFrom begins playback at an arbitrary scene, skipping the title screen.
func (p *Player) PlayFrom(sceneID string) error {
	p.state = State{SceneID: sceneID}
	p.mode = Playing
	p.err = nil
	if _, ok := p.novel.Scene(sceneID); !ok {
		return p.halt(fmt.Errorf("%w: %q", ErrSceneNotFound, sceneID))
	}
	return nil
}

// Advance moves to the next line. On the last line it does nothing.
func (p *Player) Advance() {
	if p.mode != Playing {
		return
	}
	scene, ok := p.novel.Scene(p.state.SceneID)
	if !ok {
		return
	}
	if p.state.DialogueIndex < scene.LastLineIndex() {
		p.state.DialogueIndex++
	}
}

// Choose follows choice i of the current scene. It is only allowed on the
// last line of a scene with choices. A choice leading to an unknown scene
// halts playback with ErrSceneNotFound.
func (p *Player) Choose(i int) error {
	if p.mode != Playing {
		return fmt.Errorf("%w: choose while %s", ErrInvalidTransition, p.mode)
	}
	scene, ok := p.novel.Scene(p.state.SceneID)
	if !ok {
		return p.halt(fmt.Errorf("%w: %q", ErrSceneNotFound, p.state.SceneID))
	}
	if !stage.IsLastLine(scene, p.state.DialogueIndex) || scene.IsEnding() {
		return fmt.Errorf("%w: no choices at line %d of %q", ErrInvalidTransition, p.state.DialogueIndex, scene.ID)
	}
	if i < 0 || i >= len(scene.Choices) {
		return fmt.Errorf("%w: choice %d out of range", ErrInvalidTransition, i)
	}

	next := scene.Choices[i].NextSceneID
	if _, ok := p.novel.Scene(next); !ok {
		return p.halt(fmt.Errorf("%w: %q", ErrSceneNotFound, next))
	}
	p.state = State{SceneID: next}
	return nil
}

// Restart returns to the title screen. It is allowed at an ending and after
// playback halted.
func (p *Player) Restart() error {
	if p.mode == Playing {
		scene, ok := p.novel.Scene(p.state.SceneID)
		if !ok || !stage.IsEnding(scene, p.state.DialogueIndex) {
			return fmt.Errorf("%w: restart before an ending", ErrInvalidTransition)
		}
	} else if p.mode == Title {
		return fmt.Errorf("%w: restart from the title screen", ErrInvalidTransition)
	}
	p.mode = Title
	p.state = State{}
	p.err = nil
	return nil
}

// Frame presents the current cursor.
func (p *Player) Frame() (Frame, error) {
	if p.mode != Playing {
		return Frame{}, fmt.Errorf("%w: no frame while %s", ErrInvalidTransition, p.mode)
	}
	return Present(p.novel, p.state)
}

// TitleScreen presents the title card of the novel being played.
func (p *Player) TitleScreen() TitleCard {
	return TitleScreen(p.novel)
}

func (p *Player) halt(err error) error {
	p.mode = Halted
	p.err = err
	return err
}
