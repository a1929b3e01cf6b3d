// Package player is the playback engine. Present is a pure function of the
// novel and the cursor; Player wraps it with the title/playing state machine.
package player

import (
	"errors"
	"fmt"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
)

var (
	// ErrSceneNotFound is the fatal presentation error raised when playback
	// lands on a scene id that does not exist.
	ErrSceneNotFound = errors.New("scene not found")
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state, e.g. choosing before the last line.
	ErrInvalidTransition = errors.New("invalid transition")
)

type Mode int

const (
	Title Mode = iota
	Playing
	Halted
)

func (m Mode) String() string {
	switch m {
	case Title:
		return "title"
	case Playing:
		return "playing"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is the playback cursor.
type State struct {
	SceneID       string
	DialogueIndex int
}

// Affordance tells the UI what the player may do next.
type Affordance int

const (
	Advance Affordance = iota
	Choices
	Ending
)

func (a Affordance) String() string {
	switch a {
	case Advance:
		return "advance"
	case Choices:
		return "choices"
	case Ending:
		return "ending"
	default:
		return fmt.Sprintf("Affordance(%d)", int(a))
	}
}

// Sprite is one rendered character.
type Sprite struct {
	CharacterID  string
	Name         string
	ExpressionID string
	Expression   string
	ImageURL     string
	Left         float64 // percent of the screen width
	Speaking     bool
	Brightness   float64
	Scale        float64
	Z            int
}

// Frame is everything shown for one cursor position.
type Frame struct {
	SceneID       string
	SceneName     string
	BackgroundURL string
	Sprites       []Sprite
	Speaker       string // empty for narration
	Text          string
	Affordance    Affordance
	Choices       []novel.Choice
	DialogueIndex int
	LineCount     int
}

// TitleCard is the title screen.
type TitleCard struct {
	Title         string
	Description   string
	BackgroundURL string
}

// TitleScreen builds the title card; the background falls back from the
// cover to the start scene's background to none.
func TitleScreen(n *novel.Novel) TitleCard {
	return TitleCard{
		Title:         n.Title,
		Description:   n.Description,
		BackgroundURL: stage.TitleBackground(n),
	}
}

// Present derives the frame for a cursor. It fails only when the scene does
// not exist; an out-of-range index is clamped into the dialogue.
func Present(n *novel.Novel, st State) (Frame, error) {
	scene, ok := n.Scene(st.SceneID)
	if !ok {
		return Frame{}, fmt.Errorf("%w: %q", ErrSceneNotFound, st.SceneID)
	}

	index := clamp(st.DialogueIndex, scene)
	line := novel.DialogueLine{}
	if len(scene.Dialogue) > 0 {
		line = scene.Dialogue[index]
	}

	frame := Frame{
		SceneID:       scene.ID,
		SceneName:     scene.Name,
		BackgroundURL: scene.BackgroundURL,
		Text:          line.Text,
		DialogueIndex: index,
		LineCount:     len(scene.Dialogue),
	}
	if speaker, ok := stage.Speaker(n, line); ok {
		frame.Speaker = speaker.Name
	}

	present := stage.PresentCharacters(n, scene)
	for i, c := range present {
		expr, ok := stage.ShownExpression(c, line)
		if !ok || expr.ImageURL == "" {
			continue
		}
		speaking := stage.IsSpeaking(c, line)
		sprite := Sprite{
			CharacterID:  c.ID,
			Name:         c.Name,
			ExpressionID: expr.ID,
			Expression:   expr.Name,
			ImageURL:     expr.ImageURL,
			Left:         stage.Spread(i, len(present)),
			Speaking:     speaking,
			Brightness:   stage.IdleBrightness,
			Scale:        stage.IdleScale,
			Z:            stage.IdleZ,
		}
		if speaking {
			sprite.Brightness = stage.SpeakerBrightness
			sprite.Scale = stage.SpeakerScale
			sprite.Z = stage.SpeakerZ
		}
		frame.Sprites = append(frame.Sprites, sprite)
	}

	switch {
	case !stage.IsLastLine(scene, index):
		frame.Affordance = Advance
	case scene.IsEnding():
		frame.Affordance = Ending
	default:
		frame.Affordance = Choices
		frame.Choices = append([]novel.Choice{}, scene.Choices...)
	}
	return frame, nil
}

func clamp(index int, scene *novel.Scene) int {
	if index < 0 {
		return 0
	}
	if last := scene.LastLineIndex(); index > last && last >= 0 {
		return last
	}
	return index
}
