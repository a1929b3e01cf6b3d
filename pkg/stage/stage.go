// Package stage holds the presentation rules shared by the player and every
// exporter: which expression a character shows, where it stands, who speaks,
// how identifiers are sanitized and when a scene ends. Keeping them here is
// what guarantees the Ren'Py script, the HTML build and the terminal player
// agree on the meaning of a novel.
package stage

import (
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
)

// NeutralExpression is the expression shown when no other one applies.
const NeutralExpression = "neutral"

// The horizontal band, in percent of the screen width, across which several
// characters are spread.
const (
	BandStart = 15.0
	BandWidth = 70.0
	Center    = 50.0
)

// Emphasis applied to the active speaker and to everybody else.
const (
	SpeakerBrightness = 1.0
	IdleBrightness    = 0.6
	SpeakerScale      = 1.0
	IdleScale         = 0.95
	SpeakerZ          = 10
	IdleZ             = 5
)

// Slots are the Ren'Py stage positions, assigned by present index modulo 4.
var Slots = []string{"left", "right", "center", "truecenter"}

// DefaultExpression returns the expression named "neutral" (case-insensitive)
// or, failing that, the first one.
func DefaultExpression(c *novel.Character) (*novel.Expression, bool) {
	for i := range c.Expressions {
		if strings.EqualFold(c.Expressions[i].Name, NeutralExpression) {
			return &c.Expressions[i], true
		}
	}
	if len(c.Expressions) > 0 {
		return &c.Expressions[0], true
	}
	return nil, false
}

// IsSpeaking reports whether the line is spoken by the character.
func IsSpeaking(c *novel.Character, line novel.DialogueLine) bool {
	id, ok := line.Speaker()
	return ok && id == c.ID
}

// ShownExpression picks the expression a present character shows while the
// line is on screen: the line's expression when the character speaks it and
// it resolves, otherwise the default expression.
func ShownExpression(c *novel.Character, line novel.DialogueLine) (*novel.Expression, bool) {
	if IsSpeaking(c, line) && line.ExpressionID != nil {
		if e, ok := c.Expression(*line.ExpressionID); ok {
			return e, true
		}
	}
	return DefaultExpression(c)
}

// PresentCharacters resolves the scene's present ids in order, skipping ids
// that do not name a character.
func PresentCharacters(n *novel.Novel, s *novel.Scene) []*novel.Character {
	out := make([]*novel.Character, 0, len(s.PresentCharacterIDs))
	for _, id := range s.PresentCharacterIDs {
		if c, ok := n.Character(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// Speaker resolves the character speaking the line. Narrator lines and lines
// whose speaker no longer exists have none.
func Speaker(n *novel.Novel, line novel.DialogueLine) (*novel.Character, bool) {
	id, ok := line.Speaker()
	if !ok {
		return nil, false
	}
	return n.Character(id)
}

// Spread returns the horizontal position, in percent, of the character at
// index among total present characters.
func Spread(index, total int) float64 {
	if total <= 1 {
		return Center
	}
	return float64(index)/float64(total-1)*BandWidth + BandStart
}

// Slot returns the Ren'Py stage position for the present index.
func Slot(index int) string {
	return Slots[index%len(Slots)]
}

// IsEnding reports whether the cursor sits on the last line of a scene that
// has no choices.
func IsEnding(s *novel.Scene, dialogueIndex int) bool {
	return IsLastLine(s, dialogueIndex) && s.IsEnding()
}

// IsLastLine reports whether dialogueIndex is at or past the scene's last line.
func IsLastLine(s *novel.Scene, dialogueIndex int) bool {
	return dialogueIndex >= s.LastLineIndex()
}

// TitleBackground returns the cover image, else the start scene's
// background, else "" for a flat fill.
func TitleBackground(n *novel.Novel) string {
	if n.CoverURL != "" {
		return n.CoverURL
	}
	if s, ok := n.StartScene(); ok {
		return s.BackgroundURL
	}
	return ""
}
