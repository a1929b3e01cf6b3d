package stage

import (
	"fmt"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
)

// Ident strips every character outside [A-Za-z0-9_] and lower-cases the
// rest. Distinct inputs may collide; callers accept that.
func Ident(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// CharacterTag is the identifier a character is declared and spoken under.
func CharacterTag(c *novel.Character) string {
	return Ident(c.ID)
}

// SceneLabel is the label a scene id jumps to.
func SceneLabel(sceneID string) string {
	return Ident(sceneID)
}

// BackgroundTag is the image tag of a scene background.
func BackgroundTag(sceneID string) string {
	return Ident("bg_" + sceneID)
}

// ExpressionTag is the image attribute of an expression, derived from its
// name. Names with no identifier characters fall back to the id, then to the
// expression's position in the character.
func ExpressionTag(c *novel.Character, e *novel.Expression) string {
	if tag := Ident(e.Name); tag != "" {
		return tag
	}
	if tag := Ident(e.ID); tag != "" {
		return tag
	}
	for i := range c.Expressions {
		if c.Expressions[i].ID == e.ID {
			return fmt.Sprintf("expr%d", i+1)
		}
	}
	return "expr"
}
