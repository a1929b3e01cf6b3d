package integrations

import (
	"fmt"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
)

var renpyText = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
var renpyName = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", " ")

// CompileRenpy renders the novel as a Ren'Py script. It never fails: dangling
// references are compiled as-is or skipped, matching what the player shows.
func CompileRenpy(n *novel.Novel) string {
	var b strings.Builder

	b.WriteString("# Ren'Py script generated by vnforge\n")
	b.WriteString("# Documentation: https://www.renpy.org/doc/html/\n\n")

	b.WriteString("## 1. Image Definitions\n")
	for i := range n.Characters {
		c := &n.Characters[i]
		tag := stage.CharacterTag(c)
		for j := range c.Expressions {
			expr := stage.ExpressionTag(c, &c.Expressions[j])
			fmt.Fprintf(&b, "image %s %s = \"images/characters/%s_%s.png\"\n", tag, expr, tag, expr)
		}
		b.WriteString("\n")
	}
	for _, scene := range n.Scenes {
		bg := stage.BackgroundTag(scene.ID)
		fmt.Fprintf(&b, "image %s = \"images/backgrounds/%s.jpg\"\n", bg, bg)
	}
	b.WriteString("\n")

	b.WriteString("## 2. Character Definitions\n")
	for i := range n.Characters {
		c := &n.Characters[i]
		fmt.Fprintf(&b, "define %s = Character('%s')\n", stage.CharacterTag(c), renpyName.Replace(c.Name))
	}
	b.WriteString("\n")

	b.WriteString("## 3. The game script\n")
	b.WriteString("label start:\n")
	fmt.Fprintf(&b, "    jump %s\n\n", stage.SceneLabel(n.StartSceneID))

	for i := range n.Scenes {
		writeRenpyScene(&b, n, &n.Scenes[i])
	}
	return b.String()
}

func writeRenpyScene(b *strings.Builder, n *novel.Novel, scene *novel.Scene) {
	fmt.Fprintf(b, "label %s:\n\n", stage.SceneLabel(scene.ID))
	fmt.Fprintf(b, "    scene %s\n\n", stage.BackgroundTag(scene.ID))

	for i := range n.Characters {
		fmt.Fprintf(b, "    hide %s\n", stage.CharacterTag(&n.Characters[i]))
	}

	// shown tracks the expression tag each character currently displays, so
	// a line only re-shows a character whose expression actually changes.
	present := stage.PresentCharacters(n, scene)
	shown := make(map[string]string, len(present))
	if len(present) > 0 {
		for i, c := range present {
			expr, ok := stage.DefaultExpression(c)
			if !ok {
				continue
			}
			tag := stage.ExpressionTag(c, expr)
			shown[c.ID] = tag
			fmt.Fprintf(b, "    show %s %s at %s\n", stage.CharacterTag(c), tag, stage.Slot(i))
		}
		b.WriteString("\n")
	}

	for _, line := range scene.Dialogue {
		for _, c := range present {
			current, ok := shown[c.ID]
			if !ok {
				continue
			}
			expr, _ := stage.ShownExpression(c, line)
			if tag := stage.ExpressionTag(c, expr); tag != current {
				shown[c.ID] = tag
				fmt.Fprintf(b, "    show %s %s\n", stage.CharacterTag(c), tag)
			}
		}

		text := renpyText.Replace(line.Text)
		if speaker, ok := stage.Speaker(n, line); ok {
			fmt.Fprintf(b, "    %s \"%s\"\n", stage.CharacterTag(speaker), text)
		} else {
			fmt.Fprintf(b, "    \"%s\"\n", text)
		}
	}

	if scene.IsEnding() {
		b.WriteString("\n    # This is an ending scene.\n")
		b.WriteString("    return\n")
	} else {
		b.WriteString("\n    menu:\n")
		for _, choice := range scene.Choices {
			fmt.Fprintf(b, "        \"%s\":\n", renpyText.Replace(choice.Text))
			fmt.Fprintf(b, "            jump %s\n", stage.SceneLabel(choice.NextSceneID))
		}
	}
	b.WriteString("\n")
}
