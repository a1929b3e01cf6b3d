package novel

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrMalformed is returned when a persisted or generated document is rejected.
var ErrMalformed = errors.New("malformed novel document")

// PlaceholderLine is the text given to a scene that arrives without dialogue.
const PlaceholderLine = "..."

// novelSchema only checks the fields a document must carry to be accepted.
// Presence is enough: an empty title or start id is a valid, if unfinished,
// novel. Everything else is decoded leniently and normalized afterwards.
var novelSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"title", "scenes", "characters", "startSceneId"},
		Properties: map[string]*jsonschema.Schema{
			"title":        {Type: "string"},
			"startSceneId": {Type: "string"},
			"scenes":       {Type: "array", Items: &jsonschema.Schema{Type: "object", Required: []string{"id"}}},
			"characters":   {Type: "array", Items: &jsonschema.Schema{Type: "object", Required: []string{"id"}}},
		},
	}
	return schema.Resolve(nil)
})

var dialogueSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema := &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*jsonschema.Schema{
				"text":         {Type: "string"},
				"characterId":  {Types: []string{"string", "null"}},
				"expressionId": {Types: []string{"string", "null"}},
			},
		},
	}
	return schema.Resolve(nil)
})

// Parse decodes a persisted novel. Documents missing title, scenes,
// characters or startSceneId are rejected with ErrMalformed.
func Parse(data []byte) (Novel, error) {
	if err := validate(data, novelSchema); err != nil {
		return Novel{}, err
	}
	var n Novel
	if err := json.Unmarshal(data, &n); err != nil {
		return Novel{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	Normalize(&n)
	return n, nil
}

// ParseDialogue decodes a dialogue line sequence such as the one returned by
// the dialogue generator. An empty sequence is rejected.
func ParseDialogue(data []byte) ([]DialogueLine, error) {
	if err := validate(data, dialogueSchema); err != nil {
		return nil, err
	}
	var lines []DialogueLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty dialogue", ErrMalformed)
	}
	for i := range lines {
		if lines[i].CharacterID == nil {
			lines[i].ExpressionID = nil
		}
	}
	return lines, nil
}

func validate(data []byte, schema func() (*jsonschema.Resolved, error)) error {
	resolved, err := schema()
	if err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := resolved.Validate(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Marshal encodes the novel as indented JSON. Nil collections are written as
// empty arrays so the document always matches the persisted shape.
func Marshal(n Novel) ([]byte, error) {
	out := n.Clone()
	Normalize(&out)
	return json.MarshalIndent(out, "", "  ")
}

// Normalize fills the gaps a hand-written or generated document may leave:
// nil collections become empty, narrator lines lose their expression, and a
// scene without dialogue gets a placeholder line.
func Normalize(n *Novel) {
	if n.Characters == nil {
		n.Characters = []Character{}
	}
	if n.Scenes == nil {
		n.Scenes = []Scene{}
	}
	for i := range n.Characters {
		if n.Characters[i].Expressions == nil {
			n.Characters[i].Expressions = []Expression{}
		}
	}
	for i := range n.Scenes {
		s := &n.Scenes[i]
		if s.PresentCharacterIDs == nil {
			s.PresentCharacterIDs = []string{}
		}
		if s.Choices == nil {
			s.Choices = []Choice{}
		}
		if len(s.Dialogue) == 0 {
			s.Dialogue = []DialogueLine{Narration(PlaceholderLine)}
		}
		for j := range s.Dialogue {
			if s.Dialogue[j].CharacterID == nil {
				s.Dialogue[j].ExpressionID = nil
			}
		}
	}
}
