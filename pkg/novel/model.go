package novel

// Expression is a named portrait variant of a Character.
type Expression struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Character is a cast member with its portrait expressions.
type Character struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Expressions []Expression `json:"expressions"`
	AIPrompt    string       `json:"aiPrompt,omitempty"`
}

// DialogueLine is a single spoken or narrated line. A nil CharacterID marks a
// narrator line, in which case ExpressionID is nil too.
type DialogueLine struct {
	CharacterID  *string `json:"characterId"`
	ExpressionID *string `json:"expressionId"`
	Text         string  `json:"text"`
}

// Choice is an edge to another scene. NextSceneID may name no scene.
type Choice struct {
	Text        string `json:"text"`
	NextSceneID string `json:"nextSceneId"`
}

// Scene is a node of the story graph. A scene without choices is an ending.
type Scene struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	BackgroundURL       string         `json:"backgroundUrl"`
	PresentCharacterIDs []string       `json:"presentCharacterIds"`
	Dialogue            []DialogueLine `json:"dialogue"`
	Choices             []Choice       `json:"choices"`
	AIPrompt            string         `json:"aiPrompt,omitempty"`
}

// Novel is the root aggregate: the unit of persistence, export and mutation.
type Novel struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	CoverURL     string      `json:"coverUrl"`
	StartSceneID string      `json:"startSceneId"`
	Characters   []Character `json:"characters"`
	Scenes       []Scene     `json:"scenes"`
}

// Ref returns a pointer to a copy of s, for building optional references.
func Ref(s string) *string {
	return &s
}

// Narration builds a narrator line.
func Narration(text string) DialogueLine {
	return DialogueLine{Text: text}
}

// Line builds a spoken line for the given character and expression.
func Line(characterID, expressionID, text string) DialogueLine {
	line := DialogueLine{CharacterID: Ref(characterID), Text: text}
	if expressionID != "" {
		line.ExpressionID = Ref(expressionID)
	}
	return line
}

// IsNarration reports whether the line has no speaker.
func (l DialogueLine) IsNarration() bool {
	return l.CharacterID == nil
}

// Speaker returns the speaking character id, if any.
func (l DialogueLine) Speaker() (string, bool) {
	if l.CharacterID == nil {
		return "", false
	}
	return *l.CharacterID, true
}

// IsEnding reports whether the scene has no outgoing choices.
func (s *Scene) IsEnding() bool {
	return len(s.Choices) == 0
}

// LastLineIndex returns the index of the final dialogue line.
func (s *Scene) LastLineIndex() int {
	return len(s.Dialogue) - 1
}

// Scene looks up a scene by id.
func (n *Novel) Scene(id string) (*Scene, bool) {
	for i := range n.Scenes {
		if n.Scenes[i].ID == id {
			return &n.Scenes[i], true
		}
	}
	return nil, false
}

// Character looks up a character by id.
func (n *Novel) Character(id string) (*Character, bool) {
	for i := range n.Characters {
		if n.Characters[i].ID == id {
			return &n.Characters[i], true
		}
	}
	return nil, false
}

// StartScene resolves the start scene.
func (n *Novel) StartScene() (*Scene, bool) {
	return n.Scene(n.StartSceneID)
}

// SceneIndex maps scene ids to scenes. Later duplicates do not override
// earlier ones, so lookups agree with Scene.
func (n *Novel) SceneIndex() map[string]*Scene {
	index := make(map[string]*Scene, len(n.Scenes))
	for i := range n.Scenes {
		if _, ok := index[n.Scenes[i].ID]; !ok {
			index[n.Scenes[i].ID] = &n.Scenes[i]
		}
	}
	return index
}

// Expression looks up an expression of the character by id.
func (c *Character) Expression(id string) (*Expression, bool) {
	for i := range c.Expressions {
		if c.Expressions[i].ID == id {
			return &c.Expressions[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy that shares no memory with n.
func (n Novel) Clone() Novel {
	out := n
	out.Characters = make([]Character, len(n.Characters))
	for i, c := range n.Characters {
		out.Characters[i] = c.clone()
	}
	out.Scenes = make([]Scene, len(n.Scenes))
	for i, s := range n.Scenes {
		out.Scenes[i] = s.clone()
	}
	return out
}

func (c Character) clone() Character {
	out := c
	out.Expressions = append([]Expression{}, c.Expressions...)
	return out
}

func (s Scene) clone() Scene {
	out := s
	out.PresentCharacterIDs = append([]string{}, s.PresentCharacterIDs...)
	out.Dialogue = make([]DialogueLine, len(s.Dialogue))
	for i, line := range s.Dialogue {
		out.Dialogue[i] = line.clone()
	}
	out.Choices = append([]Choice{}, s.Choices...)
	return out
}

func (l DialogueLine) clone() DialogueLine {
	out := DialogueLine{Text: l.Text}
	if l.CharacterID != nil {
		out.CharacterID = Ref(*l.CharacterID)
	}
	if l.ExpressionID != nil {
		out.ExpressionID = Ref(*l.ExpressionID)
	}
	return out
}
