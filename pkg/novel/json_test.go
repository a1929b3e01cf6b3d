package novel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for name, n := range map[string]Novel{"demo": Demo(), "empty": Empty()} {
		t.Run(name, func(t *testing.T) {
			data, err := Marshal(n)
			require.NoError(t, err)

			parsed, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, n, parsed)
		})
	}
}

func TestRoundTripKeepsEmptyFields(t *testing.T) {
	n := UpdateStartScene(UpdateTitle(Demo(), ""), "")

	data, err := Marshal(n)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, n, parsed)
	assert.Empty(t, parsed.Title)
}

func TestMarshalFieldNames(t *testing.T) {
	data, err := Marshal(Demo())
	require.NoError(t, err)

	for _, field := range []string{
		`"title"`, `"description"`, `"coverUrl"`, `"startSceneId"`, `"characters"`, `"scenes"`,
		`"expressions"`, `"imageUrl"`, `"aiPrompt"`, `"backgroundUrl"`, `"presentCharacterIds"`,
		`"dialogue"`, `"choices"`, `"characterId": null`, `"expressionId": null`, `"nextSceneId"`,
	} {
		assert.Contains(t, string(data), field)
	}
}

func TestMarshalWritesEmptyArrays(t *testing.T) {
	data, err := Marshal(Novel{Title: "t", StartSceneID: "s"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenes": []`)
	assert.NotContains(t, string(data), "null")
}

func TestParseRejectsMissingFields(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"no title":      `{"scenes": [], "characters": [], "startSceneId": "a"}`,
		"numeric title": `{"title": 7, "scenes": [], "characters": [], "startSceneId": "a"}`,
		"no scenes":     `{"title": "t", "characters": [], "startSceneId": "a"}`,
		"no characters": `{"title": "t", "scenes": [], "startSceneId": "a"}`,
		"no start":      `{"title": "t", "scenes": [], "characters": []}`,
		"array":         `[]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseNormalizes(t *testing.T) {
	doc := `{
		"title": "t",
		"startSceneId": "a",
		"characters": [{"id": "c", "name": "C"}],
		"scenes": [{"id": "a", "name": "A", "dialogue": [{"text": "hi", "expressionId": "x"}]}, {"id": "b"}]
	}`
	n, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.NotNil(t, n.Characters[0].Expressions)
	a := n.Scenes[0]
	assert.NotNil(t, a.PresentCharacterIDs)
	assert.NotNil(t, a.Choices)
	assert.Nil(t, a.Dialogue[0].ExpressionID, "narrator lines carry no expression")

	b := n.Scenes[1]
	require.Len(t, b.Dialogue, 1)
	assert.Equal(t, PlaceholderLine, b.Dialogue[0].Text)
}

func TestParseDialogue(t *testing.T) {
	lines, err := ParseDialogue([]byte(`[
		{"characterId": "c", "expressionId": "c_happy", "text": "hello"},
		{"characterId": null, "expressionId": "x", "text": "narration"}
	]`))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "c", *lines[0].CharacterID)
	assert.Nil(t, lines[1].ExpressionID)

	for _, doc := range []string{`[]`, `{}`, `[{"characterId": "c"}]`, strings.Repeat("[", 3)} {
		_, err := ParseDialogue([]byte(doc))
		assert.ErrorIs(t, err, ErrMalformed, doc)
	}
}
