package player

import (
	"testing"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demo() *novel.Novel {
	n := novel.Demo()
	return &n
}

func TestStartPlaysTheStartScene(t *testing.T) {
	p := New(demo())
	assert.Equal(t, Title, p.Mode())

	require.NoError(t, p.Start())
	assert.Equal(t, Playing, p.Mode())
	assert.Equal(t, State{SceneID: "scene_1"}, p.State())
}

func TestWalkThroughToAnEnding(t *testing.T) {
	p := New(demo())
	require.NoError(t, p.Start())

	// the opening has a single line, so choices are offered immediately
	f, err := p.Frame()
	require.NoError(t, err)
	assert.Equal(t, Choices, f.Affordance)
	require.Len(t, f.Choices, 2)

	require.NoError(t, p.Choose(0))
	assert.Equal(t, State{SceneID: "scene_2"}, p.State())

	f, _ = p.Frame()
	assert.Equal(t, Advance, f.Affordance)
	assert.Equal(t, "Sparky the Dragon", f.Speaker)

	assert.ErrorIs(t, p.Choose(0), ErrInvalidTransition, "choices wait for the last line")
	assert.ErrorIs(t, p.Restart(), ErrInvalidTransition)

	p.Advance()
	p.Advance()
	p.Advance() // no-op on the last line
	assert.Equal(t, 2, p.State().DialogueIndex)

	require.NoError(t, p.Choose(1))
	assert.Equal(t, "scene_3b", p.State().SceneID)
	p.Advance()

	f, _ = p.Frame()
	assert.Equal(t, Ending, f.Affordance)
	assert.Empty(t, f.Choices)
	assert.ErrorIs(t, p.Choose(0), ErrInvalidTransition)

	require.NoError(t, p.Restart())
	assert.Equal(t, Title, p.Mode())
	_, err = p.Frame()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestChooseDanglingTargetHalts(t *testing.T) {
	n := novel.UpdateChoice(novel.Demo(), "scene_1", 0, novel.Choice{Text: "void", NextSceneID: "nowhere"})
	p := New(&n)
	require.NoError(t, p.Start())

	err := p.Choose(0)
	assert.ErrorIs(t, err, ErrSceneNotFound)
	assert.Equal(t, Halted, p.Mode())
	assert.ErrorIs(t, p.Err(), ErrSceneNotFound)

	p.Advance()
	assert.ErrorIs(t, p.Choose(1), ErrInvalidTransition)

	require.NoError(t, p.Restart())
	assert.Equal(t, Title, p.Mode())
	assert.NoError(t, p.Err())
}

func TestChooseOutOfRange(t *testing.T) {
	p := New(demo())
	require.NoError(t, p.Start())
	assert.ErrorIs(t, p.Choose(5), ErrInvalidTransition)
	assert.ErrorIs(t, p.Choose(-1), ErrInvalidTransition)
	assert.Equal(t, Playing, p.Mode())
}

func TestPlayFromSkipsTheTitle(t *testing.T) {
	p := New(demo())
	require.NoError(t, p.PlayFrom("scene_3a"))
	assert.Equal(t, Playing, p.Mode())

	f, err := p.Frame()
	require.NoError(t, err)
	assert.Equal(t, Ending, f.Affordance)

	assert.ErrorIs(t, p.PlayFrom("ghost"), ErrSceneNotFound)
	assert.Equal(t, Halted, p.Mode())
}

func TestPresentSprites(t *testing.T) {
	n := demo()
	f, err := Present(n, State{SceneID: "scene_2", DialogueIndex: 0})
	require.NoError(t, err)

	require.Len(t, f.Sprites, 2)
	hero, dragon := f.Sprites[0], f.Sprites[1]

	assert.Equal(t, "char_hero", hero.CharacterID)
	assert.Equal(t, "char_hero_neutral", hero.ExpressionID)
	assert.False(t, hero.Speaking)
	assert.Equal(t, stage.IdleBrightness, hero.Brightness)
	assert.Equal(t, stage.IdleZ, hero.Z)
	assert.Equal(t, 15.0, hero.Left)

	assert.Equal(t, "char_dragon_happy", dragon.ExpressionID)
	assert.True(t, dragon.Speaking)
	assert.Equal(t, stage.SpeakerScale, dragon.Scale)
	assert.Equal(t, stage.SpeakerZ, dragon.Z)
	assert.Equal(t, 85.0, dragon.Left)
}

func TestPresentHidesCharactersWithoutArt(t *testing.T) {
	n := novel.UpdateExpressionURL(novel.Demo(), "char_hero", "char_hero_neutral", "")
	f, err := Present(&n, State{SceneID: "scene_2"})
	require.NoError(t, err)
	require.Len(t, f.Sprites, 1)
	assert.Equal(t, "char_dragon", f.Sprites[0].CharacterID)
	// the hidden character still takes its place in the spread
	assert.Equal(t, 85.0, f.Sprites[0].Left)
}

func TestPresentUnknownSpeakerIsNarration(t *testing.T) {
	n := novel.UpdateDialogueLine(novel.Demo(), "scene_4", 0, novel.Line("ghost", "", "boo"))
	f, err := Present(&n, State{SceneID: "scene_4"})
	require.NoError(t, err)
	assert.Equal(t, "", f.Speaker)
	assert.Equal(t, "boo", f.Text)
}

func TestPresentClampsIndex(t *testing.T) {
	f, err := Present(demo(), State{SceneID: "scene_2", DialogueIndex: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, f.DialogueIndex)
	assert.Equal(t, 3, f.LineCount)

	f, _ = Present(demo(), State{SceneID: "scene_2", DialogueIndex: -4})
	assert.Equal(t, 0, f.DialogueIndex)
}

func TestPresentMissingScene(t *testing.T) {
	_, err := Present(demo(), State{SceneID: "ghost"})
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestPresentIsDeterministic(t *testing.T) {
	n := demo()
	before := n.Clone()
	for _, id := range []string{"scene_1", "scene_2", "scene_3a", "scene_3b", "scene_4"} {
		for i := 0; i < 3; i++ {
			first, err1 := Present(n, State{SceneID: id, DialogueIndex: i})
			second, err2 := Present(n, State{SceneID: id, DialogueIndex: i})
			assert.Equal(t, err1, err2)
			assert.Equal(t, first, second)
		}
	}
	assert.Equal(t, before, *n)
}

func TestTitleScreenFallbacks(t *testing.T) {
	n := demo()
	assert.Equal(t, n.CoverURL, TitleScreen(n).BackgroundURL)
	assert.Equal(t, "A Dragon's Quest", TitleScreen(n).Title)

	n.CoverURL = ""
	assert.Equal(t, "https://picsum.photos/seed/vn-cave/1280/720", TitleScreen(n).BackgroundURL)

	n.StartSceneID = "nope"
	assert.Equal(t, "", TitleScreen(n).BackgroundURL)
}
