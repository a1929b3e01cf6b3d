package cmd

import (
	"path/filepath"
	"testing"

	"github.com/kerbaras/vnforge/pkg/graph"
	"github.com/kerbaras/vnforge/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VNFORGE_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("VNFORGE_LIBRARY", filepath.Join(dir, "library.db"))
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	return dir
}

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestNewAndEdit(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "story.json")

	run(t, "new", path, "--template", "demo", "--title=", "--save=false")
	run(t, "edit", "title", path, "Sparky Returns")
	run(t, "edit", "add-scene", path, "--id", "scene_5")
	run(t, "edit", "add-choice", path, "scene_4", "scene_5", "--text", "Go back after all")
	run(t, "edit", "add-line", path, "scene_5", "Hello again!", "--character", "char_dragon", "--expression", "char_dragon_happy")
	run(t, "edit", "presence", path, "scene_5", "char_dragon")

	n, err := services.ReadNovelFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sparky Returns", n.Title)

	s, ok := n.Scene("scene_4")
	require.True(t, ok)
	require.Len(t, s.Choices, 1)
	assert.Equal(t, "Go back after all", s.Choices[0].Text)
	assert.Equal(t, "scene_5", s.Choices[0].NextSceneID)

	s, ok = n.Scene("scene_5")
	require.True(t, ok)
	require.Len(t, s.Dialogue, 2)
	speaker, ok := s.Dialogue[1].Speaker()
	require.True(t, ok)
	assert.Equal(t, "char_dragon", speaker)
	assert.Equal(t, []string{"char_dragon"}, s.PresentCharacterIDs)

	assert.False(t, graph.HasErrors(graph.Check(&n)))
}

func TestNewIntoLibrary(t *testing.T) {
	setupCLI(t)
	run(t, "new", "--template", "empty", "--title", "Library Story", "--save")

	repo, err := openLibrary()
	require.NoError(t, err)
	defer repo.Close()

	entry, err := repo.FindNovelByTitle("library story")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.SceneCount)
}

func TestExportCommand(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "story.json")
	out := filepath.Join(dir, "out")

	run(t, "new", path, "--template", "demo", "--title=", "--save=false")
	run(t, "export", path, "--format", "renpy,html", "--output", out)

	assert.FileExists(t, filepath.Join(out, "A Dragon's Quest.rpy"))
	assert.FileExists(t, filepath.Join(out, "A Dragon's Quest.html"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "A Drag...", truncateString("A Dragon's Quest", 9))
}

func TestShortID(t *testing.T) {
	id := shortID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, shortID())
}
