package integrations

import (
	"strings"
	"testing"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddedSnapshot extracts the JSON document embedded in a compiled page.
func embeddedSnapshot(t *testing.T, page string) string {
	t.Helper()
	open := `<script id="` + HTMLDataID + `" type="application/json">`
	start := strings.Index(page, open)
	require.GreaterOrEqual(t, start, 0, "snapshot script not found")
	rest := page[start+len(open):]
	end := strings.Index(rest, "</script>")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

func TestCompileHTMLSnapshotRoundTrip(t *testing.T) {
	n := demo()
	page, err := CompileHTML(n)
	require.NoError(t, err)

	parsed, err := novel.Parse([]byte(embeddedSnapshot(t, page)))
	require.NoError(t, err)
	assert.Equal(t, *n, parsed)
}

func TestCompileHTMLEscapesScriptBreakers(t *testing.T) {
	n := novel.Demo()
	n = novel.UpdateTitle(n, "</script><script>alert(1)</script>")
	n = novel.UpdateDialogueLine(n, "scene_4", 0, novel.Narration("a & b <b>\u2028\u2029"))

	page, err := CompileHTML(&n)
	require.NoError(t, err)

	snapshot := embeddedSnapshot(t, page)
	assert.NotContains(t, snapshot, "<")
	assert.NotContains(t, snapshot, ">")
	assert.NotContains(t, snapshot, "&")
	assert.NotContains(t, snapshot, "\u2028")
	assert.NotContains(t, snapshot, "\u2029")

	parsed, err := novel.Parse([]byte(snapshot))
	require.NoError(t, err)
	assert.Equal(t, n, parsed)

	assert.NotContains(t, page, "<script>alert(1)")
	assert.Contains(t, page, "&lt;/script&gt;")
}

func TestCompileHTMLCarriesStageRules(t *testing.T) {
	page, err := CompileHTML(demo())
	require.NoError(t, err)

	assert.Contains(t, page, `neutral: "neutral"`)
	assert.Contains(t, page, "bandStart:  15 ")
	assert.Contains(t, page, "bandWidth:  70 ")
	assert.Contains(t, page, "idleBrightness:  0.6 ")
	assert.Contains(t, page, "idleScale:  0.95 ")
	assert.Contains(t, page, "speakerZ:  10 ")
	assert.Contains(t, page, "https://cdn.tailwindcss.com")
}

func TestCompileHTMLTitleScreen(t *testing.T) {
	n := novel.Demo()
	page, err := CompileHTML(&n)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>A Dragon&#39;s Quest</title>")
	assert.Contains(t, page, `const titleBackground = "https://picsum.photos/seed/vn-cave/1280/720";`)
	assert.Contains(t, page, "Become a brave knight")

	n.CoverURL = ""
	n.StartSceneID = "missing"
	n.Description = ""
	page, err = CompileHTML(&n)
	require.NoError(t, err)
	assert.Contains(t, page, `const titleBackground = "";`)
	assert.NotContains(t, page, "leading-relaxed\">")
}
