package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/stage"
)

// ExportOptions tunes the exporters that have anything to tune.
type ExportOptions struct {
	Author string
	Lang   string
	// EmbedImages pulls backgrounds and portraits into the EPUB. Remote URLs
	// are fetched at build time.
	EmbedImages bool
}

// EPubBuilder renders a novel as a gamebook: one section per scene, each
// choice a link to the section of its target.
type EPubBuilder struct {
	options ExportOptions
}

func NewEPubBuilder(options ExportOptions) *EPubBuilder {
	if options.Author == "" {
		options.Author = "vnforge"
	}
	if options.Lang == "" {
		options.Lang = "en"
	}
	return &EPubBuilder{options: options}
}

func (p *EPubBuilder) Format() Format    { return FormatEPUB }
func (p *EPubBuilder) Extension() string { return ".epub" }

// Export compiles the novel into an EPUB file at path.
func (p *EPubBuilder) Export(n *novel.Novel, path string) error {
	if len(n.Scenes) == 0 {
		return fmt.Errorf("no scenes to compile")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	title := n.Title
	if title == "" {
		title = "Untitled"
	}
	e, err := epub.NewEpub(title)
	if err != nil {
		return fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(p.options.Author)
	if n.Description != "" {
		e.SetDescription(n.Description)
	}
	e.SetLang(p.options.Lang)

	files := sectionFiles(n)
	images := map[string]string{}

	if _, err := e.AddSection(p.titlePage(n, files), title, "title.xhtml", ""); err != nil {
		return fmt.Errorf("failed to add title page: %w", err)
	}

	for i := range n.Scenes {
		scene := &n.Scenes[i]
		body, err := p.scenePage(e, n, scene, files, images)
		if err != nil {
			return fmt.Errorf("failed to render scene %s: %w", scene.ID, err)
		}
		if _, err := e.AddSection(body, sceneTitle(scene), sectionFile(i), ""); err != nil {
			return fmt.Errorf("failed to add section %s: %w", scene.ID, err)
		}
	}

	if err := e.Write(path); err != nil {
		return fmt.Errorf("failed to write EPub: %w", err)
	}
	return nil
}

func (p *EPubBuilder) titlePage(n *novel.Novel, files map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(n.Title))
	if n.Description != "" {
		fmt.Fprintf(&b, "<p><em>%s</em></p>\n", html.EscapeString(n.Description))
	}
	if file, ok := files[n.StartSceneID]; ok {
		fmt.Fprintf(&b, "<p class=\"start\"><a href=\"%s\">Begin</a></p>\n", file)
	}
	return b.String()
}

func (p *EPubBuilder) scenePage(e *epub.Epub, n *novel.Novel, scene *novel.Scene, files, images map[string]string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(sceneTitle(scene)))

	if p.options.EmbedImages {
		if err := p.embed(e, &b, scene.BackgroundURL, "background", images); err != nil {
			return "", err
		}
		for _, c := range stage.PresentCharacters(n, scene) {
			expr, ok := stage.DefaultExpression(c)
			if !ok {
				continue
			}
			if err := p.embed(e, &b, expr.ImageURL, c.Name, images); err != nil {
				return "", err
			}
		}
	}

	for _, line := range scene.Dialogue {
		text := html.EscapeString(line.Text)
		if speaker, ok := stage.Speaker(n, line); ok {
			fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>\n", html.EscapeString(speaker.Name), text)
		} else {
			fmt.Fprintf(&b, "<p>%s</p>\n", text)
		}
	}

	if scene.IsEnding() {
		b.WriteString("<p class=\"ending\"><em>~ The End ~</em></p>\n")
		return b.String(), nil
	}

	b.WriteString("<ol class=\"choices\">\n")
	for _, choice := range scene.Choices {
		text := html.EscapeString(choice.Text)
		if file, ok := files[choice.NextSceneID]; ok {
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", file, text)
		} else {
			fmt.Fprintf(&b, "<li>%s</li>\n", text)
		}
	}
	b.WriteString("</ol>\n")
	return b.String(), nil
}

// embed adds an image once per source and references it from the page.
func (p *EPubBuilder) embed(e *epub.Epub, b *strings.Builder, source, alt string, images map[string]string) error {
	if source == "" {
		return nil
	}
	internal, ok := images[source]
	if !ok {
		var err error
		internal, err = e.AddImage(source, "")
		if err != nil {
			return fmt.Errorf("failed to add image: %w", err)
		}
		images[source] = internal
	}
	fmt.Fprintf(b, "<div class=\"image\"><img src=\"%s\" alt=\"%s\" style=\"width:100%%;height:auto;\"/></div>\n",
		internal, html.EscapeString(alt))
	return nil
}

// sectionFiles maps scene ids to section file names. Ids are not safe file
// names, so sections are numbered; the first scene with an id wins.
func sectionFiles(n *novel.Novel) map[string]string {
	files := make(map[string]string, len(n.Scenes))
	for i, scene := range n.Scenes {
		if _, ok := files[scene.ID]; !ok {
			files[scene.ID] = sectionFile(i)
		}
	}
	return files
}

func sectionFile(i int) string {
	return fmt.Sprintf("scene%03d.xhtml", i+1)
}

func sceneTitle(scene *novel.Scene) string {
	if scene.Name != "" {
		return scene.Name
	}
	return scene.ID
}
