package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kerbaras/vnforge/pkg/data"
	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/novel"
	"golang.org/x/sync/errgroup"
)

var ErrNovelNotFound = errors.New("novel not found")

// Repository interface needed by the controller
type Repository interface {
	SaveNovel(id string, n novel.Novel) (string, error)
	GetNovel(id string) (*data.Entry, error)
	FindNovelByTitle(title string) (*data.Entry, error)
	ListNovels() ([]data.Summary, error)
	DeleteNovel(id string) (bool, error)
}

type ControllerConfig struct {
	OutputDir string
	Export    integrations.ExportOptions
	Logger    *slog.Logger
}

// Document is a loaded novel and where it came from. Exactly one of Path
// and LibraryID is set.
type Document struct {
	Novel     novel.Novel
	Path      string
	LibraryID string
}

// NovelController resolves novel references against files and the library,
// and fans exports out to the exporters.
type NovelController struct {
	repo      Repository
	outputDir string
	export    integrations.ExportOptions
	log       *slog.Logger
}

func NewNovelController(repo Repository, config ControllerConfig) *NovelController {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &NovelController{repo: repo, outputDir: outputDir, export: config.Export, log: log}
}

// Open loads a novel by reference: an existing file path, then a library id,
// then a library title.
func (c *NovelController) Open(ref string) (*Document, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty novel reference")
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		n, err := ReadNovelFile(ref)
		if err != nil {
			return nil, err
		}
		return &Document{Novel: n, Path: ref}, nil
	}
	if c.repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrNovelNotFound, ref)
	}

	entry, err := c.repo.GetNovel(ref)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry, err = c.repo.FindNovelByTitle(ref)
		if err != nil {
			return nil, err
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNovelNotFound, ref)
	}
	return &Document{Novel: entry.Novel, LibraryID: entry.ID}, nil
}

// Save writes the document back where it was loaded from.
func (c *NovelController) Save(doc *Document) error {
	if doc.Path != "" {
		return WriteNovelFile(doc.Path, doc.Novel)
	}
	if c.repo == nil {
		return fmt.Errorf("no library configured")
	}
	id, err := c.repo.SaveNovel(doc.LibraryID, doc.Novel)
	if err != nil {
		return err
	}
	doc.LibraryID = id
	c.log.Debug("saved novel", "id", id, "title", doc.Novel.Title)
	return nil
}

// Import stores a novel in the library under a new id.
func (c *NovelController) Import(n novel.Novel) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("no library configured")
	}
	return c.repo.SaveNovel("", n)
}

func (c *NovelController) List() ([]data.Summary, error) {
	if c.repo == nil {
		return nil, nil
	}
	return c.repo.ListNovels()
}

func (c *NovelController) Delete(id string) error {
	if c.repo == nil {
		return fmt.Errorf("no library configured")
	}
	deleted, err := c.repo.DeleteNovel(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNovelNotFound, id)
	}
	return nil
}

// Export writes one artifact per format into dir, or the configured output
// directory when dir is empty. The exporters run concurrently on the same
// snapshot; they never modify it.
func (c *NovelController) Export(ctx context.Context, n novel.Novel, formats []integrations.Format, dir string) ([]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no export format selected")
	}
	if dir == "" {
		dir = c.outputDir
	}

	exporters := make([]integrations.Exporter, len(formats))
	for i, f := range formats {
		e, err := integrations.NewExporter(f, c.export)
		if err != nil {
			return nil, err
		}
		exporters[i] = e
	}

	snapshot := n.Clone()
	paths := make([]string, len(exporters))
	g, ctx := errgroup.WithContext(ctx)
	for i, e := range exporters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := integrations.OutputPath(dir, &snapshot, e)
			if err := e.Export(&snapshot, path); err != nil {
				return fmt.Errorf("%s export: %w", e.Format(), err)
			}
			c.log.Info("exported novel", "format", e.Format(), "path", path)
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ReadNovelFile parses a novel document from disk.
func ReadNovelFile(path string) (novel.Novel, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return novel.Novel{}, fmt.Errorf("failed to read novel: %w", err)
	}
	n, err := novel.Parse(content)
	if err != nil {
		return novel.Novel{}, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// WriteNovelFile persists a novel document, replacing the file atomically.
func WriteNovelFile(path string, n novel.Novel) error {
	content, err := novel.Marshal(n)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(append(content, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
