package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
)

type Format string

const (
	FormatRenpy Format = "renpy"
	FormatHTML  Format = "html"
	FormatEPUB  Format = "epub"
)

// Formats lists every export format in a stable order.
var Formats = []Format{FormatRenpy, FormatHTML, FormatEPUB}

// Exporter writes a novel to a file in one runtime format. Exporters never
// modify the novel, so several may run on the same snapshot at once.
type Exporter interface {
	Format() Format
	Extension() string
	Export(n *novel.Novel, path string) error
}

// NewExporter returns the exporter for a format.
func NewExporter(format Format, options ExportOptions) (Exporter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatRenpy:
		return renpyExporter{}, nil
	case FormatHTML:
		return htmlExporter{}, nil
	case FormatEPUB:
		return NewEPubBuilder(options), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// OutputPath builds the file name for a novel exported into dir.
func OutputPath(dir string, n *novel.Novel, e Exporter) string {
	name := sanitizeFilename(n.Title)
	if name == "" {
		name = "novel"
	}
	return filepath.Join(dir, name+e.Extension())
}

type renpyExporter struct{}

func (renpyExporter) Format() Format    { return FormatRenpy }
func (renpyExporter) Extension() string { return ".rpy" }

func (renpyExporter) Export(n *novel.Novel, path string) error {
	return writeFile(path, []byte(CompileRenpy(n)))
}

type htmlExporter struct{}

func (htmlExporter) Format() Format    { return FormatHTML }
func (htmlExporter) Extension() string { return ".html" }

func (htmlExporter) Export(n *novel.Novel, path string) error {
	page, err := CompileHTML(n)
	if err != nil {
		return err
	}
	return writeFile(path, []byte(page))
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
