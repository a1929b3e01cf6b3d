package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/vnforge/pkg/app/styles"
	"github.com/kerbaras/vnforge/pkg/services"
)

// ProgressTracker keeps the latest update per expression of a portrait run.
type ProgressTracker struct {
	steps map[string]*services.Progress
	width int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		steps: make(map[string]*services.Progress),
		width: width,
	}
}

func (p *ProgressTracker) Update(progress services.Progress) {
	key := progress.CharacterID + ":" + progress.ExpressionID
	prog := progress
	p.steps[key] = &prog
}

func (p *ProgressTracker) Clear() {
	p.steps = make(map[string]*services.Progress)
}

// HasActive reports whether any step is still running.
func (p *ProgressTracker) HasActive() bool {
	for _, s := range p.steps {
		if s.Status == "generating" || s.Status == "keying" {
			return true
		}
	}
	return false
}

func (p *ProgressTracker) View() string {
	if len(p.steps) == 0 {
		return ""
	}

	ordered := make([]*services.Progress, 0, len(p.steps))
	for _, s := range p.steps {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CharacterID != ordered[j].CharacterID {
			return ordered[i].CharacterID < ordered[j].CharacterID
		}
		return ordered[i].Step < ordered[j].Step
	})

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Portrait Generation"))
	b.WriteString("\n\n")

	done, total := 0, 0
	for _, s := range ordered {
		total = s.Total
		if s.Status == "complete" || s.Status == "error" {
			done++
		}

		name := s.Expression
		if name == "" {
			name = s.ExpressionID
		}
		line := fmt.Sprintf("[%d/%d] %s: %s", s.Step, s.Total, name, s.Status)
		b.WriteString(styles.StatusStyle(s.Status).Render(line))
		b.WriteString("\n")
		if s.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("  Error: %s", s.Error)))
			b.WriteString("\n")
		}
	}
	if total > 0 {
		b.WriteString(renderProgressBar(done, total, p.width-4))
		b.WriteString("\n")
	}
	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
