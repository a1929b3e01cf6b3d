package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kerbaras/vnforge/pkg/integrations"
	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/kerbaras/vnforge/pkg/sources"
	"github.com/kerbaras/vnforge/pkg/stage"
	"github.com/kerbaras/vnforge/pkg/utils"
	"golang.org/x/time/rate"
)

// DefaultSpacing is the pause between two generation calls.
const DefaultSpacing = 4 * time.Second

// Progress reports one step of a pipeline run
type Progress struct {
	CharacterID  string
	ExpressionID string
	Expression   string
	Step         int
	Total        int
	Status       string // "generating", "keying", "complete", "error"
	Error        error
}

// ExpressionFailure records an expression the pipeline could not produce.
type ExpressionFailure struct {
	ExpressionID string
	Expression   string
	Err          error
}

func (f ExpressionFailure) Error() string {
	return fmt.Sprintf("expression %s: %v", f.Expression, f.Err)
}

func (f ExpressionFailure) Unwrap() error { return f.Err }

// Report summarizes a portrait run.
type Report struct {
	Generated []string
	Failed    []ExpressionFailure
}

// Err joins the failures, or returns nil when every expression was drawn.
func (r Report) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type PipelineOptions struct {
	// Spacing between two calls to the generator. Zero disables pacing.
	Spacing time.Duration
	Chroma  integrations.ChromaOptions
	Logger  *slog.Logger
}

// ArtPipeline sequences generation calls that depend on each other, pacing
// them to stay under the service's rate limits. It never modifies a novel in
// place: every method returns a new snapshot.
type ArtPipeline struct {
	generator    sources.Generator
	fetcher      *utils.Fetcher
	limiter      *rate.Limiter
	chroma       integrations.ChromaOptions
	log          *slog.Logger
	progressChan chan Progress
}

func NewArtPipeline(generator sources.Generator, options PipelineOptions) *ArtPipeline {
	limit := rate.Inf
	if options.Spacing > 0 {
		limit = rate.Every(options.Spacing)
	}
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}
	return &ArtPipeline{
		generator:    generator,
		fetcher:      utils.NewFetcher(),
		limiter:      rate.NewLimiter(limit, 1),
		chroma:       options.Chroma,
		log:          log,
		progressChan: make(chan Progress, 100),
	}
}

// GetProgressChannel returns the channel receiving progress updates
func (p *ArtPipeline) GetProgressChannel() <-chan Progress {
	return p.progressChan
}

// GenerateStory replaces the whole novel with a generated one.
func (p *ArtPipeline) GenerateStory(ctx context.Context, theme string) (novel.Novel, error) {
	if strings.TrimSpace(theme) == "" {
		return novel.Novel{}, fmt.Errorf("theme cannot be empty")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return novel.Novel{}, err
	}
	return p.generator.GenerateStory(ctx, theme)
}

// GeneratePortraits draws every expression of a character. The default
// expression is drawn first and keyed; every other expression is an edit of
// that base. A failed edit is recorded in the report and does not stop the
// remaining ones; only a failed base aborts the run.
func (p *ArtPipeline) GeneratePortraits(ctx context.Context, n novel.Novel, characterID string) (novel.Novel, Report, error) {
	var report Report
	c, ok := n.Character(characterID)
	if !ok {
		return n, report, fmt.Errorf("character %q not found", characterID)
	}
	base, ok := stage.DefaultExpression(c)
	if !ok {
		return n, report, fmt.Errorf("character %q has no expressions", characterID)
	}
	name, prompt := c.Name, c.AIPrompt
	baseID := base.ID
	others := make([]novel.Expression, 0, len(c.Expressions))
	for _, e := range c.Expressions {
		if e.ID != baseID {
			others = append(others, e)
		}
	}
	total := len(others) + 1

	p.sendProgress(Progress{CharacterID: characterID, ExpressionID: baseID, Expression: stage.NeutralExpression, Step: 1, Total: total, Status: "generating"})
	if err := p.limiter.Wait(ctx); err != nil {
		return n, report, err
	}
	raw, err := p.generator.GeneratePortrait(ctx, name, prompt, stage.NeutralExpression)
	if err != nil {
		p.sendProgress(Progress{CharacterID: characterID, ExpressionID: baseID, Step: 1, Total: total, Status: "error", Error: err})
		return n, report, fmt.Errorf("base portrait: %w", err)
	}
	keyed, err := p.key(raw)
	if err != nil {
		return n, report, fmt.Errorf("base portrait: %w", err)
	}
	out := novel.UpdateExpressionURL(n, characterID, baseID, keyed)
	report.Generated = append(report.Generated, baseID)
	p.sendProgress(Progress{CharacterID: characterID, ExpressionID: baseID, Step: 1, Total: total, Status: "complete"})

	for i, expr := range others {
		step := i + 2
		p.sendProgress(Progress{CharacterID: characterID, ExpressionID: expr.ID, Expression: expr.Name, Step: step, Total: total, Status: "generating"})
		if err := p.limiter.Wait(ctx); err != nil {
			return out, report, err
		}

		url, err := p.edit(ctx, raw, expr.Name)
		if err != nil {
			if ctx.Err() != nil {
				return out, report, ctx.Err()
			}
			p.log.Warn("expression generation failed", "character", characterID, "expression", expr.Name, "error", err)
			report.Failed = append(report.Failed, ExpressionFailure{ExpressionID: expr.ID, Expression: expr.Name, Err: err})
			p.sendProgress(Progress{CharacterID: characterID, ExpressionID: expr.ID, Expression: expr.Name, Step: step, Total: total, Status: "error", Error: err})
			continue
		}
		out = novel.UpdateExpressionURL(out, characterID, expr.ID, url)
		report.Generated = append(report.Generated, expr.ID)
		p.sendProgress(Progress{CharacterID: characterID, ExpressionID: expr.ID, Expression: expr.Name, Step: step, Total: total, Status: "complete"})
	}
	return out, report, nil
}

func (p *ArtPipeline) edit(ctx context.Context, base, expression string) (string, error) {
	raw, err := p.generator.EditPortrait(ctx, base, expression)
	if err != nil {
		return "", err
	}
	return p.key(raw)
}

// GenerateBackground draws a scene background from a prompt.
func (p *ArtPipeline) GenerateBackground(ctx context.Context, n novel.Novel, sceneID, prompt string) (novel.Novel, error) {
	if _, ok := n.Scene(sceneID); !ok {
		return n, fmt.Errorf("scene %q not found", sceneID)
	}
	if strings.TrimSpace(prompt) == "" {
		return n, fmt.Errorf("prompt cannot be empty")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return n, err
	}
	url, err := p.generator.GenerateBackground(ctx, prompt)
	if err != nil {
		return n, err
	}
	return novel.UpdateScene(n, sceneID, func(s *novel.Scene) {
		s.BackgroundURL = url
		s.AIPrompt = prompt
	}), nil
}

// GenerateDialogue rewrites a scene's dialogue for the characters present.
func (p *ArtPipeline) GenerateDialogue(ctx context.Context, n novel.Novel, sceneID, prompt string) (novel.Novel, error) {
	scene, ok := n.Scene(sceneID)
	if !ok {
		return n, fmt.Errorf("scene %q not found", sceneID)
	}
	var present []novel.Character
	for _, c := range stage.PresentCharacters(&n, scene) {
		present = append(present, *c)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return n, err
	}
	lines, err := p.generator.GenerateDialogue(ctx, scene.Name, prompt, present)
	if err != nil {
		return n, err
	}
	return novel.ReplaceDialogue(n, sceneID, lines)
}

// RemoveBackground keys out the background of an existing expression image.
func (p *ArtPipeline) RemoveBackground(ctx context.Context, n novel.Novel, characterID, expressionID string) (novel.Novel, error) {
	c, ok := n.Character(characterID)
	if !ok {
		return n, fmt.Errorf("character %q not found", characterID)
	}
	expr, ok := c.Expression(expressionID)
	if !ok {
		return n, fmt.Errorf("expression %q not found", expressionID)
	}
	if expr.ImageURL == "" {
		return n, fmt.Errorf("expression %q has no image", expressionID)
	}

	content, _, err := p.fetcher.Fetch(ctx, expr.ImageURL)
	if err != nil {
		return n, err
	}
	keyed, err := integrations.RemoveBackground(content, p.chroma)
	if err != nil {
		return n, err
	}
	return novel.UpdateExpressionURL(n, characterID, expressionID, integrations.EncodeDataURL(keyed, "image/png")), nil
}

func (p *ArtPipeline) key(source string) (string, error) {
	keyed, err := integrations.RemoveBackgroundDataURL(source, p.chroma)
	if err != nil {
		return "", fmt.Errorf("background removal: %w", err)
	}
	return keyed, nil
}

// sendProgress sends a progress update (non-blocking)
func (p *ArtPipeline) sendProgress(progress Progress) {
	select {
	case p.progressChan <- progress:
	default:
	}
}

// Close releases the progress channel. The pipeline must not be used after.
func (p *ArtPipeline) Close() {
	close(p.progressChan)
}
