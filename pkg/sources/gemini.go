package sources

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kerbaras/vnforge/pkg/novel"
	"github.com/vincent-petithory/dataurl"
	"google.golang.org/genai"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultAspectRatio = "3:4"
	backgroundAspect   = "16:9"
)

// models is the part of the genai client the generator talks to.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	AspectRatio string
	Logger      *slog.Logger
}

// Gemini is the Generator backed by the Gemini API.
type Gemini struct {
	models      models
	textModel   string
	imageModel  string
	aspectRatio string
	log         *slog.Logger
}

func NewGemini(ctx context.Context, options GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(options.APIKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  options.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(client.Models, options), nil
}

func newGemini(m models, options GeminiOptions) *Gemini {
	g := &Gemini{
		models:      m,
		textModel:   strings.TrimSpace(options.TextModel),
		imageModel:  strings.TrimSpace(options.ImageModel),
		aspectRatio: normalizeAspectRatio(options.AspectRatio),
		log:         options.Logger,
	}
	if g.textModel == "" {
		g.textModel = DefaultTextModel
	}
	if g.imageModel == "" {
		g.imageModel = DefaultImageModel
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	return g
}

// GenerateStory asks for a whole novel. The answer goes through the same
// validation as a document loaded from disk.
func (g *Gemini) GenerateStory(ctx context.Context, theme string) (novel.Novel, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   storySchema(),
	}
	g.log.Debug("generating story", "model", g.textModel, "theme", theme)
	resp, err := g.models.GenerateContent(ctx, g.textModel, genai.Text(buildStoryPrompt(theme)), config)
	if err != nil {
		return novel.Novel{}, classify("story generation", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return novel.Novel{}, classify("story generation", err)
	}

	n, err := novel.Parse([]byte(stripFences(text)))
	if err != nil {
		return novel.Novel{}, fmt.Errorf("story generation: %w: %v", ErrMalformedResponse, err)
	}
	if n.Title == "" || n.StartSceneID == "" {
		return novel.Novel{}, fmt.Errorf("story generation: %w: missing title or start scene", ErrMalformedResponse)
	}
	// generated stories never carry a cover
	n.CoverURL = ""
	return n, nil
}

func (g *Gemini) GeneratePortrait(ctx context.Context, name, prompt, expression string) (string, error) {
	contents := genai.Text(buildPortraitPrompt(name, prompt, expression))
	return g.image(ctx, "portrait generation", contents, g.aspectRatio)
}

// EditPortrait redraws a portrait with another expression. base must be a
// data URL.
func (g *Gemini) EditPortrait(ctx context.Context, base, expression string) (string, error) {
	u, err := dataurl.DecodeString(base)
	if err != nil || !strings.HasPrefix(u.ContentType(), "image/") {
		return "", fmt.Errorf("portrait edit: base image is not an image data URL")
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(u.Data, u.ContentType()),
			genai.NewPartFromText(buildEditPrompt(expression)),
		}, genai.RoleUser),
	}
	return g.image(ctx, "portrait edit", contents, g.aspectRatio)
}

func (g *Gemini) GenerateBackground(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(buildBackgroundPrompt(prompt))
	return g.image(ctx, "background generation", contents, backgroundAspect)
}

// GenerateDialogue writes a few lines for a scene. Empty ids in the answer
// are read as narrator lines.
func (g *Gemini) GenerateDialogue(ctx context.Context, sceneName, prompt string, characters []novel.Character) ([]novel.DialogueLine, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   dialogueSchema(),
	}
	g.log.Debug("generating dialogue", "model", g.textModel, "scene", sceneName)
	contents := genai.Text(buildDialoguePrompt(sceneName, prompt, characters))
	resp, err := g.models.GenerateContent(ctx, g.textModel, contents, config)
	if err != nil {
		return nil, classify("dialogue generation", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, classify("dialogue generation", err)
	}

	lines, err := novel.ParseDialogue([]byte(stripFences(text)))
	if err != nil {
		return nil, fmt.Errorf("dialogue generation: %w: %v", ErrMalformedResponse, err)
	}
	for i := range lines {
		if lines[i].CharacterID != nil && *lines[i].CharacterID == "" {
			lines[i].CharacterID = nil
		}
		if lines[i].CharacterID == nil || (lines[i].ExpressionID != nil && *lines[i].ExpressionID == "") {
			lines[i].ExpressionID = nil
		}
	}
	return lines, nil
}

func (g *Gemini) image(ctx context.Context, op string, contents []*genai.Content, aspect string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: aspect},
	}
	g.log.Debug("generating image", "op", op, "model", g.imageModel)
	resp, err := g.models.GenerateContent(ctx, g.imageModel, contents, config)
	if err != nil {
		return "", classify(op, err)
	}
	if err := blocked(resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := strings.TrimSpace(part.InlineData.MIMEType)
			if mimeType == "" {
				mimeType = "image/png"
			}
			return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
		}
	}
	return "", fmt.Errorf("%s: %w", op, ErrNoImage)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if err := blocked(resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	return text, nil
}

// blocked reports a response withheld by the safety filters.
func blocked(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: %s", ErrSafetyBlocked, resp.PromptFeedback.BlockReason)
	}
	for _, candidate := range resp.Candidates {
		if candidate != nil && candidate.FinishReason == genai.FinishReasonSafety {
			return fmt.Errorf("%w: %s", ErrSafetyBlocked, candidate.FinishReason)
		}
	}
	return nil
}

// classify maps a service failure onto the error taxonomy. Failures that are
// already classified pass through.
func classify(op string, err error) error {
	for _, known := range []error{ErrQuotaExceeded, ErrSafetyBlocked, ErrMalformedResponse, ErrNoImage} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(msg, "429"):
		return fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
	case strings.Contains(msg, "blockReason"), strings.Contains(strings.ToLower(msg), "safety"):
		return fmt.Errorf("%s: %w: %v", op, ErrSafetyBlocked, err)
	case strings.Contains(msg, "invalid character"), strings.Contains(msg, "unexpected end of JSON"):
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// stripFences removes a markdown code fence the model may wrap JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func normalizeAspectRatio(value string) string {
	value = strings.TrimSpace(value)
	switch value {
	case "1:1", "3:4", "4:3", "9:16", "16:9":
		return value
	default:
		return DefaultAspectRatio
	}
}

func storySchema() *genai.Schema {
	nullableString := &genai.Schema{Type: genai.TypeString, Nullable: genai.Ptr(true)}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        {Type: genai.TypeString},
			"description":  {Type: genai.TypeString},
			"startSceneId": {Type: genai.TypeString},
			"characters": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":   {Type: genai.TypeString},
						"name": {Type: genai.TypeString},
						"expressions": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"id":       {Type: genai.TypeString},
									"name":     {Type: genai.TypeString},
									"imageUrl": {Type: genai.TypeString},
								},
								Required: []string{"id", "name", "imageUrl"},
							},
						},
					},
					Required: []string{"id", "name", "expressions"},
				},
			},
			"scenes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":            {Type: genai.TypeString},
						"name":          {Type: genai.TypeString},
						"backgroundUrl": {Type: genai.TypeString},
						"presentCharacterIds": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"dialogue": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"characterId":  nullableString,
									"expressionId": nullableString,
									"text":         {Type: genai.TypeString},
								},
								Required: []string{"text"},
							},
						},
						"choices": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"text":        {Type: genai.TypeString},
									"nextSceneId": {Type: genai.TypeString},
								},
								Required: []string{"text", "nextSceneId"},
							},
						},
					},
					Required: []string{"id", "name", "backgroundUrl", "presentCharacterIds", "dialogue", "choices"},
				},
			},
		},
		Required: []string{"title", "description", "startSceneId", "characters", "scenes"},
	}
}

func dialogueSchema() *genai.Schema {
	nullableString := &genai.Schema{Type: genai.TypeString, Nullable: genai.Ptr(true)}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"characterId":  nullableString,
				"expressionId": nullableString,
				"text":         {Type: genai.TypeString},
			},
			Required: []string{"text"},
		},
	}
}
