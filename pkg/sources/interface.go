package sources

import (
	"context"
	"errors"

	"github.com/kerbaras/vnforge/pkg/novel"
)

var (
	ErrQuotaExceeded     = errors.New("generation quota exceeded, try again later")
	ErrSafetyBlocked     = errors.New("request blocked by safety settings")
	ErrMalformedResponse = errors.New("generator returned a malformed response")
	ErrNoImage           = errors.New("generator returned no image")
)

// Generator produces story content. Images are returned as data URLs.
type Generator interface {
	GenerateStory(ctx context.Context, theme string) (novel.Novel, error)
	GeneratePortrait(ctx context.Context, name, prompt, expression string) (string, error)
	EditPortrait(ctx context.Context, base, expression string) (string, error)
	GenerateDialogue(ctx context.Context, sceneName, prompt string, characters []novel.Character) ([]novel.DialogueLine, error)
	GenerateBackground(ctx context.Context, prompt string) (string, error)
}
