package data

import (
	"time"

	"github.com/kerbaras/vnforge/pkg/novel"
)

// Entry is a novel stored in the library.
type Entry struct {
	ID           string
	Title        string
	StartSceneID string
	SceneCount   int
	UpdatedAt    time.Time
	Novel        novel.Novel
}

// Summary is a library row without its document, for listings.
type Summary struct {
	ID           string
	Title        string
	StartSceneID string
	SceneCount   int
	UpdatedAt    time.Time
}
