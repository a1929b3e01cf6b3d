package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kerbaras/vnforge/pkg/novel"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewDuckDBRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return repo
}

func TestSaveAndGetNovel(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.SaveNovel("", novel.Demo())
	if err != nil {
		t.Fatalf("Failed to save novel: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated id")
	}

	entry, err := repo.GetNovel(id)
	if err != nil {
		t.Fatalf("Failed to get novel: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected novel to be found")
	}

	if entry.Title != "A Dragon's Quest" {
		t.Errorf("Expected Title %q, got %q", "A Dragon's Quest", entry.Title)
	}
	if entry.StartSceneID != "scene_1" {
		t.Errorf("Expected StartSceneID scene_1, got %s", entry.StartSceneID)
	}
	if entry.SceneCount != 5 {
		t.Errorf("Expected 5 scenes, got %d", entry.SceneCount)
	}
	if len(entry.Novel.Characters) != 2 {
		t.Errorf("Expected 2 characters in the document, got %d", len(entry.Novel.Characters))
	}
}

func TestGetNonExistentNovel(t *testing.T) {
	repo := setupTestDB(t)

	entry, err := repo.GetNovel("non-existent")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entry != nil {
		t.Error("Expected entry to be nil for non-existent ID")
	}
}

func TestSaveNovelUpsert(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.SaveNovel("novel-1", novel.Empty())
	if err != nil {
		t.Fatalf("Failed to save novel: %v", err)
	}
	if id != "novel-1" {
		t.Errorf("Expected id novel-1, got %s", id)
	}

	updated := novel.AddScene(novel.UpdateTitle(novel.Empty(), "Renamed"), "scene_2")
	if _, err := repo.SaveNovel("novel-1", updated); err != nil {
		t.Fatalf("Failed to update novel: %v", err)
	}

	entry, _ := repo.GetNovel("novel-1")
	if entry.Title != "Renamed" {
		t.Errorf("Expected Title 'Renamed', got '%s'", entry.Title)
	}
	if entry.SceneCount != 2 {
		t.Errorf("Expected 2 scenes, got %d", entry.SceneCount)
	}

	list, _ := repo.ListNovels()
	if len(list) != 1 {
		t.Errorf("Expected 1 novel after upsert, got %d", len(list))
	}
}

func TestListNovels(t *testing.T) {
	repo := setupTestDB(t)

	list, err := repo.ListNovels()
	if err != nil {
		t.Fatalf("Failed to list novels: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty library, got %d", len(list))
	}

	repo.SaveNovel("older", novel.UpdateTitle(novel.Empty(), "Older"))
	repo.SaveNovel("newer", novel.UpdateTitle(novel.Empty(), "Newer"))

	list, err = repo.ListNovels()
	if err != nil {
		t.Fatalf("Failed to list novels: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 novels, got %d", len(list))
	}
	if list[0].ID != "newer" {
		t.Errorf("Expected most recent first, got %s", list[0].ID)
	}
}

func TestFindNovelByTitle(t *testing.T) {
	repo := setupTestDB(t)

	repo.SaveNovel("a", novel.Demo())
	repo.SaveNovel("b", novel.UpdateTitle(novel.Empty(), "Other"))

	entry, err := repo.FindNovelByTitle("a dragon's quest")
	if err != nil {
		t.Fatalf("Failed to find novel: %v", err)
	}
	if entry == nil || entry.ID != "a" {
		t.Fatalf("Expected to find novel a, got %+v", entry)
	}

	entry, err = repo.FindNovelByTitle("missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entry != nil {
		t.Error("Expected nil for unknown title")
	}
}

func TestDeleteNovel(t *testing.T) {
	repo := setupTestDB(t)

	repo.SaveNovel("novel-1", novel.Demo())

	deleted, err := repo.DeleteNovel("novel-1")
	if err != nil {
		t.Fatalf("Failed to delete novel: %v", err)
	}
	if !deleted {
		t.Error("Expected a row to be deleted")
	}

	entry, _ := repo.GetNovel("novel-1")
	if entry != nil {
		t.Error("Novel should be deleted")
	}

	deleted, _ = repo.DeleteNovel("novel-1")
	if deleted {
		t.Error("Deleting twice should report nothing removed")
	}
}

func TestSaveAndGetUntitledNovel(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.SaveNovel("", novel.UpdateTitle(novel.Demo(), ""))
	if err != nil {
		t.Fatalf("Failed to save novel: %v", err)
	}

	entry, err := repo.GetNovel(id)
	if err != nil {
		t.Fatalf("Failed to reopen untitled novel: %v", err)
	}
	if entry == nil {
		t.Fatal("Expected novel to be found")
	}
	if entry.Title != "" {
		t.Errorf("Expected empty title, got %q", entry.Title)
	}
	if entry.SceneCount != 5 {
		t.Errorf("Expected 5 scenes, got %d", entry.SceneCount)
	}
}
