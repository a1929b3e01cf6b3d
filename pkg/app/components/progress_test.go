package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/vnforge/pkg/services"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(80)

	if tracker == nil {
		t.Fatal("Expected tracker to be created")
	}
	if tracker.width != 80 {
		t.Errorf("Expected width 80, got %d", tracker.width)
	}
	if len(tracker.steps) != 0 {
		t.Errorf("Expected 0 steps, got %d", len(tracker.steps))
	}
}

func TestUpdateKeepsLatestPerExpression(t *testing.T) {
	tracker := NewProgressTracker(80)

	progress := services.Progress{CharacterID: "hero", ExpressionID: "hero_sad", Expression: "sad", Step: 2, Total: 4, Status: "generating"}
	tracker.Update(progress)
	if !tracker.HasActive() {
		t.Error("Expected an active step")
	}

	progress.Status = "complete"
	tracker.Update(progress)
	if len(tracker.steps) != 1 {
		t.Errorf("Expected 1 step, got %d", len(tracker.steps))
	}
	if tracker.HasActive() {
		t.Error("Expected no active step after completion")
	}
}

func TestClear(t *testing.T) {
	tracker := NewProgressTracker(80)
	for _, id := range []string{"a", "b", "c"} {
		tracker.Update(services.Progress{CharacterID: "hero", ExpressionID: id, Status: "generating"})
	}
	if len(tracker.steps) != 3 {
		t.Errorf("Expected 3 steps, got %d", len(tracker.steps))
	}

	tracker.Clear()
	if len(tracker.steps) != 0 {
		t.Errorf("Expected 0 steps after clear, got %d", len(tracker.steps))
	}
	if tracker.HasActive() {
		t.Error("Expected no active steps after clear")
	}
}

func TestViewEmpty(t *testing.T) {
	if view := NewProgressTracker(80).View(); view != "" {
		t.Errorf("Expected empty view, got: %s", view)
	}
}

func TestViewWithProgress(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Update(services.Progress{CharacterID: "hero", ExpressionID: "hero_neutral", Expression: "neutral", Step: 1, Total: 2, Status: "complete"})
	tracker.Update(services.Progress{CharacterID: "hero", ExpressionID: "hero_sad", Expression: "sad", Step: 2, Total: 2, Status: "error", Error: errors.New("blocked")})

	view := tracker.View()
	for _, want := range []string{"Portrait Generation", "[1/2] neutral: complete", "[2/2] sad: error", "Error: blocked"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
	if strings.Index(view, "neutral") > strings.Index(view, "sad") {
		t.Error("Expected steps in order")
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(50, 100, 20)

	if strings.Count(bar, "█") != 10 {
		t.Errorf("Expected 10 filled chars, got %d", strings.Count(bar, "█"))
	}
	if strings.Count(bar, "░") != 10 {
		t.Errorf("Expected 10 empty chars, got %d", strings.Count(bar, "░"))
	}
}

func TestRenderProgressBarZeroTotal(t *testing.T) {
	if bar := renderProgressBar(0, 0, 20); bar != "" {
		t.Errorf("Expected empty string for zero total, got: %s", bar)
	}
}

func TestSimpleProgressFull(t *testing.T) {
	bar := SimpleProgress(100, 100, 20)
	if strings.Count(bar, "█") != 20 {
		t.Errorf("Expected 20 filled chars, got %d", strings.Count(bar, "█"))
	}
}
