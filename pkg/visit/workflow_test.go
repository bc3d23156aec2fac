package visit

import (
	"dishcovery/domain"
	"testing"
)

func menuCandidates() []domain.DishCandidate {
	return []domain.DishCandidate{
		{Name: "Nasi Goreng", Price: "25k", Category: "main"},
		{Name: "Sate Ayam", Price: "30k", Category: "main"},
		{Name: "Es Teh", Price: "5k", Category: "drink"},
	}
}

func workflowAtRating(t *testing.T) *Workflow {
	t.Helper()
	w := NewWorkflow()
	if err := w.Capture([]byte("photo"), "image/jpeg"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, _, err := w.BeginAnalysis(); err != nil {
		t.Fatalf("begin analysis: %v", err)
	}
	if err := w.FinishAnalysis(menuCandidates()); err != nil {
		t.Fatalf("finish analysis: %v", err)
	}
	if err := w.Select([]int{0, 1}); err != nil {
		t.Fatalf("select: %v", err)
	}
	return w
}

func TestCaptureRejectsEmptyPhoto(t *testing.T) {
	w := NewWorkflow()
	if err := w.Capture(nil, "image/jpeg"); err != domain.ErrEmptyPhoto {
		t.Fatalf("expected ErrEmptyPhoto, got %v", err)
	}
}

func TestAnalysisRequiresCapturedPhoto(t *testing.T) {
	w := NewWorkflow()
	if _, _, err := w.BeginAnalysis(); err != domain.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestFailedAnalysisRetriesWithSamePhoto(t *testing.T) {
	w := NewWorkflow()
	if err := w.Capture([]byte("photo"), "image/png"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, _, err := w.BeginAnalysis(); err != nil {
		t.Fatalf("begin analysis: %v", err)
	}
	w.FailAnalysis("upstream timeout")

	if w.State() != StateFailedAnalyzing {
		t.Fatalf("expected failed_analyzing, got %s", w.State())
	}
	if w.Failure() == "" {
		t.Fatalf("expected failure message to be kept")
	}

	photo, mime, err := w.BeginAnalysis()
	if err != nil {
		t.Fatalf("retry should not need a recapture: %v", err)
	}
	if string(photo) != "photo" || mime != "image/png" {
		t.Fatalf("retry lost the captured photo")
	}
	if w.Failure() != "" {
		t.Fatalf("retry should clear the failure message")
	}
}

func TestSelectRejectsOutOfRangeIndex(t *testing.T) {
	w := NewWorkflow()
	_ = w.Capture([]byte("photo"), "image/jpeg")
	_, _, _ = w.BeginAnalysis()
	_ = w.FinishAnalysis(menuCandidates())

	if err := w.Select([]int{0, 3}); err != domain.ErrSelectionOutOfRange {
		t.Fatalf("expected ErrSelectionOutOfRange, got %v", err)
	}
	if err := w.Select(nil); err != domain.ErrEmptySelection {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestReselectDropsPreviousRatings(t *testing.T) {
	w := workflowAtRating(t)

	first := w.Selected()[0].ID
	if err := w.Rate(first, 5, "", false); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if err := w.Select([]int{2}); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if len(w.Ratings()) != 0 {
		t.Fatalf("reselect should drop old ratings")
	}
	if len(w.Selected()) != 1 || w.Selected()[0].Name != "Es Teh" {
		t.Fatalf("unexpected selection after reselect: %+v", w.Selected())
	}
}

func TestRateRejectsOutOfRangeAndUnknownDish(t *testing.T) {
	w := workflowAtRating(t)
	dishID := w.Selected()[0].ID

	if err := w.Rate(dishID, 0, "", false); err != domain.ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating for 0, got %v", err)
	}
	if err := w.Rate(dishID, 6, "", false); err != domain.ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating for 6, got %v", err)
	}
	if err := w.Rate("not-a-dish", 4, "", false); err != domain.ErrUnknownDish {
		t.Fatalf("expected ErrUnknownDish, got %v", err)
	}
}

func TestBeginSaveRequiresNameAndAllRatings(t *testing.T) {
	w := workflowAtRating(t)

	if err := w.BeginSave(""); err != domain.ErrRestaurantNameRequired {
		t.Fatalf("expected ErrRestaurantNameRequired, got %v", err)
	}
	if err := w.BeginSave("Warung Sari"); err != domain.ErrDishesNotRated {
		t.Fatalf("expected ErrDishesNotRated, got %v", err)
	}

	for _, dish := range w.Selected() {
		if err := w.Rate(dish.ID, 4, "", false); err != nil {
			t.Fatalf("rate: %v", err)
		}
	}
	if err := w.BeginSave("Warung Sari"); err != nil {
		t.Fatalf("expected save to be allowed, got %v", err)
	}
	if w.State() != StateSaving {
		t.Fatalf("expected saving, got %s", w.State())
	}
}

func TestFailSaveKeepsDraftForRetry(t *testing.T) {
	w := workflowAtRating(t)
	for _, dish := range w.Selected() {
		_ = w.Rate(dish.ID, 3, "good", true)
	}
	if err := w.BeginSave("Warung Sari"); err != nil {
		t.Fatalf("begin save: %v", err)
	}

	w.FailSave("database unavailable")

	if w.State() != StateFailedSaving {
		t.Fatalf("expected failed_saving, got %s", w.State())
	}
	if len(w.Selected()) != 2 || len(w.Ratings()) != 2 {
		t.Fatalf("failed save lost draft data")
	}

	if err := w.BeginSave("Warung Sari"); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	w.FinishSave()

	if w.State() != StateIdle {
		t.Fatalf("expected idle after save, got %s", w.State())
	}
	if len(w.Selected()) != 0 || len(w.Ratings()) != 0 {
		t.Fatalf("finished save should reset the draft")
	}
}

func TestNewCaptureAbandonsDraft(t *testing.T) {
	w := workflowAtRating(t)

	if err := w.Capture([]byte("another menu"), "image/jpeg"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if w.State() != StateAnalyzing {
		t.Fatalf("expected analyzing, got %s", w.State())
	}
	if len(w.Selected()) != 0 || len(w.Candidates()) != 0 {
		t.Fatalf("new capture should reset the draft")
	}
}
