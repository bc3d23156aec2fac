package visit

import (
	"dishcovery/domain"
	"github.com/google/uuid"
)

// State of the visit-capture workflow. A session walks
// capturing -> analyzing -> selecting -> rating -> saving and resets to idle
// on a successful save. Analysis and save failures are recoverable: the
// session keeps everything entered so far and the failed step can be retried.
type State string

const (
	StateIdle            State = "idle"
	StateCapturing       State = "capturing"
	StateAnalyzing       State = "analyzing"
	StateSelecting       State = "selecting"
	StateRating          State = "rating"
	StateSaving          State = "saving"
	StateFailedAnalyzing State = "failed_analyzing"
	StateFailedSaving    State = "failed_saving"
)

// Workflow holds the in-memory draft of one visit being built. It performs
// no I/O; the visit service drives transitions around extractor and
// repository calls. Each user's workflow is private to their own session, so
// no locking happens here.
type Workflow struct {
	state        State
	photo        []byte
	photoMime    string
	menuPhotoURL string
	candidates   []domain.DishCandidate
	selected     []domain.SelectedDish
	ratings      map[string]domain.DishRating
	failure      string
}

func NewWorkflow() *Workflow {
	return &Workflow{
		state:   StateCapturing,
		ratings: make(map[string]domain.DishRating),
	}
}

func (w *Workflow) State() State { return w.state }

func (w *Workflow) Failure() string { return w.failure }

func (w *Workflow) Photo() ([]byte, string) { return w.photo, w.photoMime }

func (w *Workflow) MenuPhotoURL() string { return w.menuPhotoURL }

func (w *Workflow) SetMenuPhotoURL(url string) { w.menuPhotoURL = url }

func (w *Workflow) Candidates() []domain.DishCandidate { return w.candidates }

func (w *Workflow) Selected() []domain.SelectedDish { return w.selected }

func (w *Workflow) Ratings() map[string]domain.DishRating {
	out := make(map[string]domain.DishRating, len(w.ratings))
	for id, r := range w.ratings {
		out[id] = r
	}
	return out
}

// Capture stores a menu photo and readies the session for analysis. A new
// capture abandons any draft in progress.
func (w *Workflow) Capture(photo []byte, mimeType string) error {
	if len(photo) == 0 {
		return domain.ErrEmptyPhoto
	}

	w.photo = photo
	w.photoMime = mimeType
	w.menuPhotoURL = ""
	w.candidates = nil
	w.selected = nil
	w.ratings = make(map[string]domain.DishRating)
	w.failure = ""
	w.state = StateAnalyzing
	return nil
}

// BeginAnalysis hands the captured photo to the caller. Re-entering from a
// failed analysis retries with the same photo; no recapture is needed.
func (w *Workflow) BeginAnalysis() ([]byte, string, error) {
	if w.state != StateAnalyzing && w.state != StateFailedAnalyzing {
		return nil, "", domain.ErrInvalidState
	}
	w.state = StateAnalyzing
	w.failure = ""
	return w.photo, w.photoMime, nil
}

// FinishAnalysis records the extracted candidates. Zero candidates is a
// valid outcome; the session still moves to selecting.
func (w *Workflow) FinishAnalysis(candidates []domain.DishCandidate) error {
	if w.state != StateAnalyzing {
		return domain.ErrInvalidState
	}
	w.candidates = candidates
	w.state = StateSelecting
	return nil
}

func (w *Workflow) FailAnalysis(message string) {
	w.failure = message
	w.state = StateFailedAnalyzing
}

// Select carries a non-empty subset of the candidates forward, assigning
// each a session-stable identifier. Re-selecting rebuilds the set and drops
// ratings entered for the previous selection.
func (w *Workflow) Select(indices []int) error {
	if w.state != StateSelecting && w.state != StateRating {
		return domain.ErrInvalidState
	}
	if len(indices) == 0 {
		return domain.ErrEmptySelection
	}

	seen := make(map[int]bool, len(indices))
	selected := make([]domain.SelectedDish, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(w.candidates) {
			return domain.ErrSelectionOutOfRange
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, domain.SelectedDish{
			ID:            uuid.New().String(),
			DishCandidate: w.candidates[idx],
		})
	}

	w.selected = selected
	w.ratings = make(map[string]domain.DishRating)
	w.state = StateRating
	return nil
}

// Rate records or replaces the rating for one selected dish. Out-of-range
// ratings are rejected, never clamped.
func (w *Workflow) Rate(dishID string, rating int, notes string, wantToRecreate bool) error {
	if w.state != StateRating {
		return domain.ErrInvalidState
	}
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}

	if !w.hasSelected(dishID) {
		return domain.ErrUnknownDish
	}

	w.ratings[dishID] = domain.DishRating{
		Rating:         rating,
		Notes:          notes,
		WantToRecreate: wantToRecreate,
	}
	return nil
}

func (w *Workflow) hasSelected(dishID string) bool {
	for _, dish := range w.selected {
		if dish.ID == dishID {
			return true
		}
	}
	return false
}

// BeginSave gates the persistence step: the restaurant name must be set and
// every selected dish must carry a rating.
func (w *Workflow) BeginSave(restaurantName string) error {
	if w.state != StateRating && w.state != StateFailedSaving {
		return domain.ErrInvalidState
	}
	if restaurantName == "" {
		return domain.ErrRestaurantNameRequired
	}
	for _, dish := range w.selected {
		if _, ok := w.ratings[dish.ID]; !ok {
			return domain.ErrDishesNotRated
		}
	}
	w.failure = ""
	w.state = StateSaving
	return nil
}

// FinishSave resets the session after a successful persist.
func (w *Workflow) FinishSave() {
	w.photo = nil
	w.photoMime = ""
	w.menuPhotoURL = ""
	w.candidates = nil
	w.selected = nil
	w.ratings = make(map[string]domain.DishRating)
	w.failure = ""
	w.state = StateIdle
}

// FailSave keeps all entered data intact so the user can retry the save.
func (w *Workflow) FailSave(message string) {
	w.failure = message
	w.state = StateFailedSaving
}
