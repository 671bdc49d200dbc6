package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"

	"draperads/internal/models"
	"draperads/internal/utils/logger"
)

var log = logger.New("WIZARD")

// Snapshot is the full wizard state written by an auto-save.
type Snapshot struct {
	Draft     CreativeDraft `json:"draft"`
	Selection Selection     `json:"selection"`
	Step      Step          `json:"step"`
}

// wizardState is the part of a snapshot stored beside the creative columns.
type wizardState struct {
	Selection Selection `json:"selection"`
	Step      Step      `json:"step"`
}

// Ad converts the snapshot into an ad row carrying the creative and the
// serialized targeting state.
func (s Snapshot) Ad() (models.Ad, error) {
	ad := s.Draft.Ad()
	state, err := json.Marshal(wizardState{Selection: s.Selection.Clone(), Step: s.Step})
	if err != nil {
		return ad, fmt.Errorf("failed to encode wizard state: %w", err)
	}
	ad.WizardState = datatypes.JSON(state)
	return ad, nil
}

// SnapshotFromAd rehydrates the whole wizard from a stored draft. Ads saved
// without wizard state start on the design step with nothing selected.
func SnapshotFromAd(ad models.Ad) (Snapshot, error) {
	s := Snapshot{Draft: DraftFromAd(ad), Selection: *NewSelection(""), Step: StepDesign}
	if len(ad.WizardState) == 0 {
		return s, nil
	}

	var state wizardState
	if err := json.Unmarshal(ad.WizardState, &state); err != nil {
		return s, fmt.Errorf("failed to decode wizard state of ad %d: %w", ad.ID, err)
	}
	if state.Step != 0 {
		s.Step = state.Step
	}
	s.Selection.AccountID = state.Selection.AccountID
	if state.Selection.CampaignIDs != nil {
		s.Selection.CampaignIDs = state.Selection.CampaignIDs
	}
	if state.Selection.AdSets != nil {
		s.Selection.AdSets = state.Selection.AdSets
	}
	return s, nil
}

type SaveFunc func(ctx context.Context, s Snapshot) error

// Autosaver debounces edits: every change restarts one timer and only the
// latest snapshot of a burst is saved. Saves run one at a time, each taking
// the newest pending snapshot, so writes reach the store in edit order.
type Autosaver struct {
	delay time.Duration
	save  SaveFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending *Snapshot
	stopped bool

	saving sync.Mutex
}

func NewAutosaver(delay time.Duration, save SaveFunc) *Autosaver {
	return &Autosaver{delay: delay, save: save}
}

// Change records a copy of the latest state and restarts the debounce timer.
func (a *Autosaver) Change(s Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	s.Selection = s.Selection.Clone()
	a.pending = &s
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.fire)
		return
	}
	a.timer.Reset(a.delay)
}

func (a *Autosaver) take() *Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.pending
	a.pending = nil
	return s
}

func (a *Autosaver) fire() {
	if err := a.run(context.Background()); err != nil {
		log.Error("Auto-save failed", err)
	}
}

func (a *Autosaver) run(ctx context.Context) error {
	a.saving.Lock()
	defer a.saving.Unlock()

	s := a.take()
	if s == nil {
		return nil
	}
	return a.save(ctx, *s)
}

// Flush cancels the timer, waits for an in-flight save and saves any
// pending change now.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.run(ctx)
}

// Pending reports whether a change is waiting to be saved.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Stop discards pending changes and ignores further ones.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
	}
}

// AdStore is where drafts are persisted.
type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) error
	Update(ctx context.Context, id uint, ad *models.Ad) error
}

// DraftSaver keeps one draft row per wizard: the first save inserts it and
// later saves overwrite the same row.
type DraftSaver struct {
	store AdStore
	mu    sync.Mutex
	adID  uint
}

func NewDraftSaver(store AdStore, existingID uint) *DraftSaver {
	return &DraftSaver{store: store, adID: existingID}
}

func (d *DraftSaver) Save(ctx context.Context, s Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ad, err := s.Ad()
	if err != nil {
		return err
	}
	if d.adID == 0 {
		if err := d.store.Create(ctx, &ad); err != nil {
			return err
		}
		d.adID = ad.ID
		return nil
	}
	return d.store.Update(ctx, d.adID, &ad)
}

// AdID is the draft row id, zero before the first save.
func (d *DraftSaver) AdID() uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adID
}
