package wizard

import (
	"errors"
	"sync"

	"draperads/internal/events"
)

type Step int

const (
	StepDesign Step = iota + 1
	StepTarget
	StepLaunch
)

func (s Step) String() string {
	switch s {
	case StepDesign:
		return "design"
	case StepTarget:
		return "target"
	case StepLaunch:
		return "launch"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidDraft = errors.New("creative has invalid fields")
	ErrNoAdSets     = errors.New("select at least one ad set")
	ErrInvalidStep  = errors.New("invalid step")
)

// StepChange is the payload of events.WizardStep.
type StepChange struct {
	From Step `json:"from"`
	To   Step `json:"to"`
}

// StepTracker owns the current step and announces every change on the bus.
type StepTracker struct {
	bus     *events.EventBus
	mu      sync.Mutex
	current Step
}

func NewStepTracker(bus *events.EventBus) *StepTracker {
	if bus == nil {
		bus = events.Default()
	}
	return &StepTracker{bus: bus, current: StepDesign}
}

func (t *StepTracker) Current() Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Next advances one step. Design needs a valid draft, Target at least one ad set.
func (t *StepTracker) Next(draft CreativeDraft, sel *Selection) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.current {
	case StepDesign:
		if !draft.Valid() {
			return ErrInvalidDraft
		}
	case StepTarget:
		if sel == nil || len(sel.AdSets) == 0 {
			return ErrNoAdSets
		}
	case StepLaunch:
		return ErrInvalidStep
	}
	t.set(t.current + 1)
	return nil
}

// Back returns to the previous step; it is a no-op on the first step.
func (t *StepTracker) Back() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current > StepDesign {
		t.set(t.current - 1)
	}
}

// Restore jumps to a saved step when rehydrating a wizard.
func (t *StepTracker) Restore(step Step) error {
	if step < StepDesign || step > StepLaunch {
		return ErrInvalidStep
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(step)
	return nil
}

func (t *StepTracker) set(step Step) {
	if step == t.current {
		return
	}
	change := StepChange{From: t.current, To: step}
	t.current = step
	t.bus.Emit(events.WizardStep, change)
}

// OnChange subscribes fn to step changes and returns the unsubscribe func.
func (t *StepTracker) OnChange(fn func(StepChange)) func() {
	return t.bus.On(events.WizardStep, func(data interface{}) {
		if change, ok := data.(StepChange); ok {
			fn(change)
		}
	})
}
