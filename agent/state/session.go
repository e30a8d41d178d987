package state

import (
	"errors"
	"fmt"
	"slices"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

// SelectionState is the persisted progress of one visitor through the quotation workflow.
// Fields are mutated only through its methods so the step stays consistent with the selection.
type SelectionState struct {
	SessionID string             `json:"session_id"`
	Step      contractx.Step     `json:"step"`
	Service   *contractx.Service `json:"service,omitempty"`
	Country   *contractx.Country `json:"country,omitempty"`
	Items     []string           `json:"items,omitempty"` // insertion-ordered, no duplicates

	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidStep      = errors.New("invalid workflow step")
	ErrInconsistentStep = errors.New("step inconsistent with selection")
)

func NewSelectionState(sessionID string, now time.Time) *SelectionState {
	return &SelectionState{
		SessionID: sessionID,
		Step:      contractx.StepChoosingService,
		UpdatedAt: now.UTC(),
	}
}

func (s *SelectionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// SelectService records the service and drops any country and items chosen under the previous one.
func (s *SelectionState) SelectService(service contractx.Service) {
	s.Service = &service
	s.Country = nil
	s.Items = nil
	s.Step = contractx.StepChoosingCountry
}

// SelectCountry records the country and drops items chosen for the previous one.
func (s *SelectionState) SelectCountry(country contractx.Country) {
	s.Country = &country
	s.Items = nil
	s.Step = contractx.StepChoosingItem
}

// AddItem appends name unless it is already selected.
func (s *SelectionState) AddItem(name string) bool {
	if s.HasItem(name) {
		return false
	}
	s.Items = append(s.Items, name)
	return true
}

func (s *SelectionState) HasItem(name string) bool {
	return slices.Contains(s.Items, name)
}

func (s *SelectionState) ClearItems() {
	s.Items = nil
	if s.Step == contractx.StepReadyToFinalize {
		s.Step = contractx.StepChoosingItem
	}
}

func (s *SelectionState) Reset() {
	s.Service = nil
	s.Country = nil
	s.Items = nil
	s.Step = contractx.StepChoosingService
}

func (s *SelectionState) SetStep(step contractx.Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStep, step)
	}
	s.Step = step
	return nil
}

// Clone returns a deep copy so a failed turn can be discarded without touching the original.
func (s *SelectionState) Clone() *SelectionState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Service != nil {
		service := *s.Service
		out.Service = &service
	}
	if s.Country != nil {
		country := *s.Country
		out.Country = &country
	}
	out.Items = slices.Clone(s.Items)
	return &out
}

func (s *SelectionState) Validate() error {
	if !s.Step.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStep, s.Step)
	}
	if s.Country != nil && s.Service == nil {
		return fmt.Errorf("%w: country without service", ErrInconsistentStep)
	}
	if len(s.Items) > 0 && (s.Service == nil || s.Country == nil) {
		return fmt.Errorf("%w: items without service and country", ErrInconsistentStep)
	}

	switch s.Step {
	case contractx.StepChoosingCountry:
		if s.Service == nil {
			return fmt.Errorf("%w: %s requires a service", ErrInconsistentStep, s.Step)
		}
	case contractx.StepChoosingItem:
		if s.Service == nil || s.Country == nil {
			return fmt.Errorf("%w: %s requires service and country", ErrInconsistentStep, s.Step)
		}
	case contractx.StepReadyToFinalize:
		if s.Service == nil || s.Country == nil || len(s.Items) == 0 {
			return fmt.Errorf("%w: %s requires at least one item", ErrInconsistentStep, s.Step)
		}
	}
	return nil
}
