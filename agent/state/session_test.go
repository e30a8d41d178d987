package state

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

var (
	patent    = contractx.Service{ID: "patent", Name: "PATENT"}
	copyright = contractx.Service{ID: "copyright", Name: "COPYRIGHT"}
	malaysia  = contractx.Country{ID: "malaysia", Name: "MALAYSIA", Currency: "MYR"}
	singapore = contractx.Country{ID: "singapore", Name: "SINGAPORE", Currency: "SGD"}
)

func TestNewSelectionStateStartsAtService(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	if st.Step != contractx.StepChoosingService {
		t.Fatalf("Step = %q, want %q", st.Step, contractx.StepChoosingService)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestSelectServiceClearsDownstreamSelection(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)
	st.AddItem("DRAFTING")

	st.SelectService(copyright)
	if st.Country != nil || len(st.Items) != 0 {
		t.Fatalf("SelectService() kept country=%v items=%v", st.Country, st.Items)
	}
	if st.Step != contractx.StepChoosingCountry {
		t.Fatalf("Step = %q", st.Step)
	}
}

func TestSelectCountryClearsItems(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)
	st.AddItem("DRAFTING")

	st.SelectCountry(singapore)
	if len(st.Items) != 0 {
		t.Fatalf("Items = %v, want empty", st.Items)
	}
	if st.Service == nil || st.Service.ID != "patent" || st.Country.ID != "singapore" {
		t.Fatalf("unexpected selection: %+v", st)
	}
}

func TestAddItemRejectsDuplicates(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)

	if !st.AddItem("A") || !st.AddItem("B") {
		t.Fatal("AddItem() should accept new items")
	}
	if st.AddItem("A") {
		t.Fatal("AddItem() accepted a duplicate")
	}
	if len(st.Items) != 2 || st.Items[0] != "A" || st.Items[1] != "B" {
		t.Fatalf("Items = %v, want [A B]", st.Items)
	}
}

func TestResetAndClearItems(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)
	st.AddItem("A")
	if err := st.SetStep(contractx.StepReadyToFinalize); err != nil {
		t.Fatalf("SetStep() error = %v", err)
	}

	st.ClearItems()
	if st.Step != contractx.StepChoosingItem || st.Service == nil || st.Country == nil {
		t.Fatalf("ClearItems() state = %+v", st)
	}

	st.Reset()
	if st.Step != contractx.StepChoosingService || st.Service != nil || st.Country != nil || st.Items != nil {
		t.Fatalf("Reset() state = %+v", st)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)
	st.AddItem("A")

	clone := st.Clone()
	clone.AddItem("B")
	clone.Service.Name = "CHANGED"

	if len(st.Items) != 1 || st.Service.Name != "PATENT" {
		t.Fatalf("Clone() shares data with original: %+v", st)
	}
}

func TestValidateRejectsInconsistentState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   SelectionState
		want error
	}{
		{name: "unknown step", st: SelectionState{Step: "bogus"}, want: ErrInvalidStep},
		{name: "country without service", st: SelectionState{Step: contractx.StepChoosingService, Country: &malaysia}, want: ErrInconsistentStep},
		{name: "items without country", st: SelectionState{Step: contractx.StepChoosingCountry, Service: &patent, Items: []string{"A"}}, want: ErrInconsistentStep},
		{name: "item step without country", st: SelectionState{Step: contractx.StepChoosingItem, Service: &patent}, want: ErrInconsistentStep},
		{name: "finalize without items", st: SelectionState{Step: contractx.StepReadyToFinalize, Service: &patent, Country: &malaysia}, want: ErrInconsistentStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.st.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := (&SelectionState{}).SetStep("bogus"); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("SetStep() error = %v, want ErrInvalidStep", err)
	}
}
