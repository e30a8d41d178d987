package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewMemoryStore(10)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	st.SelectCountry(malaysia)
	st.AddItem("A")
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// mutating after save must not leak into the store
	st.AddItem("B")

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Items) != 1 || got.Country.ID != "malaysia" || got.Step != st.Step {
		t.Fatalf("Load() = %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after Delete error = %v, want ErrStateNotFound", err)
	}
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	t.Parallel()

	store, err := NewMemoryStore(10)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Save(nil) error = %v", err)
	}
	if err := store.Save(ctx, &SelectionState{SessionID: " "}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(blank) error = %v", err)
	}
	if _, err := store.Load(ctx, ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load(blank) error = %v", err)
	}
	if err := store.Save(ctx, &SelectionState{SessionID: "s1", Step: "bogus"}); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("Save(invalid) error = %v", err)
	}
}

func TestMemoryStoreEvictsBeyondSize(t *testing.T) {
	t.Parallel()

	store, err := NewMemoryStore(2)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, NewSelectionState(id, time.Now())); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if _, err := store.Load(ctx, "a"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load(a) error = %v, want ErrStateNotFound", err)
	}
}
