package chain

import (
	"errors"
	"testing"
)

func newTestPaths() *TokenPaths {
	return NewTokenPaths(func() TokSet { return NewBufferTokSet() })
}

func TestTokenPathsRecordLookup(t *testing.T) {
	tp := newTestPaths()
	ctx := Prefix{10, 11}

	if _, _, ok := tp.Lookup(ctx); ok {
		t.Fatal("Lookup found a context that was never recorded")
	}
	if err := tp.Record(ctx, 12, 9); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	forward, reverse, ok := tp.Lookup(ctx)
	if !ok {
		t.Fatal("Lookup missed a recorded context")
	}
	rng := testRand()
	if got := forward.Choose(rng); got != 12 {
		t.Errorf("forward set holds %d, want 12", got)
	}
	if got := reverse.Choose(rng); got != 9 {
		t.Errorf("reverse set holds %d, want 9", got)
	}
	if tp.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tp.Len())
	}
}

func TestTokenPathsRecordCeiling(t *testing.T) {
	tp := newTestPaths()
	ctx := Prefix{1, 2}

	err := tp.Record(ctx, MaxTokID+1, 3)
	if !errors.Is(err, ErrTokenTooLarge) {
		t.Fatalf("Record with oversized next = %v, want ErrTokenTooLarge", err)
	}
	err = tp.Record(ctx, 3, MaxTokID+1)
	if !errors.Is(err, ErrTokenTooLarge) {
		t.Fatalf("Record with oversized prev = %v, want ErrTokenTooLarge", err)
	}
	// A rejected window must not leave a half-updated context behind.
	if _, _, ok := tp.Lookup(ctx); ok {
		t.Error("rejected Record created the context")
	}
}

func TestWalkForward(t *testing.T) {
	// Single-successor contexts make the forward walk deterministic:
	// (1,2)->3, (2,3)->4, then (3,4) is unseen.
	tp := newTestPaths()
	if err := tp.Record(Prefix{1, 2}, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := tp.Record(Prefix{2, 3}, 4, 1); err != nil {
		t.Fatal(err)
	}

	walker := tp.Walk(Forward, Prefix{1, 2}, testRand())
	var got []TokID
	for {
		id, ok := walker.Next()
		if !ok {
			break
		}
		got = append(got, id)
	}

	want := []TokID{3, 4}
	if len(got) != len(want) {
		t.Fatalf("walk emitted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk emitted %v, want %v", got, want)
		}
	}
}

func TestWalkReverse(t *testing.T) {
	// Reverse advance prepends: from (2,3) choosing 1 moves to (1,2).
	tp := newTestPaths()
	if err := tp.Record(Prefix{2, 3}, 4, 1); err != nil {
		t.Fatal(err)
	}
	if err := tp.Record(Prefix{1, 2}, 3, 0); err != nil {
		t.Fatal(err)
	}

	walker := tp.Walk(Reverse, Prefix{2, 3}, testRand())

	id, ok := walker.Next()
	if !ok || id != 1 {
		t.Fatalf("first reverse step = (%d, %v), want (1, true)", id, ok)
	}
	id, ok = walker.Next()
	if !ok || id != 0 {
		t.Fatalf("second reverse step = (%d, %v), want (0, true)", id, ok)
	}
	// (0,1) was never recorded, so the walk ends.
	if id, ok = walker.Next(); ok {
		t.Fatalf("walk continued past an unseen context with %d", id)
	}
}

func TestWalkUnseenStart(t *testing.T) {
	tp := newTestPaths()
	walker := tp.Walk(Forward, Prefix{5, 6}, testRand())
	if id, ok := walker.Next(); ok {
		t.Fatalf("walk from unseen context emitted %d", id)
	}
}

func TestEntriesRecordLookup(t *testing.T) {
	e := NewEntries(func() TokSet { return NewBufferTokSet() })

	if _, ok := e.Lookup(7); ok {
		t.Fatal("Lookup found a token that was never recorded")
	}
	if err := e.Record(7, 8); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	set, ok := e.Lookup(7)
	if !ok || set.Len() != 1 {
		t.Fatalf("Lookup after Record = (%v, %v)", set, ok)
	}
	if got := set.Choose(testRand()); got != 8 {
		t.Errorf("successor set holds %d, want 8", got)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}
