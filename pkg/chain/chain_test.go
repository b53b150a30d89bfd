package chain

import (
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"testing/iotest"
)

// newTestChain builds a chain with a fixed-seed random source and the given
// corpus lines.
func newTestChain(t *testing.T, lines ...string) *Chain {
	t.Helper()
	c := New(WithRand(rand.New(rand.NewPCG(7, 11))))
	for _, line := range lines {
		if err := c.FeedLine(line); err != nil {
			t.Fatalf("FeedLine(%q) failed: %v", line, err)
		}
	}
	return c
}

func TestFeedLineRecordsWindows(t *testing.T) {
	c := newTestChain(t, "a b c")

	a, _ := c.dict.Lookup("a")
	b, _ := c.dict.Lookup("b")
	cc, _ := c.dict.Lookup("c")

	forward, _, ok := c.paths.Lookup(Prefix{a, b})
	if !ok {
		t.Fatal("context (a,b) not recorded")
	}
	if got := forward.Choose(testRand()); got != cc {
		t.Errorf("forward of (a,b) holds %d, want c=%d", got, cc)
	}

	_, reverse, ok := c.paths.Lookup(Prefix{b, cc})
	if !ok {
		t.Fatal("context (b,c) not recorded")
	}
	if got := reverse.Choose(testRand()); got != a {
		t.Errorf("reverse of (b,c) holds %d, want a=%d", got, a)
	}
}

func TestFeedLineEmptyIsNoOp(t *testing.T) {
	c := newTestChain(t)
	before := c.Sizes()

	for _, line := range []string{"", "   ", "\t  \t"} {
		if err := c.FeedLine(line); err != nil {
			t.Fatalf("FeedLine(%q) returned error: %v", line, err)
		}
	}

	if c.Sizes() != before {
		t.Errorf("blank lines changed sizes from %+v to %+v", before, c.Sizes())
	}
}

func TestFeedLineSentinelPadding(t *testing.T) {
	c := newTestChain(t, "a")

	a, _ := c.dict.Lookup("a")

	// Triple sentinel on entry: the sentinel context must lead to "a".
	forward, _, ok := c.paths.Lookup(Prefix{SentinelID, SentinelID})
	if !ok {
		t.Fatal("sentinel context not recorded")
	}
	if got := forward.Choose(testRand()); got != a {
		t.Errorf("sentinel context leads to %d, want %d", got, a)
	}

	// Double sentinel on exit: the last word's context must close out.
	forward, _, ok = c.paths.Lookup(Prefix{a, SentinelID})
	if !ok {
		t.Fatal("closing context not recorded")
	}
	if got := forward.Choose(testRand()); got != SentinelID {
		t.Errorf("closing context leads to %d, want sentinel", got)
	}
}

func TestFeed(t *testing.T) {
	c := newTestChain(t)
	corpus := "the cat sat\n\nthe dog ran\n"
	if err := c.Feed(strings.NewReader(corpus)); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	sizes := c.Sizes()
	// sentinel + the, cat, sat, dog, ran
	if sizes.Dictionary != 6 {
		t.Errorf("Dictionary = %d, want 6", sizes.Dictionary)
	}
	if sizes.Contexts == 0 || sizes.Entries == 0 {
		t.Errorf("indexes empty after Feed: %+v", sizes)
	}
}

func TestFeedPropagatesReadError(t *testing.T) {
	c := newTestChain(t)
	readErr := errors.New("disk gone")
	source := io.MultiReader(strings.NewReader("a b c\n"), iotest.ErrReader(readErr))

	err := c.Feed(source)
	if !errors.Is(err, readErr) {
		t.Fatalf("Feed error = %v, want wrapped %v", err, readErr)
	}

	// Everything read before the failure is retained.
	if _, ok := c.dict.Lookup("a"); !ok {
		t.Error("tokens ingested before the failure were lost")
	}
	if out, ok := c.Generate("a b", 10); !ok || !strings.Contains(out, "a b") {
		t.Errorf("chain unusable after failed Feed: (%q, %v)", out, ok)
	}
}

func TestSizes(t *testing.T) {
	c := newTestChain(t, "a b c")

	sizes := c.Sizes()
	if sizes.Dictionary != 4 { // sentinel, a, b, c
		t.Errorf("Dictionary = %d, want 4", sizes.Dictionary)
	}
	if sizes.Contexts != 5 { // (s,s) (s,a) (a,b) (b,c) (c,s)
		t.Errorf("Contexts = %d, want 5", sizes.Contexts)
	}
	if sizes.Entries != 4 { // s, a, b, c
		t.Errorf("Entries = %d, want 4", sizes.Entries)
	}
}

func TestChainWithHashTokSets(t *testing.T) {
	c := New(
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithTokSets(func() TokSet { return NewHashTokSet() }),
	)
	if err := c.FeedLine("the cat sat on the mat"); err != nil {
		t.Fatalf("FeedLine failed: %v", err)
	}

	out, ok := c.Generate("cat", 20)
	if !ok {
		t.Fatal("Generate failed on a seeded hash-backed chain")
	}
	if !strings.Contains(out, "cat") {
		t.Errorf("output %q does not contain the seed", out)
	}
}
