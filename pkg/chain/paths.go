package chain

import (
	"fmt"
	"math/rand/v2"
)

// Prefix is an ordered bigram of token IDs used as a transition lookup key.
type Prefix [2]TokID

// Direction selects which side of a context a walk samples from.
type Direction int

const (
	// Forward samples tokens observed immediately after a context.
	Forward Direction = iota
	// Reverse samples tokens observed immediately before a context.
	Reverse
)

// pathSet pairs the two multisets recorded for one context.
type pathSet struct {
	forward TokSet
	reverse TokSet
}

// TokenPaths indexes, for every observed bigram context, the multiset of
// tokens that follow it and the multiset of tokens that precede it.
type TokenPaths struct {
	paths  map[Prefix]*pathSet
	newSet TokSetFactory
}

// NewTokenPaths creates an empty transition index whose multisets are built
// by factory.
func NewTokenPaths(factory TokSetFactory) *TokenPaths {
	return &TokenPaths{
		paths:  make(map[Prefix]*pathSet),
		newSet: factory,
	}
}

// Record inserts next into ctx's forward multiset and prev into its reverse
// multiset, creating the context on first use. Both IDs are validated up
// front so a rejected window leaves neither side updated.
func (tp *TokenPaths) Record(ctx Prefix, next, prev TokID) error {
	if next > MaxTokID || prev > MaxTokID {
		return fmt.Errorf("%w: window (%d, %d) around context %v", ErrTokenTooLarge, prev, next, ctx)
	}
	ps, ok := tp.paths[ctx]
	if !ok {
		ps = &pathSet{forward: tp.newSet(), reverse: tp.newSet()}
		tp.paths[ctx] = ps
	}
	if err := ps.forward.Add(next); err != nil {
		return err
	}
	return ps.reverse.Add(prev)
}

// Lookup returns the forward and reverse multisets recorded for ctx.
func (tp *TokenPaths) Lookup(ctx Prefix) (forward, reverse TokSet, ok bool) {
	ps, ok := tp.paths[ctx]
	if !ok {
		return nil, nil, false
	}
	return ps.forward, ps.reverse, true
}

// Len returns the number of distinct contexts recorded.
func (tp *TokenPaths) Len() int {
	return len(tp.paths)
}

// Walk returns a pull-based iterator that samples one token per call from
// start in the given direction. The walk is finite and non-restartable; it
// ends when it reaches a context with no recorded transitions. Stopping at a
// sentinel is the consumer's choice, not the walker's.
func (tp *TokenPaths) Walk(dir Direction, start Prefix, rng *rand.Rand) *Walker {
	return &Walker{paths: tp, dir: dir, cur: start, rng: rng}
}

// Walker holds the state of one walk over a TokenPaths index.
type Walker struct {
	paths *TokenPaths
	dir   Direction
	cur   Prefix
	rng   *rand.Rand
}

// Next samples the next token and advances the context: forward shifts the
// context by the chosen token, reverse prepends it. It reports false when
// the current context is unseen or has nothing recorded in this direction.
func (w *Walker) Next() (TokID, bool) {
	ps, ok := w.paths.paths[w.cur]
	if !ok {
		return 0, false
	}
	set := ps.forward
	if w.dir == Reverse {
		set = ps.reverse
	}
	if set.Len() == 0 {
		return 0, false
	}
	choice := set.Choose(w.rng)
	if w.dir == Forward {
		w.cur = Prefix{w.cur[1], choice}
	} else {
		w.cur = Prefix{choice, w.cur[0]}
	}
	return choice, true
}
