package chain

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// windowSize is the span of the sliding window used during ingestion:
// (previous, first, second, next) around each bigram context.
const windowSize = 4

// Chain is a bidirectional Markov word chain. It owns the token dictionary,
// the transition index and the single-token entry index, and is mutated only
// through ingestion. It must not be used from multiple goroutines without
// external serialization: ingestion mutates every index in place and
// generation mutates the shared random source.
type Chain struct {
	dict    *Dict
	paths   *TokenPaths
	entries *Entries
	rng     *rand.Rand
	logger  *slog.Logger
}

// Option configures a Chain at construction time.
type Option func(*Chain)

// WithRand sets the pseudo-random source used for sampling. Tests inject a
// fixed-seed source here for deterministic output.
func WithRand(rng *rand.Rand) Option {
	return func(c *Chain) { c.rng = rng }
}

// WithTokSets sets the multiset variant backing the indexes.
// Default: NewBufferTokSet.
func WithTokSets(factory TokSetFactory) Option {
	return func(c *Chain) {
		c.paths = NewTokenPaths(factory)
		c.entries = NewEntries(factory)
	}
}

// New creates an empty Chain.
func New(opts ...Option) *Chain {
	factory := func() TokSet { return NewBufferTokSet() }
	c := &Chain{
		dict:    NewDict(),
		paths:   NewTokenPaths(factory),
		entries: NewEntries(factory),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger sets the logger for the Chain. By default, all logs are discarded.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// FeedLine splits line on whitespace and records every 4-token window of the
// padded sequence [sentinel, sentinel, sentinel, w1..wn, sentinel, sentinel].
// The triple sentinel on entry and double on exit let a walk started from the
// sentinel context both begin and end a sequence without running out of
// context. A line with no words is a silent no-op.
func (c *Chain) FeedLine(line string) error {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	toks := make([]TokID, 0, len(words)+5)
	toks = append(toks, SentinelID, SentinelID, SentinelID)
	for _, word := range words {
		toks = append(toks, c.dict.Intern(word))
	}
	toks = append(toks, SentinelID, SentinelID)

	for i := 0; i+windowSize <= len(toks); i++ {
		prev, first, second, next := toks[i], toks[i+1], toks[i+2], toks[i+3]
		if err := c.paths.Record(Prefix{first, second}, next, prev); err != nil {
			return err
		}
		if err := c.entries.Record(first, second); err != nil {
			return err
		}
	}
	return nil
}

// Feed ingests every line from r in order. The first read failure is
// returned; everything ingested before it is retained and the Chain stays
// usable.
func (c *Chain) Feed(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines int
	for scanner.Scan() {
		if err := c.FeedLine(scanner.Text()); err != nil {
			return err
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("corpus read failed after %d lines: %w", lines, err)
	}

	c.logger.Info("Corpus ingested",
		slog.Int("lines", lines),
		slog.Int("dictionary_size", c.dict.Len()),
		slog.Int("contexts", c.paths.Len()),
		slog.Int("entry_tokens", c.entries.Len()),
	)
	return nil
}

// Sizes holds index sizes for diagnostics.
type Sizes struct {
	Dictionary int `json:"dictionary"`
	Contexts   int `json:"contexts"`
	Entries    int `json:"entries"`
}

// Sizes reports the current size of each index.
func (c *Chain) Sizes() Sizes {
	return Sizes{
		Dictionary: c.dict.Len(),
		Contexts:   c.paths.Len(),
		Entries:    c.entries.Len(),
	}
}
