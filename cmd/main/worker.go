package main

import (
	"io"
	"log/slog"

	"github.com/CTAG07/fabulist/pkg/chain"
)

// chainOp is one unit of work for the chain worker.
type chainOp struct {
	fn   func(*chain.Chain)
	done chan struct{}
}

// ChainWorker confines a Chain to a single goroutine. The Chain has no
// internal locking, so every front end (HTTP handlers, the REPL) submits
// work over a channel and waits for completion instead of touching the
// Chain directly. At most one ingestion or generation runs at a time.
type ChainWorker struct {
	ops    chan chainOp
	chain  *chain.Chain
	logger *slog.Logger
}

// NewChainWorker wraps c in a worker with a buffered request queue.
func NewChainWorker(c *chain.Chain, logger *slog.Logger) *ChainWorker {
	return &ChainWorker{
		ops:    make(chan chainOp, 100),
		chain:  c,
		logger: logger,
	}
}

// Run drains the queue until Close is called. It is meant to run on its own
// goroutine.
func (w *ChainWorker) Run() {
	for op := range w.ops {
		op.fn(w.chain)
		close(op.done)
	}
	w.logger.Debug("Chain worker stopped")
}

// Close stops the worker after the queued operations finish. No further
// operations may be submitted.
func (w *ChainWorker) Close() {
	close(w.ops)
}

// do runs fn on the worker goroutine and blocks until it returns. There is
// no cancellation: a generation runs its full candidate batch to completion.
func (w *ChainWorker) do(fn func(*chain.Chain)) {
	op := chainOp{fn: fn, done: make(chan struct{})}
	w.ops <- op
	<-op.done
}

// Generate runs a generation on the worker.
func (w *ChainWorker) Generate(seed string, target int) (string, bool) {
	var out string
	var ok bool
	w.do(func(c *chain.Chain) { out, ok = c.Generate(seed, target) })
	return out, ok
}

// Feed ingests lines from r on the worker.
func (w *ChainWorker) Feed(r io.Reader) error {
	var err error
	w.do(func(c *chain.Chain) { err = c.Feed(r) })
	return err
}

// Sizes reports index sizes via the worker.
func (w *ChainWorker) Sizes() chain.Sizes {
	var sizes chain.Sizes
	w.do(func(c *chain.Chain) { sizes = c.Sizes() })
	return sizes
}
