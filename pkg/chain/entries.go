package chain

// Entries maps a single token to the multiset of tokens observed directly
// after it. It exists only to bootstrap generation from a one-word seed,
// where no bigram context is available yet.
type Entries struct {
	sets   map[TokID]TokSet
	newSet TokSetFactory
}

// NewEntries creates an empty single-token entry index.
func NewEntries(factory TokSetFactory) *Entries {
	return &Entries{
		sets:   make(map[TokID]TokSet),
		newSet: factory,
	}
}

// Record adds one occurrence of next to tok's multiset.
func (e *Entries) Record(tok, next TokID) error {
	set, ok := e.sets[tok]
	if !ok {
		set = e.newSet()
		e.sets[tok] = set
	}
	return set.Add(next)
}

// Lookup returns the successor multiset for tok.
func (e *Entries) Lookup(tok TokID) (TokSet, bool) {
	set, ok := e.sets[tok]
	return set, ok
}

// Len returns the number of distinct tokens with recorded successors.
func (e *Entries) Len() int {
	return len(e.sets)
}
