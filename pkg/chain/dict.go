package chain

// TokID is a dense integer identifier for an interned token. IDs are assigned
// in first-seen order and are stable for the lifetime of one Dict.
type TokID uint32

// SentinelID is the reserved ID for the sentinel token that marks the start
// and end of a sequence. It always resolves to the empty string.
const SentinelID TokID = 0

// Dict is a bidirectional mapping between token strings and their IDs. It is
// the sole point of string interning in the chain.
type Dict struct {
	ids     map[string]TokID
	entries []string
}

// NewDict creates a Dict with the sentinel token pre-interned at ID 0.
func NewDict() *Dict {
	d := &Dict{
		ids:     make(map[string]TokID),
		entries: make([]string, 0, 16),
	}
	d.Intern("")
	return d
}

// Intern returns the ID for token, assigning the next sequential ID if the
// token has not been seen before.
func (d *Dict) Intern(token string) TokID {
	if id, ok := d.ids[token]; ok {
		return id
	}
	id := TokID(len(d.entries))
	d.ids[token] = id
	d.entries = append(d.entries, token)
	return id
}

// Lookup returns the ID for token without interning it. Words never fed into
// the chain report false here rather than being silently added.
func (d *Dict) Lookup(token string) (TokID, bool) {
	id, ok := d.ids[token]
	return id, ok
}

// Entry returns the token string for id.
func (d *Dict) Entry(id TokID) (string, bool) {
	if int(id) >= len(d.entries) {
		return "", false
	}
	return d.entries[id], true
}

// Len returns the number of distinct tokens, including the sentinel.
func (d *Dict) Len() int {
	return len(d.entries)
}
