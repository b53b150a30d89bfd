package chain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// MaxTokID is the largest token ID representable by the packed encoding.
// IDs above this cannot be stored and cause ErrTokenTooLarge.
const MaxTokID TokID = 0x00FFFFFF

// ErrTokenTooLarge is returned when a token ID exceeds the three-byte
// encoding ceiling. The data violates a hard structural limit and is never
// silently truncated.
var ErrTokenTooLarge = errors.New("token id exceeds the 3-byte encoding limit")

// TokSet is a multiset of token IDs supporting frequency-weighted random
// draws. Each Add records one occurrence; an ID added n times is drawn with
// weight n.
type TokSet interface {
	// Add records one occurrence of id.
	Add(id TokID) error
	// Choose draws an element with probability proportional to its
	// occurrence count. It panics if the set is empty; callers must check
	// Len first.
	Choose(rng *rand.Rand) TokID
	// Len returns the total number of occurrences added.
	Len() int
}

// TokSetFactory constructs the TokSet variant used by the chain's indexes.
type TokSetFactory func() TokSet

// BufferTokSet stores occurrences in a single byte buffer split into three
// fixed-width segments by ID magnitude: c1 one-byte entries, then c2
// little-endian two-byte entries, then unbounded little-endian three-byte
// entries. Storing each occurrence individually keeps a weighted draw a
// single uniform index into flat storage. Entries are never removed.
type BufferTokSet struct {
	buf []byte
	c1  uint16
	c2  uint16
}

// NewBufferTokSet creates an empty packed multiset.
func NewBufferTokSet() *BufferTokSet {
	return &BufferTokSet{}
}

// Add records one occurrence of id, placing it at the end of the narrowest
// segment that can hold it. A full one- or two-byte segment overflows into
// the next wider one.
func (s *BufferTokSet) Add(id TokID) error {
	switch {
	case id <= 0xFF && s.c1 < 0xFFFF:
		s.buf = slices.Insert(s.buf, int(s.c1), byte(id))
		s.c1++
	case id <= 0xFFFF && s.c2 < 0xFFFF:
		at := int(s.c1) + int(s.c2)*2
		s.buf = slices.Insert(s.buf, at, byte(id), byte(id>>8))
		s.c2++
	case id <= MaxTokID:
		s.buf = append(s.buf, byte(id), byte(id>>8), byte(id>>16))
	default:
		return fmt.Errorf("%w: %d", ErrTokenTooLarge, id)
	}
	return nil
}

// Get returns the occurrence at logical index i, recomputing the segment and
// byte offset from the segment counts.
func (s *BufferTokSet) Get(i int) TokID {
	n1, n2 := int(s.c1), int(s.c2)
	switch {
	case i < n1:
		return TokID(s.buf[i])
	case i < n1+n2:
		at := n1 + (i-n1)*2
		return TokID(s.buf[at]) | TokID(s.buf[at+1])<<8
	default:
		at := n1 + n2*2 + (i-n1-n2)*3
		return TokID(s.buf[at]) | TokID(s.buf[at+1])<<8 | TokID(s.buf[at+2])<<16
	}
}

// Len returns the total number of occurrences.
func (s *BufferTokSet) Len() int {
	rest := len(s.buf) - int(s.c1) - int(s.c2)*2
	return int(s.c1) + int(s.c2) + rest/3
}

// Choose draws a uniformly random logical index, which weights each ID by
// its occurrence count.
func (s *BufferTokSet) Choose(rng *rand.Rand) TokID {
	return s.Get(rng.IntN(s.Len()))
}

// HashTokSet is the explicit-count reference variant of TokSet. It trades
// the packed buffer's O(occurrences) storage for O(distinct) at the cost of
// a linear scan per draw.
type HashTokSet struct {
	freq  map[TokID]int
	total int
}

// NewHashTokSet creates an empty count-based multiset.
func NewHashTokSet() *HashTokSet {
	return &HashTokSet{freq: make(map[TokID]int)}
}

// Add records one occurrence of id.
func (s *HashTokSet) Add(id TokID) error {
	if id > MaxTokID {
		return fmt.Errorf("%w: %d", ErrTokenTooLarge, id)
	}
	s.freq[id]++
	s.total++
	return nil
}

// Choose draws an element with probability proportional to its count.
func (s *HashTokSet) Choose(rng *rand.Rand) TokID {
	n := rng.IntN(s.total)
	for id, f := range s.freq {
		n -= f
		if n < 0 {
			return id
		}
	}
	// Unreachable while total matches the sum of counts.
	panic("chain: inconsistent HashTokSet totals")
}

// Len returns the total number of occurrences.
func (s *HashTokSet) Len() int {
	return s.total
}
