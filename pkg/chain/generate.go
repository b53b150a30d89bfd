package chain

import (
	"log/slog"
	"slices"
	"strings"
)

// generationAttempts is the number of independent candidates drawn per
// Generate call before picking the one closest to the target length.
const generationAttempts = 49

// Generate produces a word sequence grown in both directions from seed and
// returns the candidate whose character count is closest to target. The seed
// may be empty (start from a sentence boundary), a single word, or a phrase;
// every word must already be in the corpus. It reports false when no attempt
// produced anything, which is a normal outcome for an unknown or dead-end
// seed and for an empty chain.
//
// Each attempt re-resolves the seed, so a one-word seed may bootstrap a
// different successor every time. That explores more of the distribution and
// is kept deliberately.
func (c *Chain) Generate(seed string, target int) (string, bool) {
	var best string
	var bestDiff int
	found := false

	for range generationAttempts {
		candidate, ok := c.generateOne(seed)
		if !ok {
			continue
		}
		diff := len(candidate) - target
		if diff < 0 {
			diff = -diff
		}
		if !found || diff < bestDiff {
			best, bestDiff, found = candidate, diff, true
		}
	}

	if !found {
		c.logger.Debug("Generation produced no candidates",
			slog.String("seed", seed),
			slog.Int("target", target),
		)
	}
	return best, found
}

// generateOne runs a single seed resolution, bidirectional walk and assembly.
func (c *Chain) generateOne(seed string) (string, bool) {
	words := strings.Fields(seed)

	var seedToks []TokID
	var fwdCtx, revCtx Prefix

	switch len(words) {
	case 0:
		fwdCtx = Prefix{SentinelID, SentinelID}
		revCtx = fwdCtx
	case 1:
		id, ok := c.dict.Lookup(words[0])
		if !ok {
			return "", false
		}
		successors, ok := c.entries.Lookup(id)
		if !ok || successors.Len() == 0 {
			return "", false
		}
		next := successors.Choose(c.rng)
		seedToks = []TokID{id, next}
		fwdCtx = Prefix{id, next}
		revCtx = fwdCtx
	default:
		seedToks = make([]TokID, len(words))
		for i, word := range words {
			id, ok := c.dict.Lookup(word)
			if !ok {
				return "", false
			}
			seedToks[i] = id
		}
		revCtx = Prefix{seedToks[0], seedToks[1]}
		fwdCtx = Prefix{seedToks[len(seedToks)-2], seedToks[len(seedToks)-1]}
	}

	before := c.walkUntilSentinel(Reverse, revCtx)
	after := c.walkUntilSentinel(Forward, fwdCtx)
	slices.Reverse(before) // emitted context-backward

	all := make([]TokID, 0, len(before)+len(seedToks)+len(after))
	all = append(all, before...)
	all = append(all, seedToks...)
	all = append(all, after...)

	out := make([]string, 0, len(all))
	for _, id := range all {
		if id == SentinelID {
			continue
		}
		word, ok := c.dict.Entry(id)
		if !ok {
			continue
		}
		out = append(out, word)
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, " "), true
}

// walkUntilSentinel collects walk output up to, and excluding, the first
// sentinel.
func (c *Chain) walkUntilSentinel(dir Direction, start Prefix) []TokID {
	walker := c.paths.Walk(dir, start, c.rng)
	var out []TokID
	for {
		id, ok := walker.Next()
		if !ok || id == SentinelID {
			return out
		}
		out = append(out, id)
	}
}
