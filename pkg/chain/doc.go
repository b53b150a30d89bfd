/*
Package chain implements an in-memory, bidirectional Markov word chain.

Text is ingested line by line, interned into dense integer token IDs, and
indexed as bigram contexts with the multisets of tokens observed after and
before each context. Generation walks those transitions forward and backward
from a seed context and keeps the candidate closest to a target length.

The Chain is not safe for concurrent use; confine it to a single goroutine
and multiplex callers over a channel.
*/
package chain
