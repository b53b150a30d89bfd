package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// runREPL reads seed phrases from r until EOF and prints one generated
// sequence per line. An empty line generates from a sentence boundary.
func runREPL(worker *ChainWorker, defaultTarget int, r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for {
		_, _ = fmt.Fprint(w, "seed> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(w, "\nBye!")
			return
		}
		seed := strings.TrimSpace(scanner.Text())

		out, ok := worker.Generate(seed, defaultTarget)
		if !ok {
			_, _ = fmt.Fprintln(w, "(no result)")
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n\n", out)
	}
}
