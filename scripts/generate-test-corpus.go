//go:build ignore

// Package main generates a synthetic candidate list for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -lines 100000 -output testdata/paths.txt
//
// Lines look like repository paths, with a controlled share of duplicates,
// so the output can be piped straight into subseq:
//
//	subseq --profile-cpu cpu.prof qwbtn < testdata/paths.txt > /dev/null
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numLines  = flag.Int("lines", 100000, "Number of lines to generate")
	dupRatio  = flag.Float64("dups", 0.1, "Fraction of lines repeating an earlier line")
	outputPth = flag.String("output", "-", "Output file, - for stdout")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var (
	roots = []string{"src", "lib", "internal", "pkg", "cmd", "tests", "vendor", "docs"}
	dirs  = []string{"core", "widgets", "net", "io", "platform", "util", "kernel", "gui", "auth", "store"}
	words = []string{"button", "layout", "reader", "writer", "server", "client", "parser", "token",
		"window", "event", "cache", "index", "query", "config", "loader", "handler"}
	exts = []string{".go", ".c", ".h", ".cpp", ".py", ".ts", ".md", ".txt", "_test.go", ".yaml"}
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	out := os.Stdout
	if *outputPth != "-" {
		if err := os.MkdirAll(filepath.Dir(*outputPth), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		f, err := os.Create(*outputPth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	lines := make([]string, 0, *numLines)
	for i := 0; i < *numLines; i++ {
		var line string
		if len(lines) > 0 && rng.Float64() < *dupRatio {
			line = lines[rng.Intn(len(lines))]
		} else {
			line = randomPath(rng)
		}
		lines = append(lines, line)
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(os.Stderr, "Generated %d lines\n", len(lines))
}

func randomPath(rng *rand.Rand) string {
	parts := []string{roots[rng.Intn(len(roots))]}
	for d := rng.Intn(4); d > 0; d-- {
		parts = append(parts, dirs[rng.Intn(len(dirs))])
	}
	parts = append(parts, fileName(rng)+exts[rng.Intn(len(exts))])
	return strings.Join(parts, "/")
}

// fileName mixes snake_case, kebab-case and CamelCase so every boundary
// class appears in the corpus.
func fileName(rng *rand.Rand) string {
	a, b := words[rng.Intn(len(words))], words[rng.Intn(len(words))]
	switch rng.Intn(4) {
	case 0:
		return a + "_" + b
	case 1:
		return a + "-" + b
	case 2:
		return strings.ToUpper(a[:1]) + a[1:] + strings.ToUpper(b[:1]) + b[1:]
	default:
		return fmt.Sprintf("%s%d", a, rng.Intn(100))
	}
}
