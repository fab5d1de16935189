// Command messiah-search finds the sprites most visually similar to a
// query image among a directory of previously extracted PNGs, using a
// color-distribution hash index cached alongside the sprites.
//
// Usage:
//
//	messiah-search <screenshot> [sprites-dir] [-top N] [-rebuild]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1siamBot/messiah-extract/internal/search"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("messiah-search", flag.ContinueOnError)
	top := fs.Int("top", 10, "number of results to return")
	rebuild := fs.Bool("rebuild", false, "force rebuild of the search index")
	showVersion := fs.Bool("version", false, "print the version and exit")
	// The flag package stops at the first positional argument, so parse
	// repeatedly to accept flags before, between and after positionals.
	var rest []string
	for {
		fs.Parse(args)
		if fs.NArg() == 0 {
			break
		}
		rest = append(rest, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if *showVersion {
		fmt.Println("messiah-search " + version)
		return 0
	}

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: messiah-search <screenshot> [sprites-dir] [-top N] [-rebuild]")
		return 1
	}
	query := rest[0]
	spritesDir := "./sprites"
	if len(rest) > 1 {
		spritesDir = rest[1]
	}

	if _, err := os.Stat(query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: screenshot not found: %s\n", query)
		return 1
	}
	if _, err := os.Stat(spritesDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: sprites directory not found: %s\n", spritesDir)
		return 1
	}
	if matches, _ := filepath.Glob(filepath.Join(spritesDir, "*.png")); len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no PNG files found in %s\n", spritesDir)
		return 1
	}

	fmt.Printf("Query: %s\n", query)
	fmt.Printf("Sprites: %s\n\n", spritesDir)

	idx, err := search.LoadOrBuildIndex(spritesDir, *rebuild)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	matches, err := search.Search(query, idx, *top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("\nTop %d matches:\n", len(matches))
	for i, m := range matches {
		note := ""
		if m.Distance == 0 {
			note = " <- exact match"
		}
		fmt.Printf("  %2d. %s (distance: %d)%s\n", i+1, m.Filename, m.Distance, note)
	}

	resultsDir, err := search.SaveResults(spritesDir, matches)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("\nResults saved to: %s/\n", resultsDir)

	return 0
}
