// Command messiah-extract reads a MESSIAH pack index and writes every
// sprite it can reach to PNG files in an output directory.
//
// Usage:
//
//	messiah-extract <source-dir> <output-dir>
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1siamBot/messiah-extract/internal/extractor"
	"github.com/1siamBot/messiah-extract/internal/mpk"
)

// version is overridden at release build time via -ldflags.
var version = "dev"

func main() {
	// The core is synchronous with no cancellation hook; a caught
	// interrupt turns into exit code 130 without rolling back PNGs
	// already written (spec §5, §6).
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		os.Exit(130)
	}()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	for _, a := range args {
		if a == "--version" {
			fmt.Println("messiah-extract " + version)
			return 0
		}
	}

	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: messiah-extract <source-dir> <output-dir>")
		return 1
	}
	sourceDir, outputDir := args[0], args[1]

	indexPath := findIndex(sourceDir)
	if indexPath == "" {
		fmt.Fprintf(os.Stderr, "messiah-extract: no *.mpkinfo file found in %s\n", sourceDir)
		return 1
	}

	idx, err := mpk.Load(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "messiah-extract: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded index: %d entries, %d pack files\n", len(idx.Entries), len(idx.Packs))

	stats, err := extractor.Run(idx, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "messiah-extract: %v\n", err)
		return 1
	}

	fmt.Printf("Extracted %d sprites (%d failed) to %s\n", stats.Extracted, stats.Failed, outputDir)
	return 0
}

// findIndex locates the *.mpkinfo file in dir, preferring "Resources.mpkinfo"
// when present.
func findIndex(dir string) string {
	preferred := filepath.Join(dir, "Resources.mpkinfo")
	if _, err := os.Stat(preferred); err == nil {
		return preferred
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.mpkinfo"))
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
