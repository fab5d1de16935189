// Package extractor ties the pack reader, catalog parser, atlas parser,
// and texture decoder together into the end-to-end sprite extraction
// pipeline (spec §4.H).
package extractor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/1siamBot/messiah-extract/internal/atlas"
	"github.com/1siamBot/messiah-extract/internal/mpk"
	"github.com/1siamBot/messiah-extract/internal/repository"
)

// Stats is the public (extracted, failed) summary the CLI reports.
type Stats struct {
	Extracted int
	Failed    int
}

// Run resolves the catalog, walks every atlas descriptor in idx, and
// writes one PNG per sprite frame into outDir. outDir is created if
// absent. Fatal preconditions (missing catalog) are returned as errors;
// everything else is counted and the run continues (spec §7).
func Run(idx *mpk.Index, outDir string) (Stats, error) {
	var stats Stats

	cat, err := resolveCatalog(idx)
	if err != nil {
		return stats, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stats, fmt.Errorf("extractor: creating output directory: %w", err)
	}

	cache := newTextureCache(idx, cat)
	counters := make(map[string]int)

	for _, e := range idx.Entries {
		if !strings.HasSuffix(e.Name, ".plist") {
			continue
		}

		extracted, failed := processDescriptor(idx, e, cache, counters, outDir)
		stats.Extracted += extracted
		stats.Failed += failed
	}

	return stats, nil
}

// resolveCatalog finds and parses the resource.repository entry. Absence
// or unparseable content is a fatal precondition (spec §7).
func resolveCatalog(idx *mpk.Index) (*repository.Catalog, error) {
	var entry *mpk.Entry
	for i := range idx.Entries {
		if strings.Contains(strings.ToLower(idx.Entries[i].Name), "resource.repository") {
			entry = &idx.Entries[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("extractor: no resource.repository entry in pack index")
	}

	raw, err := idx.ReadEntry(*entry)
	if err != nil {
		return nil, fmt.Errorf("extractor: reading catalog blob: %w", err)
	}

	cat, err := repository.Parse(mpk.StripEnvelope(raw))
	if err != nil {
		return nil, fmt.Errorf("extractor: parsing catalog: %w", err)
	}
	return cat, nil
}

// processDescriptor reads, decompresses and parses one .plist entry and
// emits every one of its frames as a PNG. Any failure reading or parsing
// the descriptor itself counts all its would-be frames (unknown count,
// so a single failure) against the failure counter and returns (spec
// §4.H step c / §7 per-blob decoding failure).
func processDescriptor(idx *mpk.Index, e mpk.Entry, cache *textureCache, counters map[string]int, outDir string) (extracted, failed int) {
	raw, err := idx.ReadEntry(e)
	if err != nil {
		return 0, 1
	}

	desc, err := atlas.Parse(mpk.StripEnvelope(raw))
	if err != nil {
		return 0, 1
	}
	if desc == nil {
		// Silent skip: no frames or no texture filename (spec §7).
		return 0, 0
	}

	img := cache.get(desc.TextureFilename)
	if img == nil {
		return 0, len(desc.Frames)
	}

	for name, frame := range desc.Frames {
		if emitFrame(img, frame, name, counters, outDir) {
			extracted++
		} else {
			failed++
		}
	}
	return extracted, failed
}

// emitFrame crops frame out of img, applying the rotated-crop-then-rotate
// transform when necessary, and writes the result as a deduplicated PNG
// (spec §4.H step d/e).
func emitFrame(img image.Image, frame atlas.FrameInfo, name string, counters map[string]int, outDir string) bool {
	if frame.W <= 0 || frame.H <= 0 {
		return false
	}

	cropped := cropFrame(img, frame)
	if cropped == nil {
		return false
	}

	path := nextSpritePath(outDir, name, counters)
	if err := writePNG(path, cropped); err != nil {
		return false
	}
	return true
}

// nextSpritePath applies the base-name deduplication rule: the first
// sighting of a base name writes "<base>.png", the Nth (N >= 2) writes
// "<base>_<N-1>.png" (spec §4.H step e, §8).
func nextSpritePath(outDir, name string, counters map[string]int) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	n := counters[base]
	counters[base] = n + 1

	if n == 0 {
		return filepath.Join(outDir, base+".png")
	}
	return filepath.Join(outDir, fmt.Sprintf("%s_%d.png", base, n))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
