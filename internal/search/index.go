package search

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// IndexFilename is the cache file written alongside a sprites directory,
// named after the reference tool's ".sprite-index.json".
const IndexFilename = ".sprite-index.json"

// indexVersion is bumped whenever the hash format changes so a stale
// on-disk index is rebuilt instead of silently misinterpreted.
const indexVersion = 1

// Index maps a ColorHash value to every sprite filename sharing it.
type Index struct {
	Version int                 `json:"version"`
	Hashes  map[string][]string `json:"hashes"`
}

// Match is one ranked search result.
type Match struct {
	Filename string
	Distance int
}

// BuildIndex hashes every PNG in spritesDir and writes the result to
// IndexFilename inside it.
func BuildIndex(spritesDir string) (*Index, error) {
	files, err := filepath.Glob(filepath.Join(spritesDir, "*.png"))
	if err != nil {
		return nil, err
	}

	idx := &Index{Version: indexVersion, Hashes: make(map[string][]string)}
	fmt.Printf("Building index for %d sprites...\n", len(files))

	for _, path := range files {
		h, err := hashFile(path)
		if err != nil {
			continue
		}
		name := filepath.Base(path)
		idx.Hashes[h] = append(idx.Hashes[h], name)
	}

	if err := idx.save(spritesDir); err != nil {
		return nil, err
	}
	fmt.Printf("Index saved: %d unique hashes\n", len(idx.Hashes))
	return idx, nil
}

// LoadOrBuildIndex loads the on-disk index unless forceRebuild is set, it
// is missing, or its version doesn't match.
func LoadOrBuildIndex(spritesDir string, forceRebuild bool) (*Index, error) {
	path := filepath.Join(spritesDir, IndexFilename)

	if !forceRebuild {
		if data, err := os.ReadFile(path); err == nil {
			var idx Index
			if json.Unmarshal(data, &idx) == nil && idx.Version == indexVersion {
				fmt.Printf("Loaded existing index (%d unique hashes)\n", len(idx.Hashes))
				return &idx, nil
			}
		}
	}

	return BuildIndex(spritesDir)
}

func (idx *Index) save(spritesDir string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(spritesDir, IndexFilename), data, 0o644)
}

// Search ranks every sprite in idx by ColorHash distance to queryPath's
// image, closest first, and returns at most topN matches.
func Search(queryPath string, idx *Index, topN int) ([]Match, error) {
	queryHash, err := hashFile(queryPath)
	if err != nil {
		return nil, fmt.Errorf("search: reading query image: %w", err)
	}

	var matches []Match
	for h, filenames := range idx.Hashes {
		d := Distance(queryHash, h)
		for _, name := range filenames {
			matches = append(matches, Match{Filename: name, Distance: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Filename < matches[j].Filename
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}
	return ColorHash(img), nil
}
