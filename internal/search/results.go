package search

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveResults copies each match out of spritesDir into a sibling
// "search-results" directory, numbering filenames by rank (matches the
// reference tool's layout so the output remains obviously a sprite
// search result, not arbitrary renamed output).
func SaveResults(spritesDir string, matches []Match) (string, error) {
	resultsDir := filepath.Join(filepath.Dir(filepath.Clean(spritesDir)), "search-results")

	if err := os.RemoveAll(resultsDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", err
	}

	for i, m := range matches {
		src := filepath.Join(spritesDir, m.Filename)
		dst := filepath.Join(resultsDir, fmt.Sprintf("%02d_%s", i+1, m.Filename))
		if err := copyFile(src, dst); err != nil {
			return "", err
		}
	}

	return resultsDir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
