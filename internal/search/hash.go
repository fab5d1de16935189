// Package search implements perceptual-hash similarity search over a
// directory of previously extracted sprites, matching the color-hash
// approach of the reference implementation's imagehash-based tool (no
// perceptual-hash library surfaced in the retrieval pack — see
// DESIGN.md).
package search

import (
	"fmt"
	"image"
	"strings"
)

// binCount is the number of hue buckets the color hash distributes
// saturated pixels across, matching imagehash.colorhash's default.
const binCount = 3

// ColorHash computes a compact textual color-distribution signature for
// img: the fraction of grayscale pixels followed by the fraction of pixels
// in each hue bin. The format is "<hex>" with one hex digit per bucket,
// the bucket's share of all pixels scaled to 0-15, so two images with
// visually similar color makeup hash to equal or near-equal strings.
func ColorHash(img image.Image) string {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return "0"
	}

	var grayCount int
	bins := make([]int, binCount)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			r8, g8, b8 := byte(r>>8), byte(g>>8), byte(b>>8)

			if isGray(r8, g8, b8) {
				grayCount++
				continue
			}

			h := hue(r8, g8, b8)
			bin := int(h / (360.0 / float64(binCount)))
			if bin >= binCount {
				bin = binCount - 1
			}
			bins[bin]++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%x", bucket(grayCount, total))
	for _, c := range bins {
		fmt.Fprintf(&sb, "%x", bucket(c, total))
	}
	return sb.String()
}

// bucket maps count/total into a 0-15 nibble so near-identical color
// distributions collide and a single index file entry can list many
// filenames sharing a hash.
func bucket(count, total int) int {
	if total == 0 {
		return 0
	}
	frac := float64(count) / float64(total)
	b := int(frac * 15.0)
	if b > 15 {
		b = 15
	}
	return b
}

// isGray treats low-saturation pixels as grayscale, matching colorhash's
// treatment of near-neutral colors as a distinct bucket from hued ones.
func isGray(r, g, b byte) bool {
	max := maxByte(r, g, b)
	min := minByte(r, g, b)
	return int(max)-int(min) < 12
}

// hue returns the pixel's hue in degrees [0, 360).
func hue(r, g, b byte) float64 {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := maxF(rf, gf, bf)
	min := minF(rf, gf, bf)
	d := max - min
	if d == 0 {
		return 0
	}

	var h float64
	switch max {
	case rf:
		h = 60 * (((gf - bf) / d))
	case gf:
		h = 60*((bf-rf)/d) + 120
	default:
		h = 60*((rf-gf)/d) + 240
	}
	if h < 0 {
		h += 360
	}
	return h
}

func maxByte(a, b, c byte) byte {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minByte(a, b, c byte) byte {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxF(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minF(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Distance returns the sum of the absolute per-nibble differences between
// two ColorHash strings, compared over the shorter string's length.
func Distance(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var d int
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			av := nibbleValue(a[i])
			bv := nibbleValue(b[i])
			diff := av - bv
			if diff < 0 {
				diff = -diff
			}
			d += diff
		}
	}
	return d
}

func nibbleValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return 0
	}
}
