package extractor

import (
	"image"
	"image/draw"

	"github.com/1siamBot/messiah-extract/internal/atlas"
)

// cropFrame crops frame out of src. For a rotated frame the source atlas
// holds the sprite transposed (height and width swapped), so the crop
// rectangle is (x, y, x+h, y+w) and the result is rotated 90 degrees
// counter-clockwise to restore the frame's logical (w, h) orientation
// (spec §4.H step d, scenario 6). Returns nil if the rect falls outside
// src's bounds.
func cropFrame(src image.Image, frame atlas.FrameInfo) image.Image {
	bounds := src.Bounds()

	if frame.Rotated {
		r := image.Rect(frame.X, frame.Y, frame.X+frame.H, frame.Y+frame.W)
		if !r.In(bounds) {
			return nil
		}
		return rotateCCW(subImage(src, r))
	}

	r := image.Rect(frame.X, frame.Y, frame.X+frame.W, frame.Y+frame.H)
	if !r.In(bounds) {
		return nil
	}
	return subImage(src, r)
}

// subImage copies r out of src into a fresh RGBA buffer anchored at the
// origin, using the standard library's compositing draw so the source's
// underlying concrete image type never leaks into the cropped result.
func subImage(src image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// rotateCCW rotates src 90 degrees counter-clockwise: the pixel at
// (x, y) in src lands at (y, w-1-x) in the h x w destination, where w and
// h are src's width and height.
func rotateCCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.RGBAAt(b.Min.X+x, b.Min.Y+y)
			dst.SetRGBA(y, w-1-x, c)
		}
	}
	return dst
}
