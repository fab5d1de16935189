package extractor

import (
	"image"
	"image/color"
	"testing"

	"github.com/1siamBot/messiah-extract/internal/atlas"
)

// gradientAtlas builds a w x h grayscale RGBA image where pixel (x, y)
// has value (x*10 + y) mod 256, cheap enough to check the crop/rotate
// transform pixel-by-pixel.
func gradientAtlas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte((x*10 + y) % 256)
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestCropFrameNonRotated(t *testing.T) {
	atlasImg := gradientAtlas(100, 100)
	frame := atlas.FrameInfo{X: 5, Y: 5, W: 20, H: 10}

	cropped := cropFrame(atlasImg, frame)
	if cropped == nil {
		t.Fatal("cropFrame returned nil")
	}
	b := cropped.Bounds()
	if b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("cropped size = %dx%d, want 20x10", b.Dx(), b.Dy())
	}

	want := atlasImg.RGBAAt(7, 6)
	got := cropped.At(2, 1)
	r, g, bl, a := got.RGBA()
	if byte(r>>8) != want.R || byte(g>>8) != want.G || byte(bl>>8) != want.B || byte(a>>8) != want.A {
		t.Errorf("cropped(2,1) = %v, want atlas(7,6) = %v", got, want)
	}
}

func TestCropFrameRotated(t *testing.T) {
	// Scenario 6: atlas is 100x100, frame {x:0,y:0,w:20,h:40,rotated:true}.
	atlasImg := gradientAtlas(100, 100)
	frame := atlas.FrameInfo{X: 0, Y: 0, W: 20, H: 40, Rotated: true}

	cropped := cropFrame(atlasImg, frame)
	if cropped == nil {
		t.Fatal("cropFrame returned nil")
	}
	b := cropped.Bounds()
	if b.Dx() != 20 || b.Dy() != 40 {
		t.Fatalf("cropped size = %dx%d, want 20x40 (logical w,h)", b.Dx(), b.Dy())
	}

	// Spot-check the 90-degree-CCW relationship directly: cropped(x, y)
	// == atlas(39-y, x), since the source crop is the 40x20 region
	// (0,0)-(40,20) and a CCW rotation maps each source column to a
	// destination row in reverse column order.
	for _, p := range []struct{ x, y int }{{0, 0}, {19, 0}, {0, 39}, {5, 12}} {
		want := atlasImg.RGBAAt(39-p.y, p.x)
		got := cropped.At(p.x, p.y)
		r, g, bl, a := got.RGBA()
		if byte(r>>8) != want.R || byte(g>>8) != want.G || byte(bl>>8) != want.B || byte(a>>8) != want.A {
			t.Errorf("cropped(%d,%d) = %v, want atlas(%d,%d) = %v", p.x, p.y, got, 39-p.y, p.x, want)
		}
	}
}

func TestCropFrameOutOfBounds(t *testing.T) {
	atlasImg := gradientAtlas(10, 10)
	frame := atlas.FrameInfo{X: 5, Y: 5, W: 50, H: 50}

	if cropped := cropFrame(atlasImg, frame); cropped != nil {
		t.Errorf("expected nil for out-of-bounds frame, got %v", cropped)
	}
}
