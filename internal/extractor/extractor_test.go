package extractor

import (
	"testing"

	"github.com/1siamBot/messiah-extract/internal/atlas"
)

func TestNextSpritePathDeduplicates(t *testing.T) {
	counters := make(map[string]int)

	got := []string{
		nextSpritePath("/out", "idle.png", counters),
		nextSpritePath("/out", "idle.png", counters),
		nextSpritePath("/out", "walk.png", counters),
		nextSpritePath("/out", "idle.png", counters),
	}
	want := []string{
		"/out/idle.png",
		"/out/idle_1.png",
		"/out/walk.png",
		"/out/idle_2.png",
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmitFrameRejectsNonPositiveSize(t *testing.T) {
	counters := make(map[string]int)

	for _, frame := range []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 10}} {
		fi := atlas.FrameInfo{W: frame.w, H: frame.h}
		ok := emitFrame(nil, fi, "x.png", counters, "/out")
		if ok {
			t.Errorf("expected rejection for w=%d h=%d", frame.w, frame.h)
		}
	}
}
