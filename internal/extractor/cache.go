package extractor

import (
	"image"
	"strings"

	"github.com/1siamBot/messiah-extract/internal/mpk"
	"github.com/1siamBot/messiah-extract/internal/repository"
	"github.com/1siamBot/messiah-extract/internal/texture"
)

// textureCache resolves a descriptor's texture_filename to a decoded
// atlas image at most once per run, caching a nil entry ("negative
// cache") on failure so later descriptors referencing the same texture
// don't retry it (spec §4.H step b, §9 Design Notes).
type textureCache struct {
	idx     *mpk.Index
	catalog *repository.Catalog
	images  map[string]image.Image
}

func newTextureCache(idx *mpk.Index, catalog *repository.Catalog) *textureCache {
	return &textureCache{
		idx:     idx,
		catalog: catalog,
		images:  make(map[string]image.Image),
	}
}

// get returns the decoded atlas for textureFilename, decoding and
// caching it (or its negative result) on first use.
func (c *textureCache) get(textureFilename string) image.Image {
	if img, ok := c.images[textureFilename]; ok {
		return img
	}

	img := c.resolve(textureFilename)
	c.images[textureFilename] = img
	return img
}

func (c *textureCache) resolve(textureFilename string) image.Image {
	stem := strings.TrimSuffix(textureFilename, ".png")

	rec := c.findTextureRecord(stem)
	if rec == nil {
		return nil
	}

	entry := c.findPackEntry(rec.GUIDPath())
	if entry == nil {
		return nil
	}

	raw, err := c.idx.ReadEntry(*entry)
	if err != nil {
		return nil
	}

	container, err := texture.Parse(mpk.StripEnvelope(raw))
	if err != nil {
		return nil
	}

	sliceIdx := container.LastSliceIndex()
	if sliceIdx < 0 {
		return nil
	}
	slice := container.Slices[sliceIdx]

	pixels, err := container.DecodeSlice(sliceIdx)
	if err != nil {
		return nil
	}

	return &image.NRGBA{
		Pix:    pixels,
		Stride: int(slice.Width) * 4,
		Rect:   image.Rect(0, 0, int(slice.Width), int(slice.Height)),
	}
}

// findTextureRecord looks up the catalog record for stem whose resolved
// type is "Texture2D" (spec §4.H step b).
func (c *textureCache) findTextureRecord(stem string) *repository.Record {
	for _, rec := range c.catalog.FindByName(stem, false) {
		if c.catalog.Resolve(rec).ResourceType == "Texture2D" {
			r := rec
			return &r
		}
	}
	return nil
}

// findPackEntry finds the pack entry whose name contains guidPath or
// ends with it — the open-question disjunction from spec §9 kept as
// observed, not resolved to a single form.
func (c *textureCache) findPackEntry(guidPath string) *mpk.Entry {
	for i := range c.idx.Entries {
		name := c.idx.Entries[i].Name
		if strings.Contains(name, guidPath) || strings.HasSuffix(name, guidPath) {
			return &c.idx.Entries[i]
		}
	}
	return nil
}
