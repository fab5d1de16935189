package texture

import "encoding/binary"

// decodeBC1 decodes a DXT1/BC1 block stream: 8 bytes per 4x4 pixel block,
// two RGB565 reference colors followed by 16 2-bit palette indices. This
// is hand-rolled directly against the public BC1 bitstream layout (no
// suitable Go decoder surfaced anywhere in the retrieval pack beyond
// encode-oriented APIs — see DESIGN.md), following the spec's own
// rationale for replacing an unreliable dependency with a direct decoder.
func decodeBC1(data []byte, width, height int) []byte {
	out := make([]byte, width*height*4)

	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4

	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			blockOff := (by*blocksWide + bx) * 8
			if blockOff+8 > len(data) {
				return bgraToRGBA(out)
			}
			block := data[blockOff : blockOff+8]
			colors := bc1Palette(block)

			indexBits := binary.LittleEndian.Uint32(block[4:8])
			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= height {
					continue
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= width {
						continue
					}
					idx := (indexBits >> uint((py*4+px)*2)) & 0x3
					c := colors[idx]
					o := (y*width + x) * 4
					out[o], out[o+1], out[o+2], out[o+3] = c[0], c[1], c[2], c[3]
				}
			}
		}
	}

	return bgraToRGBA(out)
}

// bc1Palette expands the two RGB565 reference colors in block into the
// four-color (or three-color-plus-transparent) BC1 palette, each entry
// stored as BGRA bytes.
func bc1Palette(block []byte) [4][4]byte {
	c0 := binary.LittleEndian.Uint16(block[0:2])
	c1 := binary.LittleEndian.Uint16(block[2:4])

	r0, g0, b0 := unpack565(c0)
	r1, g1, b1 := unpack565(c1)

	var colors [4][4]byte
	colors[0] = [4]byte{b0, g0, r0, 255}
	colors[1] = [4]byte{b1, g1, r1, 255}

	if c0 > c1 {
		colors[2] = [4]byte{
			byte((2*uint16(b0) + uint16(b1)) / 3),
			byte((2*uint16(g0) + uint16(g1)) / 3),
			byte((2*uint16(r0) + uint16(r1)) / 3),
			255,
		}
		colors[3] = [4]byte{
			byte((uint16(b0) + 2*uint16(b1)) / 3),
			byte((uint16(g0) + 2*uint16(g1)) / 3),
			byte((uint16(r0) + 2*uint16(r1)) / 3),
			255,
		}
	} else {
		colors[2] = [4]byte{
			byte((uint16(b0) + uint16(b1)) / 2),
			byte((uint16(g0) + uint16(g1)) / 2),
			byte((uint16(r0) + uint16(r1)) / 2),
			255,
		}
		colors[3] = [4]byte{0, 0, 0, 0}
	}

	return colors
}

// unpack565 expands a packed RGB565 color to 8-bit-per-channel values
// using bit replication, returning (r, g, b).
func unpack565(c uint16) (r, g, b byte) {
	r5 := byte(c >> 11 & 0x1F)
	g6 := byte(c >> 5 & 0x3F)
	b5 := byte(c & 0x1F)

	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return
}
