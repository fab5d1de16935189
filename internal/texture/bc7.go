package texture

// decodeBC7 decodes a BC7 block stream (16 bytes per 4x4 block). Mode 6
// (the common single-subset RGBA mode used by most non-normal-map game
// textures) is decoded exactly against the published bitstream layout.
// The remaining seven modes require the full partition-table machinery
// that BC7 defines for 2- and 3-subset blocks; that table is not exercised
// by any file in the retrieval pack, so a block in any other mode surfaces
// UnsupportedBC7ModeError instead of fabricating pixels (spec §6: an
// absent/partial GPU decoder must surface the "unsupported" error, not
// silently corrupt output — the truncation-tolerance principle in spec §9
// applies only to the LZ4 decoder and catalog parser, not to pixel data).
func decodeBC7(data []byte, width, height int) ([]byte, error) {
	out := make([]byte, width*height*4)

	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4

	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			blockOff := (by*blocksWide + bx) * 16
			if blockOff+16 > len(data) {
				return bgraToRGBA(out), nil
			}
			block := data[blockOff : blockOff+16]
			pixels, err := decodeBC7Block(block)
			if err != nil {
				return nil, err
			}

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
					c := pixels[py*4+px]
					o := (y*width + x) * 4
					out[o], out[o+1], out[o+2], out[o+3] = c[0], c[1], c[2], c[3]
				}
			}
		}
	}

	return bgraToRGBA(out), nil
}

var bc7Weights4 = [16]uint32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}

// bitReader reads bits LSB-first across a byte slice, matching BC7's
// bitstream convention.
type bitReader struct {
	data []byte
	pos  uint
}

func (r *bitReader) read(n uint) uint32 {
	var v uint32
	for i := uint(0); i < n; i++ {
		byteIdx := (r.pos + i) / 8
		bitIdx := (r.pos + i) % 8
		if int(byteIdx) < len(r.data) {
			bit := (r.data[byteIdx] >> bitIdx) & 1
			v |= uint32(bit) << i
		}
	}
	r.pos += n
	return v
}

func bc7Mode(block []byte) int {
	for i := 0; i < 8; i++ {
		if block[0]&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// decodeBC7Block returns the 16 BGRA pixels (row-major) for one block.
func decodeBC7Block(block []byte) ([16][4]byte, error) {
	mode := bc7Mode(block)
	if mode != 6 {
		return [16][4]byte{}, &UnsupportedBC7ModeError{Mode: mode}
	}

	r := &bitReader{data: block, pos: 7} // mode tag is 7 bits for mode 6

	var red, green, blue, alpha [2]uint32
	for i := 0; i < 2; i++ {
		red[i] = r.read(7)
	}
	for i := 0; i < 2; i++ {
		green[i] = r.read(7)
	}
	for i := 0; i < 2; i++ {
		blue[i] = r.read(7)
	}
	for i := 0; i < 2; i++ {
		alpha[i] = r.read(7)
	}
	p0 := r.read(1)
	p1 := r.read(1)

	endpoint := func(v, p uint32) byte {
		return byte((v << 1) | p)
	}
	e0 := [4]byte{endpoint(red[0], p0), endpoint(green[0], p0), endpoint(blue[0], p0), endpoint(alpha[0], p0)}
	e1 := [4]byte{endpoint(red[1], p1), endpoint(green[1], p1), endpoint(blue[1], p1), endpoint(alpha[1], p1)}

	var indices [16]uint32
	for i := 0; i < 16; i++ {
		if i == 0 {
			indices[i] = r.read(3)
		} else {
			indices[i] = r.read(4)
		}
	}

	var out [16][4]byte
	for i, idx := range indices {
		w := bc7Weights4[idx]
		for c := 0; c < 4; c++ {
			v := (uint32(e0[c])*(64-w) + uint32(e1[c])*w + 32) >> 6
			out[i][c] = byte(v)
		}
		// BGRA output order to match the block-compression convention
		// the rest of this package uses before the final channel swap.
		out[i][0], out[i][2] = out[i][2], out[i][0]
	}
	return out, nil
}
