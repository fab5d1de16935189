// Package lz4block decodes the Netease variant of raw LZ4 block data found
// throughout the MESSIAH archive family: pack blobs, the resource catalog,
// and texture slices are all wrapped in a "ZZZ4" + u32 size + block payload
// envelope.
//
// The observed data occasionally diverges from canonical LZ4 framing (most
// commonly a missing terminating five-literal epilogue), so the decoder
// here is deliberately permissive: it never returns an error, only however
// many bytes it managed to reconstruct before the stream ran out or became
// nonsensical. Callers that need an exact size must check the returned
// length themselves.
package lz4block

import (
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// Decode decompresses a single LZ4 block with no framing, stopping cleanly
// (rather than failing) on truncation or malformed sequences. It never
// panics and never returns more than outSize bytes.
func Decode(input []byte, outSize int) []byte {
	dst := make([]byte, outSize)
	src, dstPos := 0, 0

	for src < len(input) && dstPos < outSize {
		token := input[src]
		src++

		literalLen := int(token >> 4)
		if literalLen == 15 {
			for src < len(input) {
				extra := input[src]
				src++
				literalLen += int(extra)
				if extra != 255 {
					break
				}
			}
		}

		copyLen := literalLen
		if remaining := len(input) - src; copyLen > remaining {
			copyLen = remaining
		}
		if remaining := outSize - dstPos; copyLen > remaining {
			copyLen = remaining
		}
		if copyLen > 0 {
			copy(dst[dstPos:dstPos+copyLen], input[src:src+copyLen])
			src += copyLen
			dstPos += copyLen
		}

		if dstPos >= outSize || src+2 > len(input) {
			break
		}

		offset := int(binary.LittleEndian.Uint16(input[src : src+2]))
		src += 2
		if offset == 0 {
			break
		}

		matchLen := int(token&0x0F) + 4
		if matchLen == 19 {
			for src < len(input) {
				extra := input[src]
				src++
				matchLen += int(extra)
				if extra != 255 {
					break
				}
			}
		}

		matchStart := dstPos - offset
		if matchStart < 0 {
			break
		}

		for i := 0; i < matchLen && dstPos < outSize; i++ {
			dst[dstPos] = dst[matchStart+(i%offset)]
			dstPos++
		}
	}

	return dst[:dstPos]
}

// DecodePreferLibrary attempts a standard LZ4 block decode via
// github.com/pierrec/lz4/v4 first (the data is usually conforming), and
// falls back to the permissive Netease decoder above when the library
// decode fails or produces a short result. This mirrors the upstream
// Python extractor's "try the real library, fall back to the hand-rolled
// one" strategy.
func DecodePreferLibrary(input []byte, outSize int) []byte {
	dst := make([]byte, outSize)
	if n, err := lz4.UncompressBlock(input, dst); err == nil && n == outSize {
		return dst[:n]
	}
	return Decode(input, outSize)
}
