package mpk

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/1siamBot/messiah-extract/internal/lz4block"
)

// ReadBlob performs a random-access read of length bytes at offset within
// the numbered pack file packIndex. Each call opens and closes its own
// file handle; no handle cache is maintained (spec §5).
func (idx *Index) ReadBlob(packIndex uint32, offset, length uint32) ([]byte, error) {
	if int(packIndex) >= len(idx.Packs) {
		return nil, fmt.Errorf("mpk: pack index %d out of range (have %d packs)", packIndex, len(idx.Packs))
	}

	f, err := os.Open(idx.Packs[packIndex])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadEntry is a convenience wrapper reading the blob addressed by e.
func (idx *Index) ReadEntry(e Entry) ([]byte, error) {
	return idx.ReadBlob(e.PackIndex, e.Offset, e.Length)
}

// StripEnvelope applies the outer compression envelope documented in
// spec §4.C:
//
//   - "CCCC" prefix: stripped; if followed by "ZZZ4" the rest is an LZ4
//     block with a u32 LE uncompressed size, otherwise the remainder is
//     raw.
//   - "ZZZ4" prefix (no "CCCC"): u32 LE uncompressed size, then an LZ4
//     block; a conforming decode via github.com/pierrec/lz4/v4 is attempted first, falling back
//     to the permissive Netease decoder.
//   - anything else: passed through unchanged.
func StripEnvelope(data []byte) []byte {
	if hasMagic(data, "CCCC") {
		rest := data[4:]
		if hasMagic(rest, "ZZZ4") {
			return decodeZZZ4(rest, lz4block.Decode)
		}
		return rest
	}
	if hasMagic(data, "ZZZ4") {
		return decodeZZZ4(data, lz4block.DecodePreferLibrary)
	}
	return data
}

func hasMagic(data []byte, magic string) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

func decodeZZZ4(data []byte, decode func([]byte, int) []byte) []byte {
	if len(data) < 8 {
		return nil
	}
	uncompressedSize := binary.LittleEndian.Uint32(data[4:8])
	return decode(data[8:], int(uncompressedSize))
}
