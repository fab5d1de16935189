// Package texture parses the MESSIAH Texture2D container format (a 40-byte
// header followed by one or more mipmap slice headers) and decodes the
// pixel formats the engine emits into RGBA8 buffers.
package texture

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/1siamBot/messiah-extract/internal/lz4block"
)

// PixelFormat identifies one of the GPU texture encodings MESSIAH uses.
type PixelFormat uint8

// Supported pixel format codes (spec §4.G).
const (
	FormatRGBA8   PixelFormat = 5
	FormatBC1     PixelFormat = 18
	FormatBC7     PixelFormat = 25
	FormatASTC4x4 PixelFormat = 36
	FormatASTC6x6 PixelFormat = 40
	FormatASTC8x8 PixelFormat = 43
)

// UnsupportedFormatError is raised for any pixel format code outside the
// enumerated set (spec §4.G).
type UnsupportedFormatError struct {
	Code PixelFormat
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("texture: unsupported pixel format %d", e.Code)
}

// UnsupportedBC7ModeError is raised for any BC7 block whose mode tag is
// not mode 6, the only mode this package decodes (spec §4.G, §6: an
// absent/partial GPU decoder must surface the "unsupported" error rather
// than produce pixels).
type UnsupportedBC7ModeError struct {
	Mode int
}

func (e *UnsupportedBC7ModeError) Error() string {
	return fmt.Sprintf("texture: unsupported BC7 mode %d", e.Mode)
}

// Header is the 40-byte Texture2DInfo (spec §3).
type Header struct {
	Format       PixelFormat
	MipLevel     uint8
	Flags        uint8
	Width        uint16
	Height       uint16
	DefaultColor [4]float32
	PayloadSize  uint32
	SliceCount   uint16
}

// Slice is one mipmap level's header (spec §3).
type Slice struct {
	Size        uint32 // header + marker + payload
	Width       uint16
	Height      uint16
	Depth       uint16
	RowPitch    uint16
	SliceInByte uint32
	offset      int // byte offset of this slice's 16-byte header within the container
}

// Container is a fully parsed MESSIAH texture file (header + slice table,
// payloads read lazily via DecodeSlice).
type Container struct {
	Header Header
	Slices []Slice
	data   []byte
}

// Parse decodes the header and walks the slice table (spec §4.F). Input
// shorter than 40 bytes is rejected; a slice header that would read past
// end-of-input stops the walk, keeping slices parsed so far.
func Parse(data []byte) (*Container, error) {
	if len(data) < 40 {
		return nil, fmt.Errorf("texture: container too small (%d bytes)", len(data))
	}

	h := Header{
		Format:      PixelFormat(data[0x05]),
		MipLevel:    data[0x06],
		Flags:       data[0x07],
		Width:       binary.LittleEndian.Uint16(data[0x0C:0x0E]),
		Height:      binary.LittleEndian.Uint16(data[0x0E:0x10]),
		PayloadSize: binary.LittleEndian.Uint32(data[0x20:0x24]),
		SliceCount:  binary.LittleEndian.Uint16(data[0x26:0x28]),
	}
	for i := 0; i < 4; i++ {
		bits := binary.LittleEndian.Uint32(data[0x10+i*4 : 0x14+i*4])
		h.DefaultColor[i] = math.Float32frombits(bits)
	}

	c := &Container{Header: h, data: data}

	offset := 40
	for i := uint16(0); i < h.SliceCount; i++ {
		if offset+16 > len(data) {
			break
		}
		s := Slice{
			Size:        binary.LittleEndian.Uint32(data[offset : offset+4]),
			Width:       binary.LittleEndian.Uint16(data[offset+4 : offset+6]),
			Height:      binary.LittleEndian.Uint16(data[offset+6 : offset+8]),
			Depth:       binary.LittleEndian.Uint16(data[offset+8 : offset+10]),
			RowPitch:    binary.LittleEndian.Uint16(data[offset+10 : offset+12]),
			SliceInByte: binary.LittleEndian.Uint32(data[offset+12 : offset+16]),
			offset:      offset,
		}
		c.Slices = append(c.Slices, s)

		if s.Size < 16 {
			break
		}
		offset += int(s.Size)
	}

	return c, nil
}

// DecodeSlice decompresses and decodes slice i to an RGBA8 buffer.
func (c *Container) DecodeSlice(i int) ([]byte, error) {
	if i < 0 || i >= len(c.Slices) {
		return nil, fmt.Errorf("texture: slice %d out of range (have %d)", i, len(c.Slices))
	}
	s := c.Slices[i]

	blockStart := s.offset
	blockEnd := blockStart + int(s.Size)
	if blockEnd > len(c.data) {
		return nil, fmt.Errorf("texture: slice %d payload truncated", i)
	}
	block := c.data[blockStart:blockEnd]
	if len(block) < 20 {
		return nil, fmt.Errorf("texture: slice %d block too small", i)
	}

	marker := block[16:20]
	var raw []byte
	switch string(marker) {
	case "NNNN":
		raw = block[20:]
	case "ZZZ4":
		if len(block) < 24 {
			return nil, fmt.Errorf("texture: slice %d ZZZ4 marker truncated", i)
		}
		uncompressedSize := binary.LittleEndian.Uint32(block[20:24])
		raw = lz4block.DecodePreferLibrary(block[24:], int(uncompressedSize))
	default:
		raw = block[16:]
	}

	return Decode(raw, c.Header.Format, int(s.Width), int(s.Height))
}

// LastSliceIndex returns the index of the last (largest, per spec §4.H
// default selection) parsed slice, or -1 if none were parsed.
func (c *Container) LastSliceIndex() int {
	return len(c.Slices) - 1
}
