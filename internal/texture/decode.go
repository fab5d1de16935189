package texture

// Decode dispatches decompressed slice bytes to the pixel-format decoder
// named by format, producing a tightly-packed RGBA8 buffer of size
// width*height*4.
func Decode(data []byte, format PixelFormat, width, height int) ([]byte, error) {
	switch format {
	case FormatRGBA8:
		return decodeRGBA8(data, width, height)
	case FormatBC1:
		return decodeBC1(data, width, height), nil
	case FormatBC7:
		return decodeBC7(data, width, height)
	case FormatASTC4x4:
		return decodeASTC(data, width, height, 4, 4)
	case FormatASTC6x6:
		return decodeASTC(data, width, height, 6, 6)
	case FormatASTC8x8:
		return decodeASTC(data, width, height, 8, 8)
	default:
		return nil, &UnsupportedFormatError{Code: format}
	}
}

func decodeRGBA8(data []byte, width, height int) ([]byte, error) {
	want := width * height * 4
	if len(data) < want {
		out := make([]byte, want)
		copy(out, data)
		return out, nil
	}
	return data[:want], nil
}

// bgraToRGBA permutes a tightly-packed BGRA buffer (as emitted by the
// block-compression decoders below) to RGBA for downstream use (spec
// §4.G channel swap).
func bgraToRGBA(pixels []byte) []byte {
	for i := 0; i+4 <= len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
	return pixels
}
