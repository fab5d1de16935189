package texture

import (
	astc "github.com/arm-software/astc-encoder"
)

// decodeASTC decodes an ASTC block stream via the arm-software/astc-encoder
// Go port. MESSIAH texture slices carry raw ASTC blocks with no surrounding
// .astc file container, so a Header is synthesized directly (SizeZ/BlockZ
// pinned to 1, these textures are always 2D) and handed to the library's
// already-parsed decode entry point instead of going through ParseFile.
func decodeASTC(data []byte, width, height, blockW, blockH int) ([]byte, error) {
	h := astc.Header{
		SizeX:  uint32(width),
		SizeY:  uint32(height),
		SizeZ:  1,
		BlockX: uint32(blockW),
		BlockY: uint32(blockH),
		BlockZ: 1,
	}

	dst := make([]byte, width*height*4)
	if err := astc.DecodeRGBA8VolumeFromParsedWithProfileInto(astc.ProfileLDR, h, data, dst); err != nil {
		return nil, err
	}
	return bgraToRGBA(dst), nil
}
