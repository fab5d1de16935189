// Package atlas parses the text-based (XML property list) sprite atlas
// descriptors that accompany each MESSIAH texture: a map from sprite file
// name to its crop rectangle within the atlas, plus the atlas texture's
// own filename.
package atlas

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FrameInfo is one sprite's placement within its atlas (spec §3).
type FrameInfo struct {
	X, Y, W, H int
	Rotated    bool
}

// Descriptor is a parsed atlas property list.
type Descriptor struct {
	Frames          map[string]FrameInfo
	TextureFilename string
}

// Parse decodes a UTF-8 XML property-list buffer. Invalid descriptors (no
// frames, or no texture filename) return (nil, nil): this is the "silent
// skip" case from spec §7, not an error.
func Parse(data []byte) (*Descriptor, error) {
	root, err := parsePlist(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}

	top, _ := root.(map[string]any)
	if top == nil {
		return nil, nil
	}

	framesRaw, _ := top["frames"].(map[string]any)
	metadataRaw, _ := top["metadata"].(map[string]any)

	textureFilename, _ := metadataRaw["textureFileName"].(string)
	if len(framesRaw) == 0 || textureFilename == "" {
		return nil, nil
	}

	desc := &Descriptor{
		Frames:          make(map[string]FrameInfo, len(framesRaw)),
		TextureFilename: textureFilename,
	}
	for name, v := range framesRaw {
		entry, _ := v.(map[string]any)
		desc.Frames[name] = frameInfoFromEntry(entry)
	}

	return desc, nil
}

func frameInfoFromEntry(entry map[string]any) FrameInfo {
	frameStr, _ := entry["frame"].(string)
	if frameStr == "" {
		frameStr = "{{0,0},{0,0}}"
	}
	x, y, w, h := parseFrameString(frameStr)

	rotated, _ := entry["rotated"].(bool)

	return FrameInfo{X: x, Y: y, W: w, H: h, Rotated: rotated}
}

// parseFrameString parses a "{{x,y},{w,h}}" literal into its four
// integers (spec §4.E / scenario 5).
func parseFrameString(s string) (x, y, w, h int) {
	clean := strings.NewReplacer("{", "", "}", "").Replace(s)
	parts := strings.Split(clean, ",")
	ints := make([]int, 4)
	for i := 0; i < 4 && i < len(parts); i++ {
		v, _ := strconv.Atoi(strings.TrimSpace(parts[i]))
		ints[i] = v
	}
	return ints[0], ints[1], ints[2], ints[3]
}

// plist parsing — a minimal XML property-list reader covering the dict,
// array, string, integer, real, true, and false element types used by
// sprite atlas descriptors. No plist library appears anywhere in the
// retrieval pack (see DESIGN.md), so this is hand-rolled directly against
// encoding/xml, in the teacher's field-by-field parsing idiom.

func parsePlist(data []byte) (any, error) {
	dec := xml.NewDecoder(stripLeadingGarbage(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "plist" {
			return parsePlistBody(dec)
		}
	}
}

// stripLeadingGarbage returns a reader over data; kept as a named step so
// future DOCTYPE/BOM handling has an obvious home.
func stripLeadingGarbage(data []byte) *strReader {
	return &strReader{data: data}
}

type strReader struct {
	data []byte
	pos  int
}

func (r *strReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// parsePlistBody reads the single top-level value inside <plist>...</plist>.
func parsePlistBody(dec *xml.Decoder) (any, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseValue(dec, start)
		}
		if _, ok := tok.(xml.EndElement); ok {
			return nil, nil
		}
	}
}

// parseValue decodes the value introduced by start, having already
// consumed its StartElement token.
func parseValue(dec *xml.Decoder, start xml.StartElement) (any, error) {
	switch start.Name.Local {
	case "dict":
		return parseDict(dec)
	case "array":
		return parseArray(dec)
	case "string":
		return readCharData(dec)
	case "integer":
		s, err := readCharData(dec)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n, nil
	case "real":
		s, err := readCharData(dec)
		if err != nil {
			return nil, err
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, nil
	case "true":
		if err := dec.Skip(); err != nil {
			return nil, err
		}
		return true, nil
	case "false":
		if err := dec.Skip(); err != nil {
			return nil, err
		}
		return false, nil
	default:
		if err := dec.Skip(); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func parseDict(dec *xml.Decoder) (map[string]any, error) {
	out := make(map[string]any)
	var pendingKey string
	haveKey := false

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "key" {
				s, err := readCharData(dec)
				if err != nil {
					return nil, err
				}
				pendingKey = s
				haveKey = true
				continue
			}
			v, err := parseValue(dec, t)
			if err != nil {
				return nil, err
			}
			if haveKey {
				out[pendingKey] = v
				haveKey = false
			}
		case xml.EndElement:
			if t.Name.Local == "dict" {
				return out, nil
			}
		}
	}
}

func parseArray(dec *xml.Decoder) ([]any, error) {
	var out []any
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := parseValue(dec, t)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case xml.EndElement:
			if t.Name.Local == "array" {
				return out, nil
			}
		}
	}
}

// readCharData reads character data up to the matching end element
// (e.g. </key>, </string>).
func readCharData(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}
