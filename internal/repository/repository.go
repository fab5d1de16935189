// Package repository parses the MESSIAH resource.repository catalog: a
// binary table mapping logical resource names to content-addressed blob
// locations, plus lookups used by the extraction orchestrator to resolve a
// sprite atlas's texture filename to the archive entry holding its pixel
// data.
package repository

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Record is one catalog entry (spec §3 ResourceRecord).
type Record struct {
	LogicalName string
	Hash        [16]byte
	FolderIndex uint16
	TypeIndex   uint16
}

// GUIDPath derives the content-addressed path for r's hash:
// "XX/XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX", where the directory segment
// duplicates the first hash byte.
func (r Record) GUIDPath() string {
	h := r.Hash
	return fmt.Sprintf("%02x/%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		h[0],
		h[0], h[1], h[2], h[3],
		h[4], h[5],
		h[6], h[7],
		h[8], h[9],
		h[10], h[11], h[12], h[13], h[14], h[15])
}

// ResolvedInfo is the human-readable view of a Record produced by Resolve.
type ResolvedInfo struct {
	LogicalName  string
	GUIDPath     string
	ResourceType string
	FolderPath   string
	HexHash      string
}

// Catalog is the parsed resource.repository: type and folder string
// tables plus the ordered list of records.
type Catalog struct {
	Types   []string
	Folders []string
	Records []Record
}

// Parse decodes the uncompressed resource.repository bytes per spec §4.D.
// Parsing never fails on a short read mid-entry; it simply stops and keeps
// whatever entries were fully read.
func Parse(data []byte) (*Catalog, error) {
	r := &reader{data: data}

	// version, unknown flag A, unknown flag B — read to advance the
	// cursor, values otherwise undocumented and intentionally ignored
	// (spec §9 Open Question).
	if !r.skip(4 + 2 + 4) {
		return nil, fmt.Errorf("repository: header truncated")
	}

	typesLen, ok := r.u16()
	if !ok {
		return nil, fmt.Errorf("repository: truncated before type table")
	}
	typesBytes, ok := r.bytes(int(typesLen))
	if !ok {
		return nil, fmt.Errorf("repository: truncated type table")
	}

	foldersLen, ok := r.u16()
	if !ok {
		return nil, fmt.Errorf("repository: truncated before folder table")
	}
	foldersBytes, ok := r.bytes(int(foldersLen))
	if !ok {
		return nil, fmt.Errorf("repository: truncated folder table")
	}

	cat := &Catalog{
		Types:   splitLossy(typesBytes),
		Folders: splitLossy(foldersBytes),
	}

	for {
		rec, ok := readRecord(r)
		if !ok {
			break
		}
		cat.Records = append(cat.Records, rec)
	}

	return cat, nil
}

func splitLossy(b []byte) []string {
	return strings.Split(strings.ToValidUTF8(string(b), "�"), ";")
}

// readRecord decodes one catalog entry. A short read anywhere in the
// entry ends parsing cleanly (spec §4.D Termination).
func readRecord(r *reader) (Record, bool) {
	start := r.pos

	if !r.skip(2 + 2 + 1) { // unknown1, unknown2, flag
		r.pos = start
		return Record{}, false
	}

	hashBytes, ok := r.bytes(16)
	if !ok {
		r.pos = start
		return Record{}, false
	}

	nameLen, ok := r.u16()
	if !ok {
		r.pos = start
		return Record{}, false
	}
	nameBytes, ok := r.bytes(int(nameLen))
	if !ok {
		r.pos = start
		return Record{}, false
	}

	folderIndex, ok := r.u16()
	if !ok {
		r.pos = start
		return Record{}, false
	}
	typeIndex, ok := r.u16()
	if !ok {
		r.pos = start
		return Record{}, false
	}

	relatedCount, ok := r.u16()
	if !ok {
		r.pos = start
		return Record{}, false
	}
	if !r.skip(int(relatedCount) * 16) {
		r.pos = start
		return Record{}, false
	}

	rec := Record{
		LogicalName: strings.ToValidUTF8(string(nameBytes), "�"),
		FolderIndex: folderIndex,
		TypeIndex:   typeIndex,
	}
	copy(rec.Hash[:], hashBytes)
	return rec, true
}

// FindByName returns records whose logical name contains (or, if exact,
// equals) substr. The comparison is case-insensitive unless exact is set.
func (c *Catalog) FindByName(substr string, exact bool) []Record {
	var out []Record
	if exact {
		for _, rec := range c.Records {
			if rec.LogicalName == substr {
				out = append(out, rec)
			}
		}
		return out
	}

	needle := strings.ToLower(substr)
	for _, rec := range c.Records {
		if strings.Contains(strings.ToLower(rec.LogicalName), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// FindByType returns records whose type index names typeName in the type
// table. An absent type name yields an empty slice.
func (c *Catalog) FindByType(typeName string) []Record {
	idx := -1
	for i, t := range c.Types {
		if t == typeName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var out []Record
	for _, rec := range c.Records {
		if int(rec.TypeIndex) == idx {
			out = append(out, rec)
		}
	}
	return out
}

// Resolve expands rec's indices into human-readable strings. Out-of-range
// indices yield "Unknown(<index>)" placeholders rather than failing.
func (c *Catalog) Resolve(rec Record) ResolvedInfo {
	return ResolvedInfo{
		LogicalName:  rec.LogicalName,
		GUIDPath:     rec.GUIDPath(),
		ResourceType: indexOrPlaceholder(c.Types, rec.TypeIndex),
		FolderPath:   indexOrPlaceholder(c.Folders, rec.FolderIndex),
		HexHash:      fmt.Sprintf("%x", rec.Hash[:]),
	}
}

func indexOrPlaceholder(table []string, index uint16) string {
	if int(index) < len(table) {
		return table[index]
	}
	return fmt.Sprintf("Unknown(%d)", index)
}

// reader is a tiny truncation-aware cursor over catalog bytes.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) skip(n int) bool {
	if r.pos+n > len(r.data) {
		return false
	}
	r.pos += n
	return true
}

func (r *reader) bytes(n int) ([]byte, bool) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

func (r *reader) u16() (uint16, bool) {
	b, ok := r.bytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}
