package mpk

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func putEntry(buf *bytes.Buffer, name string, offset, length, rawPackIndex uint32) {
	binary.Write(buf, binary.LittleEndian, uint16(len(name)))
	buf.WriteString(name)
	binary.Write(buf, binary.LittleEndian, offset)
	binary.Write(buf, binary.LittleEndian, length)
	binary.Write(buf, binary.LittleEndian, rawPackIndex)
}

// TestLoadDropsZeroLengthEntries exercises scenario 1 from spec §8: a
// zero-length entry is parsed (to advance the cursor) but discarded.
func TestLoadDropsZeroLengthEntries(t *testing.T) {
	dir := t.TempDir()

	var body bytes.Buffer
	body.Write([]byte{0, 0, 0, 0}) // unused header
	binary.Write(&body, binary.LittleEndian, uint32(2))
	putEntry(&body, "a.b", 0x100, 0x10, 4)
	putEntry(&body, "c.plist", 0x200, 0, 2)

	path := filepath.Join(dir, "Resources.mpkinfo")
	if err := os.WriteFile(path, body.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(idx.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(idx.Entries))
	}
	got := idx.Entries[0]
	want := Entry{Name: "a.b", Offset: 0x100, Length: 0x10, PackIndex: 2}
	if got != want {
		t.Fatalf("Entries[0] = %+v, want %+v", got, want)
	}
}

func TestLoadTruncatedTrailerIsBestEffort(t *testing.T) {
	dir := t.TempDir()

	var body bytes.Buffer
	body.Write([]byte{0, 0, 0, 0})
	binary.Write(&body, binary.LittleEndian, uint32(2)) // claims 2 entries
	putEntry(&body, "only-one.txt", 0, 5, 0)
	// second entry is truncated: just a name length with no payload
	binary.Write(&body, binary.LittleEndian, uint16(20))

	path := filepath.Join(dir, "Resources.mpkinfo")
	if err := os.WriteFile(path, body.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1 (best-effort truncation)", len(idx.Entries))
	}
}

func TestDiscoverPacksStopsAtFirstMissing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Resources.mpk", "Resources1.mpk", "Resources2.mpk"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Resources3.mpk deliberately absent; Resources4.mpk present but unreachable.
	if err := os.WriteFile(filepath.Join(dir, "Resources4.mpk"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	packs := discoverPacks(dir, "Resources")
	want := []string{
		filepath.Join(dir, "Resources.mpk"),
		filepath.Join(dir, "Resources1.mpk"),
		filepath.Join(dir, "Resources2.mpk"),
	}
	if len(packs) != len(want) {
		t.Fatalf("discoverPacks() = %v, want %v", packs, want)
	}
	for i := range want {
		if packs[i] != want[i] {
			t.Fatalf("discoverPacks()[%d] = %q, want %q", i, packs[i], want[i])
		}
	}
}

func TestCanonicalStem(t *testing.T) {
	cases := map[string]string{
		"Resources":    "Resources",
		"resource":     "Resources",
		"RESOURCEFOO":  "Resources",
		"SomethingElse": "SomethingElse",
	}
	for in, want := range cases {
		if got := canonicalStem(in); got != want {
			t.Errorf("canonicalStem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadMissingIndexIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.mpkinfo"))
	if err == nil {
		t.Fatal("Load() on missing file: want error, got nil")
	}
}
