package repository

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
}

func writeEntry(buf *bytes.Buffer, name string, hash [16]byte, folderIdx, typeIdx uint16) {
	binary.Write(buf, binary.LittleEndian, uint16(0)) // unknown1
	binary.Write(buf, binary.LittleEndian, uint16(0)) // unknown2
	buf.WriteByte(0)                                  // flag
	buf.Write(hash[:])
	writeString(buf, name)
	binary.Write(buf, binary.LittleEndian, folderIdx)
	binary.Write(buf, binary.LittleEndian, typeIdx)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // related hash count
}

func buildCatalogBytes(types, folders string, entries func(*bytes.Buffer)) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // version
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // unknown flag A
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // unknown flag B
	writeString(&buf, types)
	writeString(&buf, folders)
	entries(&buf)
	return buf.Bytes()
}

func TestParseBasic(t *testing.T) {
	hash := [16]byte{0x0c, 0x36, 0x39, 0x8b, 0x90, 0xf9, 0x47, 0xcb, 0xb9, 0x8f, 0x6e, 0x46, 0x9a, 0x78, 0x8c, 0x2e}

	data := buildCatalogBytes("Texture2D;Mesh", "art/textures;art/meshes", func(buf *bytes.Buffer) {
		writeEntry(buf, "ui_icon_sword", hash, 0, 0)
	})

	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cat.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(cat.Records))
	}

	rec := cat.Records[0]
	if rec.LogicalName != "ui_icon_sword" {
		t.Errorf("LogicalName = %q, want %q", rec.LogicalName, "ui_icon_sword")
	}

	want := "0c/0c36398b-90f9-47cb-b98f-6e469a788c2e"
	if got := rec.GUIDPath(); got != want {
		t.Errorf("GUIDPath() = %q, want %q", got, want)
	}

	info := cat.Resolve(rec)
	if info.ResourceType != "Texture2D" {
		t.Errorf("ResourceType = %q, want %q", info.ResourceType, "Texture2D")
	}
	if info.FolderPath != "art/textures" {
		t.Errorf("FolderPath = %q, want %q", info.FolderPath, "art/textures")
	}
}

func TestResolveOutOfRangeIndicesArePlaceholders(t *testing.T) {
	data := buildCatalogBytes("Texture2D", "art/textures", func(buf *bytes.Buffer) {
		writeEntry(buf, "orphan", [16]byte{}, 99, 77)
	})

	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	info := cat.Resolve(cat.Records[0])
	if info.ResourceType != "Unknown(77)" {
		t.Errorf("ResourceType = %q, want Unknown(77)", info.ResourceType)
	}
	if info.FolderPath != "Unknown(99)" {
		t.Errorf("FolderPath = %q, want Unknown(99)", info.FolderPath)
	}
}

func TestParseTruncatedTrailerKeepsPriorEntries(t *testing.T) {
	data := buildCatalogBytes("Texture2D", "art", func(buf *bytes.Buffer) {
		writeEntry(buf, "first", [16]byte{1}, 0, 0)
		// Truncated second entry: only the first two "unknown" fields.
		binary.Write(buf, binary.LittleEndian, uint16(0))
		binary.Write(buf, binary.LittleEndian, uint16(0))
	})

	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cat.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(cat.Records))
	}
}

func TestFindByNameCaseInsensitive(t *testing.T) {
	data := buildCatalogBytes("Texture2D", "art", func(buf *bytes.Buffer) {
		writeEntry(buf, "UI_Icon_Sword", [16]byte{}, 0, 0)
		writeEntry(buf, "ui_icon_shield", [16]byte{}, 0, 0)
	})

	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := cat.FindByName("icon_sword", false)
	if len(got) != 1 || got[0].LogicalName != "UI_Icon_Sword" {
		t.Fatalf("FindByName() = %+v, want one match for UI_Icon_Sword", got)
	}

	if got := cat.FindByType("Mesh"); got != nil {
		t.Fatalf("FindByType(%q) = %+v, want nil", "Mesh", got)
	}
}
