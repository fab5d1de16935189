package mpk

import (
	"bytes"
	"testing"
)

func TestStripEnvelopePassthrough(t *testing.T) {
	data := []byte("plain bytes, no magic")
	got := StripEnvelope(data)
	if !bytes.Equal(got, data) {
		t.Fatalf("StripEnvelope() = %q, want passthrough %q", got, data)
	}
}

func TestStripEnvelopeCCCCRaw(t *testing.T) {
	data := append([]byte("CCCC"), []byte("hello world")...)
	got := StripEnvelope(data)
	if string(got) != "hello world" {
		t.Fatalf("StripEnvelope() = %q, want %q", got, "hello world")
	}
}

func TestStripEnvelopeCCCCZZZ4(t *testing.T) {
	// literal-only block: token 0x50 = literalLen 5, matchLen nibble 0 (unused, loop ends after literals)
	block := append([]byte{0x50}, []byte("hello")...)
	var buf bytes.Buffer
	buf.WriteString("CCCC")
	buf.WriteString("ZZZ4")
	buf.Write([]byte{5, 0, 0, 0}) // uncompressed size = 5
	buf.Write(block)

	got := StripEnvelope(buf.Bytes())
	if string(got) != "hello" {
		t.Fatalf("StripEnvelope() = %q, want %q", got, "hello")
	}
}
