package book

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dgramop/openpid-docgen/pkg/specparse"
)

// fakeRenderer captures rendered diagrams instead of spawning d2.
type fakeRenderer struct {
	diagrams []string
	paths    []string
	err      error
}

func (f *fakeRenderer) Render(diagram, outPath string) error {
	if f.err != nil {
		return f.err
	}
	f.diagrams = append(f.diagrams, diagram)
	f.paths = append(f.paths, outPath)
	return nil
}

func testBook(t *testing.T) (*Book, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	return &Book{SrcDir: t.TempDir(), Renderer: r, Log: zerolog.Nop()}, r
}

func mustContain(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Errorf("output does not contain %q\nOutput:\n%s", substr, output)
	}
}

func mustNotContain(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Errorf("output should not contain %q", substr)
	}
}

func pingPayload() specparse.Payload {
	return specparse.Payload{
		Description: "Liveness check",
		Metadata:    map[string]any{"opcode": int64(1)},
		Segments: []specparse.PacketSegment{
			specparse.Sized{Name: "opcode", Bits: 8, Datatype: "u8"},
			specparse.Sized{Name: "seq", Bits: 16, Datatype: "u16", Description: "sequence number"},
		},
	}
}

func TestDocumentPayload_Fragment(t *testing.T) {
	b, _ := testBook(t)
	p := pingPayload()

	out, err := b.DocumentPayload(&p, "Ping", specparse.DirectionTx)
	if err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	mustContain(t, out, "# Ping")
	mustContain(t, out, "Liveness check")
	mustContain(t, out, "## Payload Segments")
	mustContain(t, out, "![Packet segment layout for Ping](tx/Ping.png)")
	mustContain(t, out, "### opcode")
	mustContain(t, out, "*8* bit-wide u8")
	mustContain(t, out, "### seq")
	mustContain(t, out, "*16* bit-wide u16")
	mustContain(t, out, "sequence number")
	mustContain(t, out, "## Hard-coded Values")
	mustContain(t, out, "- `opcode`: 1")
}

func TestDocumentPayload_DiagramHandedToRenderer(t *testing.T) {
	b, r := testBook(t)
	p := pingPayload()

	if _, err := b.DocumentPayload(&p, "Ping", specparse.DirectionTx); err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	if len(r.diagrams) != 1 {
		t.Fatalf("renderer invoked %d times, want 1", len(r.diagrams))
	}
	mustContain(t, r.diagrams[0], "0: 8 bits")
	mustContain(t, r.diagrams[0], "1: 16 bits")
	mustContain(t, r.diagrams[0], "|md opcode (u8) |")
	mustContain(t, r.paths[0], "payloads/tx/Ping.png")
}

func TestDocumentPayload_RxPath(t *testing.T) {
	b, r := testBook(t)
	p := pingPayload()

	out, err := b.DocumentPayload(&p, "Pong", specparse.DirectionRx)
	if err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	mustContain(t, out, "(rx/Pong.png)")
	mustContain(t, r.paths[0], "payloads/rx/Pong.png")
}

func TestDocumentPayload_UnsizedSegment(t *testing.T) {
	b, _ := testBook(t)
	p := specparse.Payload{
		Segments: []specparse.PacketSegment{
			specparse.Sized{Name: "len", Bits: 8, Datatype: "u8"},
			specparse.Unsized{Name: "body", Datatype: "utf8", Termination: "null terminated"},
			specparse.Unsized{Name: "rest", Datatype: "bytes"},
		},
	}

	out, err := b.DocumentPayload(&p, "Msg", specparse.DirectionTx)
	if err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	mustContain(t, out, "utf8 with null terminated")
	mustContain(t, out, "bytes with no additional termination")
}

func TestDocumentPayload_StructSegment(t *testing.T) {
	b, r := testBook(t)
	p := specparse.Payload{
		Segments: []specparse.PacketSegment{
			specparse.Sized{Name: "opcode", Bits: 8, Datatype: "u8"},
			specparse.StructRef{Name: "crc", StructName: "Crc16"},
			specparse.StructRef{Name: "FixRate", StructName: "FixRate"},
		},
	}

	out, err := b.DocumentPayload(&p, "Cmd", specparse.DirectionTx)
	if err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	mustContain(t, out, "### crc")
	mustContain(t, out, "See struct [Crc16](../structs/index.md#crc16)")

	// Diagram labels: struct name annotated only when it differs from
	// the segment name.
	mustContain(t, r.diagrams[0], "|md crc (Crc16) |")
	mustContain(t, r.diagrams[0], "|md FixRate |")
	mustNotContain(t, r.diagrams[0], "FixRate (FixRate)")
}

func TestDocumentPayload_NoSizedSegmentsSkipsRenderer(t *testing.T) {
	b, r := testBook(t)
	p := specparse.Payload{
		Segments: []specparse.PacketSegment{
			specparse.Unsized{Name: "body", Datatype: "bytes"},
			specparse.StructRef{Name: "crc", StructName: "Crc16"},
		},
	}

	out, err := b.DocumentPayload(&p, "Opaque", specparse.DirectionTx)
	if err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	if len(r.diagrams) != 0 {
		t.Errorf("renderer invoked %d times for a zero-width layout, want 0", len(r.diagrams))
	}
	mustNotContain(t, out, "Opaque.png")
	// The textual sub-sections are still generated.
	mustContain(t, out, "### body")
	mustContain(t, out, "### crc")
}

func TestDocumentPayload_BlockCountMatchesSegments(t *testing.T) {
	b, r := testBook(t)
	p := pingPayload()

	if _, err := b.DocumentPayload(&p, "Ping", specparse.DirectionTx); err != nil {
		t.Fatalf("DocumentPayload failed: %v", err)
	}

	blocks := strings.Count(r.diagrams[0], "explanation: |md")
	if blocks != len(p.Segments) {
		t.Errorf("diagram has %d blocks, want %d", blocks, len(p.Segments))
	}
}

func TestDocumentPayload_Deterministic(t *testing.T) {
	b, _ := testBook(t)
	p := pingPayload()

	first, err := b.DocumentPayload(&p, "Ping", specparse.DirectionTx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.DocumentPayload(&p, "Ping", specparse.DirectionTx)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("repeated documentation runs differ")
	}
}
