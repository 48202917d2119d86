// Package book assembles the generated mdbook: one markdown fragment
// per payload, direction index pages, the table of contents, and the
// book configuration handed to the external site builder.
package book

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dgramop/openpid-docgen/pkg/diagram"
	"github.com/dgramop/openpid-docgen/pkg/specparse"
)

// Book writes payload documentation into an mdbook source tree.
type Book struct {
	// SrcDir is the book's src/ directory.
	SrcDir string

	Renderer diagram.Renderer
	Log      zerolog.Logger
}

// DocumentPayload generates the markdown fragment for one payload and
// renders its segment diagram to the direction-qualified image path.
func (b *Book) DocumentPayload(p *specparse.Payload, name string, dir specparse.Direction) (string, error) {
	imageRel := fmt.Sprintf("%s/%s.png", dir, name)

	d2 := diagram.Generate(name, layoutEntries(p.Segments))
	if d2 == "" {
		// No sized segments: the layout is undefined and no diagram
		// is produced.
		b.Log.Debug().Str("payload", name).Msg("payload has no sized segments, skipping diagram")
	} else {
		outPath := filepath.Join(b.SrcDir, "payloads", dir.String(), name+".png")
		if err := b.Renderer.Render(d2, outPath); err != nil {
			return "", fmt.Errorf("payload %s: %w", name, err)
		}
	}

	var w strings.Builder
	fmt.Fprintf(&w, "# %s\n", name)
	if p.Description != "" {
		fmt.Fprintf(&w, "%s\n", p.Description)
	}
	w.WriteString("\n## Payload Segments\n")
	if d2 != "" {
		fmt.Fprintf(&w, "![Packet segment layout for %s](%s)\n", name, imageRel)
	}
	for _, seg := range p.Segments {
		fmt.Fprintf(&w, "### %s\n%s\n", seg.DisplayName(), segmentDescription(seg))
	}

	w.WriteString("\n## Hard-coded Values\n")
	w.WriteString(renderMetadata(p.Metadata))
	w.WriteString("\n")

	return w.String(), nil
}

// segmentDescription renders the variant-dependent body of a segment's
// sub-section.
func segmentDescription(seg specparse.PacketSegment) string {
	switch s := seg.(type) {
	case specparse.Sized:
		d := fmt.Sprintf("*%d* bit-wide %s", s.Bits, s.Datatype)
		if s.Description != "" {
			d += "\n" + s.Description
		}
		return d
	case specparse.Unsized:
		termination := s.Termination
		if termination == "" {
			termination = "no additional termination"
		}
		d := fmt.Sprintf("%s with %s", s.Datatype, termination)
		if s.Description != "" {
			d += "\n" + s.Description
		}
		return d
	case specparse.StructRef:
		// The reference is not resolved, so the link may dangle.
		return fmt.Sprintf("See struct [%s](../structs/index.md#%s)", s.StructName, anchor(s.StructName))
	}
	panic(fmt.Sprintf("unhandled segment variant %T", seg))
}

// layoutEntries maps a payload's segments onto diagram entries,
// preserving order.
func layoutEntries(segments []specparse.PacketSegment) []diagram.Entry {
	entries := make([]diagram.Entry, 0, len(segments))
	for _, seg := range segments {
		switch s := seg.(type) {
		case specparse.Sized:
			entries = append(entries, diagram.SizedEntry(fmt.Sprintf("%s (%s)", s.Name, s.Datatype), s.Bits))
		case specparse.Unsized:
			entries = append(entries, diagram.UnsizedEntry(fmt.Sprintf("%s (%s)", s.Name, s.Datatype)))
		case specparse.StructRef:
			label := s.Name
			if s.Name != s.StructName {
				label = fmt.Sprintf("%s (%s)", s.Name, s.StructName)
			}
			entries = append(entries, diagram.UnsizedEntry(label))
		default:
			panic(fmt.Sprintf("unhandled segment variant %T", seg))
		}
	}
	return entries
}

// anchor converts "Crc16" or "Frame Header" to the mdbook heading
// anchor form.
func anchor(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, "_", "-")
}
