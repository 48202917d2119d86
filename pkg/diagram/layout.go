// Package diagram generates proportional packet-layout diagrams in the
// d2 diagram language and hands them to the external d2 renderer.
package diagram

import (
	"fmt"
	"strings"
)

const (
	// widthBudget is the fixed visual unit budget a diagram's blocks
	// are scaled into.
	widthBudget = 2000

	// nominalUnsizedBits stands in for the unknown width of a
	// variable-width block.
	nominalUnsizedBits = 16
)

// Entry is one diagram block: a label plus the segment's bit width,
// nil when the width is unknown.
type Entry struct {
	Label string
	Bits  *uint32
}

// SizedEntry returns an Entry with a known bit width.
func SizedEntry(label string, bits uint32) Entry {
	return Entry{Label: label, Bits: &bits}
}

// UnsizedEntry returns an Entry with no known bit width.
func UnsizedEntry(label string) Entry {
	return Entry{Label: label}
}

// Generate produces a d2 diagram description laying the entries out in
// a single row, each block's width proportional to its bit width.
//
// The scale factor is the integer quotient of the width budget and the
// total of all known bit widths; entries without a width contribute
// nothing to the total. When the total is zero the layout is undefined
// and Generate returns the empty string, meaning no diagram.
func Generate(name string, entries []Entry) string {
	var total uint32
	for _, e := range entries {
		if e.Bits != nil {
			total += *e.Bits
		}
	}
	if total == 0 {
		return ""
	}
	scale := uint32(widthBudget) / total

	var b strings.Builder
	b.WriteString("vars: {\n")
	b.WriteString("  d2-config: {\n")
	b.WriteString("    layout-engine: elk\n")
	b.WriteString("    theme-id: 0\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "%s {\n", name)
	b.WriteString("  style.font-size: 50\n")
	b.WriteString("  grid-rows: 1\n")
	b.WriteString("  grid-gap: 0\n")

	for i, e := range entries {
		sizestr := "Variable"
		width := nominalUnsizedBits * scale
		if e.Bits != nil {
			sizestr = fmt.Sprintf("%d bits", *e.Bits)
			width = *e.Bits * scale
		}

		fmt.Fprintf(&b, "  %d: %s\n", i, sizestr)
		fmt.Fprintf(&b, "  %d: {\n", i)
		fmt.Fprintf(&b, "    explanation: |md %s |\n", e.Label)
		b.WriteString("    explanation.style.font-size: 55\n")
		fmt.Fprintf(&b, "    width: %d\n", width)
		b.WriteString("    style.font-size: 40\n")
		b.WriteString("  }\n")
	}

	b.WriteString("}\n")
	return b.String()
}
