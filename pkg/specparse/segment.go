package specparse

import (
	"fmt"

	"gopkg.in/validator.v2"
)

// PacketSegment is one contiguous, typed piece of a payload's layout.
// It is a closed variant: Sized, Unsized and StructRef are the only
// implementations, and every consumer is expected to type-switch over
// all three.
type PacketSegment interface {
	// DisplayName returns the segment's human-readable name. It is
	// non-empty for any segment that passed spec loading.
	DisplayName() string

	// LayoutBits returns the segment's contribution to the payload's
	// total layout width, or nil for variable-width and struct
	// segments.
	LayoutBits() *uint32

	segment()
}

// Sized is a fixed-width segment contributing exactly Bits bits to the
// payload layout.
type Sized struct {
	Name        string `validate:"nonzero"`
	Bits        uint32
	Datatype    string `validate:"nonzero"`
	Description string
}

// Unsized is a variable-width segment. Termination describes the
// condition that ends it; empty means no additional termination.
type Unsized struct {
	Name        string `validate:"nonzero"`
	Termination string
	Datatype    string `validate:"nonzero"`
	Description string
}

// StructRef is a segment that refers to a reusable struct defined
// elsewhere in the spec. The reference is by name only; it is not
// resolved, so its width is unknown here and a dangling name is not
// detected.
type StructRef struct {
	Name       string `validate:"nonzero"`
	StructName string `validate:"nonzero"`
}

func (s Sized) DisplayName() string     { return s.Name }
func (s Unsized) DisplayName() string   { return s.Name }
func (s StructRef) DisplayName() string { return s.Name }

func (s Sized) LayoutBits() *uint32 {
	bits := s.Bits
	return &bits
}
func (s Unsized) LayoutBits() *uint32   { return nil }
func (s StructRef) LayoutBits() *uint32 { return nil }

func (Sized) segment()     {}
func (Unsized) segment()   {}
func (StructRef) segment() {}

// rawSegment is the wire form of a segment in both TOML and YAML
// specs, discriminated by the type field.
type rawSegment struct {
	Type        string `toml:"type" yaml:"type"`
	Name        string `toml:"name" yaml:"name"`
	Bits        uint32 `toml:"bits" yaml:"bits"`
	Datatype    string `toml:"datatype" yaml:"datatype"`
	Description string `toml:"description" yaml:"description"`
	Termination string `toml:"termination" yaml:"termination"`
	Struct      string `toml:"struct" yaml:"struct"`
}

func (r rawSegment) segment() (PacketSegment, error) {
	var seg PacketSegment
	switch r.Type {
	case "sized":
		seg = Sized{Name: r.Name, Bits: r.Bits, Datatype: r.Datatype, Description: r.Description}
	case "unsized":
		seg = Unsized{Name: r.Name, Termination: r.Termination, Datatype: r.Datatype, Description: r.Description}
	case "struct":
		seg = StructRef{Name: r.Name, StructName: r.Struct}
	case "":
		return nil, fmt.Errorf("segment %q missing type", r.Name)
	default:
		return nil, fmt.Errorf("segment %q has unknown type %q", r.Name, r.Type)
	}
	if err := validator.Validate(seg); err != nil {
		return nil, fmt.Errorf("segment %q: %w", r.Name, err)
	}
	return seg, nil
}
