package specparse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/validator.v2"
)

// rawPayload is the wire form of a payload in both spec formats.
type rawPayload struct {
	Description string         `toml:"description" yaml:"description"`
	Metadata    map[string]any `toml:"metadata" yaml:"metadata"`
	Segments    []rawSegment   `toml:"segments" yaml:"segments"`
}

func (r rawPayload) payload(name string) (Payload, error) {
	segments := make([]PacketSegment, 0, len(r.Segments))
	for i, rs := range r.Segments {
		seg, err := rs.segment()
		if err != nil {
			return Payload{}, fmt.Errorf("payload %q segment %d: %w", name, i, err)
		}
		segments = append(segments, seg)
	}
	return Payload{
		Description: r.Description,
		Metadata:    r.Metadata,
		Segments:    segments,
	}, nil
}

// LoadSpec reads and parses an OpenPID spec file, dispatching on the
// file extension. TOML is the native spec format; YAML is accepted as
// a convenience.
func LoadSpec(path string) (*OpenPID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseSpecTOML(data)
	case ".yaml", ".yml":
		return ParseSpecYAML(data)
	default:
		return nil, fmt.Errorf("unsupported spec format %q", filepath.Ext(path))
	}
}

// checkShape enforces the load-time invariants shared by both formats.
func checkShape(pid *OpenPID) error {
	if err := validator.Validate(pid.DeviceInfo); err != nil {
		return fmt.Errorf("device_info: %w", err)
	}
	return nil
}
