// Package specparse provides the OpenPID protocol data model and the
// TOML/YAML parsing that produces it. A spec is loaded once per
// documentation run and held read-only afterwards.
package specparse

// DeviceInfo identifies the device a spec describes.
type DeviceInfo struct {
	Name        string `toml:"name" yaml:"name" validate:"nonzero"`
	Description string `toml:"description" yaml:"description"`
}

// OpenPID is the root of a parsed protocol spec. It owns everything
// transitively and is held read-only for the duration of one
// documentation run.
type OpenPID struct {
	OpenPIDVersion string
	DocVersion     string
	DeviceInfo     DeviceInfo
	Payloads       PayloadSet
}

// PayloadSet holds the payloads a device understands, split by
// transmission direction. The tx and rx namespaces are independent: a
// name may legally appear in both.
type PayloadSet struct {
	Tx PayloadMap
	Rx PayloadMap
}

// Payload is one named message body: a free-text description, opaque
// metadata carried through to the output verbatim, and the ordered
// segments that make up its on-wire layout.
type Payload struct {
	Description string
	Metadata    map[string]any
	Segments    []PacketSegment
}

// NamedPayload pairs a payload with its unique name within a direction.
type NamedPayload struct {
	Name    string
	Payload Payload
}

// PayloadMap maps payload names to payloads while preserving the order
// they were declared in the spec. Ordinary Go maps would randomize
// iteration and make generated documentation differ between runs.
type PayloadMap []NamedPayload

// Get returns the payload with the given name, if present.
func (m PayloadMap) Get(name string) (*Payload, bool) {
	for i := range m {
		if m[i].Name == name {
			return &m[i].Payload, true
		}
	}
	return nil, false
}

// Direction is whether a payload flows to the device (tx) or from the
// device (rx). It only affects where generated artifacts are placed.
type Direction int

const (
	DirectionTx Direction = iota
	DirectionRx
)

func (d Direction) String() string {
	switch d {
	case DirectionTx:
		return "tx"
	case DirectionRx:
		return "rx"
	}
	return "unknown"
}
