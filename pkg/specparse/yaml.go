package specparse

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawSpecYAML mirrors the top level of a YAML spec document. The
// payload mappings are kept as yaml.Node so that declaration order can
// be read off the node content directly.
type rawSpecYAML struct {
	OpenPIDVersion string     `yaml:"openpid_version"`
	DocVersion     string     `yaml:"doc_version"`
	DeviceInfo     DeviceInfo `yaml:"device_info"`
	Payloads       struct {
		Tx yaml.Node `yaml:"tx"`
		Rx yaml.Node `yaml:"rx"`
	} `yaml:"payloads"`
}

// ParseSpecYAML parses an OpenPID spec from YAML bytes.
func ParseSpecYAML(data []byte) (*OpenPID, error) {
	var raw rawSpecYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}

	tx, err := decodePayloadNode(&raw.Payloads.Tx, "tx")
	if err != nil {
		return nil, err
	}
	rx, err := decodePayloadNode(&raw.Payloads.Rx, "rx")
	if err != nil {
		return nil, err
	}

	pid := &OpenPID{
		OpenPIDVersion: raw.OpenPIDVersion,
		DocVersion:     raw.DocVersion,
		DeviceInfo:     raw.DeviceInfo,
		Payloads:       PayloadSet{Tx: tx, Rx: rx},
	}
	if err := checkShape(pid); err != nil {
		return nil, err
	}
	return pid, nil
}

// decodePayloadNode walks a YAML mapping node in document order. The
// node content alternates key and value nodes.
func decodePayloadNode(node *yaml.Node, dir string) (PayloadMap, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("payloads.%s: expected a mapping", dir)
	}

	var out PayloadMap
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var raw rawPayload
		if err := valNode.Decode(&raw); err != nil {
			return nil, fmt.Errorf("payloads.%s.%s: %w", dir, keyNode.Value, err)
		}
		p, err := raw.payload(keyNode.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, NamedPayload{Name: keyNode.Value, Payload: p})
	}
	return out, nil
}
