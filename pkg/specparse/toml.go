package specparse

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// rawSpecTOML mirrors the top level of a TOML spec document.
type rawSpecTOML struct {
	OpenPIDVersion string     `toml:"openpid_version"`
	DocVersion     string     `toml:"doc_version"`
	DeviceInfo     DeviceInfo `toml:"device_info"`
	Payloads       struct {
		Tx map[string]rawPayload `toml:"tx"`
		Rx map[string]rawPayload `toml:"rx"`
	} `toml:"payloads"`
}

// ParseSpecTOML parses an OpenPID spec from TOML bytes. Payload
// declaration order is recovered from the decoder metadata, since the
// decoded Go maps do not preserve it.
func ParseSpecTOML(data []byte) (*OpenPID, error) {
	var raw rawSpecTOML
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}

	tx, err := orderedPayloads(md, "tx", raw.Payloads.Tx)
	if err != nil {
		return nil, err
	}
	rx, err := orderedPayloads(md, "rx", raw.Payloads.Rx)
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

// orderedPayloads rebuilds a direction's payload map in document
// order. toml.MetaData reports defined keys in order of appearance, so
// the first [payloads.<dir>.<name>] table key for each name fixes its
// position.
func orderedPayloads(md toml.MetaData, dir string, payloads map[string]rawPayload) (PayloadMap, error) {
	var out PayloadMap
	seen := make(map[string]bool, len(payloads))

	for _, key := range md.Keys() {
		if len(key) < 3 || key[0] != "payloads" || key[1] != dir {
			continue
		}
		name := key[2]
		if seen[name] {
			continue
		}
		seen[name] = true

		raw, ok := payloads[name]
		if !ok {
			continue
		}
		p, err := raw.payload(name)
		if err != nil {
			return nil, err
		}
		out = append(out, NamedPayload{Name: name, Payload: p})
	}
	return out, nil
}
