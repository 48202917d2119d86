package specparse

import (
	"testing"
)

const sampleYAML = `
openpid_version: "0.1"
doc_version: "1.2.0"
device_info:
  name: GPS Receiver
  description: A UART GPS module
payloads:
  tx:
    Ping:
      description: Liveness check
      metadata:
        opcode: 1
      segments:
        - type: sized
          name: opcode
          bits: 8
          datatype: u8
        - type: sized
          name: seq
          bits: 16
          datatype: u16
          description: sequence number
    SetRate:
      description: Set the fix rate
      segments:
        - type: struct
          name: rate
          struct: FixRate
  rx:
    Ack:
      description: Command acknowledged
      segments:
        - type: unsized
          name: ident
          datatype: utf8
          termination: null terminated
`

func TestParseSpecYAML_Root(t *testing.T) {
	pid, err := ParseSpecYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseSpecYAML failed: %v", err)
	}

	if pid.OpenPIDVersion != "0.1" {
		t.Errorf("openpid_version = %q, want 0.1", pid.OpenPIDVersion)
	}
	if pid.DeviceInfo.Name != "GPS Receiver" {
		t.Errorf("device name = %q, want GPS Receiver", pid.DeviceInfo.Name)
	}
	if len(pid.Payloads.Tx) != 2 || len(pid.Payloads.Rx) != 1 {
		t.Fatalf("tx/rx = %d/%d, want 2/1", len(pid.Payloads.Tx), len(pid.Payloads.Rx))
	}
}

func TestParseSpecYAML_PreservesPayloadOrder(t *testing.T) {
	pid, err := ParseSpecYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseSpecYAML failed: %v", err)
	}

	if pid.Payloads.Tx[0].Name != "Ping" || pid.Payloads.Tx[1].Name != "SetRate" {
		t.Errorf("tx order = [%s, %s], want [Ping, SetRate]",
			pid.Payloads.Tx[0].Name, pid.Payloads.Tx[1].Name)
	}
}

func TestParseSpecYAML_Segments(t *testing.T) {
	pid, err := ParseSpecYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseSpecYAML failed: %v", err)
	}

	ack, ok := pid.Payloads.Rx.Get("Ack")
	if !ok {
		t.Fatal("rx Ack not found")
	}
	ident, ok := ack.Segments[0].(Unsized)
	if !ok {
		t.Fatalf("segment 0 is %T, want Unsized", ack.Segments[0])
	}
	if ident.Termination != "null terminated" {
		t.Errorf("termination = %q, want null terminated", ident.Termination)
	}
}

func TestParseSpecYAML_NoPayloads(t *testing.T) {
	spec := `
device_info:
  name: Bare Device
`
	pid, err := ParseSpecYAML([]byte(spec))
	if err != nil {
		t.Fatalf("ParseSpecYAML failed: %v", err)
	}
	if len(pid.Payloads.Tx) != 0 || len(pid.Payloads.Rx) != 0 {
		t.Errorf("expected empty payload sets, got %d/%d", len(pid.Payloads.Tx), len(pid.Payloads.Rx))
	}
}

func TestParseSpecYAML_MissingSegmentName(t *testing.T) {
	spec := `
device_info:
  name: X
payloads:
  tx:
    Bad:
      segments:
        - type: sized
          bits: 8
          datatype: u8
`
	if _, err := ParseSpecYAML([]byte(spec)); err == nil {
		t.Fatal("expected error for segment without a name")
	}
}
