package diagram

import (
	"fmt"
	"os/exec"
	"strings"
)

// Renderer turns a diagram description into an image file. The
// external d2 process is the production implementation; tests swap in
// a capturing fake.
type Renderer interface {
	Render(diagram, outPath string) error
}

// D2 renders diagrams by piping them to the d2 binary's stdin, with
// the output path as its argument.
type D2 struct {
	// Binary overrides the d2 executable name. Empty means "d2" from
	// PATH.
	Binary string
}

func (d D2) Render(diagram, outPath string) error {
	bin := d.Binary
	if bin == "" {
		bin = "d2"
	}

	cmd := exec.Command(bin, "-", outPath)
	cmd.Stdin = strings.NewReader(diagram)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rendering %s: %w (%s)", outPath, err, strings.TrimSpace(string(out)))
	}
	return nil
}
