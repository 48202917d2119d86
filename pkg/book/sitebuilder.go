package book

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dgramop/openpid-docgen/pkg/specparse"
)

// SiteBuilder turns a generated book directory into a browsable site.
type SiteBuilder interface {
	Build(bookDir string) error
}

// MdBook builds the site by running the mdbook binary on the book
// directory.
type MdBook struct {
	// Binary overrides the mdbook executable name. Empty means
	// "mdbook" from PATH.
	Binary string
}

func (m MdBook) Build(bookDir string) error {
	bin := m.Binary
	if bin == "" {
		bin = "mdbook"
	}

	cmd := exec.Command(bin, "build", bookDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mdbook build: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

type bookConfig struct {
	Book bookMeta `toml:"book"`
}

type bookMeta struct {
	Title       string   `toml:"title"`
	Authors     []string `toml:"authors"`
	Description string   `toml:"description"`
	Language    string   `toml:"language"`
	Src         string   `toml:"src"`
}

// writeBookConfig writes the book.toml mdbook reads its metadata from.
func writeBookConfig(pid *specparse.OpenPID, outDir string) error {
	cfg := bookConfig{
		Book: bookMeta{
			Title:       fmt.Sprintf("%s - Interface Guide", pid.DeviceInfo.Name),
			Authors:     []string{"OpenPID DocGen"},
			Description: fmt.Sprintf("Communication interface documentation for %s: %s", pid.DeviceInfo.Name, pid.DeviceInfo.Description),
			Language:    "en",
			Src:         "src",
		},
	}

	f, err := os.Create(filepath.Join(outDir, "book.toml"))
	if err != nil {
		return fmt.Errorf("creating book.toml: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing book.toml: %w", err)
	}
	return nil
}
