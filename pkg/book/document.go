package book

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dgramop/openpid-docgen/pkg/diagram"
	"github.com/dgramop/openpid-docgen/pkg/specparse"
)

// Document generates the full mdbook source tree for a spec under
// outDir and invokes the external site builder on it. Any rendering or
// filesystem failure aborts the run.
func Document(pid *specparse.OpenPID, outDir string, r diagram.Renderer, sb SiteBuilder, log zerolog.Logger) error {
	srcDir := filepath.Join(outDir, "src")
	for _, dir := range []string{
		filepath.Join(srcDir, "payloads", "tx"),
		filepath.Join(srcDir, "payloads", "rx"),
		filepath.Join(srcDir, "protocol"),
		filepath.Join(srcDir, "structs"),
		filepath.Join(srcDir, "transactions"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	b := &Book{SrcDir: srcDir, Renderer: r, Log: log}

	txPages, txLinks, err := b.documentDirection(pid.Payloads.Tx, specparse.DirectionTx)
	if err != nil {
		return err
	}
	rxPages, rxLinks, err := b.documentDirection(pid.Payloads.Rx, specparse.DirectionRx)
	if err != nil {
		return err
	}

	pages := []struct {
		rel     string
		content string
	}{
		{"SUMMARY.md", summaryPage(txLinks, rxLinks)},
		{"about.md", aboutPage(pid)},
		{filepath.Join("payloads", "tx.md"), txIndexPage(pid.DeviceInfo.Name, txPages)},
		{filepath.Join("payloads", "rx.md"), rxIndexPage(pid.DeviceInfo.Name, rxPages)},
		{filepath.Join("structs", "index.md"), structIndexPage(pid)},
	}
	for _, page := range pages {
		path := filepath.Join(srcDir, page.rel)
		if err := os.WriteFile(path, []byte(page.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", page.rel, err)
		}
	}

	if err := writeBookConfig(pid, outDir); err != nil {
		return err
	}

	log.Info().Str("dir", outDir).Msg("building site")
	if err := sb.Build(outDir); err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	return nil
}

// documentDirection documents every payload of one direction in stored
// order, returning the concatenated fragments and the TOC link lines.
func (b *Book) documentDirection(payloads specparse.PayloadMap, dir specparse.Direction) (pages, links string, err error) {
	var frags, toc strings.Builder
	for _, np := range payloads {
		b.Log.Debug().Str("payload", np.Name).Stringer("direction", dir).Msg("documenting payload")

		frag, err := b.DocumentPayload(&np.Payload, np.Name, dir)
		if err != nil {
			return "", "", err
		}
		frags.WriteString(frag)
		fmt.Fprintf(&toc, "\t- [%s](payloads/%s.md#%s)\n", np.Name, dir, anchor(np.Name))
	}
	return frags.String(), toc.String(), nil
}

func summaryPage(txLinks, rxLinks string) string {
	var b strings.Builder
	b.WriteString("# Contents\n")
	b.WriteString("[Sending Packets](index.md)\n\n")

	b.WriteString("# Packet Format\n")
	b.WriteString("- [Sent Packets](protocol/tx.md)\n")
	b.WriteString("- [Received Packets](protocol/rx.md)\n\n")

	b.WriteString("# Payloads\n")
	b.WriteString("- [Common Payload Structs](structs/index.md)\n")
	b.WriteString("- [To Device](payloads/tx.md)\n")
	b.WriteString(txLinks)
	b.WriteString("- [From Device](payloads/rx.md)\n")
	b.WriteString(rxLinks)
	b.WriteString("\n")

	b.WriteString("# Transactions\n")
	b.WriteString("[What is a transaction?]()\n\n")

	b.WriteString("----------\n")
	b.WriteString("[About this Document](about.md)\n")
	return b.String()
}

// aboutPage carries the spec's declared version strings verbatim. No
// timestamps: regenerating from an unchanged spec must produce an
// identical tree.
func aboutPage(pid *specparse.OpenPID) string {
	var b strings.Builder
	b.WriteString("# About this Document\n\n")
	b.WriteString("This document was generated by [OpenPID DocGen](https://github.com/dgramop/openpid-docgen).\n\n")
	fmt.Fprintf(&b, "The spec it was generated from was written in OpenPID format version %q.\n\n", pid.OpenPIDVersion)
	fmt.Fprintf(&b, "The spec's own document version was %q.\n", pid.DocVersion)
	return b.String()
}

func txIndexPage(deviceName, pages string) string {
	var b strings.Builder
	b.WriteString("# Sendable Payloads\n")
	b.WriteString("A payload is encapsulated by the packet format before it is sent.\n\n")
	fmt.Fprintf(&b, "Sendable payloads travel from your controller to %s.\n\n", deviceName)
	b.WriteString(pages)
	return b.String()
}

func rxIndexPage(deviceName, pages string) string {
	var b strings.Builder
	b.WriteString("# Receivable Payloads\n")
	b.WriteString("A payload is encapsulated by the packet format before it arrives at your controller.\n\n")
	fmt.Fprintf(&b, "Receivable payloads travel from %s to your controller.\n\n", deviceName)
	b.WriteString(pages)
	return b.String()
}

// structIndexPage lists every reusable struct referenced by a payload
// segment and the payloads that reference it, in first-reference
// order. Struct definitions themselves are not resolved.
func structIndexPage(pid *specparse.OpenPID) string {
	var b strings.Builder
	b.WriteString("# Common Payload Structs\n")
	b.WriteString("Reusable structs referenced by payload segments.\n\n")

	usages := collectStructRefs(pid)
	if len(usages) == 0 {
		b.WriteString("No payload references a reusable struct.\n")
		return b.String()
	}

	for _, u := range usages {
		fmt.Fprintf(&b, "## %s\n", u.Name)
		links := make([]string, len(u.Payloads))
		for i, ref := range u.Payloads {
			links[i] = fmt.Sprintf("[%s](../payloads/%s.md#%s)", ref.Payload, ref.Direction, anchor(ref.Payload))
		}
		fmt.Fprintf(&b, "Referenced by: %s\n\n", strings.Join(links, ", "))
	}
	return b.String()
}

type payloadRef struct {
	Payload   string
	Direction specparse.Direction
}

type structUsage struct {
	Name     string
	Payloads []payloadRef
}

func collectStructRefs(pid *specparse.OpenPID) []structUsage {
	var usages []structUsage
	index := make(map[string]int)

	collect := func(payloads specparse.PayloadMap, dir specparse.Direction) {
		for _, np := range payloads {
			for _, seg := range np.Payload.Segments {
				ref, ok := seg.(specparse.StructRef)
				if !ok {
					continue
				}
				i, seen := index[ref.StructName]
				if !seen {
					i = len(usages)
					index[ref.StructName] = i
					usages = append(usages, structUsage{Name: ref.StructName})
				}
				usages[i].Payloads = append(usages[i].Payloads, payloadRef{Payload: np.Name, Direction: dir})
			}
		}
	}
	collect(pid.Payloads.Tx, specparse.DirectionTx)
	collect(pid.Payloads.Rx, specparse.DirectionRx)
	return usages
}
