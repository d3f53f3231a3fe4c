// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"slices"

	"github.com/ik5/soundbox/hw"
)

// Clip is a converted recording bound to a button.
type Clip[S hw.Sample] struct {
	Button int
	// Name is the Go identifier suffix, typically the file's base name.
	Name string
	// Source is recorded in the doc comment.
	Source string
	Data   []S
}

// perLine is the number of levels per line in generated arrays.
const perLine = 12

// WriteGo writes a Go source file declaring one array per clip and a Clips map from
// button index to clip. The result is gofmt-formatted.
func WriteGo[S hw.Sample](w io.Writer, pkg string, f Format, clips []Clip[S]) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("%w: %q", ErrPackage, pkg)
	}

	typ := "uint8"
	if width[S]() == 2 {
		typ = "uint16"
	}

	sorted := slices.Clone(clips)
	slices.SortFunc(sorted, func(a, b Clip[S]) int { return a.Button - b.Button })

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by convert-sounds. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// Rate is the sample rate of every clip.\nconst Rate = %d\n\n", f.Rate)
	fmt.Fprintf(&b, "// Top is the duty-cycle wrap the levels were scaled to.\nconst Top = %d\n\n", f.Top)

	for _, c := range sorted {
		name := "Sound" + ident(c.Name)
		fmt.Fprintf(&b, "// %s is button %d, converted from %s (%d samples).\n", name, c.Button, c.Source, len(c.Data))
		fmt.Fprintf(&b, "var %s = [...]%s{\n", name, typ)
		for i, v := range c.Data {
			if i%perLine == 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "0x%04x,", uint16(v))
			if i%perLine == perLine-1 || i == len(c.Data)-1 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString("}\n\n")
	}

	fmt.Fprintf(&b, "// Clips maps button index to clip.\nvar Clips = map[int][]%s{\n", typ)
	for _, c := range sorted {
		fmt.Fprintf(&b, "\t%d: Sound%s[:],\n", c.Button, ident(c.Name))
	}
	b.WriteString("}\n")

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}

	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("write generated source: %w", err)
	}

	return nil
}

// ident turns a file base name such as "01" or "door-bell" into an exported identifier
// suffix.
func ident(name string) string {
	out := make([]byte, 0, len(name))
	upper := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			if upper {
				c -= 'a' - 'A'
			}
			upper = false
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			upper = false
		default:
			upper = true
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return "X"
	}

	return string(out)
}
