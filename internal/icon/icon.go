// Package icon builds the placeholder SVG documents for the extension icons.
package icon

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
)

// Tab Hoarder brand defaults.
const (
	DefaultMark       = "TH"
	DefaultBackground = "#5B4FE8"
	DefaultTextFill   = "white"
	DefaultRadius     = 8
)

// Spec describes a single square icon. Size is the pixel edge length;
// the wordmark font size is always half the edge.
type Spec struct {
	Size       int
	Mark       string
	Background string
	TextFill   string
	Radius     int
}

// NewSpec returns a Spec for the given size with the brand defaults filled in.
func NewSpec(size int) Spec {
	return Spec{
		Size:       size,
		Mark:       DefaultMark,
		Background: DefaultBackground,
		TextFill:   DefaultTextFill,
		Radius:     DefaultRadius,
	}
}

// FontSize returns the wordmark font size for the spec (50% of the edge).
func (s Spec) FontSize() int {
	return s.Size / 2
}

// Render produces the SVG document for the spec: a rounded rectangle of the
// background color covering the full canvas, with the wordmark centered in
// bold over it. Pure string building, no error conditions.
func Render(s Spec) []byte {
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(s.Size, s.Size)
	canvas.Roundrect(0, 0, s.Size, s.Size, s.Radius, s.Radius, fmt.Sprintf(`fill="%s"`, s.Background))
	canvas.Text(s.Size/2, s.Size/2, s.Mark,
		fmt.Sprintf("font-family:Arial,sans-serif;font-weight:bold;font-size:%dpx;fill:%s;text-anchor:middle;dominant-baseline:central",
			s.FontSize(), s.TextFill))
	canvas.End()
	return buf.Bytes()
}
