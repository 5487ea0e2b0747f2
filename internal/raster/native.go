package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"iconforge/internal/icon"
)

var (
	markFontOnce sync.Once
	markFont     *opentype.Font
	markFontErr  error
)

func loadMarkFont() (*opentype.Font, error) {
	markFontOnce.Do(func() {
		markFont, markFontErr = opentype.Parse(gobold.TTF)
	})
	return markFont, markFontErr
}

// Native renders SVG documents in-process with oksvg/rasterx. The shape
// renderer skips <text> elements, so the wordmark is drawn over the raster
// with an embedded bold face afterwards.
type Native struct{}

// NewNative returns the in-process backend.
func NewNative() *Native { return &Native{} }

func (n *Native) Name() string { return "native" }

// Available is always true: the renderer is compiled in.
func (n *Native) Available() bool { return true }

func (n *Native) Render(spec icon.Spec, svg []byte, outPath string) error {
	img, err := n.RenderImage(spec, svg)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// RenderImage rasterizes the SVG to an in-memory RGBA image. It is also used
// directly by the ICO writer, which needs the pixels rather than a PNG file.
func (n *Native) RenderImage(spec icon.Spec, svg []byte) (*image.RGBA, error) {
	ic, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	size := spec.Size
	ic.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	dasher := rasterx.NewDasher(size, size, rasterx.NewScannerGV(size, size, rgba, rgba.Bounds()))
	ic.Draw(dasher, 1.0)

	if err := drawMark(rgba, spec); err != nil {
		return nil, err
	}
	return rgba, nil
}

// drawMark centers the wordmark on the rasterized background.
func drawMark(dst *image.RGBA, spec icon.Spec) error {
	if spec.Mark == "" {
		return nil
	}
	fnt, err := loadMarkFont()
	if err != nil {
		return fmt.Errorf("failed to load wordmark font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(spec.FontSize()),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to build wordmark face: %w", err)
	}
	defer face.Close()

	fill, err := icon.ParseColor(spec.TextFill)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
	}
	adv := d.MeasureString(spec.Mark)
	metrics := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: (fixed.I(spec.Size) - adv) / 2,
		Y: fixed.I(spec.Size)/2 + (metrics.Ascent-metrics.Descent)/2,
	}
	d.DrawString(spec.Mark)
	return nil
}
