// Package generator runs the asset build: one SVG and one PNG-named file per
// configured size, plus the optional favicon and manifest.
package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	ico "github.com/sergeymakinen/go-ico"
	xdraw "golang.org/x/image/draw"

	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/raster"
)

// Installation hint shown when every rasterization backend came up empty.
const installHint = "install rsvg-convert or inkscape for PNG conversion"

// Sizes embedded in the favicon when WriteICO is set.
var icoSizes = []int{16, 32, 48}

// Asset describes one file produced by a run.
type Asset struct {
	Path    string `json:"path"`
	Size    int    `json:"size,omitempty"`
	Kind    string `json:"kind"` // "svg", "png", "ico", "manifest"
	Backend string `json:"backend,omitempty"`
	Bytes   int64  `json:"bytes"`
	SHA256  string `json:"sha256"`
}

// Result is the outcome of one full run.
type Result struct {
	Assets      []Asset   `json:"assets"`
	Converted   bool      `json:"converted"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator builds the icon set described by its config.
type Generator struct {
	cfg      *config.Config
	pipeline *raster.Pipeline
	native   *raster.Native
	out      io.Writer

	mu     sync.Mutex
	latest *Result
}

// New returns a generator writing console output to out (stdout when nil).
func New(cfg *config.Config, pipeline *raster.Pipeline, out io.Writer) *Generator {
	if pipeline == nil {
		pipeline = raster.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Generator{
		cfg:      cfg,
		pipeline: pipeline,
		native:   raster.NewNative(),
		out:      out,
	}
}

// Latest returns the result of the most recent run, or nil before the first.
func (g *Generator) Latest() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest
}

// Run generates every configured size into the output directory, overwriting
// whatever is already there. Rasterization failures degrade to copying the
// SVG bytes under the .png name; only filesystem faults abort the run.
func (g *Generator) Run() (*Result, error) {
	if err := os.MkdirAll(g.cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	res := &Result{GeneratedAt: time.Now()}
	for _, size := range g.cfg.Sizes {
		spec := g.cfg.IconSpec(size)
		svg := icon.Render(spec)

		svgPath := filepath.Join(g.cfg.OutDir, fmt.Sprintf("icon%d.svg", size))
		pngPath := filepath.Join(g.cfg.OutDir, fmt.Sprintf("icon%d.png", size))

		if err := os.WriteFile(svgPath, svg, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", svgPath, err)
		}
		fmt.Fprintf(g.out, "Created %s\n", svgPath)
		res.Assets = append(res.Assets, newAsset(svgPath, size, "svg", "", svg))

		if backend, ok := g.pipeline.Rasterize(spec, svg, pngPath); ok {
			data, err := os.ReadFile(pngPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read back %s: %w", pngPath, err)
			}
			fmt.Fprintf(g.out, "Created %s\n", pngPath)
			res.Assets = append(res.Assets, newAsset(pngPath, size, "png", backend, data))
			res.Converted = true
		} else {
			if err := os.WriteFile(pngPath, svg, 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", pngPath, err)
			}
			fmt.Fprintf(g.out, "Copied SVG to %s (%s)\n", pngPath, installHint)
			res.Assets = append(res.Assets, newAsset(pngPath, size, "png", "copy", svg))
		}
	}

	if g.cfg.WriteICO {
		if err := g.writeICO(res); err != nil {
			// The favicon is a bonus artifact; a render failure should not
			// sink the run that already produced the extension icons.
			fmt.Fprintf(g.out, "Skipped favicon.ico: %v\n", err)
		}
	}
	if g.cfg.WriteManifest {
		if err := g.writeManifest(res); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(g.out, "\n✅ Icon generation complete!\n")
	if !res.Converted {
		fmt.Fprintf(g.out, "💡 Tip: install rsvg-convert for proper PNG icons:\n")
		fmt.Fprintf(g.out, "   sudo apt install librsvg2-bin\n")
	}

	g.mu.Lock()
	g.latest = res
	g.mu.Unlock()
	return res, nil
}

// writeICO renders a 128px master in-process and downscales it to the
// favicon entry sizes.
func (g *Generator) writeICO(res *Result) error {
	master := g.cfg.IconSpec(128)
	src, err := g.native.RenderImage(master, icon.Render(master))
	if err != nil {
		return err
	}

	var entries []image.Image
	for _, size := range icoSizes {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Over, nil)
		entries = append(entries, dst)
	}

	icoPath := filepath.Join(g.cfg.OutDir, "favicon.ico")
	f, err := os.Create(icoPath)
	if err != nil {
		return err
	}
	if err := ico.EncodeAll(f, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	data, err := os.ReadFile(icoPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "Created %s\n", icoPath)
	res.Assets = append(res.Assets, newAsset(icoPath, 0, "ico", g.native.Name(), data))
	return nil
}

// writeManifest records the run's assets as JSON next to them. The manifest
// lists every other asset but not itself.
func (g *Generator) writeManifest(res *Result) error {
	manifestPath := filepath.Join(g.cfg.OutDir, "manifest.json")
	data, err := json.MarshalIndent(res.Assets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}
	fmt.Fprintf(g.out, "Created %s\n", manifestPath)
	res.Assets = append(res.Assets, newAsset(manifestPath, 0, "manifest", "", data))
	return nil
}

func newAsset(path string, size int, kind, backend string, data []byte) Asset {
	sum := sha256.Sum256(data)
	return Asset{
		Path:    path,
		Size:    size,
		Kind:    kind,
		Backend: backend,
		Bytes:   int64(len(data)),
		SHA256:  hex.EncodeToString(sum[:]),
	}
}
