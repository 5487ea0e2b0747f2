// Package raster converts the generated SVG documents into PNG files.
//
// Conversion runs through an ordered list of backends. Each backend reports
// whether it can run at all (Available) and may still fail on a given
// document; the pipeline tries the next one until the list is exhausted.
// An exhausted pipeline is a capability gap, not an error — the caller is
// expected to fall back to copying the SVG bytes.
package raster

import "iconforge/internal/icon"

// Backend is a single SVG→PNG conversion strategy.
type Backend interface {
	// Name identifies the backend in console output and reports.
	Name() string
	// Available reports whether the backend can run in this environment.
	Available() bool
	// Render writes a spec.Size × spec.Size PNG for the SVG document to outPath.
	Render(spec icon.Spec, svg []byte, outPath string) error
}

// Pipeline tries a fixed, ordered list of backends.
type Pipeline struct {
	backends []Backend
}

// NewPipeline builds a pipeline over the given backends, tried in order.
func NewPipeline(backends ...Backend) *Pipeline {
	return &Pipeline{backends: backends}
}

// Default returns the standard pipeline: the in-process renderer first, then
// whatever external converter is installed.
func Default() *Pipeline {
	return NewPipeline(NewNative(), NewExternal())
}

// Rasterize runs the backends in order until one produces outPath. It returns
// the name of the backend that succeeded, or ok=false when every backend was
// unavailable or failed.
func (p *Pipeline) Rasterize(spec icon.Spec, svg []byte, outPath string) (backend string, ok bool) {
	for _, b := range p.backends {
		if !b.Available() {
			continue
		}
		if err := b.Render(spec, svg, outPath); err != nil {
			continue
		}
		return b.Name(), true
	}
	return "", false
}
