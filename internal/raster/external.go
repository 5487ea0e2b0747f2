package raster

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"iconforge/internal/icon"
)

// Converter binaries probed for, in preference order.
var externalTools = []string{"rsvg-convert", "inkscape"}

// External shells out to an installed SVG converter. The SVG is written to a
// scoped temporary file which is removed after the conversion, success or
// failure. An absent binary is a capability gap, not a fault.
type External struct {
	tool string
}

// NewExternal probes PATH for a known converter and returns the backend.
func NewExternal() *External {
	for _, name := range externalTools {
		if path, err := exec.LookPath(name); err == nil {
			return &External{tool: path}
		}
	}
	return &External{}
}

func (e *External) Name() string {
	if e.tool == "" {
		return "external"
	}
	return e.tool
}

func (e *External) Available() bool { return e.tool != "" }

func (e *External) Render(spec icon.Spec, svg []byte, outPath string) error {
	if e.tool == "" {
		return fmt.Errorf("no external SVG converter installed")
	}

	tmp, err := os.CreateTemp("", "iconforge-*.svg")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(svg); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	size := strconv.Itoa(spec.Size)
	var cmd *exec.Cmd
	switch {
	case strings.Contains(e.tool, "inkscape"):
		cmd = exec.Command(e.tool,
			"--export-type", "png",
			"--export-filename", outPath,
			"-w", size, "-h", size,
			tmp.Name())
	default:
		cmd = exec.Command(e.tool, "-w", size, "-h", size, "-o", outPath, tmp.Name())
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", e.tool, err, stderr.String())
	}
	return nil
}
