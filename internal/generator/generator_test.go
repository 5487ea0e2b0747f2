package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/raster"
)

// brokenBackend looks usable but always fails, forcing the copy fallback.
type brokenBackend struct{}

func (brokenBackend) Name() string    { return "broken" }
func (brokenBackend) Available() bool { return true }
func (brokenBackend) Render(icon.Spec, []byte, string) error {
	return fmt.Errorf("render failed")
}

// absentBackend reports no capability at all.
type absentBackend struct{}

func (absentBackend) Name() string                          { return "absent" }
func (absentBackend) Available() bool                       { return false }
func (absentBackend) Render(icon.Spec, []byte, string) error { return fmt.Errorf("unreachable") }

func testConfig(t *testing.T, sizes ...int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Sizes = sizes
	cfg.OutDir = filepath.Join(t.TempDir(), "icons")
	return cfg
}

func TestRunWithoutBackends(t *testing.T) {
	cfg := testConfig(t, 16)
	var out bytes.Buffer
	gen := New(cfg, raster.NewPipeline(absentBackend{}, brokenBackend{}), &out)

	res, err := gen.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Converted {
		t.Error("Converted = true with no working backend")
	}

	svgPath := filepath.Join(cfg.OutDir, "icon16.svg")
	pngPath := filepath.Join(cfg.OutDir, "icon16.png")

	svgData, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("SVG missing: %v", err)
	}
	pngData, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatalf("PNG-named file missing: %v", err)
	}
	if !bytes.Equal(svgData, pngData) {
		t.Error("fallback .png is not byte-identical to the .svg")
	}

	console := out.String()
	for _, want := range []string{
		"Created " + svgPath,
		"Copied SVG to " + pngPath + " (install rsvg-convert or inkscape for PNG conversion)",
		"✅ Icon generation complete!",
		"💡 Tip:",
	} {
		if !strings.Contains(console, want) {
			t.Errorf("console output missing %q\ngot:\n%s", want, console)
		}
	}
}

func TestRunWithWorkingBackend(t *testing.T) {
	cfg := testConfig(t, 16, 48, 128)
	var out bytes.Buffer
	gen := New(cfg, raster.NewPipeline(raster.NewNative()), &out)

	res, err := gen.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converted {
		t.Fatal("Converted = false with the native backend present")
	}

	for _, size := range cfg.Sizes {
		pngPath := filepath.Join(cfg.OutDir, fmt.Sprintf("icon%d.png", size))
		f, err := os.Open(pngPath)
		if err != nil {
			t.Fatalf("missing %s: %v", pngPath, err)
		}
		pc, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s is not a valid PNG: %v", pngPath, err)
		}
		if pc.Width != size || pc.Height != size {
			t.Errorf("%s is %dx%d, want %dx%d", pngPath, pc.Width, pc.Height, size, size)
		}
		if !strings.Contains(out.String(), "Created "+pngPath) {
			t.Errorf("console output missing Created line for %s", pngPath)
		}
	}

	console := out.String()
	if strings.Contains(console, "Copied SVG") {
		t.Error("copy fallback used despite a working backend")
	}
	if strings.Contains(console, "💡 Tip:") {
		t.Error("installation tip printed despite a successful conversion")
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := testConfig(t, 16, 48)
	gen := New(cfg, raster.NewPipeline(raster.NewNative()), new(bytes.Buffer))

	if _, err := gen.Run(); err != nil {
		t.Fatal(err)
	}
	first := listDir(t, cfg.OutDir)

	if _, err := gen.Run(); err != nil {
		t.Fatal(err)
	}
	second := listDir(t, cfg.OutDir)

	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("file set changed across runs: %v vs %v", first, second)
	}
	want := []string{"icon16.png", "icon16.svg", "icon48.png", "icon48.svg"}
	if strings.Join(first, ",") != strings.Join(want, ",") {
		t.Errorf("file set = %v, want %v", first, want)
	}
}

func TestRunWritesICOAndManifest(t *testing.T) {
	cfg := testConfig(t, 16)
	cfg.WriteICO = true
	cfg.WriteManifest = true
	gen := New(cfg, raster.NewPipeline(raster.NewNative()), new(bytes.Buffer))

	res, err := gen.Run()
	if err != nil {
		t.Fatal(err)
	}

	icoData, err := os.ReadFile(filepath.Join(cfg.OutDir, "favicon.ico"))
	if err != nil {
		t.Fatalf("favicon.ico missing: %v", err)
	}
	if len(icoData) < 4 || !bytes.Equal(icoData[:4], []byte{0, 0, 1, 0}) {
		t.Error("favicon.ico does not start with the ICO magic")
	}

	manifestData, err := os.ReadFile(filepath.Join(cfg.OutDir, "manifest.json"))
	if err != nil {
		t.Fatalf("manifest.json missing: %v", err)
	}
	var assets []Asset
	if err := json.Unmarshal(manifestData, &assets); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	// svg + png + ico; the manifest never lists itself.
	if len(assets) != 3 {
		t.Errorf("manifest lists %d assets, want 3", len(assets))
	}

	if gen.Latest() != res {
		t.Error("Latest() does not return the last run result")
	}
}

func TestRunRecordsAssets(t *testing.T) {
	cfg := testConfig(t, 16)
	gen := New(cfg, raster.NewPipeline(brokenBackend{}), new(bytes.Buffer))

	res, err := gen.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(res.Assets))
	}
	svgAsset, pngAsset := res.Assets[0], res.Assets[1]
	if svgAsset.Kind != "svg" || pngAsset.Kind != "png" {
		t.Errorf("asset kinds = %q, %q", svgAsset.Kind, pngAsset.Kind)
	}
	if pngAsset.Backend != "copy" {
		t.Errorf("fallback asset backend = %q, want %q", pngAsset.Backend, "copy")
	}
	if svgAsset.SHA256 != pngAsset.SHA256 {
		t.Error("copied asset should hash identically to its SVG")
	}
	if svgAsset.Bytes == 0 {
		t.Error("asset byte size not recorded")
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
