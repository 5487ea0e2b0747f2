package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	wantSizes := []int{16, 48, 128}
	if len(cfg.Sizes) != len(wantSizes) {
		t.Fatalf("Sizes = %v, want %v", cfg.Sizes, wantSizes)
	}
	for i, s := range wantSizes {
		if cfg.Sizes[i] != s {
			t.Errorf("Sizes[%d] = %d, want %d", i, cfg.Sizes[i], s)
		}
	}
	if cfg.Mark != "TH" {
		t.Errorf("Mark = %q, want TH", cfg.Mark)
	}
	if cfg.Background != "#5B4FE8" {
		t.Errorf("Background = %q, want #5B4FE8", cfg.Background)
	}
	if cfg.OutDir != "icons" {
		t.Errorf("OutDir = %q, want icons", cfg.OutDir)
	}
	if cfg.API.Enabled {
		t.Error("API should be disabled by default")
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mark != "TH" {
		t.Errorf("Mark = %q, want TH", cfg.Mark)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults were not written back: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default()
	cfg.Mark = "QQ"
	cfg.Sizes = []int{32}
	cfg.OutDir = "assets"
	cfg.API.Enabled = true
	cfg.API.Addr = ":9999"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Mark != "QQ" || loaded.OutDir != "assets" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if len(loaded.Sizes) != 1 || loaded.Sizes[0] != 32 {
		t.Errorf("Sizes = %v, want [32]", loaded.Sizes)
	}
	if !loaded.API.Enabled || loaded.API.Addr != ":9999" {
		t.Errorf("API = %+v", loaded.API)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"mark": "ZZ"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mark != "ZZ" {
		t.Errorf("Mark = %q, want ZZ", cfg.Mark)
	}
	if len(cfg.Sizes) != 3 {
		t.Errorf("Sizes not defaulted: %v", cfg.Sizes)
	}
	if cfg.Background != "#5B4FE8" {
		t.Errorf("Background not defaulted: %q", cfg.Background)
	}
}

func TestLoadZeroCornerRadius(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"corner_radius": 0}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CornerRadius == nil || *cfg.CornerRadius != 0 {
		t.Fatalf("CornerRadius = %v, want explicit 0", cfg.CornerRadius)
	}
	if got := cfg.IconSpec(16).Radius; got != 0 {
		t.Errorf("IconSpec radius = %d, want 0 (square corners)", got)
	}
}

func TestLoadFiltersNonPositiveSizes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{"mixed", `{"sizes": [0, -3, 16]}`, []int{16}},
		{"all invalid falls back to defaults", `{"sizes": [0, -1]}`, []int{16, 48, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if len(cfg.Sizes) != len(tt.want) {
				t.Fatalf("Sizes = %v, want %v", cfg.Sizes, tt.want)
			}
			for i, s := range tt.want {
				if cfg.Sizes[i] != s {
					t.Errorf("Sizes[%d] = %d, want %d", i, cfg.Sizes[i], s)
				}
			}
		})
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt config")
	}
}

func TestIconSpec(t *testing.T) {
	cfg := Default()
	cfg.Mark = "AB"
	spec := cfg.IconSpec(48)
	if spec.Size != 48 || spec.Mark != "AB" || spec.Background != "#5B4FE8" {
		t.Errorf("IconSpec = %+v", spec)
	}
}
