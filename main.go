// Command iconforge generates the placeholder icon set for the Tab Hoarder
// browser extension: one SVG and one PNG per size, with an optional preview
// server over the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"iconforge/internal/api"
	"iconforge/internal/config"
	"iconforge/internal/exporter"
	"iconforge/internal/generator"
	"iconforge/internal/raster"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file path (default: iconforge_config.json beside the executable)")
		outDir     = flag.String("out", "", "output directory (overrides config)")
		mark       = flag.String("mark", "", "two-letter wordmark (overrides config)")
		sizes      = flag.String("sizes", "", "comma-separated pixel sizes, e.g. 16,48,128 (overrides config)")
		report     = flag.String("report", "", "write an asset report to this path (.csv, .json or .xlsx)")
		writeICO   = flag.Bool("ico", false, "also write favicon.ico")
		manifest   = flag.Bool("manifest", false, "also write manifest.json")
		serve      = flag.Bool("serve", false, "start the preview server after generating")
		addr       = flag.String("addr", "", "preview server address (overrides config)")
	)
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *mark != "" {
		cfg.Mark = *mark
	}
	if *sizes != "" {
		parsed, err := parseSizes(*sizes)
		if err != nil {
			log.Fatalf("invalid -sizes: %v", err)
		}
		cfg.Sizes = parsed
	}
	if *writeICO {
		cfg.WriteICO = true
	}
	if *manifest {
		cfg.WriteManifest = true
	}
	if *serve {
		cfg.API.Enabled = true
	}
	if *addr != "" {
		cfg.API.Addr = *addr
	}

	gen := generator.New(cfg, raster.Default(), os.Stdout)
	res, err := gen.Run()
	if err != nil {
		log.Fatal(err)
	}

	if *report != "" {
		if err := exporter.Export(res, *report); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		log.Printf("report written to %s", *report)
	}

	if cfg.API.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		srv := api.StartServer(ctx, gen, cfg)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("size must be positive, got %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return out, nil
}
