package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/disintegration/imaging"

	"github.com/uliss/scantailor/internal/config"
	"github.com/uliss/scantailor/internal/geom"
	"github.com/uliss/scantailor/internal/imageproc"
	"github.com/uliss/scantailor/internal/trace"
	"github.com/uliss/scantailor/internal/visual"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("linetrace %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		inPath    = flag.String("in", "", "input page image (png/jpeg/tiff)")
		outPath   = flag.String("out", "", "output JSON path (default stdout)")
		cfgPath   = flag.String("config", "", "YAML config file")
		debugDir  = flag.String("debug", "", "directory for intermediate debug images")
		chartPath = flag.String("chart", "", "render traced baselines as a chart PNG")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "linetrace - traces curved text-line baselines in a scanned page")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage: linetrace -in page.png [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Logging goes to stderr; stdout carries the JSON result.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *inPath, *outPath, *cfgPath, *debugDir, *chartPath); err != nil {
		log.Fatalf("linetrace: %v", err)
	}
}

func run(ctx context.Context, inPath, outPath, cfgPath, debugDir, chartPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if debugDir == "" {
		debugDir = cfg.Output.DebugDir
	}
	if chartPath == "" {
		chartPath = cfg.Output.Chart
	}

	src, err := imaging.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	gray := imageproc.ToGray(src)
	b := gray.Bounds()

	tracer := trace.New(cfg.Params())

	var sink *visual.DirSink
	if debugDir != "" {
		sink, err = visual.NewDirSink(debugDir)
		if err != nil {
			return err
		}
		tracer.Debug = sink
	}

	in := trace.Input{
		Image:      gray,
		DPI:        trace.Dpi{X: cfg.DPI.X, Y: cfg.DPI.Y},
		LeftBound:  geom.VerticalAt(0, b.Dy()),
		RightBound: geom.VerticalAt(float64(b.Dx()-1), b.Dy()),
	}

	res, err := tracer.Trace(ctx, in)
	if err != nil {
		return err
	}
	log.Printf("traced %d baselines in %s", len(res.Polylines), inPath)

	if sink != nil {
		if err := sink.Err(); err != nil {
			log.Printf("debug images: %v", err)
		}
	}

	if chartPath != "" && len(res.Polylines) > 0 {
		f, err := os.Create(chartPath)
		if err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		if err := visual.BaselineChart(res.Polylines, f); err != nil {
			f.Close()
			return fmt.Errorf("render chart: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
