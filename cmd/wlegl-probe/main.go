package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wlegl"
	"github.com/wippyai/wlegl/gralloc"
	"github.com/wippyai/wlegl/hardware"
)

func main() {
	var (
		libPath     = flag.String("lib", hardware.DefaultLibraryPath, "Path to libhardware")
		moduleID    = flag.String("module", hardware.GrallocModuleID, "Hardware module id")
		width       = flag.Int("width", 64, "Buffer width in pixels")
		height      = flag.Int("height", 64, "Buffer height in pixels")
		formatStr   = flag.String("format", "RGBA_8888", "Pixel format name or number")
		usageStr    = flag.String("usage", "0x100", "Gralloc usage flags")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	format, err := gralloc.ParseFormat(*formatStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	usage, err := strconv.ParseInt(*usageStr, 0, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid usage %q\n", *usageStr)
		os.Exit(2)
	}
	w, err := dimension("width", *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	h, err := dimension("height", *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := zap.NewNop()
	if *verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer log.Sync()
	wlegl.SetLogger(log)

	opts := probeOptions{
		loader: hardware.NewLoader(*libPath, *moduleID, nil),
		width:  w,
		height: h,
		format: format,
		usage:  gralloc.Usage(usage),
		log:    log,
	}

	if *interactive {
		if !stdinIsTerminal() {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts probeOptions) error {
	p, err := newProbe(opts)
	if err != nil {
		return fmt.Errorf("create bridge: %w", err)
	}
	defer p.Close()

	fmt.Printf("Library: %s\n", opts.loader.Path())
	fmt.Printf("Module:  %s\n", p.ModuleInfo())
	fmt.Printf("Buffer:  %dx%d %s usage %s\n\n", opts.width, opts.height, opts.format, opts.usage)

	var failed int
	for _, s := range p.Steps() {
		out, err := s.run()
		if err != nil {
			failed++
			fmt.Printf("  FAIL %-14s %v\n", s.name, err)
			continue
		}
		fmt.Printf("  ok   %-14s %s\n", s.name, out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(p.Steps()))
	}
	return nil
}

// dimension narrows a buffer dimension flag to the allocator's int32.
func dimension(name string, v int) (int32, error) {
	if v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s %d out of range", name, v)
	}
	return int32(v), nil
}
