// Command vgerdemo records and submits vger frames on an offscreen target.
//
// Usage:
//
//	vgerdemo [--config demo.yaml] [--backend noop|vulkan] [--frames N]
package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/spf13/pflag"

	"github.com/gogpu/vger"
	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		backend     string
		frames      int
		width       int
		height      int
		slots       int
		imagePath   string
		checkShader bool
		verbose     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pflag.StringVarP(&backend, "backend", "b", "noop", "GPU backend: noop or vulkan")
	pflag.IntVarP(&frames, "frames", "n", 10, "number of frames to render")
	pflag.IntVar(&width, "width", 800, "target width in pixels")
	pflag.IntVar(&height, "height", 600, "target height in pixels")
	pflag.IntVar(&slots, "slots", vger.DefaultSlots, "frame slots in rotation")
	pflag.StringVar(&imagePath, "image", "", "PNG image to upload into the atlas")
	pflag.BoolVar(&checkShader, "check-shader", false, "validate the WGSL shader and exit")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	vger.SetLogger(logger)

	if checkShader {
		if err := pipeline.Validate(); err != nil {
			slog.Error("shader validation failed", "err", err)
			return 1
		}
		slog.Info("shader ok", "bytes", len(pipeline.Source()))
		return 0
	}

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			slog.Error("load config", "err", err)
			return 1
		}
	}
	flags := pflag.CommandLine
	if flags.Changed("backend") || configPath == "" {
		cfg.Backend = backend
	}
	if flags.Changed("frames") || configPath == "" {
		cfg.Frames = frames
	}
	if flags.Changed("width") || configPath == "" {
		cfg.Width = width
	}
	if flags.Changed("height") || configPath == "" {
		cfg.Height = height
	}
	if flags.Changed("slots") || configPath == "" {
		cfg.Slots = slots
	}
	if flags.Changed("image") {
		cfg.Image = imagePath
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		return 2
	}

	if err := render(cfg); err != nil {
		slog.Error("render failed", "err", err)
		return 1
	}
	return 0
}

func render(cfg Config) error {
	g, err := openGPU(cfg.Backend)
	if err != nil {
		return err
	}
	defer g.close()

	format := gputypes.TextureFormatBGRA8Unorm
	r, err := vger.New(g.device, g.queue, append(cfg.Options(), vger.WithTargetFormat(format))...)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("close renderer", "err", err)
		}
	}()

	tgt, err := g.newTarget(cfg.Width, cfg.Height, format)
	if err != nil {
		return err
	}
	defer g.destroyTarget(tgt)

	img, err := loadImage(cfg.Image)
	if err != nil {
		return err
	}
	region, err := r.AddImage(img)
	if err != nil {
		return fmt.Errorf("add image: %w", err)
	}

	start := time.Now()
	for i := 0; i < cfg.Frames; i++ {
		err := r.Begin(float32(cfg.Width), float32(cfg.Height), float32(cfg.PixelRatio))
		if errors.Is(err, vger.ErrFrameInFlight) {
			slog.Warn("skipping frame", "frame", i, "err", err)
			continue
		}
		if err != nil {
			return err
		}
		drawFrame(r, cfg, region, float64(i))
		sub, err := r.Encode(vger.Target{View: tgt.view, Clear: vger.Hex("#1e1e28")})
		if err != nil {
			return err
		}
		slog.Debug("frame", "n", sub.Frame, "slot", sub.Slot, "prims", sub.Prims,
			"dropped", sub.Dropped, "placed", len(sub.Placed), "failed", len(sub.Failed))
	}
	if err := r.Wait(cfg.FrameTimeout); err != nil {
		return err
	}

	st := r.Stats()
	slog.Info("done",
		"frames", st.Frames,
		"submitted", st.Submitted,
		"prims", st.Prims,
		"dropped", st.Dropped,
		"atlas_utilization", fmt.Sprintf("%.2f%%", st.AtlasUtilization*100),
		"elapsed", time.Since(start).Round(time.Microsecond))
	return nil
}

// drawFrame records one animated frame across all layers.
func drawFrame(r *vger.Renderer, cfg Config, region atlas.RegionID, t float64) {
	w, h := float64(cfg.Width), float64(cfg.Height)
	center := vger.Pt(w/2, h/2)

	// Layer 0: background gradient and image tiles.
	bg := r.LinearGradient(vger.Pt(0, 0), vger.Pt(0, h), vger.Hex("#283048"), vger.Hex("#859398"))
	r.FillRect(vger.Pt(0, 0), vger.Pt(w, h), 0, bg)
	tiles := r.ImagePattern(region, vger.Pt(0, 0), 1, 0.6)
	r.FillRect(vger.Pt(20, 20), vger.Pt(220, 140), 12, tiles)

	// Layer 1: a ring of circles around the center.
	_ = r.SelectLayer(1)
	r.PushTransform(vger.Translate(center.X, center.Y))
	r.Rotate(t * 0.05)
	const n = 24
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / n
		c := vger.RGB(0.5+0.5*math.Cos(a), 0.5+0.5*math.Sin(a), 0.8)
		r.FillCircle(vger.Pt(math.Cos(a)*180, math.Sin(a)*180), 14, r.ColorPaint(c))
	}
	_ = r.PopTransform()

	// Layer 2: strokes.
	_ = r.SelectLayer(2)
	white := r.ColorPaint(vger.White)
	r.StrokeArc(center, 120, 6, t*0.1, math.Pi/3, white)
	r.StrokeRect(vger.Pt(w-220, 20), vger.Pt(w-20, 140), 10, 3, white)
	r.StrokeSegment(vger.Pt(20, h-20), vger.Pt(w-20, h-20), 2, white)
	r.StrokeBezier(vger.Pt(20, h-80), vger.Pt(w/2, h-200-40*math.Sin(t*0.2)), vger.Pt(w-20, h-80), 4,
		r.LinearGradient(vger.Pt(20, 0), vger.Pt(w-20, 0), vger.Hex("#ff5f6d"), vger.Hex("#ffc371")))

	// Layer 3: overlay.
	_ = r.SelectLayer(3)
	r.FillCircle(center, 40, r.ColorPaint(vger.RGBA(1, 1, 1, 0.25)))
}

// loadImage decodes path, or builds a checkerboard when path is empty.
func loadImage(path string) (image.Image, error) {
	if path == "" {
		return checkerboard(64, 8), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

func checkerboard(size, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 60, G: 60, B: 60, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
