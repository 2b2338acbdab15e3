// pssmtool drives the cascaded shadow camera rig without a window: it prints
// split distributions, runs simulated frames and dumps per-split state.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pssm/internal/config"
	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/internal/engine/scene"
	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
	"github.com/Faultbox/midgard-pssm/internal/logger"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "splits":
		cmdSplits(args)
	case "run":
		cmdRun(args)
	case "dump":
		cmdDump(args)
	case "footprint":
		cmdFootprint(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pssmtool - cascaded shadow map camera rig utility

Usage:
  pssmtool [global options] <command> [options]

Global options:
  -config <file>        Config file (default: ./config.yaml or user config dir)
  -debug                Enable debug logging
  -splits N             Number of shadow splits (1-8)
  -resolution N         Shadow map resolution per split
  -pssm-distance D      Maximum shadowed view distance
  -stable=true|false    Snap shadow frusta to texels
  -fixed-film=true|false
                        Keep film sizes between cache resets

Commands:
  splits [-n N] [-near D] [-far D] [-factor F]   Print split boundaries
  run [-frames N] [-dt D] [-orbit]               Simulate frames through the rig
  dump [-format text|yaml]                       Print the state after one update
  footprint [-o file] [-size N] [-extent D]      Render split coverage of the ground
  config [path]                                  Write the default config as YAML

Examples:
  pssmtool splits -n 4 -far 1000 -factor 0.5
  pssmtool -splits 3 run -frames 600 -orbit
  pssmtool -stable=false dump -format yaml
  pssmtool footprint -o cascades.png -extent 400`)
}

// setup loads the configuration and initializes logging.
func setup() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

// newRig builds a rig whose cameras live under a fresh scene root.
func newRig(cfg *config.Config) (*shadow.Rig, *scene.Node) {
	root := scene.NewRoot("render")
	rig, err := shadow.NewRig(cfg.Shadows.NumSplits, shadow.ParentFunc(func(name string) shadow.CameraHandle {
		return root.AttachCamera(name)
	}))
	if err != nil {
		logger.Fatal("failed to create rig", zap.Error(err))
	}
	rig.Configure(cfg.RigOptions())
	return rig, root
}

func cmdSplits(args []string) {
	fs := flag.NewFlagSet("splits", flag.ExitOnError)
	n := fs.Int("n", 5, "Number of splits")
	near := fs.Float64("near", 0.1, "Camera near plane")
	far := fs.Float64("far", 2048, "Camera far plane")
	maxDist := fs.Float64("max", 0, "Maximum shadow distance (0 = far)")
	factor := fs.Float64("factor", 1, "Logarithmic factor (0 = linear, 1 = logarithmic)")
	fs.Parse(args)

	if *n < shadow.MinSplits || *n > shadow.MaxSplits {
		fmt.Fprintf(os.Stderr, "Error: -n must be in [%d, %d]\n", shadow.MinSplits, shadow.MaxSplits)
		os.Exit(1)
	}

	b := shadow.ComputeSplits(float32(*near), float32(*far), float32(*maxDist), *n, float32(*factor))
	fmt.Printf("%-6s %12s %12s %12s\n", "Split", "Near", "Far", "Depth")
	for i := 0; i < *n; i++ {
		fmt.Printf("%-6d %12.4f %12.4f %12.4f\n", i, b[i], b[i+1], b[i+1]-b[i])
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	frames := fs.Int("frames", 300, "Number of frames to simulate")
	dt := fs.Duration("dt", 16*time.Millisecond, "Frame time step")
	orbit := fs.Bool("orbit", false, "Orbit the view camera around its target")
	orbitSpeed := fs.Float64("orbit-speed", 20, "Orbit speed in degrees per second")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	rig, _ := newRig(cfg)
	driver := shadow.NewDriver(rig, cfg.Shadows.CacheResetInterval, 0)
	sun := cfg.Sun()

	var view camera.View = cfg.ViewCamera()
	var orbitCam *camera.OrbitCamera
	if *orbit {
		orbitCam = newOrbit(cfg)
		view = orbitCam
	}

	logger.Info("running rig",
		zap.Int("splits", rig.NumSplits()),
		zap.Int("frames", *frames),
		zap.Duration("dt", *dt),
		zap.Bool("orbit", *orbit))

	var now time.Duration
	resets := 0
	for frame := 0; frame < *frames; frame++ {
		now += *dt
		sun.Advance(*dt)
		if orbitCam != nil {
			orbitCam.RotationY += math.Radians(float32(*orbitSpeed) * float32(dt.Seconds()))
		}

		if driver.Frame(now, view, sun.Direction) {
			resets++
			logger.Debug("film size cache reset", zap.Int("frame", frame), zap.Duration("at", now))
		}
		if logger.Log.Core().Enabled(zap.DebugLevel) {
			logFrame(frame, view, rig)
		}
	}

	logger.Info("run finished", zap.Int("cache_resets", resets), zap.Duration("frame_time", now))
	printState(os.Stdout, rig, sun.Direction, cfg.Shadows.FixedBias)
}

// newOrbit places an orbit camera on the configured position, circling the
// configured target.
func newOrbit(cfg *config.Config) *camera.OrbitCamera {
	cam := cfg.ViewCamera()
	orbit := camera.NewOrbitCamera(cam.Lens())
	orbit.SetCenter(cam.Target.X, cam.Target.Y, cam.Target.Z)

	offset := cam.Position.Sub(cam.Target)
	dist := offset.Length()
	orbit.MinDistance = min(orbit.MinDistance, dist)
	orbit.MaxDistance = max(orbit.MaxDistance, dist)
	orbit.Distance = dist
	orbit.RotationX = math.Clamp(float32(asin(offset.Y/dist)), orbit.MinPitch, orbit.MaxPitch)
	orbit.RotationY = float32(atan2(offset.X, offset.Z))
	return orbit
}

func logFrame(frame int, view camera.View, rig *shadow.Rig) {
	world := view.WorldTransform()
	eye := world.Translation()
	fwd := world.Col(2).Negate()

	fields := make([]zap.Field, 0, rig.NumSplits()+3)
	fields = append(fields,
		zap.Int("frame", frame),
		zap.String("eye", fmt.Sprintf("%.2f,%.2f,%.2f", eye.X, eye.Y, eye.Z)),
		zap.String("forward", fmt.Sprintf("%.3f,%.3f,%.3f", fwd.X, fwd.Y, fwd.Z)))
	for i := 0; i < rig.NumSplits(); i++ {
		f := rig.Split(i).Frustum
		fields = append(fields, zap.String(fmt.Sprintf("split%d", i), fmt.Sprintf("%.2fx%.2f", f.Width, f.Height)))
	}
	logger.Debug("frame", fields...)
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	format := fs.String("format", "text", "Output format: text or yaml")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	rig, _ := newRig(cfg)
	sun := cfg.Sun()
	rig.Update(cfg.ViewCamera(), sun.Direction)

	switch *format {
	case "text":
		printState(os.Stdout, rig, sun.Direction, cfg.Shadows.FixedBias)
	case "yaml":
		if err := writeYAML(os.Stdout, snapshot(rig, sun.Direction, cfg.Shadows.FixedBias)); err != nil {
			logger.Fatal("failed to encode state", zap.Error(err))
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

func cmdFootprint(args []string) {
	fs := flag.NewFlagSet("footprint", flag.ExitOnError)
	out := fs.String("o", "footprint.png", "Output image (.png or .bmp)")
	size := fs.Int("size", 512, "Image size in pixels")
	extent := fs.Float64("extent", 0, "Half-size of the ground area (0 = pssm distance)")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	if *size <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -size must be positive")
		os.Exit(1)
	}

	rig, _ := newRig(cfg)
	view := cfg.ViewCamera()
	rig.Update(view, cfg.Sun().Direction)

	g := groundView{center: view.Position, extent: float32(*extent), size: *size}
	if g.extent <= 0 {
		g.extent = rig.Options().PSSMDistance
	}

	if err := writeImage(*out, renderFootprint(rig, g, view.Position)); err != nil {
		logger.Fatal("failed to write footprint", zap.Error(err))
	}
	logger.Info("footprint written", zap.String("path", *out), zap.Int("size", *size), zap.Float32("extent", g.extent))
}

func cmdConfig(args []string) {
	cfg := config.Default()

	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	if err := cfg.SaveTo(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", args[0])
}
