package main

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-pssm/internal/config"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

func TestCoverageFindsNearestSplit(t *testing.T) {
	cfg := config.Default()
	rig, _ := newRig(cfg)
	view := cfg.ViewCamera()
	rig.Update(view, cfg.Sun().Direction)

	// The view target sits on the view axis inside one of the slices.
	if i := coverage(rig.MVPArray(), view.Target); i < 0 {
		t.Fatalf("view target %v is not covered by any split", view.Target)
	}
	if i := coverage(rig.MVPArray(), math.Vec3{X: 1e6, Y: 0, Z: 1e6}); i != -1 {
		t.Errorf("far away point covered by split %d", i)
	}
}

func TestGroundViewRoundTrip(t *testing.T) {
	g := groundView{center: math.Vec3{X: 10, Y: 50, Z: -20}, extent: 100, size: 200}
	for _, p := range [][2]int{{0, 0}, {57, 143}, {199, 199}} {
		x, y := g.toPixel(g.toWorld(p[0], p[1]))
		if x != p[0] || y != p[1] {
			t.Errorf("pixel %v round-tripped to (%d, %d)", p, x, y)
		}
	}
}

func TestRenderFootprint(t *testing.T) {
	cfg := config.Default()
	rig, _ := newRig(cfg)
	view := cfg.ViewCamera()
	rig.Update(view, cfg.Sun().Direction)

	g := groundView{center: view.Position, extent: 400, size: 64}
	img := renderFootprint(rig, g, view.Position)

	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	tx, ty := g.toPixel(view.Target)
	if img.RGBAAt(tx, ty) == uncovered {
		t.Errorf("view target pixel (%d, %d) is uncovered", tx, ty)
	}
	ex, ey := g.toPixel(view.Position)
	if img.RGBAAt(ex, ey) != marker {
		t.Errorf("camera marker missing at (%d, %d)", ex, ey)
	}
}

func TestWriteImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, splitColors[x%len(splitColors)])
		}
	}
	dir := t.TempDir()

	path := filepath.Join(dir, "out.bmp")
	if err := writeImage(path, img); err != nil {
		t.Fatalf("writeImage: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := bmp.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding bmp: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("bmp size %dx%d, want 8x4", cfg.Width, cfg.Height)
	}

	for _, name := range []string{"out.gif", "out.jpg"} {
		path := filepath.Join(dir, name)
		if err := writeImage(path, img); err == nil {
			t.Errorf("writeImage(%s): expected an error for an unsupported extension", name)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("writeImage(%s) left a file behind (stat err = %v)", name, err)
		}
	}
}
