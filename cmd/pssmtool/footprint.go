package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// splitColors tints the footprint of each split, nearest first.
var splitColors = [shadow.MaxSplits]color.RGBA{
	{230, 57, 70, 255},
	{244, 162, 97, 255},
	{233, 196, 106, 255},
	{42, 157, 143, 255},
	{38, 70, 83, 255},
	{131, 56, 236, 255},
	{58, 134, 255, 255},
	{255, 0, 110, 255},
}

var (
	uncovered = color.RGBA{24, 24, 24, 255}
	marker    = color.RGBA{255, 255, 255, 255}
)

// coverage returns the nearest split whose shadow frustum contains p, or -1.
func coverage(mvps []math.Mat4, p math.Vec3) int {
	for i, m := range mvps {
		ndc := m.TransformVec3(p)
		if math.Abs(ndc.X) <= 1 && math.Abs(ndc.Y) <= 1 && math.Abs(ndc.Z) <= 1 {
			return i
		}
	}
	return -1
}

// groundView maps a size x size image onto the y = 0 plane, centered on
// center and spanning extent world units in each direction.
type groundView struct {
	center math.Vec3
	extent float32
	size   int
}

func (g groundView) toWorld(px, py int) math.Vec3 {
	step := 2 * g.extent / float32(g.size)
	return math.Vec3{
		X: g.center.X - g.extent + (float32(px)+0.5)*step,
		Y: 0,
		Z: g.center.Z - g.extent + (float32(py)+0.5)*step,
	}
}

func (g groundView) toPixel(p math.Vec3) (int, int) {
	step := 2 * g.extent / float32(g.size)
	return int((p.X - g.center.X + g.extent) / step), int((p.Z - g.center.Z + g.extent) / step)
}

// renderFootprint draws which split shadows each ground point, seen from
// above. The view camera position is marked white.
func renderFootprint(rig *shadow.Rig, g groundView, eye math.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	mvps := rig.MVPArray()
	for py := 0; py < g.size; py++ {
		for px := 0; px < g.size; px++ {
			c := uncovered
			if i := coverage(mvps, g.toWorld(px, py)); i >= 0 {
				c = splitColors[i]
			}
			img.SetRGBA(px, py, c)
		}
	}

	ex, ey := g.toPixel(eye)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if image.Pt(ex+dx, ey+dy).In(img.Rect) {
				img.SetRGBA(ex+dx, ey+dy, marker)
			}
		}
	}
	return img
}

func writeImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		encode = bmp.Encode
	case ".png":
		encode = png.Encode
	default:
		return fmt.Errorf("unsupported image format %q (use .png or .bmp)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
