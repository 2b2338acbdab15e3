package shadow

import (
	"testing"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

func TestFilmSizeCache(t *testing.T) {
	c := NewFilmSizeCache(3)
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if _, ok := c.Lookup(1); ok {
		t.Fatal("fresh cache reports an entry")
	}

	first := c.Resolve(1, FilmSize{Width: 10, Height: 20})
	second := c.Resolve(1, FilmSize{Width: 99, Height: 99})
	if first != second || first != (FilmSize{Width: 10, Height: 20}) {
		t.Errorf("Resolve changed a cached entry: %v then %v", first, second)
	}
	if _, ok := c.Lookup(0); ok {
		t.Error("resolving split 1 filled split 0")
	}

	c.Reset()
	if _, ok := c.Lookup(1); ok {
		t.Error("entry survived Reset")
	}
	if got := c.Resolve(1, FilmSize{Width: 5, Height: 6}); got != (FilmSize{Width: 5, Height: 6}) {
		t.Errorf("Resolve after Reset = %v", got)
	}
	if c.Resets() != 1 {
		t.Errorf("Resets() = %d, want 1", c.Resets())
	}
}

func TestTexelSize(t *testing.T) {
	x, y := TexelSize(FilmSize{Width: 64, Height: 32}, 1024)
	if x != 0.0625 || y != 0.03125 {
		t.Errorf("TexelSize = %v, %v", x, y)
	}
	if x, y := TexelSize(FilmSize{Width: 64, Height: 32}, 0); x != 0 || y != 0 {
		t.Errorf("zero resolution texel = %v, %v", x, y)
	}
}

func TestSnapToTexel(t *testing.T) {
	tests := []struct {
		name   string
		center math.Vec3
		film   FilmSize
		res    int
		want   math.Vec3
	}{
		{"round down", math.Vec3{X: 3.4, Y: 4.9, Z: 7.77}, FilmSize{Width: 10, Height: 20}, 10, math.Vec3{X: 3, Y: 4, Z: 7.77}},
		{"round up", math.Vec3{X: 3.6, Y: 5.1, Z: -2}, FilmSize{Width: 10, Height: 20}, 10, math.Vec3{X: 4, Y: 6, Z: -2}},
		{"negative", math.Vec3{X: -3.6, Y: -0.9, Z: 0}, FilmSize{Width: 10, Height: 20}, 10, math.Vec3{X: -4, Y: 0, Z: 0}},
		{"no resolution", math.Vec3{X: 1.23, Y: 4.56, Z: 7.89}, FilmSize{Width: 10, Height: 20}, 0, math.Vec3{X: 1.23, Y: 4.56, Z: 7.89}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapToTexel(tt.center, tt.film, tt.res)
			if got.Distance(tt.want) > 1e-5 {
				t.Errorf("SnapToTexel(%v) = %v, want %v", tt.center, got, tt.want)
			}
		})
	}
}

func newTestFrustum() ShadowFrustum {
	f := ShadowFrustum{
		Basis:  NewLightBasis(math.Vec3{X: 0.3, Y: 0.8, Z: 0.5}.Normalize()),
		Center: math.Vec3{X: 1.3, Y: 2.6, Z: 5},
		Width:  8,
		Height: 8,
		Near:   -10,
		Far:    3,
	}
	f.rebuild()
	return f
}

func TestStabilizeUsesCachedFilm(t *testing.T) {
	cache := NewFilmSizeCache(2)
	cache.Resolve(1, FilmSize{Width: 16, Height: 16})

	f := newTestFrustum()
	Stabilize(&f, 1, Options{Resolution: 8, UseStableCSM: true, UseFixedFilmSize: true}, cache)

	if f.Width != 16 || f.Height != 16 {
		t.Errorf("film = %vx%v, want cached 16x16", f.Width, f.Height)
	}
	// Texel is 2 units: the center snaps to (2, 2).
	if f.Center.Distance(math.Vec3{X: 2, Y: 2, Z: 5}) > 1e-5 {
		t.Errorf("center = %v, want (2, 2, 5)", f.Center)
	}
	if f.Transform.Translation().Distance(f.Origin()) > 1e-5 {
		t.Errorf("transform not rebuilt: %v vs %v", f.Transform.Translation(), f.Origin())
	}
}

func TestStabilizeDisabled(t *testing.T) {
	f := newTestFrustum()
	before := f
	Stabilize(&f, 0, Options{Resolution: 8}, nil)

	if f.Center != before.Center || f.Width != before.Width || f.Height != before.Height {
		t.Errorf("disabled stabilization changed the frustum: %+v", f)
	}
}

func TestStabilizeFirstFitFillsCache(t *testing.T) {
	cache := NewFilmSizeCache(1)
	f := newTestFrustum()
	Stabilize(&f, 0, Options{Resolution: 8, UseFixedFilmSize: true}, cache)

	got, ok := cache.Lookup(0)
	if !ok || got != (FilmSize{Width: 8, Height: 8}) {
		t.Errorf("cache entry = %v, %v", got, ok)
	}
	if f.Center != (math.Vec3{X: 1.3, Y: 2.6, Z: 5}) {
		t.Errorf("center moved without stable CSM: %v", f.Center)
	}
}
