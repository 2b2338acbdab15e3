package shadow

import (
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// FilmSize is the width and height of an orthographic film in world units.
type FilmSize struct {
	Width, Height float32
}

// FilmSizeCache remembers the film size each split used when it was first
// fitted after the last reset. Entries never change until Reset.
type FilmSizeCache struct {
	sizes []FilmSize
	valid []bool
	resets int
}

// NewFilmSizeCache creates an empty cache for n splits.
func NewFilmSizeCache(n int) *FilmSizeCache {
	return &FilmSizeCache{
		sizes: make([]FilmSize, n),
		valid: make([]bool, n),
	}
}

// Len returns the number of splits the cache covers.
func (c *FilmSizeCache) Len() int {
	return len(c.sizes)
}

// Lookup returns the cached size of split i.
func (c *FilmSizeCache) Lookup(i int) (FilmSize, bool) {
	return c.sizes[i], c.valid[i]
}

// Resolve returns the cached size of split i, storing fresh first when the
// split has no entry yet.
func (c *FilmSizeCache) Resolve(i int, fresh FilmSize) FilmSize {
	if !c.valid[i] {
		c.sizes[i] = fresh
		c.valid[i] = true
	}
	return c.sizes[i]
}

// Reset clears every entry so the next update recomputes all film sizes.
func (c *FilmSizeCache) Reset() {
	for i := range c.valid {
		c.valid[i] = false
		c.sizes[i] = FilmSize{}
	}
	c.resets++
}

// Resets returns how many times the cache was cleared.
func (c *FilmSizeCache) Resets() int {
	return c.resets
}

// TexelSize returns the world-space size of one shadow-map texel.
func TexelSize(film FilmSize, resolution int) (x, y float32) {
	if resolution <= 0 {
		return 0, 0
	}
	return film.Width / float32(resolution), film.Height / float32(resolution)
}

// SnapToTexel rounds the X and Y light coordinates of center to the nearest
// texel multiple. Depth is left untouched.
func SnapToTexel(center math.Vec3, film FilmSize, resolution int) math.Vec3 {
	tx, ty := TexelSize(film, resolution)
	return math.Vec3{
		X: math.SnapTo(center.X, tx),
		Y: math.SnapTo(center.Y, ty),
		Z: center.Z,
	}
}

// Stabilize applies the fixed-film-size and texel-snapping corrections to the
// fitted frustum of split i. Snapping uses whichever film size ends up in
// effect. cache may be nil when fixed film size is disabled.
func Stabilize(f *ShadowFrustum, i int, opts Options, cache *FilmSizeCache) {
	film := FilmSize{Width: f.Width, Height: f.Height}
	if opts.UseFixedFilmSize && cache != nil {
		film = cache.Resolve(i, film)
		f.Width, f.Height = film.Width, film.Height
	}
	if opts.UseStableCSM {
		f.Center = SnapToTexel(f.Center, film, opts.Resolution)
	}
	f.rebuild()
}
