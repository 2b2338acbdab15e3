// Package shadow computes the cascaded (parallel-split) shadow map cameras
// of a directional light.
//
// A Rig slices the view frustum into depth splits, fits a light-aligned
// orthographic frustum to each split and stabilizes it against camera
// motion. The results are pushed onto camera handles owned by the rig and
// published as arrays for the shading stage.
package shadow

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/internal/logger"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// MaxBorderBias is the largest accepted border bias.
const MaxBorderBias float32 = 0.5

var (
	// ErrInvalidSplitCount is returned by NewRig for counts outside
	// [MinSplits, MaxSplits].
	ErrInvalidSplitCount = errors.New("shadow: invalid split count")
	// ErrNilParent is returned by NewRig without a parent to attach cameras to.
	ErrNilParent = errors.New("shadow: nil camera parent")
)

// CameraHandle is a camera owned by the rig and living in the caller's scene
// graph. The rig pushes the shadow frustum onto it every update.
type CameraHandle interface {
	SetTransform(world math.Mat4)
	SetProjection(proj math.Mat4)
}

// Parent creates the rig's camera handles.
type Parent interface {
	NewCamera(name string) CameraHandle
}

// ParentFunc adapts a function to Parent.
type ParentFunc func(name string) CameraHandle

// NewCamera calls f(name).
func (f ParentFunc) NewCamera(name string) CameraHandle {
	return f(name)
}

// Options configures a Rig.
type Options struct {
	// PSSMDistance is the maximum view depth that receives shadows.
	PSSMDistance float32
	// SunDistance extends each frustum toward the sun so off-screen
	// occluders still cast into the split.
	SunDistance float32
	// LogarithmicFactor blends linear (0) and logarithmic (1) splits.
	LogarithmicFactor float32
	// BorderBias is the fraction of film reserved as a filtering border.
	BorderBias float32
	// Resolution is the per-split shadow map size in texels.
	Resolution       int
	UseStableCSM     bool
	UseFixedFilmSize bool
}

// DefaultOptions returns the rig defaults.
func DefaultOptions() Options {
	return Options{
		PSSMDistance:      100,
		SunDistance:       500,
		LogarithmicFactor: 1,
		BorderBias:        0.1,
		Resolution:        512,
		UseStableCSM:      true,
		UseFixedFilmSize:  false,
	}
}

// Split is the per-frame state of one cascade.
type Split struct {
	Index int
	// Near and Far bound the split along the view camera's depth axis.
	Near, Far float32
	// Bounds is the tight light-space box around the split's corners.
	Bounds  Bounds
	Frustum ShadowFrustum
}

// Uniforms is the shader input bundle of a rig. The slices alias the rig's
// published arrays and change in place on every Update.
type Uniforms struct {
	MVPs       []math.Mat4
	NearFar    []math.Vec2
	BorderBias float32
	FixedBias  float32
}

// Rig owns a fixed set of shadow cameras, one per split.
//
// A Rig is not safe for concurrent use. Update is meant to be called once
// per frame and the published arrays read after it returns.
type Rig struct {
	opts       Options
	splits     []Split
	cameras    []CameraHandle
	boundaries []float32
	mvps       []math.Mat4
	nearFar    []math.Vec2
	cache      *FilmSizeCache
	log        *zap.Logger
}

// NewRig creates a rig with numSplits cameras attached to parent.
func NewRig(numSplits int, parent Parent) (*Rig, error) {
	if numSplits < MinSplits || numSplits > MaxSplits {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSplitCount, numSplits, MinSplits, MaxSplits)
	}
	if parent == nil {
		return nil, ErrNilParent
	}

	r := &Rig{
		opts:       DefaultOptions(),
		splits:     make([]Split, numSplits),
		cameras:    make([]CameraHandle, numSplits),
		boundaries: make([]float32, numSplits+1),
		mvps:       make([]math.Mat4, numSplits),
		nearFar:    make([]math.Vec2, numSplits),
		cache:      NewFilmSizeCache(numSplits),
		log:        logger.Named("pssm"),
	}
	for i := range r.cameras {
		r.splits[i].Index = i
		r.mvps[i] = math.Identity()
		r.cameras[i] = parent.NewCamera(fmt.Sprintf("pssm-split-%d", i))
	}

	r.log.Debug("camera rig created", zap.Int("splits", numSplits))
	return r, nil
}

// NumSplits returns the number of cascades.
func (r *Rig) NumSplits() int {
	return len(r.splits)
}

// Options returns the current configuration.
func (r *Rig) Options() Options {
	return r.opts
}

// Configure applies every option through its setter.
func (r *Rig) Configure(opts Options) {
	r.SetPSSMDistance(opts.PSSMDistance)
	r.SetSunDistance(opts.SunDistance)
	r.SetLogarithmicFactor(opts.LogarithmicFactor)
	r.SetBorderBias(opts.BorderBias)
	r.SetResolution(opts.Resolution)
	r.SetUseStableCSM(opts.UseStableCSM)
	r.SetUseFixedFilmSize(opts.UseFixedFilmSize)
}

// SetPSSMDistance sets the maximum shadowed view depth. Non-positive values
// are ignored.
func (r *Rig) SetPSSMDistance(d float32) {
	if d <= 0 {
		r.log.Warn("ignoring non-positive pssm distance", zap.Float32("value", d))
		return
	}
	r.opts.PSSMDistance = d
}

// SetSunDistance sets how far frusta reach back toward the sun. Negative
// values are ignored.
func (r *Rig) SetSunDistance(d float32) {
	if d < 0 {
		r.log.Warn("ignoring negative sun distance", zap.Float32("value", d))
		return
	}
	r.opts.SunDistance = d
}

// SetLogarithmicFactor sets the split distribution blend, clamped to [0, 1].
func (r *Rig) SetLogarithmicFactor(f float32) {
	clamped := math.Clamp(f, 0, 1)
	if clamped != f {
		r.log.Debug("logarithmic factor clamped", zap.Float32("value", f), zap.Float32("clamped", clamped))
	}
	r.opts.LogarithmicFactor = clamped
}

// SetBorderBias sets the filtering border, clamped to [0, MaxBorderBias].
func (r *Rig) SetBorderBias(b float32) {
	r.opts.BorderBias = clampBorderBias(b)
}

// SetResolution sets the per-split shadow map resolution used for texel
// snapping. Non-positive values are ignored.
func (r *Rig) SetResolution(res int) {
	if res <= 0 {
		r.log.Warn("ignoring non-positive resolution", zap.Int("value", res))
		return
	}
	r.opts.Resolution = res
}

// SetUseStableCSM toggles texel snapping.
func (r *Rig) SetUseStableCSM(on bool) {
	r.opts.UseStableCSM = on
}

// SetUseFixedFilmSize toggles film size caching.
func (r *Rig) SetUseFixedFilmSize(on bool) {
	r.opts.UseFixedFilmSize = on
}

// Update refits every split to the view camera and light direction and
// pushes the results onto the owned cameras. lightDir points toward the
// light.
func (r *Rig) Update(view camera.View, lightDir math.Vec3) {
	lens := view.Lens()
	world := view.WorldTransform()
	computeSplitsInto(r.boundaries, lens.Near, lens.Far, r.opts.PSSMDistance, r.opts.LogarithmicFactor)
	basis := NewLightBasis(lightDir)

	for i := range r.splits {
		near, far := r.boundaries[i], r.boundaries[i+1]
		corners := SliceCorners(world, lens, near, far)
		frustum, bounds := FitCorners(corners, basis, r.opts.SunDistance, r.opts.BorderBias)
		Stabilize(&frustum, i, r.opts, r.cache)

		s := &r.splits[i]
		s.Near, s.Far = near, far
		s.Bounds = bounds
		s.Frustum = frustum

		r.mvps[i] = frustum.ViewProjection()
		r.nearFar[i] = math.Vec2{X: near, Y: far}
		r.cameras[i].SetTransform(frustum.Transform)
		r.cameras[i].SetProjection(frustum.Projection())
	}
}

// ResetFilmSizeCache forgets all cached film sizes. The next Update
// recomputes them.
func (r *Rig) ResetFilmSizeCache() {
	r.cache.Reset()
	r.log.Debug("film size cache reset", zap.Int("resets", r.cache.Resets()))
}

// FilmSizeCache exposes the rig's cache for inspection.
func (r *Rig) FilmSizeCache() *FilmSizeCache {
	return r.cache
}

// Camera returns the camera of split i. It panics when i is out of range.
func (r *Rig) Camera(i int) CameraHandle {
	r.checkIndex(i)
	return r.cameras[i]
}

// Split returns the state of split i as of the last Update. It panics when
// i is out of range.
func (r *Rig) Split(i int) Split {
	r.checkIndex(i)
	return r.splits[i]
}

// Region returns the atlas region split i renders into. It panics when i is
// out of range.
func (r *Rig) Region(i int) Region {
	r.checkIndex(i)
	return SplitRegion(i, len(r.splits))
}

// Boundaries returns the split boundaries of the last Update (NumSplits+1
// values). The slice is reused across updates.
func (r *Rig) Boundaries() []float32 {
	return r.boundaries
}

// MVPArray returns the light view-projection of every split, nearest first.
// The slice is reused and overwritten by every Update.
func (r *Rig) MVPArray() []math.Mat4 {
	return r.mvps
}

// NearFarArray returns each split's view-depth range, nearest first.
// The slice is reused and overwritten by every Update.
func (r *Rig) NearFarArray() []math.Vec2 {
	return r.nearFar
}

// Uniforms returns the shader input bundle.
func (r *Rig) Uniforms(fixedBias float32) Uniforms {
	return Uniforms{
		MVPs:       r.mvps,
		NearFar:    r.nearFar,
		BorderBias: r.opts.BorderBias,
		FixedBias:  fixedBias,
	}
}

func (r *Rig) checkIndex(i int) {
	if i < 0 || i >= len(r.splits) {
		panic(fmt.Sprintf("shadow: split index %d out of range [0, %d)", i, len(r.splits)))
	}
}

func clampBorderBias(b float32) float32 {
	return math.Clamp(b, 0, MaxBorderBias)
}
