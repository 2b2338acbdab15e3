// Package config handles shadow rig configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/internal/engine/lighting"
	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// Config holds all settings of a shadow rig session.
type Config struct {
	Shadows ShadowConfig  `yaml:"shadows"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShadowConfig holds the cascaded shadow map settings.
type ShadowConfig struct {
	NumSplits          int           `yaml:"num_splits"`
	Resolution         int           `yaml:"resolution"` // per split, in texels
	PSSMDistance       float32       `yaml:"pssm_distance"`
	SunDistance        float32       `yaml:"sun_distance"`
	LogarithmicFactor  float32       `yaml:"logarithmic_factor"`
	BorderBias         float32       `yaml:"border_bias"`
	FixedBias          float32       `yaml:"fixed_bias"`
	UseStableCSM       bool          `yaml:"use_stable_csm"`
	UseFixedFilmSize   bool          `yaml:"use_fixed_film_size"`
	CacheResetInterval time.Duration `yaml:"cache_reset_interval"`
}

// CameraConfig holds the view camera settings.
type CameraConfig struct {
	FOVDegrees float32    `yaml:"fov_degrees"`
	Aspect     float32    `yaml:"aspect"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Position   [3]float32 `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
}

// LightConfig holds the sun settings. A non-zero Direction wins over the
// azimuth/elevation pair.
type LightConfig struct {
	Azimuth               float32    `yaml:"azimuth"`
	Elevation             float32    `yaml:"elevation"`
	Direction             [3]float32 `yaml:"direction"`
	SweepDegreesPerSecond float32    `yaml:"sweep_degrees_per_second"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadows: ShadowConfig{
			NumSplits:          5,
			Resolution:         1024,
			PSSMDistance:       2048,
			SunDistance:        1024,
			LogarithmicFactor:  2.4,
			BorderBias:         0.058,
			FixedBias:          0.5,
			UseStableCSM:       true,
			UseFixedFilmSize:   true,
			CacheResetInterval: shadow.DefaultResetInterval,
		},
		Camera: CameraConfig{
			FOVDegrees: 90,
			Aspect:     16.0 / 9.0,
			Near:       0.1,
			Far:        50000,
			Position:   [3]float32{0, 60, 120},
			Target:     [3]float32{0, 0, 0},
		},
		Light: LightConfig{
			Azimuth:   35,
			Elevation: 50,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting a rig or view camera could not be
// built from.
func (c *Config) Validate() error {
	var err error
	s := c.Shadows
	if s.NumSplits < shadow.MinSplits || s.NumSplits > shadow.MaxSplits {
		err = multierr.Append(err, fmt.Errorf("shadows.num_splits: %w: %d not in [%d, %d]",
			shadow.ErrInvalidSplitCount, s.NumSplits, shadow.MinSplits, shadow.MaxSplits))
	}
	if s.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.resolution must be positive, got %d", s.Resolution))
	}
	if s.PSSMDistance <= 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.pssm_distance must be positive, got %g", s.PSSMDistance))
	}
	if s.SunDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.sun_distance must not be negative, got %g", s.SunDistance))
	}
	if s.CacheResetInterval < 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.cache_reset_interval must not be negative, got %v", s.CacheResetInterval))
	}

	cam := c.Camera
	if cam.FOVDegrees <= 0 || cam.FOVDegrees >= 180 {
		err = multierr.Append(err, fmt.Errorf("camera.fov_degrees must be in (0, 180), got %g", cam.FOVDegrees))
	}
	if cam.Aspect <= 0 {
		err = multierr.Append(err, fmt.Errorf("camera.aspect must be positive, got %g", cam.Aspect))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		err = multierr.Append(err, fmt.Errorf("camera near/far must satisfy 0 < near < far, got %g/%g", cam.Near, cam.Far))
	}
	if cam.Position == cam.Target {
		err = multierr.Append(err, fmt.Errorf("camera.position and camera.target coincide"))
	}
	return err
}

// RigOptions converts the shadow section to rig options.
func (c *Config) RigOptions() shadow.Options {
	s := c.Shadows
	return shadow.Options{
		PSSMDistance:      s.PSSMDistance,
		SunDistance:       s.SunDistance,
		LogarithmicFactor: s.LogarithmicFactor,
		BorderBias:        s.BorderBias,
		Resolution:        s.Resolution,
		UseStableCSM:      s.UseStableCSM,
		UseFixedFilmSize:  s.UseFixedFilmSize,
	}
}

// Lens returns the view camera lens.
func (c *Config) Lens() camera.Lens {
	return camera.NewLens(c.Camera.FOVDegrees, c.Camera.Aspect, c.Camera.Near, c.Camera.Far)
}

// ViewCamera returns a perspective camera placed as configured.
func (c *Config) ViewCamera() *camera.PerspectiveCamera {
	cam := camera.NewPerspectiveCamera(c.Lens())
	cam.Position = vec3(c.Camera.Position)
	cam.Target = vec3(c.Camera.Target)
	return cam
}

// Sun returns the configured sun.
func (c *Config) Sun() *lighting.Sun {
	sun := lighting.NewSun(c.Light.Azimuth, c.Light.Elevation)
	if dir := vec3(c.Light.Direction); !dir.IsZero() {
		sun.Direction = dir.Normalize()
	}
	sun.SweepRate = c.Light.SweepDegreesPerSecond
	return sun
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
