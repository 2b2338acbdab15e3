package main

import (
	"fmt"
	"io"
	gomath "math"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

type splitState struct {
	Index      int         `yaml:"index"`
	Near       float32     `yaml:"near"`
	Far        float32     `yaml:"far"`
	FilmWidth  float32     `yaml:"film_width"`
	FilmHeight float32     `yaml:"film_height"`
	Origin     [3]float32  `yaml:"origin,flow"`
	DepthRange [2]float32  `yaml:"depth_range,flow"`
	Region     [4]float32  `yaml:"region,flow"`
	MVP        [16]float32 `yaml:"mvp,flow"`
}

type rigState struct {
	LightDirection [3]float32   `yaml:"light_direction,flow"`
	Boundaries     []float32    `yaml:"boundaries,flow"`
	BorderBias     float32      `yaml:"border_bias"`
	FixedBias      float32      `yaml:"fixed_bias"`
	FilmResets     int          `yaml:"film_resets"`
	Splits         []splitState `yaml:"splits"`
}

func snapshot(rig *shadow.Rig, lightDir math.Vec3, fixedBias float32) rigState {
	u := rig.Uniforms(fixedBias)
	st := rigState{
		LightDirection: [3]float32{lightDir.X, lightDir.Y, lightDir.Z},
		Boundaries:     append([]float32(nil), rig.Boundaries()...),
		BorderBias:     u.BorderBias,
		FixedBias:      u.FixedBias,
		FilmResets:     rig.FilmSizeCache().Resets(),
	}
	for i := 0; i < rig.NumSplits(); i++ {
		s := rig.Split(i)
		o := s.Frustum.Origin()
		r := rig.Region(i)
		st.Splits = append(st.Splits, splitState{
			Index:      i,
			Near:       u.NearFar[i].X,
			Far:        u.NearFar[i].Y,
			FilmWidth:  s.Frustum.Width,
			FilmHeight: s.Frustum.Height,
			Origin:     [3]float32{o.X, o.Y, o.Z},
			DepthRange: [2]float32{s.Frustum.Near, s.Frustum.Far},
			Region:     [4]float32{r.Left, r.Right, r.Bottom, r.Top},
			MVP:        [16]float32(u.MVPs[i]),
		})
	}
	return st
}

func writeYAML(w io.Writer, st rigState) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return err
	}
	return enc.Close()
}

func printState(w io.Writer, rig *shadow.Rig, lightDir math.Vec3, fixedBias float32) {
	st := snapshot(rig, lightDir, fixedBias)

	fmt.Fprintf(w, "Light:       (%.3f, %.3f, %.3f)\n", lightDir.X, lightDir.Y, lightDir.Z)
	fmt.Fprintf(w, "Border bias: %.3f\n", st.BorderBias)
	fmt.Fprintf(w, "Fixed bias:  %.3f\n", st.FixedBias)
	fmt.Fprintf(w, "Resets:      %d\n", st.FilmResets)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-6s %10s %10s %10s %10s %22s\n", "Split", "Near", "Far", "Width", "Height", "Region")
	for _, s := range st.Splits {
		fmt.Fprintf(w, "%-6d %10.3f %10.3f %10.3f %10.3f   [%.3f, %.3f]x[%.0f, %.0f]\n",
			s.Index, s.Near, s.Far, s.FilmWidth, s.FilmHeight,
			s.Region[0], s.Region[1], s.Region[2], s.Region[3])
	}
}

func asin(x float32) float64 {
	return gomath.Asin(float64(math.Clamp(x, -1, 1)))
}

func atan2(y, x float32) float64 {
	return gomath.Atan2(float64(y), float64(x))
}
