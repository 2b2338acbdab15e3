package shadow

// Region is a rectangle of the shadow atlas in normalized [0, 1]
// coordinates.
type Region struct {
	Left, Right, Bottom, Top float32
}

// SplitRegion returns the atlas strip of split i out of n: splits are laid
// out left to right, each spanning the full atlas height.
func SplitRegion(i, n int) Region {
	return Region{
		Left:   float32(i) / float32(n),
		Right:  float32(i+1) / float32(n),
		Bottom: 0,
		Top:    1,
	}
}

// Viewport converts the region to pixel coordinates of a width x height
// target.
func (r Region) Viewport(width, height int32) (x, y, w, h int32) {
	x = int32(r.Left * float32(width))
	y = int32(r.Bottom * float32(height))
	w = int32(r.Right*float32(width)) - x
	h = int32(r.Top*float32(height)) - y
	return x, y, w, h
}
