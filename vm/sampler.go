package vm

// Sampler is read-only indexed access to a texture. Implementations are
// shared by every machine of a render and must be safe for concurrent reads.
type Sampler interface {
	Width() int
	Height() int
	// RGBA returns the channels at (x, y). Callers keep x and y in range.
	RGBA(x, y int) (r, g, b, a uint8)
}

// sample wraps the texture index and coordinates so every request lands on a
// real pixel. With no textures loaded it returns opaque white.
func sample(textures []Sampler, index, x, y uint32) Color {
	if len(textures) == 0 {
		return White
	}

	t := textures[index%uint32(len(textures))]
	w, h := t.Width(), t.Height()
	if w <= 0 || h <= 0 {
		return White
	}

	r, g, b, a := t.RGBA(int(x%uint32(w)), int(y%uint32(h)))
	return Color{R: r, G: g, B: b, A: a}
}
