package graph

// DefaultPaletteSize matches the seven-color lane palette the renderer ships
// with, itself based on gitk's defaults.
const DefaultPaletteSize = 7

// Palette cycles a fixed set of color identifiers. It only hands out indices;
// mapping an identifier to an actual color is the renderer's concern.
type Palette struct {
	size int
}

func NewPalette(size int) Palette {
	if size < 1 {
		size = DefaultPaletteSize
	}
	return Palette{size: size}
}

func (p Palette) Size() int {
	if p.size < 1 {
		return DefaultPaletteSize
	}
	return p.size
}

// Color returns the color identifier for the n-th allocation (0-based).
func (p Palette) Color(n int) int {
	if n < 0 {
		n = 0
	}
	return n % p.Size()
}
