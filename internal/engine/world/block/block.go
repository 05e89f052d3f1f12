package block

import "image/color"

// Block is a voxel material identifier.
type Block uint8

const (
	Air Block = iota
	Grass
	Dirt
	Stone
	Bedrock
)

var names = [...]string{
	Air:     "air",
	Grass:   "grass",
	Dirt:    "dirt",
	Stone:   "stone",
	Bedrock: "bedrock",
}

// palette holds the flat face color of each block type.
var palette = [...]color.RGBA{
	Grass:   {R: 0, G: 228, B: 48, A: 255},
	Dirt:    {R: 127, G: 106, B: 79, A: 255},
	Stone:   {R: 130, G: 130, B: 130, A: 255},
	Bedrock: {R: 80, G: 80, B: 80, A: 255},
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Solid reports whether the block occupies its cell.
func (b Block) Solid() bool {
	return b != Air
}

// Color returns the face color used when meshing. Unknown types render white.
func (b Block) Color() color.RGBA {
	if b == Air || int(b) >= len(palette) {
		return white
	}
	return palette[b]
}

func (b Block) String() string {
	if int(b) < len(names) {
		return names[b]
	}
	return "unknown"
}
