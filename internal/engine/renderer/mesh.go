package renderer

// Mesh identifies one of the renderer's static meshes.
type Mesh int

const (
	// MeshCube is a unit cube centred on the origin.
	MeshCube Mesh = iota
	// MeshGround is a unit square in the XZ plane facing +Y.
	MeshGround
	// MeshSprite is a unit quad in the XY plane, bottom edge centred on the
	// origin, facing +Z.
	MeshSprite
	meshCount
)

// String returns the mesh name.
func (m Mesh) String() string {
	switch m {
	case MeshCube:
		return "cube"
	case MeshGround:
		return "ground"
	case MeshSprite:
		return "sprite"
	}
	return "unknown"
}

// Vertex layout: position (3), normal (3), texcoord (2).
const vertexStride = 8

type quadCorner struct {
	pos [3]float32
	uv  [2]float32
}

// quad appends two triangles for corners listed counter-clockwise.
func quad(out []float32, normal [3]float32, c [4]quadCorner) []float32 {
	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		out = append(out, c[i].pos[0], c[i].pos[1], c[i].pos[2])
		out = append(out, normal[0], normal[1], normal[2])
		out = append(out, c[i].uv[0], c[i].uv[1])
	}
	return out
}

// CubeVertices returns the 36 vertices of a unit cube.
func CubeVertices() []float32 {
	const h = 0.5
	uv := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	corner := func(i int, x, y, z float32) quadCorner {
		return quadCorner{pos: [3]float32{x, y, z}, uv: uv[i]}
	}

	out := make([]float32, 0, 36*vertexStride)
	out = quad(out, [3]float32{0, 0, 1}, [4]quadCorner{
		corner(0, -h, -h, h), corner(1, h, -h, h), corner(2, h, h, h), corner(3, -h, h, h)})
	out = quad(out, [3]float32{0, 0, -1}, [4]quadCorner{
		corner(0, h, -h, -h), corner(1, -h, -h, -h), corner(2, -h, h, -h), corner(3, h, h, -h)})
	out = quad(out, [3]float32{1, 0, 0}, [4]quadCorner{
		corner(0, h, -h, h), corner(1, h, -h, -h), corner(2, h, h, -h), corner(3, h, h, h)})
	out = quad(out, [3]float32{-1, 0, 0}, [4]quadCorner{
		corner(0, -h, -h, -h), corner(1, -h, -h, h), corner(2, -h, h, h), corner(3, -h, h, -h)})
	out = quad(out, [3]float32{0, 1, 0}, [4]quadCorner{
		corner(0, -h, h, h), corner(1, h, h, h), corner(2, h, h, -h), corner(3, -h, h, -h)})
	out = quad(out, [3]float32{0, -1, 0}, [4]quadCorner{
		corner(0, -h, -h, -h), corner(1, h, -h, -h), corner(2, h, -h, h), corner(3, -h, -h, h)})
	return out
}

// GroundVertices returns a unit square in the XZ plane. The texture
// coordinates repeat tiles times across it.
func GroundVertices(tiles float32) []float32 {
	const h = 0.5
	return quad(nil, [3]float32{0, 1, 0}, [4]quadCorner{
		{pos: [3]float32{-h, 0, h}, uv: [2]float32{0, tiles}},
		{pos: [3]float32{h, 0, h}, uv: [2]float32{tiles, tiles}},
		{pos: [3]float32{h, 0, -h}, uv: [2]float32{tiles, 0}},
		{pos: [3]float32{-h, 0, -h}, uv: [2]float32{0, 0}},
	})
}

// SpriteVertices returns the billboard quad.
func SpriteVertices() []float32 {
	return quad(nil, [3]float32{0, 0, 1}, [4]quadCorner{
		{pos: [3]float32{-0.5, 0, 0}, uv: [2]float32{0, 1}},
		{pos: [3]float32{0.5, 0, 0}, uv: [2]float32{1, 1}},
		{pos: [3]float32{0.5, 1, 0}, uv: [2]float32{1, 0}},
		{pos: [3]float32{-0.5, 1, 0}, uv: [2]float32{0, 0}},
	})
}
