package mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bouncer/pkg/math"
)

// Mesh is an expanded triangle list: every three consecutive vertices form
// one triangle. Normals and TexCoords are parallel to Positions.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords [][2]float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Data holds the consolidated vertex attributes of every mesh, ready for
// upload: 3 floats per position, 3 per normal, 2 per texture coordinate.
type Data struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
}

// VertexCount returns the number of vertices in the shared arrays.
func (d *Data) VertexCount() int {
	return len(d.Positions) / 3
}

// Consolidator packs meshes one after another into shared arrays.
type Consolidator struct {
	data    Data
	batches map[string]BatchInfo
}

// NewConsolidator returns an empty consolidator.
func NewConsolidator() *Consolidator {
	return &Consolidator{batches: make(map[string]BatchInfo)}
}

// KeyFor derives the registry key of a mesh file: its base name without
// extension.
func KeyFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Add appends m under key.
func (c *Consolidator) Add(key string, m *Mesh) error {
	if _, dup := c.batches[key]; dup {
		return fmt.Errorf("mesh %q registered twice", key)
	}
	n := m.VertexCount()
	if n == 0 || n%3 != 0 {
		return fmt.Errorf("mesh %q: %d vertices is not a triangle list", key, n)
	}

	start := c.data.VertexCount()
	for i := 0; i < n; i++ {
		p := m.Positions[i]
		c.data.Positions = append(c.data.Positions, p.X, p.Y, p.Z)

		var nrm math.Vec3
		if i < len(m.Normals) {
			nrm = m.Normals[i]
		}
		c.data.Normals = append(c.data.Normals, nrm.X, nrm.Y, nrm.Z)

		var uv [2]float32
		if i < len(m.TexCoords) {
			uv = m.TexCoords[i]
		}
		c.data.TexCoords = append(c.data.TexCoords, uv[0], uv[1])
	}

	c.batches[key] = BatchInfo{Start: int32(start), Count: int32(n)}
	return nil
}

// AddFile loads a mesh file (.obj, .gltf or .glb) and adds it under
// KeyFor(path).
func (c *Consolidator) AddFile(path string) error {
	var (
		m   *Mesh
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return fmt.Errorf("open mesh: %w", err)
		}
		defer f.Close()
		m, err = ParseOBJ(f)
	case ".gltf", ".glb":
		m, err = LoadGLTF(path)
	default:
		return fmt.Errorf("mesh %s: unsupported format", path)
	}
	if err != nil {
		return fmt.Errorf("load mesh %s: %w", path, err)
	}
	return c.Add(KeyFor(path), m)
}

// Build returns the consolidated arrays and the registry. The consolidator
// must not be used afterwards.
func (c *Consolidator) Build() (*Data, *Registry) {
	data := c.data
	reg := &Registry{batches: c.batches}
	c.batches = nil
	return &data, reg
}
