package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/bouncer/pkg/math"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file into one
// expanded triangle list. Node transforms are not applied; meshes are used
// in their own space like OBJ files.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open: %w", err)
	}

	var out Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(&out, doc, prim); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	if out.VertexCount() == 0 {
		return nil, fmt.Errorf("gltf %s has no triangles", path)
	}
	return &out, nil
}

func appendPrimitive(out *Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices is not a triangle list", len(indices))
	}

	for t := 0; t < len(indices); t += 3 {
		tri := [3]uint32{indices[t], indices[t+1], indices[t+2]}
		var p [3]math.Vec3
		for k, i := range tri {
			if int(i) >= len(positions) {
				return fmt.Errorf("index %d out of range", i)
			}
			p[k] = math.Vec3{X: positions[i][0], Y: positions[i][1], Z: positions[i][2]}
		}
		flat := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalize()

		for k, i := range tri {
			out.Positions = append(out.Positions, p[k])
			if int(i) < len(normals) {
				n := normals[i]
				out.Normals = append(out.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
			} else {
				out.Normals = append(out.Normals, flat)
			}
			if int(i) < len(uvs) {
				out.TexCoords = append(out.TexCoords, uvs[i])
			} else {
				out.TexCoords = append(out.TexCoords, [2]float32{})
			}
		}
	}
	return nil
}
