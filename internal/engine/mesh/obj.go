package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/bouncer/pkg/math"
)

type objVertex struct {
	p, t, n int // 0-based, -1 when absent
}

// ParseOBJ reads a Wavefront OBJ stream into an expanded triangle list.
// Polygons are fan-triangulated; faces without normals get the flat face
// normal.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       [][2]float32
		out       Mesh
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "v", "vn":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if parts[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}
		case "vt":
			v, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, [2]float32{v[0], v[1]})
		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]objVertex, 0, len(parts)-1)
			for _, s := range parts[1:] {
				fv, err := parseFaceVertex(s, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, fv)
			}
			for i := 2; i < len(face); i++ {
				emitTriangle(&out, [3]objVertex{face[0], face[i-1], face[i]}, positions, uvs, normals)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if out.VertexCount() == 0 {
		return nil, errors.New("obj has no faces")
	}
	return &out, nil
}

func emitTriangle(out *Mesh, tri [3]objVertex, positions []math.Vec3, uvs [][2]float32, normals []math.Vec3) {
	p0, p1, p2 := positions[tri[0].p], positions[tri[1].p], positions[tri[2].p]
	flat := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	for _, v := range tri {
		out.Positions = append(out.Positions, positions[v.p])
		if v.n >= 0 {
			out.Normals = append(out.Normals, normals[v.n])
		} else {
			out.Normals = append(out.Normals, flat)
		}
		if v.t >= 0 {
			out.TexCoords = append(out.TexCoords, uvs[v.t])
		} else {
			out.TexCoords = append(out.TexCoords, [2]float32{})
		}
	}
}

// parseFaceVertex parses "p", "p/t", "p//n" or "p/t/n". Negative indices
// count back from the end of the lists read so far.
func parseFaceVertex(s string, np, nt, nn int) (objVertex, error) {
	fields := strings.Split(s, "/")
	v := objVertex{p: -1, t: -1, n: -1}

	counts := [3]int{np, nt, nn}
	dst := [3]*int{&v.p, &v.t, &v.n}
	for i, f := range fields {
		if i > 2 {
			return v, fmt.Errorf("bad face vertex %q", s)
		}
		if f == "" {
			continue
		}
		idx, err := strconv.Atoi(f)
		if err != nil {
			return v, fmt.Errorf("bad face vertex %q: %w", s, err)
		}
		if idx < 0 {
			idx = counts[i] + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= counts[i] {
			return v, fmt.Errorf("face vertex %q out of range", s)
		}
		*dst[i] = idx
	}
	if v.p < 0 {
		return v, fmt.Errorf("face vertex %q has no position", s)
	}
	return v, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
