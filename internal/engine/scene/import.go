package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/bouncer/pkg/math"
)

// Keyframe positions an animated node at TimeMs, as an offset from the
// node's resting transform.
type Keyframe struct {
	TimeMs   float32
	Position math.Vec3
}

// Track animates one named node of a subtree.
type Track struct {
	Node string
	Keys []Keyframe
}

// Animation is a named set of tracks played together.
type Animation struct {
	Name   string
	Tracks []Track
}

// Imported is the result of importing a scene file.
type Imported struct {
	Root       NodeID
	Animations []Animation
}

// File layout:
//
//	root:
//	  name: player
//	  transform:
//	    - translate: [0, 0, 20]
//	    - rotate: {axis: y, degrees: 180}
//	    - scale: [1, 1, 1]
//	  children:
//	    - name: body
//	      kind: geometry
//	      mesh: sphere
//	      material: {kd: [0.8, 0.2, 0.2], ks: [0.5, 0.5, 0.5], shininess: 30}
//	    - name: shoulder
//	      kind: joint
//	      joint: {x: [-45, 0, 45], y: [0, 0, 0]}
//	animations:
//	  - name: wave
//	    tracks:
//	      - node: shoulder
//	        keys: [{t: 0, pos: [0, 0, 0]}, {t: 250, pos: [0, 0.5, 0]}]
//
// Transform operations apply in the listed order, each one composed on the
// left of the operations before it.
type fileDoc struct {
	Root       nodeDoc        `yaml:"root"`
	Animations []animationDoc `yaml:"animations"`
}

type nodeDoc struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"`
	Mesh      string        `yaml:"mesh"`
	Material  *materialDoc  `yaml:"material"`
	Joint     *jointDoc     `yaml:"joint"`
	Transform []transformOp `yaml:"transform"`
	Children  []nodeDoc     `yaml:"children"`
}

type materialDoc struct {
	Kd        [3]float32 `yaml:"kd"`
	Ks        [3]float32 `yaml:"ks"`
	Shininess float32    `yaml:"shininess"`
}

// jointDoc ranges are [min, init, max] in degrees.
type jointDoc struct {
	X [3]float32 `yaml:"x"`
	Y [3]float32 `yaml:"y"`
}

type transformOp struct {
	Translate *[3]float32 `yaml:"translate"`
	Scale     *[3]float32 `yaml:"scale"`
	Rotate    *rotateDoc  `yaml:"rotate"`
}

type rotateDoc struct {
	Axis    string  `yaml:"axis"`
	Degrees float32 `yaml:"degrees"`
}

type animationDoc struct {
	Name   string     `yaml:"name"`
	Tracks []trackDoc `yaml:"tracks"`
}

type trackDoc struct {
	Node string   `yaml:"node"`
	Keys []keyDoc `yaml:"keys"`
}

type keyDoc struct {
	T   float32    `yaml:"t"`
	Pos [3]float32 `yaml:"pos"`
}

// ImportFile reads a scene file and attaches its subtree to g as a new root.
func ImportFile(g *Graph, path string) (Imported, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Imported{Root: NoNode}, fmt.Errorf("read scene: %w", err)
	}
	imp, err := Import(g, data)
	if err != nil {
		return Imported{Root: NoNode}, fmt.Errorf("import %s: %w", path, err)
	}
	return imp, nil
}

// Import parses scene data and attaches it to g as a new root. The document
// is validated before any node is added, so a failed import leaves g
// untouched and returns NoNode.
func Import(g *Graph, data []byte) (Imported, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Imported{Root: NoNode}, fmt.Errorf("parse scene: %w", err)
	}

	if err := validateNode(&doc.Root, "root"); err != nil {
		return Imported{Root: NoNode}, err
	}
	anims, err := convertAnimations(doc.Animations, &doc.Root)
	if err != nil {
		return Imported{Root: NoNode}, err
	}

	root, err := addNode(g, NoNode, &doc.Root)
	if err != nil {
		return Imported{Root: NoNode}, err
	}
	return Imported{Root: root, Animations: anims}, nil
}

func validateNode(n *nodeDoc, path string) error {
	if n.Name != "" {
		path = n.Name
	}
	kind, err := parseKind(n.Kind)
	if err != nil {
		return fmt.Errorf("node %s: %w", path, err)
	}
	switch kind {
	case KindGeometry:
		if n.Mesh == "" {
			return fmt.Errorf("node %s: geometry without mesh", path)
		}
	case KindJoint:
		if n.Joint == nil {
			return fmt.Errorf("node %s: joint without ranges", path)
		}
		for _, r := range [][3]float32{n.Joint.X, n.Joint.Y} {
			if r[0] > r[1] || r[1] > r[2] {
				return fmt.Errorf("node %s: joint range %v must satisfy min <= init <= max", path, r)
			}
		}
	}
	if _, err := composeTransform(n.Transform); err != nil {
		return fmt.Errorf("node %s: %w", path, err)
	}
	for i := range n.Children {
		if err := validateNode(&n.Children[i], fmt.Sprintf("%s/%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func addNode(g *Graph, parent NodeID, d *nodeDoc) (NodeID, error) {
	kind, _ := parseKind(d.Kind)
	local, _ := composeTransform(d.Transform)

	n := Node{Name: d.Name, Kind: kind}
	switch kind {
	case KindGeometry:
		mat := DefaultMaterial()
		if d.Material != nil {
			mat = Material{
				Kd:        vec3(d.Material.Kd),
				Ks:        vec3(d.Material.Ks),
				Shininess: d.Material.Shininess,
			}
		}
		n.Geometry = Geometry{Mesh: d.Mesh, Material: mat}
	case KindJoint:
		x := JointRange{Min: d.Joint.X[0], Init: d.Joint.X[1], Max: d.Joint.X[2]}
		y := JointRange{Min: d.Joint.Y[0], Init: d.Joint.Y[1], Max: d.Joint.Y[2]}
		n.Joint = NewJoint(x, y)
		local = local.Mul(math.RotateX(radians(x.Init))).Mul(math.RotateY(radians(y.Init)))
	}
	n.Local = local

	id, err := g.Add(parent, n)
	if err != nil {
		return NoNode, err
	}
	for i := range d.Children {
		if _, err := addNode(g, id, &d.Children[i]); err != nil {
			return NoNode, err
		}
	}
	return id, nil
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "generic":
		return KindGeneric, nil
	case "geometry":
		return KindGeometry, nil
	case "joint":
		return KindJoint, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

var errEmptyOp = errors.New("transform op sets nothing")

func composeTransform(ops []transformOp) (math.Mat4, error) {
	m := math.Identity()
	for i, op := range ops {
		var t math.Mat4
		switch {
		case op.Translate != nil:
			t = math.Translate(vec3(*op.Translate))
		case op.Scale != nil:
			t = math.Scale(vec3(*op.Scale))
		case op.Rotate != nil:
			r, err := rotation(*op.Rotate)
			if err != nil {
				return m, fmt.Errorf("transform %d: %w", i, err)
			}
			t = r
		default:
			return m, fmt.Errorf("transform %d: %w", i, errEmptyOp)
		}
		m = t.Mul(m)
	}
	return m, nil
}

func rotation(r rotateDoc) (math.Mat4, error) {
	rad := radians(r.Degrees)
	switch strings.ToLower(r.Axis) {
	case "x":
		return math.RotateX(rad), nil
	case "y":
		return math.RotateY(rad), nil
	case "z":
		return math.RotateZ(rad), nil
	default:
		return math.Identity(), fmt.Errorf("unknown rotation axis %q", r.Axis)
	}
}

func convertAnimations(docs []animationDoc, root *nodeDoc) ([]Animation, error) {
	names := map[string]bool{}
	collectNames(root, names)

	anims := make([]Animation, 0, len(docs))
	for _, a := range docs {
		anim := Animation{Name: a.Name}
		for _, tr := range a.Tracks {
			if !names[tr.Node] {
				return nil, fmt.Errorf("animation %s: track targets unknown node %q", a.Name, tr.Node)
			}
			track := Track{Node: tr.Node, Keys: make([]Keyframe, len(tr.Keys))}
			for i, k := range tr.Keys {
				if i > 0 && k.T < tr.Keys[i-1].T {
					return nil, fmt.Errorf("animation %s: keys for %s out of order", a.Name, tr.Node)
				}
				track.Keys[i] = Keyframe{TimeMs: k.T, Position: vec3(k.Pos)}
			}
			anim.Tracks = append(anim.Tracks, track)
		}
		anims = append(anims, anim)
	}
	return anims, nil
}

func collectNames(n *nodeDoc, names map[string]bool) {
	if n.Name != "" {
		names[n.Name] = true
	}
	for i := range n.Children {
		collectNames(&n.Children[i], names)
	}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
