package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gogpu/compose"
)

// Encoded form of a graph. The layout is what an external serializer
// persists: the node set with kind and parameters, the edge set, and
// per-node layout metadata. Dirty flags and cached textures are runtime
// state and are not written; decoded nodes start dirty.

type encodedColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type encodedShape struct {
	Kind   string       `json:"kind"`
	Params [3]float32   `json:"params"`
	Fill   encodedColor `json:"fill"`
}

type encodedValue struct {
	Type  string        `json:"type"`
	Num   []float64     `json:"num,omitempty"`
	Color *encodedColor `json:"color,omitempty"`
	Shape *encodedShape `json:"shape,omitempty"`
}

type encodedNode struct {
	ID     NodeID                  `json:"id"`
	Kind   string                  `json:"kind"`
	Params map[string]encodedValue `json:"params,omitempty"`
	Layout compose.Rect            `json:"layout"`
}

type encodedGraph struct {
	Nodes []encodedNode `json:"nodes"`
	Edges []Edge        `json:"edges"`
}

func encodeColor(c compose.RGBA) encodedColor {
	return encodedColor{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c encodedColor) color() compose.RGBA {
	return compose.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func encodeValue(v Value) encodedValue {
	switch v.kind {
	case ValueVec2:
		return encodedValue{Type: "vec2", Num: []float64{v.num[0], v.num[1]}}
	case ValueVec3:
		return encodedValue{Type: "vec3", Num: []float64{v.num[0], v.num[1], v.num[2]}}
	case ValueColor:
		c := encodeColor(v.col)
		return encodedValue{Type: "color", Color: &c}
	case ValueShape:
		s := encodedShape{
			Kind:   v.shape.Kind.String(),
			Params: v.shape.Params,
			Fill:   encodeColor(v.shape.Fill),
		}
		return encodedValue{Type: "shape", Shape: &s}
	default:
		return encodedValue{Type: "float", Num: []float64{v.num[0]}}
	}
}

func decodeValue(ev encodedValue) (Value, error) {
	switch ev.Type {
	case "float":
		if len(ev.Num) != 1 {
			return Value{}, fmt.Errorf("graph: float value needs 1 component, got %d", len(ev.Num))
		}
		return Float(ev.Num[0]), nil
	case "vec2":
		if len(ev.Num) != 2 {
			return Value{}, fmt.Errorf("graph: vec2 value needs 2 components, got %d", len(ev.Num))
		}
		return Vec2(ev.Num[0], ev.Num[1]), nil
	case "vec3":
		if len(ev.Num) != 3 {
			return Value{}, fmt.Errorf("graph: vec3 value needs 3 components, got %d", len(ev.Num))
		}
		return Vec3(ev.Num[0], ev.Num[1], ev.Num[2]), nil
	case "color":
		if ev.Color == nil {
			return Value{}, fmt.Errorf("graph: color value missing payload")
		}
		return Color(ev.Color.color()), nil
	case "shape":
		if ev.Shape == nil {
			return Value{}, fmt.Errorf("graph: shape value missing payload")
		}
		var kind compose.ShapeKind
		switch ev.Shape.Kind {
		case "circle":
			kind = compose.ShapeCircle
		case "rectangle":
			kind = compose.ShapeRectangle
		case "triangle":
			kind = compose.ShapeTriangle
		default:
			return Value{}, fmt.Errorf("graph: unknown shape kind %q", ev.Shape.Kind)
		}
		return Shape(compose.ShapeDescriptor{
			Kind:   kind,
			Params: ev.Shape.Params,
			Fill:   ev.Shape.Fill.color(),
		}), nil
	default:
		return Value{}, fmt.Errorf("graph: unknown value type %q", ev.Type)
	}
}

// Encode writes the graph's persistable state as JSON.
func (g *Graph) Encode(w io.Writer) error {
	eg := encodedGraph{Edges: g.Edges()}
	for _, id := range g.Nodes() {
		n := g.nodes[id]
		en := encodedNode{ID: id, Kind: n.kind.String(), Layout: n.Layout}
		if len(n.params) > 0 {
			en.Params = make(map[string]encodedValue, len(n.params))
			for k, v := range n.params {
				en.Params[k] = encodeValue(v)
			}
		}
		eg.Nodes = append(eg.Nodes, en)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(eg)
}

// Decode reconstructs a graph from its JSON form. Edges are re-inserted
// through Connect, so a corrupt file cannot smuggle in a cycle or a doubly
// fed input slot. All decoded nodes are dirty with no cached texture.
func Decode(r io.Reader) (*Graph, error) {
	var eg encodedGraph
	if err := json.NewDecoder(r).Decode(&eg); err != nil {
		return nil, fmt.Errorf("graph: decode: %w", err)
	}

	g := New()
	for _, en := range eg.Nodes {
		kind, ok := kindFromString(en.Kind)
		if !ok {
			return nil, fmt.Errorf("graph: unknown node kind %q", en.Kind)
		}
		params := make(Params, len(en.Params))
		for k, ev := range en.Params {
			v, err := decodeValue(ev)
			if err != nil {
				return nil, fmt.Errorf("graph: node %d param %q: %w", en.ID, k, err)
			}
			params[k] = v
		}
		if _, exists := g.nodes[en.ID]; exists {
			return nil, fmt.Errorf("graph: duplicate node id %d", en.ID)
		}
		n := &Node{id: en.ID, kind: kind, params: params, dirty: true, Layout: en.Layout}
		g.nodes[en.ID] = n
		if en.ID >= g.nextID {
			g.nextID = en.ID + 1
		}
	}
	for _, e := range eg.Edges {
		if _, err := g.Connect(e.From, e.FromSlot, e.To, e.ToSlot); err != nil {
			return nil, fmt.Errorf("graph: edge %d -> %d: %w", e.From, e.To, err)
		}
	}
	return g, nil
}
