package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/compose"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := New()
	shape := g.AddNode(KindShape, Params{
		"shape":  Shape(compose.Circle(50, compose.Red)),
		"weight": Float(2.5),
		"offset": Vec2(3, 4),
	})
	color := g.AddNode(KindColorSource, Params{"color": Color(compose.Blue)})
	blend := g.AddNode(KindBlend, nil)
	out := g.AddNode(KindOutput, nil)
	if _, err := g.Connect(shape, 0, blend, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(color, 0, blend, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(blend, 0, out, 0); err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node(shape)
	n.Layout = compose.Rect{X: 10, Y: 20, W: 120, H: 90}

	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := decoded.Nodes(), g.Nodes(); len(got) != len(want) {
		t.Fatalf("decoded %d nodes, want %d", len(got), len(want))
	}
	if got, want := decoded.Edges(), g.Edges(); len(got) != len(want) {
		t.Fatalf("decoded %d edges, want %d", len(got), len(want))
	}

	dn, ok := decoded.Node(shape)
	if !ok {
		t.Fatalf("decoded graph missing node %d", shape)
	}
	if dn.Kind() != KindShape {
		t.Errorf("decoded kind = %s, want shape", dn.Kind())
	}
	if dn.Layout != (compose.Rect{X: 10, Y: 20, W: 120, H: 90}) {
		t.Errorf("decoded layout = %+v", dn.Layout)
	}
	v, _ := dn.Param("shape")
	d, ok := v.Shape()
	if !ok || d.Kind != compose.ShapeCircle || d.Params[0] != 50 || d.Fill != compose.Red {
		t.Errorf("decoded shape param = %+v", d)
	}
	if v, _ := dn.Param("weight"); v.Kind() != ValueFloat {
		t.Errorf("decoded weight kind = %v", v.Kind())
	}
	if !dn.Dirty() {
		t.Error("decoded nodes should start dirty")
	}

	// Fresh ids continue past the decoded ones.
	next := decoded.AddNode(KindColorSource, nil)
	if next <= out {
		t.Errorf("new id %d collides with decoded ids", next)
	}
}

func TestDecodeRejectsCycle(t *testing.T) {
	// A hand-edited file with a cyclic edge set must not load.
	payload := `{
  "nodes": [
    {"id": 1, "kind": "output", "layout": {}},
    {"id": 2, "kind": "output", "layout": {}}
  ],
  "edges": [
    {"from": 1, "fromSlot": 0, "to": 2, "toSlot": 0},
    {"from": 2, "fromSlot": 0, "to": 1, "toSlot": 0}
  ]
}`
	if _, err := Decode(strings.NewReader(payload)); err == nil {
		t.Fatal("Decode accepted a cyclic edge set")
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	payload := `{"nodes": [{"id": 1, "kind": "warp", "layout": {}}], "edges": []}`
	if _, err := Decode(strings.NewReader(payload)); err == nil {
		t.Fatal("Decode accepted an unknown node kind")
	}
}

func TestDecodeRejectsDuplicateIDs(t *testing.T) {
	payload := `{"nodes": [
    {"id": 1, "kind": "output", "layout": {}},
    {"id": 1, "kind": "blend", "layout": {}}
  ], "edges": []}`
	if _, err := Decode(strings.NewReader(payload)); err == nil {
		t.Fatal("Decode accepted duplicate node ids")
	}
}
