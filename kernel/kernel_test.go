package kernel

import (
	"context"
	"testing"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/graph"
)

func TestForKindCoversAllNodeKinds(t *testing.T) {
	for _, kind := range []graph.Kind{
		graph.KindColorSource, graph.KindShape, graph.KindBlend, graph.KindOutput,
	} {
		if _, ok := ForKind(kind); !ok {
			t.Errorf("no kernel for kind %s", kind)
		}
	}
	if _, ok := ForKind(graph.Kind(99)); ok {
		t.Error("ForKind(99) returned a kernel")
	}
}

func TestColorSourceKernel(t *testing.T) {
	g := graph.New()
	id := g.AddNode(graph.KindColorSource, graph.Params{"color": graph.Color(compose.Magenta)})
	n, _ := g.Node(id)

	out := compose.NewTexture(3, 3)
	if err := (ColorSourceKernel{}).Dispatch(context.Background(), n, nil, out); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := out.PixelAt(1, 1); got != compose.Magenta {
		t.Errorf("texel = %+v, want magenta", got)
	}
}

func TestColorSourceKernelMissingParam(t *testing.T) {
	g := graph.New()
	id := g.AddNode(graph.KindColorSource, nil)
	n, _ := g.Node(id)

	out := compose.NewTexture(2, 2)
	out.Clear(compose.White)
	if err := (ColorSourceKernel{}).Dispatch(context.Background(), n, nil, out); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := out.PixelAt(0, 0); got != compose.Transparent {
		t.Errorf("texel = %+v, want transparent fill for missing param", got)
	}
}

func TestOutputKernelCopies(t *testing.T) {
	g := graph.New()
	id := g.AddNode(graph.KindOutput, nil)
	n, _ := g.Node(id)

	src := compose.NewTexture(2, 2)
	src.SetPixel(1, 0, compose.Cyan)
	out := compose.NewTexture(2, 2)

	if err := (OutputKernel{}).Dispatch(context.Background(), n, []*compose.Texture{src}, out); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := out.PixelAt(1, 0); got != compose.Cyan {
		t.Errorf("copied texel = %+v, want cyan", got)
	}

	// The copy must not alias the source.
	src.SetPixel(1, 0, compose.Red)
	if got := out.PixelAt(1, 0); got != compose.Cyan {
		t.Error("output aliases its input texture")
	}
}

func TestOutputKernelErrors(t *testing.T) {
	g := graph.New()
	id := g.AddNode(graph.KindOutput, nil)
	n, _ := g.Node(id)
	out := compose.NewTexture(2, 2)

	if err := (OutputKernel{}).Dispatch(context.Background(), n, nil, out); err == nil {
		t.Error("Dispatch without inputs succeeded")
	}
	small := compose.NewTexture(1, 1)
	if err := (OutputKernel{}).Dispatch(context.Background(), n, []*compose.Texture{small}, out); err == nil {
		t.Error("Dispatch with mismatched input size succeeded")
	}
}
