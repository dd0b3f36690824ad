package compose

import (
	"errors"
	"log/slog"
	"testing"
)

// mockAccelerator records calls for registration tests.
type mockAccelerator struct {
	name     string
	initErr  error
	inited   bool
	closed   bool
	logger   *slog.Logger
	canBits  AcceleratedOp
	fillErr  error
	fillHits int
}

func (m *mockAccelerator) Name() string { return m.name }
func (m *mockAccelerator) Init() error {
	m.inited = true
	return m.initErr
}
func (m *mockAccelerator) Close()                              { m.closed = true }
func (m *mockAccelerator) SetLogger(l *slog.Logger)            { m.logger = l }
func (m *mockAccelerator) CanAccelerate(op AcceleratedOp) bool { return op&m.canBits != 0 }

func (m *mockAccelerator) FillShape(*Texture, ShapeDescriptor) error {
	m.fillHits++
	return m.fillErr
}
func (m *mockAccelerator) Composite(_, _, _ *Texture) error       { return ErrFallbackToCPU }
func (m *mockAccelerator) DrawBox(*Texture, BoxUniform, *Texture) error {
	return ErrFallbackToCPU
}
func (m *mockAccelerator) DrawPort(*Texture, PortUniform) error { return ErrFallbackToCPU }

func TestRegisterAcceleratorNil(t *testing.T) {
	if err := RegisterAccelerator(nil); err == nil {
		t.Error("RegisterAccelerator(nil) succeeded, want error")
	}
}

func TestRegisterAcceleratorInitFailure(t *testing.T) {
	before := Accelerator()
	m := &mockAccelerator{name: "failing", initErr: errors.New("no device")}
	if err := RegisterAccelerator(m); err == nil {
		t.Fatal("RegisterAccelerator succeeded despite Init failure")
	}
	if Accelerator() != before {
		t.Error("failed registration replaced the active accelerator")
	}
}

func TestRegisterAcceleratorReplacesAndCloses(t *testing.T) {
	first := &mockAccelerator{name: "first"}
	if err := RegisterAccelerator(first); err != nil {
		t.Fatalf("register first: %v", err)
	}
	if !first.inited {
		t.Error("Init not called during registration")
	}

	second := &mockAccelerator{name: "second"}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatalf("register second: %v", err)
	}
	if !first.closed {
		t.Error("previous accelerator not closed on replacement")
	}
	if got := Accelerator(); got != second {
		t.Errorf("Accelerator() = %v, want second", got.Name())
	}
}

func TestSetLoggerPropagatesToAccelerator(t *testing.T) {
	m := &mockAccelerator{name: "logging"}
	if err := RegisterAccelerator(m); err != nil {
		t.Fatalf("register: %v", err)
	}
	if m.logger == nil {
		t.Error("registration did not propagate the current logger")
	}

	l := slog.Default()
	SetLogger(l)
	defer SetLogger(nil)
	if m.logger != l {
		t.Error("SetLogger did not propagate to the accelerator")
	}
}
