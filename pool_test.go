package compose

import (
	"errors"
	"testing"
)

func TestPoolAcquireRelease(t *testing.T) {
	pool := NewTexturePool(0)

	tex, err := pool.Acquire(16, 16)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 16 {
		t.Fatalf("texture is %dx%d, want 16x16", tex.Width(), tex.Height())
	}
	if pool.Live() != 1 {
		t.Errorf("Live = %d, want 1", pool.Live())
	}

	pool.Release(tex)
	if pool.Live() != 0 {
		t.Errorf("Live after release = %d, want 0", pool.Live())
	}
	if pool.Pooled() != 1 {
		t.Errorf("Pooled = %d, want 1", pool.Pooled())
	}
}

func TestPoolReusesSameDimensions(t *testing.T) {
	pool := NewTexturePool(0)
	tex, _ := pool.Acquire(8, 8)
	tex.SetPixel(0, 0, Red)
	pool.Release(tex)

	again, _ := pool.Acquire(8, 8)
	if again != tex {
		t.Errorf("pool allocated a new texture instead of reusing")
	}
	// Reused textures come back cleared.
	if p := again.PixelAt(0, 0); p != Transparent {
		t.Errorf("reused texture not cleared: %+v", p)
	}
}

func TestPoolBucketsByDimensions(t *testing.T) {
	pool := NewTexturePool(0)
	small, _ := pool.Acquire(4, 4)
	pool.Release(small)

	big, err := pool.Acquire(8, 8)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if big == small {
		t.Errorf("pool handed out a 4x4 texture for an 8x8 request")
	}
}

func TestPoolExhaustion(t *testing.T) {
	pool := NewTexturePool(2)
	a, _ := pool.Acquire(4, 4)
	b, _ := pool.Acquire(4, 4)

	if _, err := pool.Acquire(4, 4); !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("third Acquire error = %v, want ErrResourceExhausted", err)
	}

	// Releasing frees capacity again.
	pool.Release(a)
	if _, err := pool.Acquire(4, 4); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	pool.Release(b)
}

func TestPoolInvalidDimensions(t *testing.T) {
	pool := NewTexturePool(0)
	if _, err := pool.Acquire(0, 4); err == nil {
		t.Error("Acquire(0,4) succeeded, want error")
	}
	if _, err := pool.Acquire(4, -1); err == nil {
		t.Error("Acquire(4,-1) succeeded, want error")
	}
}

func TestPoolWarmup(t *testing.T) {
	pool := NewTexturePool(0)
	pool.Warmup(32, 32, 3)
	if pool.Pooled() != 3 {
		t.Errorf("Pooled after warmup = %d, want 3", pool.Pooled())
	}
	if pool.Live() != 0 {
		t.Errorf("Live after warmup = %d, want 0", pool.Live())
	}
}
