package compose

import (
	"fmt"
	"sync"
)

// poolKey buckets free textures by dimensions.
type poolKey struct {
	width  int
	height int
}

// TexturePool owns every texture used during graph evaluation.
//
// Released textures are kept on a per-dimension free list so re-evaluation
// does not reallocate pixel memory every pass. A texture handed out by
// Acquire is exclusively owned by the caller until it is passed back to
// Release; the pool never hands the same texture to two callers.
//
// All methods are safe for concurrent use. The pool is the only shared
// mutable resource in the pipeline, so acquire/release are serialized under
// one mutex; a race on the dimension buckets would corrupt the free lists.
//
// Usage:
//
//	pool := compose.NewTexturePool(0)
//	tex, err := pool.Acquire(512, 512)
//	defer pool.Release(tex)
type TexturePool struct {
	mu      sync.Mutex
	free    map[poolKey][]*Texture
	live    int
	maxLive int // 0 = unlimited
}

// NewTexturePool creates a texture pool. maxLive bounds the number of
// simultaneously live (acquired, not yet released) textures; 0 means
// unlimited. The bound models GPU memory exhaustion: Acquire fails with
// ErrResourceExhausted once it is reached.
func NewTexturePool(maxLive int) *TexturePool {
	return &TexturePool{
		free:    make(map[poolKey][]*Texture),
		maxLive: maxLive,
	}
}

// Acquire returns a cleared texture of the requested dimensions, reusing a
// pooled one when available. The caller owns the texture exclusively until
// Release.
func (p *TexturePool) Acquire(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("compose: invalid texture size: %dx%d", width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxLive > 0 && p.live >= p.maxLive {
		return nil, fmt.Errorf("compose: acquire %dx%d: %w", width, height, ErrResourceExhausted)
	}

	key := poolKey{width, height}
	if list := p.free[key]; len(list) > 0 {
		tex := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		p.live++
		tex.Clear(Transparent)
		return tex, nil
	}

	p.live++
	return NewTexture(width, height), nil
}

// Release returns a texture to the pool for reuse. Releasing nil is a no-op.
// The caller must not touch the texture afterwards.
func (p *TexturePool) Release(tex *Texture) {
	if tex == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	key := poolKey{tex.width, tex.height}
	p.free[key] = append(p.free[key], tex)
	if p.live > 0 {
		p.live--
	}
}

// Live returns the number of textures currently acquired and not released.
func (p *TexturePool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Pooled returns the number of textures sitting on free lists.
func (p *TexturePool) Pooled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, list := range p.free {
		n += len(list)
	}
	return n
}

// Warmup pre-allocates count textures of the given dimensions so the first
// evaluation pass does not allocate.
func (p *TexturePool) Warmup(width, height, count int) {
	texs := make([]*Texture, 0, count)
	for i := 0; i < count; i++ {
		t, err := p.Acquire(width, height)
		if err != nil {
			break
		}
		texs = append(texs, t)
	}
	for _, t := range texs {
		p.Release(t)
	}
}
