package binding

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformBuffer holds a host-side value of V mirrored into a GPU uniform buffer.
// It satisfies UniformResource so it can be bound with Uniform.
type UniformBuffer[V any] struct {
	mu     *sync.Mutex
	value  V
	dirty  bool
	buffer *wgpu.Buffer
	size   uint64
}

// NewUniformBuffer allocates a uniform buffer large enough for V, rounded up to 16 bytes,
// and uploads the initial value.
//
// Parameters:
//   - ctx: the GPU context to allocate on
//   - label: the debug label of the buffer
//   - initial: the initial value
//
// Returns:
//   - *UniformBuffer[V]: the uniform buffer
//   - error: an error if the allocation failed
func NewUniformBuffer[V any](ctx renderer.GPUContext, label string, initial V) (*UniformBuffer[V], error) {
	data := common.StructToBytes(&initial)
	size := uint64(len(data)+15) &^ 15
	if size == 0 {
		size = 16
	}
	buf, err := ctx.CreateBuffer(label, size, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %q: %w", label, err)
	}
	ctx.WriteBuffer(buf, 0, data)
	return &UniformBuffer[V]{
		mu:     &sync.Mutex{},
		value:  initial,
		buffer: buf,
		size:   size,
	}, nil
}

func (u *UniformBuffer[V]) Buffer() *wgpu.Buffer {
	if u == nil {
		return nil
	}
	return u.buffer
}

func (u *UniformBuffer[V]) Size() uint64 {
	return u.size
}

func (u *UniformBuffer[V]) Value() V {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.value
}

// Set replaces the host-side value. The GPU copy changes on the next Update.
func (u *UniformBuffer[V]) Set(v V) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.value = v
	u.dirty = true
}

// Update writes the host-side value to the GPU if it changed since the last write.
//
// Parameters:
//   - ctx: the GPU context owning the buffer
//
// Returns:
//   - bool: true if a write was queued
func (u *UniformBuffer[V]) Update(ctx renderer.GPUContext) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.dirty {
		return false
	}
	ctx.WriteBuffer(u.buffer, 0, common.StructToBytes(&u.value))
	u.dirty = false
	return true
}

// Release releases the GPU buffer.
func (u *UniformBuffer[V]) Release(ctx renderer.GPUContext) {
	if u == nil || u.buffer == nil {
		return
	}
	ctx.ReleaseBuffer(u.buffer)
	u.buffer = nil
}
