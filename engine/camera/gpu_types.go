package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/safehouse/common"
)

// GPUGlobalUniform is the GPU-aligned representation of the global bind group's data.
// Size: 80 bytes. Time occupies the first 16-byte row so ViewProj starts 16-byte aligned.
//
// WGSL:
//
//	@group(global) @binding(0) var<uniform> time: f32;
//	@group(global) @binding(1) var<uniform> view_proj: mat4x4<f32>;
type GPUGlobalUniform struct {
	Time     float32     // offset  0: seconds since the render manager started
	_pad     [3]float32  // offset  4: padding to 16 bytes
	ViewProj common.Mat4 // offset 16: projection * view
}

// TimeSize and ViewProjSize are the sizes of the two global bindings.
const (
	TimeSize     = 16
	ViewProjSize = 64
)

// Size returns the size of the GPUGlobalUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUGlobalUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGlobalUniform struct into a byte buffer suitable for GPU upload.
// The first TimeSize bytes back the time binding and the remaining ViewProjSize bytes back the
// view_proj binding.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUGlobalUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Time))
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[TimeSize+i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}
