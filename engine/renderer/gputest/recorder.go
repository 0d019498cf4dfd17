// Package gputest provides a recording GPUContext for tests that exercise the render manager
// without a GPU. Every created handle is a distinct, unusable pointer; every descriptor and
// every render pass command is recorded in call order.
package gputest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Op identifies a recorded render pass command.
type Op int

const (
	OpSetPipeline Op = iota
	OpSetBindGroup
	OpSetVertexBuffer
	OpDraw
)

// Command is one recorded render pass command.
type Command struct {
	Op Op

	Pipeline  *wgpu.RenderPipeline
	Slot      uint32
	BindGroup *wgpu.BindGroup
	Buffer    *wgpu.Buffer

	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
}

// BufferWrite is one recorded WriteBuffer call.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// Frame is the list of commands recorded between BeginFrame and EndFrame.
type Frame struct {
	Clear    wgpu.Color
	Commands []Command
	// Writes holds the buffer writes issued while this frame was open.
	Writes    []BufferWrite
	Submitted bool
	Presented bool
}

// Draws returns only the draw commands of the frame.
func (f *Frame) Draws() []Command {
	var out []Command
	for _, c := range f.Commands {
		if c.Op == OpDraw {
			out = append(out, c)
		}
	}
	return out
}

// Recorder is a fake renderer.GPUContext.
type Recorder struct {
	mu *sync.Mutex

	ShaderSources    map[*wgpu.ShaderModule]string
	BindGroupLayouts map[*wgpu.BindGroupLayout]wgpu.BindGroupLayoutDescriptor
	BindGroups       map[*wgpu.BindGroup]wgpu.BindGroupDescriptor
	PipelineLayouts  map[*wgpu.PipelineLayout]wgpu.PipelineLayoutDescriptor
	Pipelines        map[*wgpu.RenderPipeline]wgpu.RenderPipelineDescriptor
	Buffers          map[*wgpu.Buffer]string
	BufferData       map[*wgpu.Buffer][]byte
	Textures         map[*wgpu.TextureView]common.TextureStagingData
	Samplers         map[*wgpu.Sampler]string

	// Released records every buffer and bind group passed to a Release call.
	ReleasedBuffers    []*wgpu.Buffer
	ReleasedBindGroups []*wgpu.BindGroup

	// Configures records every ConfigureSurface call as [width, height].
	Configures [][2]int
	// Writes records every WriteBuffer call.
	Writes []BufferWrite
	Frames []*Frame

	// FailBindGroups makes CreateBindGroup fail, simulating a layout/entry mismatch.
	FailBindGroups bool

	open *Frame
}

var (
	_ renderer.GPUContext = &Recorder{}
	_ renderer.RenderPass = &pass{}
)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		mu:               &sync.Mutex{},
		ShaderSources:    map[*wgpu.ShaderModule]string{},
		BindGroupLayouts: map[*wgpu.BindGroupLayout]wgpu.BindGroupLayoutDescriptor{},
		BindGroups:       map[*wgpu.BindGroup]wgpu.BindGroupDescriptor{},
		PipelineLayouts:  map[*wgpu.PipelineLayout]wgpu.PipelineLayoutDescriptor{},
		Pipelines:        map[*wgpu.RenderPipeline]wgpu.RenderPipelineDescriptor{},
		Buffers:          map[*wgpu.Buffer]string{},
		BufferData:       map[*wgpu.Buffer][]byte{},
		Textures:         map[*wgpu.TextureView]common.TextureStagingData{},
		Samplers:         map[*wgpu.Sampler]string{},
	}
}

// LastFrame returns the most recently begun frame, or nil.
func (r *Recorder) LastFrame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

// BufferByLabel returns the first buffer created with the given label.
func (r *Recorder) BufferByLabel(label string) *wgpu.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	for b, l := range r.Buffers {
		if l == label {
			return b
		}
	}
	return nil
}

func (r *Recorder) CreateShaderModule(label, source string) (*wgpu.ShaderModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if source == "" {
		return nil, fmt.Errorf("shader %q has no source", label)
	}
	m := &wgpu.ShaderModule{}
	r.ShaderSources[m] = source
	return m, nil
}

func (r *Recorder) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := &wgpu.BindGroupLayout{}
	r.BindGroupLayouts[l] = *desc
	return l, nil
}

func (r *Recorder) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailBindGroups {
		return nil, errors.New("bind group entries do not match layout")
	}
	layout, ok := r.BindGroupLayouts[desc.Layout]
	if !ok {
		return nil, fmt.Errorf("bind group %q references an unknown layout", desc.Label)
	}
	if len(layout.Entries) != len(desc.Entries) {
		return nil, fmt.Errorf("bind group %q has %d entries, layout has %d", desc.Label, len(desc.Entries), len(layout.Entries))
	}
	for i := range desc.Entries {
		if desc.Entries[i].Binding != layout.Entries[i].Binding {
			return nil, fmt.Errorf("bind group %q entry %d binds slot %d, layout declares %d",
				desc.Label, i, desc.Entries[i].Binding, layout.Entries[i].Binding)
		}
	}
	bg := &wgpu.BindGroup{}
	r.BindGroups[bg] = *desc
	return bg, nil
}

func (r *Recorder) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range desc.BindGroupLayouts {
		if _, ok := r.BindGroupLayouts[l]; !ok {
			return nil, fmt.Errorf("pipeline layout %q group %d references an unknown layout", desc.Label, i)
		}
	}
	pl := &wgpu.PipelineLayout{}
	r.PipelineLayouts[pl] = *desc
	return pl, nil
}

func (r *Recorder) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.PipelineLayouts[desc.Layout]; !ok {
		return nil, fmt.Errorf("pipeline %q references an unknown layout", desc.Label)
	}
	p := &wgpu.RenderPipeline{}
	r.Pipelines[p] = *desc
	return p, nil
}

func (r *Recorder) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &wgpu.Buffer{}
	r.Buffers[b] = label
	r.BufferData[b] = make([]byte, size)
	return b, nil
}

func (r *Recorder) CreateVertexBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(data) == 0 {
		return nil, errors.New("vertex buffer data is empty")
	}
	b := &wgpu.Buffer{}
	r.Buffers[b] = label
	r.BufferData[b] = append([]byte(nil), data...)
	return b, nil
}

func (r *Recorder) CreateTexture(label string, staging common.TextureStagingData) (*wgpu.TextureView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := &wgpu.TextureView{}
	r.Textures[v] = staging
	return v, nil
}

func (r *Recorder) CreateSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &wgpu.Sampler{}
	r.Samplers[s] = label
	return s, nil
}

func (r *Recorder) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := BufferWrite{Buffer: buf, Offset: offset, Data: append([]byte(nil), data...)}
	r.Writes = append(r.Writes, w)
	if r.open != nil {
		r.open.Writes = append(r.open.Writes, w)
	}
	if dst, ok := r.BufferData[buf]; ok && int(offset)+len(data) <= len(dst) {
		copy(dst[offset:], data)
	}
}

func (r *Recorder) ReleaseBuffer(buf *wgpu.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if buf != nil {
		r.ReleasedBuffers = append(r.ReleasedBuffers, buf)
	}
}

func (r *Recorder) ReleaseBindGroup(bg *wgpu.BindGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bg != nil {
		r.ReleasedBindGroups = append(r.ReleasedBindGroups, bg)
	}
}

func (r *Recorder) ConfigureSurface(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Configures = append(r.Configures, [2]int{width, height})
}

func (r *Recorder) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8UnormSrgb
}

func (r *Recorder) SampleCount() uint32 {
	return 1
}

func (r *Recorder) BeginFrame(clear wgpu.Color) (renderer.RenderPass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != nil {
		return nil, errors.New("previous frame not ended")
	}
	r.open = &Frame{Clear: clear}
	r.Frames = append(r.Frames, r.open)
	return &pass{r: r, frame: r.open}, nil
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != nil {
		r.open.Submitted = true
	}
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open != nil {
		r.open.Presented = true
		r.open = nil
	}
}

type pass struct {
	r     *Recorder
	frame *Frame
}

func (p *pass) record(c Command) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()

	p.frame.Commands = append(p.frame.Commands, c)
}

func (p *pass) SetPipeline(rp *wgpu.RenderPipeline) {
	p.record(Command{Op: OpSetPipeline, Pipeline: rp})
}

func (p *pass) SetBindGroup(slot uint32, bg *wgpu.BindGroup) {
	p.record(Command{Op: OpSetBindGroup, Slot: slot, BindGroup: bg})
}

func (p *pass) SetVertexBuffer(slot uint32, buf *wgpu.Buffer) {
	p.record(Command{Op: OpSetVertexBuffer, Slot: slot, Buffer: buf})
}

func (p *pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record(Command{
		Op:            OpDraw,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
}
