// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"sync"

	"github.com/gogpu/ngfx/hal"
	"github.com/gogpu/ngfx/hal/vulkan/memory"
	"github.com/gogpu/ngfx/internal/engine"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

type bufferMarker struct{}
type imageMarker struct{}
type imageViewMarker struct{}
type samplerMarker struct{}
type shaderModuleMarker struct{}
type renderTargetMarker struct{}
type gfxPipelineMarker struct{}
type cmpPipelineMarker struct{}

// deviceHeapSize and deviceMinBlock size the simulated device-local
// heap each Device suballocates buffer/image placements from.
const (
	deviceHeapSize = 256 << 20 // 256 MiB
	deviceMinBlock = 256       // matches a typical minUniformBufferOffsetAlignment

	// deviceRetireSlots upper-bounds how many distinct frame slots a
	// Device's retire queue can track across every context it ever
	// opens. hal.ContextInfo.MaxInflight is a uint8, so this comfortably
	// covers any context's frame-slot count.
	deviceRetireSlots = 256
)

type bufferRes struct {
	info  types.BufferInfo
	data  []byte
	block memory.BuddyBlock
}

type imageRes struct {
	info types.ImageInfo
}

// Device is the Vulkan hal.Device. See package doc for exactly what it
// exercises for real (resource ID lifecycle, sync-state tracking,
// buddy suballocation) versus what it simulates (no real VkDevice, no
// real vkCmd* calls — see the package doc for why).
type Device struct {
	mu sync.Mutex

	buffers       *engine.Table[bufferMarker, *bufferRes]
	images        *engine.Table[imageMarker, *imageRes]
	imageViews    *engine.Table[imageViewMarker, types.ImageViewInfo]
	samplers      *engine.Table[samplerMarker, types.SamplerInfo]
	shaderModules *engine.Table[shaderModuleMarker, types.ShaderModuleInfo]
	renderTargets *engine.Table[renderTargetMarker, types.RenderTargetInfo]
	gfxPipelines  *engine.Table[gfxPipelineMarker, types.GraphicsPipelineInfo]
	cmpPipelines  *engine.Table[cmpPipelineMarker, types.ComputePipelineInfo]

	syncByRaw map[types.RawID]*isync.State
	heap      *memory.BuddyAllocator

	// retire defers actual table/heap cleanup for destroyed buffers and
	// images until the frame slot that last used them has retired (spec
	// §3's buffer/image lifecycle invariant); destroyed marks them gone
	// immediately so Map/CreateImageView etc. can't observe a "destroyed
	// but not yet freed" resource as if it were still live.
	retire    *engine.RetireQueue
	curSlot   int
	destroyed map[types.RawID]struct{}

	passCache *renderPassCache

	ctxSeq uint16
}

func newDevice(hal.DeviceOptions) *Device {
	heap, err := memory.NewBuddyAllocator(deviceHeapSize, deviceMinBlock)
	if err != nil {
		// Fixed, known-good constants; only reachable if they're ever
		// changed to something invalid.
		panic(fmt.Sprintf("vulkan: default heap misconfigured: %v", err))
	}
	return &Device{
		buffers:       engine.NewTable[bufferMarker, *bufferRes](),
		images:        engine.NewTable[imageMarker, *imageRes](),
		imageViews:    engine.NewTable[imageViewMarker, types.ImageViewInfo](),
		samplers:      engine.NewTable[samplerMarker, types.SamplerInfo](),
		shaderModules: engine.NewTable[shaderModuleMarker, types.ShaderModuleInfo](),
		renderTargets: engine.NewTable[renderTargetMarker, types.RenderTargetInfo](),
		gfxPipelines:  engine.NewTable[gfxPipelineMarker, types.GraphicsPipelineInfo](),
		cmpPipelines:  engine.NewTable[cmpPipelineMarker, types.ComputePipelineInfo](),
		syncByRaw:     make(map[types.RawID]*isync.State),
		heap:          heap,
		retire:        engine.NewRetireQueue(deviceRetireSlots),
		destroyed:     make(map[types.RawID]struct{}),
		passCache:     newRenderPassCache(),
	}
}

// beginFrameSlot flushes every destruction deferred against slot (the
// frame slot about to be reused) and records it as the device's
// current slot for subsequent Destroy* calls to defer against. Called
// from Context.BeginFrame.
func (d *Device) beginFrameSlot(slot int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.curSlot = slot
	d.retire.Flush(slot)
}

func (d *Device) Info() hal.DeviceInfo {
	return hal.DeviceInfo{Name: "vulkan", IsDiscreteGPU: true, MaxInflightFrames: 3}
}

func (d *Device) NewContext(info hal.ContextInfo) (hal.Context, error) {
	d.mu.Lock()
	d.ctxSeq++
	id := d.ctxSeq
	d.mu.Unlock()
	if info.MaxInflight == 0 {
		info.MaxInflight = 2
	}
	return &Context{
		dev:       d,
		info:      info,
		id:        id,
		queue:     engine.NewRetireQueue(int(info.MaxInflight)),
		token:     engine.EncodeFrameToken(id, info.MaxInflight, 0),
		descPools: newFramePools(info.MaxInflight),
	}, nil
}

func (d *Device) CreateBuffer(info types.BufferInfo) (types.BufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	block, err := d.heap.Alloc(info.Size)
	if err != nil {
		return types.BufferID{}, fmt.Errorf("vulkan: create buffer: %w", hal.ErrDeviceOutOfMemory)
	}
	id := d.buffers.Insert(&bufferRes{info: info, data: make([]byte, info.Size), block: block})
	d.syncByRaw[id.Raw()] = &isync.State{}
	return id, nil
}

func (d *Device) DestroyBuffer(id types.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw := id.Raw()
	d.destroyed[raw] = struct{}{}
	d.retire.Defer(d.curSlot, func() {
		if b, ok := d.buffers.Get(id); ok {
			_ = d.heap.Free(b.block)
		}
		d.buffers.Remove(id)
		delete(d.syncByRaw, raw)
		delete(d.destroyed, raw)
	})
}

func (d *Device) CreateImage(info types.ImageInfo) (types.ImageID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.images.Insert(&imageRes{info: info})
	d.syncByRaw[id.Raw()] = &isync.State{Layout: isync.LayoutUndefined}
	return id, nil
}

func (d *Device) DestroyImage(id types.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	raw := id.Raw()
	d.destroyed[raw] = struct{}{}
	d.retire.Defer(d.curSlot, func() {
		d.images.Remove(id)
		delete(d.syncByRaw, raw)
		delete(d.destroyed, raw)
	})
}

func (d *Device) CreateImageView(info types.ImageViewInfo) (types.ImageViewID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, destroyed := d.destroyed[info.Image.Raw()]; destroyed {
		return types.ImageViewID{}, fmt.Errorf("vulkan: create image view: %w", hal.ErrInvalidCmdBufferState)
	}
	if _, ok := d.images.Get(info.Image); !ok {
		return types.ImageViewID{}, fmt.Errorf("vulkan: create image view: %w", hal.ErrInvalidCmdBufferState)
	}
	return d.imageViews.Insert(info), nil
}

func (d *Device) DestroyImageView(id types.ImageViewID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.retire.Defer(d.curSlot, func() {
		d.imageViews.Remove(id)
	})
}

func (d *Device) CreateSampler(info types.SamplerInfo) (types.SamplerID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.samplers.Insert(info), nil
}

func (d *Device) DestroySampler(id types.SamplerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.retire.Defer(d.curSlot, func() {
		d.samplers.Remove(id)
	})
}

func (d *Device) CreateShaderModule(info types.ShaderModuleInfo) (types.ShaderModuleID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shaderModules.Insert(info), nil
}

func (d *Device) DestroyShaderModule(id types.ShaderModuleID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shaderModules.Remove(id)
}

func (d *Device) CreateRenderTarget(info types.RenderTargetInfo) (types.RenderTargetID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderTargets.Insert(info), nil
}

// DestroyRenderTarget defers the table removal through the retire
// queue like the other resource kinds, and evicts this target's C8
// render-pass cache entries so a future render target that happens to
// reuse the same attachment description doesn't resurrect stale ones.
func (d *Device) DestroyRenderTarget(id types.RenderTargetID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, ok := d.renderTargets.Get(id)
	var compat string
	if ok {
		compat = compatKeyFor(info.Attachments)
	}
	d.retire.Defer(d.curSlot, func() {
		d.renderTargets.Remove(id)
		if ok {
			d.passCache.Evict(compat)
		}
	})
}

func (d *Device) CreateGraphicsPipeline(info types.GraphicsPipelineInfo) (types.GraphicsPipelineID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gfxPipelines.Insert(info), nil
}

func (d *Device) DestroyGraphicsPipeline(id types.GraphicsPipelineID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gfxPipelines.Remove(id)
}

func (d *Device) CreateComputePipeline(info types.ComputePipelineInfo) (types.ComputePipelineID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cmpPipelines.Insert(info), nil
}

func (d *Device) DestroyComputePipeline(id types.ComputePipelineID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmpPipelines.Remove(id)
}

func (d *Device) ResourceSyncState(id types.RawID) *isync.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncByRaw[id]
}

func (d *Device) Map(id types.BufferID, offset, size uint64) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, destroyed := d.destroyed[id.Raw()]; destroyed {
		return nil, fmt.Errorf("vulkan: map: %w", hal.ErrInvalidCmdBufferState)
	}
	b, ok := d.buffers.Get(id)
	if !ok {
		return nil, fmt.Errorf("vulkan: map: %w", hal.ErrInvalidCmdBufferState)
	}
	if offset+size > uint64(len(b.data)) {
		return nil, fmt.Errorf("vulkan: map: range out of bounds")
	}
	return b.data[offset : offset+size], nil
}

func (d *Device) FlushRange(types.BufferID, uint64, uint64) error { return nil }

func (d *Device) Unmap(types.BufferID) error { return nil }

func (d *Device) Destroy() {}

func rawIDFromKey(key isync.ResourceKey) types.RawID { return types.RawID(key) }
