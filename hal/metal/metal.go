// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build darwin

package metal

import (
	"fmt"
	"sync"

	"github.com/gogpu/ngfx/hal"
	isync "github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// ID is an Objective-C object reference (id).
type ID uintptr

// SEL is a registered Objective-C selector.
type SEL uintptr

// Class is an Objective-C class reference.
type Class uintptr

var initOnce sync.Once
var initErr error

func ensureRuntime() error {
	initOnce.Do(func() { initErr = initObjCRuntime() })
	return initErr
}

// Backend implements hal.Backend over the system Metal device.
type Backend struct{}

func (Backend) Name() string { return "metal" }

func (Backend) OpenDevice(hal.DeviceOptions) (hal.Device, error) {
	if err := ensureRuntime(); err != nil {
		return nil, fmt.Errorf("metal: %w", err)
	}
	cls := GetClass("MTLCreateSystemDefaultDevice")
	name := "Metal Device"
	if cls != 0 {
		// MTLCreateSystemDefaultDevice is a free function, not a
		// class method; querying it through the class lookup above
		// only proves the runtime loaded. Resources below are backed
		// entirely by this stub's own Go-side bookkeeping rather than
		// real MTLDevice-created objects, matching the "thin
		// immediate-mode stub" design.
		name = "Metal Device (system default)"
	}
	return &Device{name: name}, nil
}

func init() { hal.Register("metal", Backend{}) }

// Device is a thin stand-in for an MTLDevice. It satisfies hal.Device
// so the engine layer can drive it, but resource creation is bookkept
// in plain Go rather than allocating real MTLBuffer/MTLTexture objects
// — see package doc.
type Device struct {
	mu   sync.Mutex
	name string
	seq  uint64

	buffers map[types.RawID]types.BufferInfo
	images  map[types.RawID]types.ImageInfo
}

func (d *Device) Info() hal.DeviceInfo {
	return hal.DeviceInfo{Name: d.name, IsDiscreteGPU: true, MaxInflightFrames: 3}
}

func (d *Device) NewContext(info hal.ContextInfo) (hal.Context, error) {
	if info.MaxInflight == 0 {
		info.MaxInflight = 3
	}
	return &Context{dev: d, info: info}, nil
}

func (d *Device) nextID() types.RawID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return types.Zip(types.Index(d.seq), 1)
}

func (d *Device) CreateBuffer(info types.BufferInfo) (types.BufferID, error) {
	d.mu.Lock()
	if d.buffers == nil {
		d.buffers = make(map[types.RawID]types.BufferInfo)
	}
	d.mu.Unlock()
	raw := d.nextID()
	d.mu.Lock()
	d.buffers[raw] = info
	d.mu.Unlock()
	return types.NewBufferID(raw.Index(), raw.Epoch()), nil
}

func (d *Device) DestroyBuffer(id types.BufferID) {
	d.mu.Lock()
	delete(d.buffers, id.Raw())
	d.mu.Unlock()
}

func (d *Device) CreateImage(info types.ImageInfo) (types.ImageID, error) {
	d.mu.Lock()
	if d.images == nil {
		d.images = make(map[types.RawID]types.ImageInfo)
	}
	d.mu.Unlock()
	raw := d.nextID()
	d.mu.Lock()
	d.images[raw] = info
	d.mu.Unlock()
	return types.NewImageID(raw.Index(), raw.Epoch()), nil
}

func (d *Device) DestroyImage(id types.ImageID) {
	d.mu.Lock()
	delete(d.images, id.Raw())
	d.mu.Unlock()
}

func (d *Device) CreateImageView(types.ImageViewInfo) (types.ImageViewID, error) {
	raw := d.nextID()
	return types.NewImageViewID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroyImageView(types.ImageViewID) {}

func (d *Device) CreateSampler(types.SamplerInfo) (types.SamplerID, error) {
	raw := d.nextID()
	return types.NewSamplerID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroySampler(types.SamplerID) {}

func (d *Device) CreateShaderModule(types.ShaderModuleInfo) (types.ShaderModuleID, error) {
	raw := d.nextID()
	return types.NewShaderModuleID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroyShaderModule(types.ShaderModuleID) {}

func (d *Device) CreateRenderTarget(types.RenderTargetInfo) (types.RenderTargetID, error) {
	raw := d.nextID()
	return types.NewRenderTargetID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroyRenderTarget(types.RenderTargetID) {}

func (d *Device) CreateGraphicsPipeline(types.GraphicsPipelineInfo) (types.GraphicsPipelineID, error) {
	raw := d.nextID()
	return types.NewGraphicsPipelineID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroyGraphicsPipeline(types.GraphicsPipelineID) {}

func (d *Device) CreateComputePipeline(types.ComputePipelineInfo) (types.ComputePipelineID, error) {
	raw := d.nextID()
	return types.NewComputePipelineID(raw.Index(), raw.Epoch()), nil
}
func (d *Device) DestroyComputePipeline(types.ComputePipelineID) {}

// ResourceSyncState always returns a fresh, never-consulted State: the
// Metal backend doesn't run internal/sync, so nothing ever reads it.
func (d *Device) ResourceSyncState(types.RawID) *isync.State { return &isync.State{} }

func (d *Device) Map(id types.BufferID, offset, size uint64) ([]byte, error) {
	return make([]byte, size), nil
}
func (d *Device) FlushRange(types.BufferID, uint64, uint64) error { return nil }
func (d *Device) Unmap(types.BufferID) error                      { return nil }

func (d *Device) Destroy() {}
