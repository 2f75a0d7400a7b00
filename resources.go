// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ngfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/ngfx/hal"
	"github.com/gogpu/ngfx/internal/reflect"
	"github.com/gogpu/ngfx/types"
)

// CreateBuffer validates info and creates a buffer on the engine's
// device (spec §6.2 "Buffer").
func (e *Engine) CreateBuffer(info types.BufferInfo) (types.BufferID, error) {
	if err := e.requireActive(); err != nil {
		return types.BufferID{}, err
	}
	if info.Size == 0 {
		return types.BufferID{}, newValidationError("Buffer", "Size", "must be nonzero")
	}
	id, err := e.device.CreateBuffer(info)
	if err != nil {
		return types.BufferID{}, fmt.Errorf("ngfx: create buffer: %w", err)
	}
	return id, nil
}

// DestroyBuffer releases id. Using id after this call is undefined;
// epoch checking in the device's resource table turns any further use
// into an *IDError instead of a use-after-free.
func (e *Engine) DestroyBuffer(id types.BufferID) { e.device.DestroyBuffer(id) }

// CreateImage validates info and creates an image (spec §6.2 "Image").
func (e *Engine) CreateImage(info types.ImageInfo) (types.ImageID, error) {
	if err := e.requireActive(); err != nil {
		return types.ImageID{}, err
	}
	if info.Extent.Width == 0 || info.Extent.Height == 0 {
		return types.ImageID{}, newValidationError("Image", "Extent", "width and height must be nonzero")
	}
	if info.MipLevels == 0 {
		info.MipLevels = 1
	}
	if info.Layers == 0 {
		info.Layers = 1
	}
	id, err := e.device.CreateImage(info)
	if err != nil {
		return types.ImageID{}, fmt.Errorf("ngfx: create image: %w", err)
	}
	return id, nil
}

// DestroyImage releases id.
func (e *Engine) DestroyImage(id types.ImageID) { e.device.DestroyImage(id) }

// CreateImageView creates a view over a range of an image's
// mip/array levels (spec §6.2 "ImageView").
func (e *Engine) CreateImageView(info types.ImageViewInfo) (types.ImageViewID, error) {
	if err := e.requireActive(); err != nil {
		return types.ImageViewID{}, err
	}
	if info.Image.IsZero() {
		return types.ImageViewID{}, newValidationError("ImageView", "Image", "must reference a live image")
	}
	id, err := e.device.CreateImageView(info)
	if err != nil {
		return types.ImageViewID{}, fmt.Errorf("ngfx: create image view: %w", err)
	}
	return id, nil
}

// DestroyImageView releases id.
func (e *Engine) DestroyImageView(id types.ImageViewID) { e.device.DestroyImageView(id) }

// CreateSampler creates a texture sampler (spec §6.2 "Sampler").
func (e *Engine) CreateSampler(info types.SamplerInfo) (types.SamplerID, error) {
	if err := e.requireActive(); err != nil {
		return types.SamplerID{}, err
	}
	id, err := e.device.CreateSampler(info)
	if err != nil {
		return types.SamplerID{}, fmt.Errorf("ngfx: create sampler: %w", err)
	}
	return id, nil
}

// DestroySampler releases id.
func (e *Engine) DestroySampler(id types.SamplerID) { e.device.DestroySampler(id) }

// CreateShaderModule loads pre-compiled shader bytecode (spec §6.2
// "ShaderModule"). Shader compilation from source is out of scope;
// Code must already be in the backend's native intermediate format.
func (e *Engine) CreateShaderModule(info types.ShaderModuleInfo) (types.ShaderModuleID, error) {
	if err := e.requireActive(); err != nil {
		return types.ShaderModuleID{}, err
	}
	if len(info.Code) == 0 {
		return types.ShaderModuleID{}, newValidationError("ShaderModule", "Code", "must be nonempty")
	}
	if info.Stage == types.ShaderStageCompute && info.WorkgroupSize == ([3]uint32{}) {
		return types.ShaderModuleID{}, newValidationError("ShaderModule", "WorkgroupSize", "compute modules must declare a nonzero workgroup size")
	}
	id, err := e.device.CreateShaderModule(info)
	if err != nil {
		return types.ShaderModuleID{}, fmt.Errorf("ngfx: create shader module: %w", err)
	}
	e.mu.Lock()
	e.shaderModules[id] = info
	e.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases id.
func (e *Engine) DestroyShaderModule(id types.ShaderModuleID) {
	e.device.DestroyShaderModule(id)
	e.mu.Lock()
	delete(e.shaderModules, id)
	e.mu.Unlock()
}

// reflectBlob converts a shader module's caller-supplied reflection
// table into the form internal/reflect.Build consumes.
func reflectBlob(info types.ShaderModuleInfo) reflect.Blob {
	bindings := make([]reflect.BindingInfo, len(info.Bindings))
	for i, b := range info.Bindings {
		bindings[i] = reflect.BindingInfo{
			Set:      b.Set,
			Binding:  b.Binding,
			Type:     reflect.DescriptorType(b.Type),
			Count:    b.Count,
			Stage:    info.Stage,
			ReadOnly: b.ReadOnly,
		}
	}
	return reflect.Blob{
		Code:          info.Code,
		Stage:         info.Stage,
		Bindings:      bindings,
		WorkgroupSize: info.WorkgroupSize,
	}
}

// buildLayout looks up each module ID's recorded reflection table and
// runs internal/reflect.Build over them (spec §4.C7).
func (e *Engine) buildLayout(kind string, moduleIDs ...types.ShaderModuleID) (*reflect.PipelineLayout, error) {
	e.mu.Lock()
	blobs := make([]reflect.Blob, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		if id.IsZero() {
			continue
		}
		info, ok := e.shaderModules[id]
		if !ok {
			e.mu.Unlock()
			return nil, newValidationError(kind, "Module", "references a shader module that is not live")
		}
		blobs = append(blobs, reflectBlob(info))
	}
	e.mu.Unlock()
	layout, err := reflect.Build(blobs)
	if err != nil {
		return nil, fmt.Errorf("ngfx: build %s pipeline layout: %w", kind, err)
	}
	return layout, nil
}

// GraphicsPipelineLayout returns the descriptor-set/pipeline layout
// reflection derived when id was created.
func (e *Engine) GraphicsPipelineLayout(id types.GraphicsPipelineID) (*reflect.PipelineLayout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.gfxLayouts[id]
	return l, ok
}

// ComputePipelineLayout returns the descriptor-set/pipeline layout
// reflection derived when id was created.
func (e *Engine) ComputePipelineLayout(id types.ComputePipelineID) (*reflect.PipelineLayout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.computeLayouts[id]
	return l, ok
}

// CreateRenderTarget creates a render target over a fixed set of
// attachments (spec §6.2 "RenderTarget"), backing the render-pass and
// framebuffer cache (C8) a graphics pipeline must be compatible with.
func (e *Engine) CreateRenderTarget(info types.RenderTargetInfo) (types.RenderTargetID, error) {
	if err := e.requireActive(); err != nil {
		return types.RenderTargetID{}, err
	}
	if len(info.Attachments) == 0 {
		return types.RenderTargetID{}, newValidationError("RenderTarget", "Attachments", "must have at least one attachment")
	}
	id, err := e.device.CreateRenderTarget(info)
	if err != nil {
		return types.RenderTargetID{}, fmt.Errorf("ngfx: create render target: %w", err)
	}
	return id, nil
}

// DestroyRenderTarget releases id.
func (e *Engine) DestroyRenderTarget(id types.RenderTargetID) { e.device.DestroyRenderTarget(id) }

// CreateGraphicsPipeline builds a graphics pipeline, reflecting its
// shader modules' resource layout rather than taking an explicit
// descriptor set layout (spec §6.2 "GraphicsPipeline", supplemented by
// the reflection-driven layout design of spec §5).
func (e *Engine) CreateGraphicsPipeline(info types.GraphicsPipelineInfo) (types.GraphicsPipelineID, error) {
	if err := e.requireActive(); err != nil {
		return types.GraphicsPipelineID{}, err
	}
	if info.VertexModule.IsZero() {
		return types.GraphicsPipelineID{}, newValidationError("GraphicsPipeline", "VertexModule", "must reference a live shader module")
	}
	if info.CompatibleTarget.IsZero() {
		return types.GraphicsPipelineID{}, newValidationError("GraphicsPipeline", "CompatibleTarget", "must reference a live render target")
	}
	layout, err := e.buildLayout("GraphicsPipeline", info.VertexModule, info.FragmentModule)
	if err != nil {
		return types.GraphicsPipelineID{}, err
	}
	id, err := e.device.CreateGraphicsPipeline(info)
	if err != nil {
		return types.GraphicsPipelineID{}, fmt.Errorf("ngfx: create graphics pipeline: %w", err)
	}
	e.mu.Lock()
	e.gfxLayouts[id] = layout
	e.mu.Unlock()
	return id, nil
}

// DestroyGraphicsPipeline releases id.
func (e *Engine) DestroyGraphicsPipeline(id types.GraphicsPipelineID) {
	e.device.DestroyGraphicsPipeline(id)
	e.mu.Lock()
	delete(e.gfxLayouts, id)
	e.mu.Unlock()
}

// CreateComputePipeline builds a compute pipeline (spec §6.2
// "ComputePipeline"), reflecting its module's resource layout the same
// way CreateGraphicsPipeline does.
func (e *Engine) CreateComputePipeline(info types.ComputePipelineInfo) (types.ComputePipelineID, error) {
	if err := e.requireActive(); err != nil {
		return types.ComputePipelineID{}, err
	}
	if info.Module.IsZero() {
		return types.ComputePipelineID{}, newValidationError("ComputePipeline", "Module", "must reference a live shader module")
	}
	layout, err := e.buildLayout("ComputePipeline", info.Module)
	if err != nil {
		return types.ComputePipelineID{}, err
	}
	id, err := e.device.CreateComputePipeline(info)
	if err != nil {
		return types.ComputePipelineID{}, fmt.Errorf("ngfx: create compute pipeline: %w", err)
	}
	e.mu.Lock()
	e.computeLayouts[id] = layout
	e.mu.Unlock()
	return id, nil
}

// DestroyComputePipeline releases id.
func (e *Engine) DestroyComputePipeline(id types.ComputePipelineID) {
	e.device.DestroyComputePipeline(id)
	e.mu.Lock()
	delete(e.computeLayouts, id)
	e.mu.Unlock()
}

// MapBuffer returns a byte slice over [offset, offset+size) of a
// host-visible buffer's backing memory (supplemented feature, grounded
// on nicegraf's ngf_buffer_map_range).
func (e *Engine) MapBuffer(id types.BufferID, offset, size uint64) ([]byte, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	b, err := e.device.Map(id, offset, size)
	if err != nil {
		if errors.Is(err, hal.ErrInvalidCmdBufferState) {
			return nil, &IDError{Message: "ngfx: map buffer: id is not a live buffer", Cause: err}
		}
		return nil, fmt.Errorf("ngfx: map buffer: %w", err)
	}
	return b, nil
}

// FlushMappedRange makes host writes to a mapped, non-coherent buffer
// range visible to the device.
func (e *Engine) FlushMappedRange(id types.BufferID, offset, size uint64) error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if err := e.device.FlushRange(id, offset, size); err != nil {
		return fmt.Errorf("ngfx: flush mapped range: %w", err)
	}
	return nil
}

// UnmapBuffer ends a Map/FlushMappedRange sequence against id.
func (e *Engine) UnmapBuffer(id types.BufferID) error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if err := e.device.Unmap(id); err != nil {
		return fmt.Errorf("ngfx: unmap buffer: %w", err)
	}
	return nil
}
