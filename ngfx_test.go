// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ngfx_test

import (
	"testing"

	"github.com/gogpu/ngfx"
	"github.com/gogpu/ngfx/hal"
	"github.com/gogpu/ngfx/types"
)

func initNoop(t *testing.T) *ngfx.Engine {
	t.Helper()
	e, err := ngfx.Initialize(ngfx.InitConfig{Backend: "noop"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = e.Shutdown() })
	return e
}

func TestInitializeRejectsSecondConcurrentEngine(t *testing.T) {
	e := initNoop(t)
	_, err := ngfx.Initialize(ngfx.InitConfig{Backend: "noop"})
	if err == nil {
		t.Fatal("second Initialize while one is active should fail")
	}
	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	e2, err := ngfx.Initialize(ngfx.InitConfig{Backend: "noop"})
	if err != nil {
		t.Fatalf("Initialize after Shutdown: %v", err)
	}
	_ = e2.Shutdown()
}

func TestBufferMapFlushUnmapRoundTrip(t *testing.T) {
	e := initNoop(t)
	id, err := e.CreateBuffer(types.BufferInfo{Size: 256, Storage: types.StorageHostReadWriteable})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	data, err := e.MapBuffer(id, 0, 256)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	data[0] = 0xAB
	if err := e.FlushMappedRange(id, 0, 256); err != nil {
		t.Fatalf("FlushMappedRange: %v", err)
	}
	if err := e.UnmapBuffer(id); err != nil {
		t.Fatalf("UnmapBuffer: %v", err)
	}
	e.DestroyBuffer(id)
	if _, err := e.MapBuffer(id, 0, 256); err == nil {
		t.Fatal("MapBuffer after destroy should fail")
	}
}

func TestCreateBufferRejectsZeroSize(t *testing.T) {
	e := initNoop(t)
	if _, err := e.CreateBuffer(types.BufferInfo{Size: 0}); err == nil {
		t.Fatal("CreateBuffer with Size 0 should fail validation")
	}
}

// shaderModulesForPipeline builds a vertex+fragment module pair whose
// reflection tables share one uniform buffer binding and add a
// fragment-only combined image/sampler, mirroring a typical textured
// triangle shader's layout.
func shaderModulesForPipeline(t *testing.T, e *ngfx.Engine) (types.ShaderModuleID, types.ShaderModuleID) {
	t.Helper()
	vs, err := e.CreateShaderModule(types.ShaderModuleInfo{
		Code:  []byte{0xDE, 0xAD, 0xBE, 0xEF},
		Stage: types.ShaderStageVertex,
		Bindings: []types.BindingInfo{
			{Set: 0, Binding: 0, Type: types.DescriptorUniformBuffer, Count: 1, ReadOnly: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateShaderModule(vertex): %v", err)
	}
	fs, err := e.CreateShaderModule(types.ShaderModuleInfo{
		Code:  []byte{0xDE, 0xAD, 0xBE, 0xEF},
		Stage: types.ShaderStageFragment,
		Bindings: []types.BindingInfo{
			{Set: 0, Binding: 0, Type: types.DescriptorUniformBuffer, Count: 1, ReadOnly: true},
			{Set: 0, Binding: 1, Type: types.DescriptorImageAndSampler, Count: 1, ReadOnly: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateShaderModule(fragment): %v", err)
	}
	return vs, fs
}

func TestGraphicsPipelineReflectsCoalescedLayout(t *testing.T) {
	e := initNoop(t)
	vs, fs := shaderModulesForPipeline(t, e)

	target, err := e.CreateRenderTarget(types.RenderTargetInfo{
		Attachments: []types.AttachmentDescription{{Format: types.FormatRGBA8Unorm, SampleCount: 1}},
		Width:       64, Height: 64,
	})
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}

	pipe, err := e.CreateGraphicsPipeline(types.GraphicsPipelineInfo{
		VertexModule:     vs,
		FragmentModule:   fs,
		CompatibleTarget: target,
		Topology:         types.PrimitiveTriangleList,
	})
	if err != nil {
		t.Fatalf("CreateGraphicsPipeline: %v", err)
	}

	layout, ok := e.GraphicsPipelineLayout(pipe)
	if !ok {
		t.Fatal("GraphicsPipelineLayout: no layout recorded for pipeline")
	}
	if len(layout.Sets) != 1 || len(layout.Sets[0].Bindings) != 2 {
		t.Fatalf("layout = %+v, want 1 set with 2 bindings", layout)
	}
	binding0 := layout.Sets[0].Bindings[0]
	if binding0.StageMask != types.ShaderStageVertex|types.ShaderStageFragment {
		t.Fatalf("binding 0 StageMask = %v, want vertex|fragment (shared uniform buffer)", binding0.StageMask)
	}
}

func TestCreateShaderModuleRejectsComputeWithoutWorkgroupSize(t *testing.T) {
	e := initNoop(t)
	_, err := e.CreateShaderModule(types.ShaderModuleInfo{
		Code:  []byte{0x01},
		Stage: types.ShaderStageCompute,
	})
	if err == nil {
		t.Fatal("CreateShaderModule(compute) without WorkgroupSize should fail")
	}
}

func TestFrameLifecycleWithDebugGroupedCmdBuffer(t *testing.T) {
	e := initNoop(t)
	ctx, err := e.CreateContext(hal.ContextInfo{MaxInflight: 2})
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	t.Cleanup(func() { e.DestroyContext(ctx) })

	ngfx.SetContext(ctx)
	if ngfx.CurrentContext() != ctx {
		t.Fatal("CurrentContext() did not return the bound context")
	}

	if _, err := ctx.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	scratch := ctx.FrameScratch().Allocate(128)
	if len(scratch) != 128 {
		t.Fatalf("FrameScratch().Allocate(128) len = %d, want 128", len(scratch))
	}

	cb, err := ctx.CreateCmdBuffer()
	if err != nil {
		t.Fatalf("CreateCmdBuffer: %v", err)
	}
	if err := cb.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := ngfx.BeginDebugGroup(cb, "clear pass"); err != nil {
		t.Fatalf("BeginDebugGroup: %v", err)
	}
	if err := ngfx.EndDebugGroup(cb); err != nil {
		t.Fatalf("EndDebugGroup: %v", err)
	}
	if err := cb.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := ctx.SubmitCmdBuffers(cb); err != nil {
		t.Fatalf("SubmitCmdBuffers: %v", err)
	}
	if err := ctx.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}
