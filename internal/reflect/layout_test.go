// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package reflect

import (
	"testing"

	"github.com/gogpu/ngfx/types"
)

func TestBuildCoalescesSameBindingAcrossStages(t *testing.T) {
	vertex := Blob{
		Stage: types.ShaderStageVertex,
		Bindings: []BindingInfo{
			{Set: 0, Binding: 0, Type: DescriptorUniformBuffer, Count: 1, Stage: types.ShaderStageVertex, ReadOnly: true},
		},
	}
	fragment := Blob{
		Stage: types.ShaderStageFragment,
		Bindings: []BindingInfo{
			{Set: 0, Binding: 0, Type: DescriptorUniformBuffer, Count: 1, Stage: types.ShaderStageFragment, ReadOnly: true},
			{Set: 0, Binding: 1, Type: DescriptorImageAndSampler, Count: 1, Stage: types.ShaderStageFragment, ReadOnly: true},
		},
	}

	layout, err := Build([]Blob{vertex, fragment})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(layout.Sets) != 1 {
		t.Fatalf("len(Sets) = %d, want 1", len(layout.Sets))
	}
	set0 := layout.Sets[0]
	if len(set0.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(set0.Bindings))
	}
	b0 := set0.Bindings[0]
	if !b0.Used || b0.StageMask != types.ShaderStageVertex|types.ShaderStageFragment {
		t.Fatalf("binding 0 = %+v, want coalesced stage mask across vertex+fragment", b0)
	}
	if !set0.Bindings[1].Used || set0.Bindings[1].Type != DescriptorImageAndSampler {
		t.Fatalf("binding 1 = %+v, want a used image+sampler binding", set0.Bindings[1])
	}
}

func TestBuildLeavesGapsUnboundWithinAPopulatedSet(t *testing.T) {
	blob := Blob{
		Stage: types.ShaderStageFragment,
		Bindings: []BindingInfo{
			{Set: 0, Binding: 0, Type: DescriptorSampler, Count: 1, Stage: types.ShaderStageFragment},
			{Set: 0, Binding: 2, Type: DescriptorImage, Count: 1, Stage: types.ShaderStageFragment},
		},
	}
	layout, err := Build([]Blob{blob})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	bindings := layout.Sets[0].Bindings
	if len(bindings) != 3 {
		t.Fatalf("len(Bindings) = %d, want 3 (dense up to the highest declared binding)", len(bindings))
	}
	if bindings[1].Used {
		t.Fatalf("binding 1 = %+v, want Used=false (never declared)", bindings[1])
	}
}

func TestBuildRejectsTypeMismatchAcrossStages(t *testing.T) {
	a := Blob{Stage: types.ShaderStageVertex, Bindings: []BindingInfo{
		{Set: 0, Binding: 0, Type: DescriptorUniformBuffer, Count: 1, Stage: types.ShaderStageVertex},
	}}
	b := Blob{Stage: types.ShaderStageFragment, Bindings: []BindingInfo{
		{Set: 0, Binding: 0, Type: DescriptorStorageBuffer, Count: 1, Stage: types.ShaderStageFragment},
	}}
	if _, err := Build([]Blob{a, b}); err == nil {
		t.Fatal("Build() with mismatched descriptor type at the same (set, binding) should fail")
	}
}

func TestBuildRequiresWorkgroupSizeForComputeModules(t *testing.T) {
	blob := Blob{Stage: types.ShaderStageCompute, EntryPoint: "main"}
	if _, err := Build([]Blob{blob}); err == nil {
		t.Fatal("Build() with a compute module missing WorkgroupSize should fail")
	}

	blob.WorkgroupSize = [3]uint32{8, 8, 1}
	layout, err := Build([]Blob{blob})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if layout.WorkgroupSize != [3]uint32{8, 8, 1} {
		t.Fatalf("WorkgroupSize = %v, want {8,8,1}", layout.WorkgroupSize)
	}
}

func TestBuildWithNoBindingsProducesEmptyLayout(t *testing.T) {
	layout, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(layout.Sets) != 0 {
		t.Fatalf("len(Sets) = %d, want 0", len(layout.Sets))
	}
}
