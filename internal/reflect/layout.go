// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package reflect builds pipeline and descriptor-set layouts by merging
// the descriptor bindings declared in each shader stage's reflection
// metadata (spec §4.C7). It consumes precompiled shader blobs; it does
// not compile shaders.
package reflect

import (
	"fmt"
	"sort"

	"github.com/gogpu/ngfx/types"
)

// DescriptorType enumerates the kinds of descriptor a binding can be.
type DescriptorType uint8

const (
	DescriptorUniformBuffer DescriptorType = iota
	DescriptorStorageBuffer
	DescriptorTexelBuffer
	DescriptorStorageTexelBuffer
	DescriptorImage
	DescriptorSampler
	DescriptorImageAndSampler
	DescriptorStorageImage
)

// BindingInfo is one (set, binding) tuple as reported by a shader
// module's reflection table.
type BindingInfo struct {
	Set        uint32
	Binding    uint32
	Type       DescriptorType
	Count      uint32
	Stage      types.ShaderStage
	ReadOnly   bool
}

// Blob is a precompiled shader's content plus the reflection metadata
// embedded in it (spec §6.2). WorkgroupSize is required for compute
// entry points and is supplied alongside the blob, not parsed from it;
// it is the zero value otherwise.
type Blob struct {
	Code          []byte
	Stage         types.ShaderStage
	EntryPoint    string
	Bindings      []BindingInfo
	WorkgroupSize [3]uint32
}

// Binding is a coalesced descriptor-set-layout binding: the merged view
// of every shader stage that declares the same (set, binding).
type Binding struct {
	Binding    uint32
	Type       DescriptorType
	Count      uint32
	StageMask  types.ShaderStage
	ReadOnly   bool
	// Used indicates the slot was declared by at least one stage. Unused
	// slots inside a populated set are left unbound (spec §4.C7 step 4).
	Used bool
}

// SetLayout is one descriptor-set layout, indexed by binding number.
// Bindings is contiguous [0, len) so index == binding number; unused
// slots have Used == false.
type SetLayout struct {
	Bindings []Binding
}

// PipelineLayout is the merged result of reflecting across every module
// passed to Build: a contiguous, 0-indexed array of set layouts plus (for
// compute) the declared workgroup size.
type PipelineLayout struct {
	Sets          []SetLayout
	WorkgroupSize [3]uint32 // compute only
}

// flatBinding is one (set, binding) tuple tagged with its originating
// stage, prior to coalescing.
type flatBinding struct {
	set, binding uint32
	typ          DescriptorType
	count        uint32
	stage        types.ShaderStage
	readOnly     bool
}

// Build implements the reflection & layout builder algorithm of spec
// §4.C7: flatten bindings across all modules, sort by (set, binding),
// coalesce duplicates (OR-ing stage masks, rejecting mismatched type or
// count), then materialize a contiguous, densely-indexed layout.
func Build(blobs []Blob) (*PipelineLayout, error) {
	var flat []flatBinding
	var isCompute bool
	var workgroup [3]uint32

	for _, b := range blobs {
		if b.Stage == types.ShaderStageCompute {
			isCompute = true
			if b.WorkgroupSize == ([3]uint32{}) {
				return nil, fmt.Errorf("reflect: compute module %q is missing a workgroup-size declaration", b.EntryPoint)
			}
			workgroup = b.WorkgroupSize
		}
		for _, bi := range b.Bindings {
			flat = append(flat, flatBinding{
				set: bi.Set, binding: bi.Binding,
				typ: bi.Type, count: bi.Count,
				stage: b.Stage, readOnly: bi.ReadOnly,
			})
		}
	}

	sort.Slice(flat, func(i, j int) bool {
		if flat[i].set != flat[j].set {
			return flat[i].set < flat[j].set
		}
		return flat[i].binding < flat[j].binding
	})

	coalesced, err := coalesce(flat)
	if err != nil {
		return nil, err
	}

	layout := materialize(coalesced)
	if isCompute {
		layout.WorkgroupSize = workgroup
	}
	return layout, nil
}

// coalesced is a fully merged (set, binding) -> Binding map, still keyed
// by (set, binding) for materialize to place into dense arrays.
type coalescedKey struct{ set, binding uint32 }

func coalesce(flat []flatBinding) (map[coalescedKey]Binding, error) {
	out := make(map[coalescedKey]Binding)
	for _, fb := range flat {
		key := coalescedKey{fb.set, fb.binding}
		existing, ok := out[key]
		if !ok {
			out[key] = Binding{
				Binding: fb.binding, Type: fb.typ, Count: fb.count,
				StageMask: fb.stage, ReadOnly: fb.readOnly, Used: true,
			}
			continue
		}
		if existing.Type != fb.typ || existing.Count != fb.count {
			return nil, fmt.Errorf(
				"reflect: set %d binding %d declared inconsistently across stages (type/count mismatch)",
				fb.set, fb.binding)
		}
		existing.StageMask |= fb.stage
		// A binding accessible from any writing stage is not read-only.
		existing.ReadOnly = existing.ReadOnly && fb.readOnly
		out[key] = existing
	}
	return out, nil
}

func materialize(coalesced map[coalescedKey]Binding) *PipelineLayout {
	var maxSet uint32
	hasAny := len(coalesced) > 0
	for k := range coalesced {
		if k.set > maxSet {
			maxSet = k.set
		}
	}
	nSets := 0
	if hasAny {
		nSets = int(maxSet) + 1
	}

	maxBindingPerSet := make([]uint32, nSets)
	for k := range coalesced {
		if k.binding > maxBindingPerSet[k.set] {
			maxBindingPerSet[k.set] = k.binding
		}
	}

	layout := &PipelineLayout{Sets: make([]SetLayout, nSets)}
	populatedSets := make(map[uint32]bool)
	for k := range coalesced {
		populatedSets[k.set] = true
	}

	for set := 0; set < nSets; set++ {
		if !populatedSets[uint32(set)] {
			continue // materialized as an empty layout (zero-value SetLayout)
		}
		nBindings := int(maxBindingPerSet[uint32(set)]) + 1
		bindings := make([]Binding, nBindings)
		for b := 0; b < nBindings; b++ {
			if bound, ok := coalesced[coalescedKey{uint32(set), uint32(b)}]; ok {
				bindings[b] = bound
			}
		}
		layout.Sets[set] = SetLayout{Bindings: bindings}
	}

	return layout
}
