// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// ShaderStage is a bitmask identifying which stage(s) of the pipeline a
// shader module or descriptor binding participates in.
type ShaderStage uint8

const (
	ShaderStageNone     ShaderStage = 0
	ShaderStageVertex   ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// DescriptorType enumerates the kinds of descriptor a reflected
// binding can be (spec §4.C7). Ordinal values are kept in lockstep
// with internal/reflect.DescriptorType so a BindingInfo can be
// converted to the reflector's own type by a plain cast.
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
// module's reflection table (spec §6.2). The caller supplies this
// alongside Code — no shader compiler parses it out of the blob.
type BindingInfo struct {
	Set      uint32
	Binding  uint32
	Type     DescriptorType
	Count    uint32
	ReadOnly bool
}

// ShaderModuleInfo describes a shader module to be created from a
// precompiled blob (spec §6.2). The reflection table and, for compute
// entry points, the workgroup size are expected to already be embedded
// in Code; no shader compilation happens here, so the caller supplies
// Bindings/WorkgroupSize directly, mirroring what a real reflection
// parser would have extracted from Code.
type ShaderModuleInfo struct {
	Label         string
	Code          []byte
	Stage         ShaderStage
	Bindings      []BindingInfo
	WorkgroupSize [3]uint32 // compute entry points only
}

// NativeBindingEntry maps a (set, binding) pair to a backend-native
// binding number, the shape of one line of the `NGF_NATIVE_BINDING_MAP`
// comment block described in spec §6.2. This module defines the type
// only: nothing parses that comment block or consumes these entries.
type NativeBindingEntry struct {
	Set, Binding  uint32
	NativeBinding int32
}
