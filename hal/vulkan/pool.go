// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

// newFramePools allocates one DescriptorAllocator per frame-in-flight
// slot (spec glossary "Superpool"): slot i's allocator is reset once
// the GPU has finished frame i, which Context.BeginFrame does itself
// for the slot it's about to reuse.
// This is the per-context side of C5; Device.passCache (renderpass.go)
// is the per-device side.
func newFramePools(maxInflight uint8) []*DescriptorAllocator {
	if maxInflight == 0 {
		maxInflight = 1
	}
	pools := make([]*DescriptorAllocator, maxInflight)
	for i := range pools {
		pools[i] = newDescriptorAllocator()
	}
	return pools
}
