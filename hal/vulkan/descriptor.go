// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"github.com/gogpu/ngfx/internal/alloc"
	"github.com/gogpu/ngfx/types"
)

// descriptorSetSlotSize is large enough to hold one virtual descriptor
// set's worth of bind-op bookkeeping; the real cost of a Vulkan
// descriptor set varies with its layout, but this backend never writes
// a real VkDescriptorSet, only accounts for one (see package doc).
const descriptorSetSlotSize = 256

// DescriptorAllocator is the C5 "descriptor superpool": a per-context,
// per-frame-slot pool of virtual descriptor-set allocations, backed by
// an internal/alloc.Block. Every render-pass flush point (pipeline
// switch, draw, end-pass) that commits the pass's pending bind ops
// hands out one slot from the allocator belonging to the frame
// currently being recorded; Reset returns every slot this frame
// allocated at once, once that frame's fence has signaled.
type DescriptorAllocator struct {
	block     *alloc.Block
	allocated []uint32
}

func newDescriptorAllocator() *DescriptorAllocator {
	return &DescriptorAllocator{block: alloc.NewBlock(descriptorSetSlotSize, 64)}
}

// Alloc hands out one virtual descriptor-set slot for the frame this
// allocator belongs to.
func (p *DescriptorAllocator) Alloc() uint32 {
	idx, _ := p.block.Alloc()
	p.allocated = append(p.allocated, idx)
	return idx
}

// Reset frees every slot this frame allocated, so the next time this
// frame slot comes around the superpool starts from a clean allocator
// instead of growing unbounded.
func (p *DescriptorAllocator) Reset() {
	for _, idx := range p.allocated {
		p.block.Free(idx)
	}
	p.allocated = p.allocated[:0]
}

// Live reports how many virtual descriptor sets this frame has
// allocated and not yet reset, for tests and diagnostics.
func (p *DescriptorAllocator) Live() int { return len(p.allocated) }

// VirtBindOps is the deferred, not-yet-committed bind-op accumulator a
// render pass builds up between flush points (spec's
// virt_bind_ops_ranges): a pipeline switch, a draw, and end-pass all
// flush it into a sync-req batch and a descriptor-set
// allocation before any barrier is derived from it.
type VirtBindOps struct {
	ops []types.ResourceBindOp
}

// Add records one pending bind op.
func (v *VirtBindOps) Add(op types.ResourceBindOp) { v.ops = append(v.ops, op) }

// Drain returns and clears the pending ops.
func (v *VirtBindOps) Drain() []types.ResourceBindOp {
	out := v.ops
	v.ops = nil
	return out
}

// Len reports how many bind ops are pending.
func (v *VirtBindOps) Len() int { return len(v.ops) }
