// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sync

import "testing"

func TestNoOpLeavesGlobalStateUnchanged(t *testing.T) {
	global := State{Layout: LayoutShaderReadOnlyOptimal}
	want := global

	local := NewLocal()
	local.PatchSubmit(func(ResourceKey) *State { return &global }, func(ResourceKey, bool, Barrier) {
		t.Fatal("no-op command buffer must not emit patch barriers")
	})

	if global != want {
		t.Fatalf("global state changed from %+v to %+v", want, global)
	}
}

func TestRedundantBarrierAbsence(t *testing.T) {
	local := NewLocal()
	const key ResourceKey = 1
	req := Req{Masks: BarrierMasks{AccessMask: AccessUniformRead, StageMask: StageFragmentShader}}

	var barriers int
	for i := 0; i < 5; i++ {
		if _, needed := local.Record(key, req, false); needed {
			barriers++
		}
	}
	if barriers != 0 {
		t.Fatalf("got %d barriers across 5 identical reads, want 0 (first is initial, rest redundant)", barriers)
	}
}

func TestWriteReadWriteOrdering(t *testing.T) {
	local := NewLocal()
	const key ResourceKey = 1

	write := Req{Masks: BarrierMasks{AccessMask: AccessTransferWrite, StageMask: StageTransfer}}
	read := Req{Masks: BarrierMasks{AccessMask: AccessVertexAttributeRead, StageMask: StageVertexInput}}

	if _, needed := local.Record(key, write, false); needed {
		t.Fatal("first access must never emit a barrier (handled by patch pass)")
	}

	b1, needed1 := local.Record(key, read, false)
	if !needed1 {
		t.Fatal("write-then-read must emit a barrier")
	}
	if b1.SrcAccessMask != AccessTransferWrite || b1.SrcStageMask != StageTransfer {
		t.Fatalf("barrier 1 src = %+v, want TRANSFER_WRITE/TRANSFER", b1)
	}
	if b1.DstAccessMask != AccessVertexAttributeRead || b1.DstStageMask != StageVertexInput {
		t.Fatalf("barrier 1 dst = %+v, want VERTEX_ATTRIBUTE_READ/VERTEX_INPUT", b1)
	}

	b2, needed2 := local.Record(key, write, false)
	if !needed2 {
		t.Fatal("read-then-write must emit a barrier")
	}
	if b2.SrcAccessMask != AccessVertexAttributeRead || b2.SrcStageMask != StageVertexInput {
		t.Fatalf("barrier 2 src = %+v, want VERTEX_INPUT reader", b2)
	}
	if b2.DstAccessMask != AccessTransferWrite || b2.DstStageMask != StageTransfer {
		t.Fatalf("barrier 2 dst = %+v, want TRANSFER_WRITE/TRANSFER", b2)
	}
}

func TestLayoutTransitionMonotonicity(t *testing.T) {
	local := NewLocal()
	const key ResourceKey = 1

	asAttachment := Req{
		Masks:  BarrierMasks{AccessMask: AccessColorAttachmentWrite, StageMask: StageColorAttachmentOutput},
		Layout: LayoutColorAttachmentOptimal,
	}
	sampled := Req{
		Masks:  BarrierMasks{AccessMask: AccessShaderRead, StageMask: StageFragmentShader},
		Layout: LayoutShaderReadOnlyOptimal,
	}

	if _, needed := local.Record(key, asAttachment, true); needed {
		t.Fatal("first attachment use must not emit a barrier")
	}

	b, needed := local.Record(key, sampled, true)
	if !needed {
		t.Fatal("attachment-then-sampled transition must emit exactly one barrier")
	}
	if b.SrcLayout != LayoutColorAttachmentOptimal || b.DstLayout != LayoutShaderReadOnlyOptimal {
		t.Fatalf("barrier layouts = %v -> %v, want COLOR_ATTACHMENT_OPTIMAL -> SHADER_READ_ONLY_OPTIMAL", b.SrcLayout, b.DstLayout)
	}

	if _, needed := local.Record(key, sampled, true); needed {
		t.Fatal("repeated identical sample must not emit a second barrier")
	}
}

func TestPatchBarrierCorrectness(t *testing.T) {
	const key ResourceKey = 42
	global := State{}

	// Command buffer 1: transfer-writes the buffer.
	cb1 := NewLocal()
	write := Req{Masks: BarrierMasks{AccessMask: AccessTransferWrite, StageMask: StageTransfer}}
	cb1.Record(key, write, false)
	cb1.PatchSubmit(func(ResourceKey) *State { return &global }, func(ResourceKey, bool, Barrier) {
		t.Fatal("first-ever use of the resource needs no patch barrier")
	})

	// Command buffer 2: reads the buffer as a uniform in the vertex shader.
	cb2 := NewLocal()
	read := Req{Masks: BarrierMasks{AccessMask: AccessUniformRead, StageMask: StageVertexShader}}
	cb2.Record(key, read, false)

	var patches []Barrier
	cb2.PatchSubmit(func(ResourceKey) *State { return &global }, func(_ ResourceKey, isImage bool, b Barrier) {
		if isImage {
			t.Fatal("buffer resource reported as image")
		}
		patches = append(patches, b)
	})

	if len(patches) != 1 {
		t.Fatalf("got %d patch barriers, want 1", len(patches))
	}
	p := patches[0]
	if p.SrcAccessMask != AccessTransferWrite || p.SrcStageMask != StageTransfer {
		t.Fatalf("patch src = %+v, want TRANSFER_WRITE/TRANSFER", p)
	}
	if p.DstAccessMask != AccessUniformRead || p.DstStageMask != StageVertexShader {
		t.Fatalf("patch dst = %+v, want UNIFORM_READ/VERTEX_SHADER", p)
	}
}
