// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sync

// stageIndex returns the dense index of a single pipeline-stage bit used
// by the per-stage-readers encoding, and false if the stage does not
// participate in that encoding (BottomOfPipe, TopOfPipe, or a combined
// mask with more than one bit set).
func stageIndex(bit StageMask) (int, bool) {
	switch bit {
	case StageVertexInput:
		return 0, true
	case StageVertexShader:
		return 1, true
	case StageFragmentShader:
		return 2, true
	case StageComputeShader:
		return 3, true
	case StageEarlyFragmentTests:
		return 4, true
	case StageLateFragmentTests:
		return 5, true
	case StageColorAttachmentOutput:
		return 6, true
	case StageTransfer:
		return 7, true
	default:
		return 0, false
	}
}

// validAccessForStage enumerates, per stage index, the access classes a
// resource bound at that stage may legally request. Ported verbatim from
// the original's valid_access_flags table.
var validAccessForStage = [8]AccessMask{
	0: AccessVertexAttributeRead | AccessIndexRead,
	1: AccessShaderRead | AccessUniformRead,
	2: AccessShaderRead | AccessUniformRead,
	3: AccessShaderRead | AccessUniformRead | AccessShaderWrite,
	4: AccessDepthStencilWrite | AccessDepthStencilRead,
	5: AccessDepthStencilWrite | AccessDepthStencilRead,
	6: AccessColorAttachmentRead | AccessColorAttachmentWrite,
	7: AccessTransferRead | AccessTransferWrite,
}

const bitsPerStage = 3

// accessIndex returns the within-stage bit position of a single access
// bit. The mapping is a property of the access class alone, not of which
// stage it's paired with.
func accessIndex(bit AccessMask) int {
	switch bit {
	case AccessShaderRead:
		return 0
	case AccessShaderWrite:
		return 1
	case AccessUniformRead:
		return 2
	case AccessVertexAttributeRead:
		return 0
	case AccessIndexRead:
		return 1
	case AccessColorAttachmentRead:
		return 0
	case AccessColorAttachmentWrite:
		return 1
	case AccessDepthStencilRead:
		return 0
	case AccessDepthStencilWrite:
		return 1
	case AccessTransferRead:
		return 0
	case AccessTransferWrite:
		return 1
	default:
		return 0
	}
}

// nextBit32 isolates and clears the lowest set bit of *mask, returning it.
func nextBit32(mask *uint32) uint32 {
	old := *mask
	*mask = old & (old - 1)
	return old ^ *mask
}

// perStageAccessMask computes the fine-grained "has stage S already
// consumed access class A" bitset for a request's (stage, access) pairs.
// Exactly 3 bits are reserved per stage (bitsPerStage), matching the
// original engine's encoding; this is deliberately preserved rather than
// generalized (spec §9 open question).
func perStageAccessMask(m BarrierMasks) uint32 {
	var result uint32
	stages := uint32(m.StageMask)
	for stages != 0 {
		bit := StageMask(nextBit32(&stages))
		idx, ok := stageIndex(bit)
		if !ok {
			continue
		}
		accesses := uint32(m.AccessMask) & uint32(validAccessForStage[idx])
		for accesses != 0 {
			abit := AccessMask(nextBit32(&accesses))
			result |= 1 << uint(bitsPerStage*idx+accessIndex(abit))
		}
	}
	return result
}

// DeriveBarrier is the central routine of the sync engine (spec
// §4.C10 "Barrier derivation"). Given a resource's current State and an
// incoming Req, it decides whether a pipeline barrier is required,
// returns it if so, and always advances state to reflect the request
// having been recorded.
func DeriveBarrier(state *State, req Req) (Barrier, bool) {
	dstStage := req.Masks.StageMask
	dstAccess := req.Masks.AccessMask
	dstLayout := req.Layout

	needLayoutTransition := dstLayout != state.Layout
	dstWantsWrite := dstAccess&AllWrites != 0
	needWrite := dstWantsWrite || needLayoutTransition

	var barrier Barrier

	if !needWrite {
		perStg := perStageAccessMask(req.Masks)
		accessesSeenWrite := state.PerStageReadersMask&perStg == perStg

		if state.LastWriter.StageMask != 0 && !accessesSeenWrite {
			barrier.SrcStageMask |= state.LastWriter.StageMask
			barrier.SrcAccessMask |= state.LastWriter.AccessMask & AllWrites
		}

		state.ActiveReaders.StageMask |= dstStage
		state.ActiveReaders.AccessMask |= dstAccess
		state.PerStageReadersMask |= perStg
	} else {
		barrier.SrcStageMask |= state.ActiveReaders.StageMask
		barrier.SrcAccessMask |= state.ActiveReaders.AccessMask

		state.ActiveReaders = BarrierMasks{}
		state.PerStageReadersMask = 0

		if barrier.SrcStageMask == 0 && state.LastWriter.StageMask != 0 {
			barrier.SrcStageMask |= state.LastWriter.StageMask
			barrier.SrcAccessMask |= state.LastWriter.AccessMask
		}

		state.LastWriter = BarrierMasks{StageMask: dstStage, AccessMask: dstAccess}

		// A write request that is actually read-only (pure layout
		// transition) makes its own results visible to dstStage.
		if dstAccess&AllWrites == 0 {
			state.ActiveReaders.StageMask |= dstStage
			state.ActiveReaders.AccessMask |= dstAccess
			state.PerStageReadersMask |= perStageAccessMask(req.Masks)
		}
	}

	needBarrier := barrier.SrcStageMask != 0 || needLayoutTransition
	if needBarrier {
		barrier.DstAccessMask = dstAccess
		barrier.DstStageMask = dstStage
		if barrier.SrcStageMask == 0 {
			barrier.SrcStageMask = StageBottomOfPipe
		}
		barrier.SrcLayout = state.Layout
		barrier.DstLayout = dstLayout
	}

	state.Layout = dstLayout

	return barrier, needBarrier
}
