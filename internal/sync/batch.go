// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sync

// ResourceKey identifies a tracked resource. Per spec §3 "Identity hash
// derived from the object's address", callers derive this from the
// resource's pointer.
type ResourceKey uintptr

// BatchEntry is one resource's merged requirement within a sync-req batch.
type BatchEntry struct {
	Key     ResourceKey
	Req     Req
	IsImage bool
}

// Batch collects the sync requirements of every resource touched by a
// single draw/dispatch/pass-begin/transfer operation before any barrier
// is derived against it (spec §4.C10 "Batching (sync-req batch)").
type Batch struct {
	order   []ResourceKey
	entries map[ResourceKey]*BatchEntry
	warn    func(format string, args ...any)
}

// NewBatch creates an empty batch. warn, if non-nil, receives a message
// for every dropped (incompatible) merge.
func NewBatch(warn func(format string, args ...any)) *Batch {
	return &Batch{entries: make(map[ResourceKey]*BatchEntry), warn: warn}
}

// Add records a resource's sync requirement in the batch, merging with
// any requirement already recorded for the same key in this batch.
func (b *Batch) Add(key ResourceKey, req Req, isImage bool) {
	existing, ok := b.entries[key]
	if !ok {
		b.entries[key] = &BatchEntry{Key: key, Req: req, IsImage: isImage}
		b.order = append(b.order, key)
		return
	}

	merged, compatible := mergeReqs(existing.Req, req)
	if !compatible {
		if b.warn != nil {
			b.warn("sync: dropping incompatible merge for resource %#x within a single batch", uintptr(key))
		}
		return
	}
	existing.Req = merged
}

// mergeReqs implements the batch merge rule: two requests for the same
// resource in the same batch are compatible iff at most one of them is a
// write, and they don't name two distinct non-undefined layouts.
func mergeReqs(a, b Req) (Req, bool) {
	aWrite := a.Masks.AccessMask&AllWrites != 0
	bWrite := b.Masks.AccessMask&AllWrites != 0
	if aWrite && bWrite {
		return Req{}, false
	}
	if a.Layout != LayoutUndefined && b.Layout != LayoutUndefined && a.Layout != b.Layout {
		return Req{}, false
	}

	merged := Req{
		Masks: BarrierMasks{
			AccessMask: a.Masks.AccessMask | b.Masks.AccessMask,
			StageMask:  a.Masks.StageMask | b.Masks.StageMask,
		},
		Layout: a.Layout,
	}
	if merged.Layout == LayoutUndefined {
		merged.Layout = b.Layout
	}
	return merged, true
}

// Entries returns the batch's entries in insertion order, for
// deterministic barrier emission.
func (b *Batch) Entries() []BatchEntry {
	out := make([]BatchEntry, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.entries[k])
	}
	return out
}

// Len reports the number of distinct resources in the batch.
func (b *Batch) Len() int { return len(b.entries) }
