// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sync

// LocalEntry is a command buffer's view of one resource's synchronization
// state, built up as commands are recorded against it (spec §4.C10
// "local state"). ExpectedSyncReq is the state the command buffer assumes
// the resource is in on entry — it accumulates every access recorded
// before the first intra-buffer barrier, and then freezes, so that the
// submit-time patch pass can compare it against the resource's true
// global state.
type LocalEntry struct {
	State           State
	ExpectedSyncReq Req
	HadBarrier      bool
	IsImage         bool
}

// Local is a single command buffer's local_res_states table.
type Local struct {
	entries map[ResourceKey]*LocalEntry
	order   []ResourceKey
}

// NewLocal creates an empty local resource-state table.
func NewLocal() *Local {
	return &Local{entries: make(map[ResourceKey]*LocalEntry)}
}

// Record applies req to the resource's local state, returning the
// barrier to emit (if any) against the command buffer's own recording so
// far. The very first access to a resource within this command buffer
// never emits a barrier — the derived transition is captured instead as
// the resource's expected entry state, reconciled against global state by
// Local.PatchSubmit at submit time.
func (l *Local) Record(key ResourceKey, req Req, isImage bool) (Barrier, bool) {
	e, existed := l.entries[key]
	fresh := !existed
	if !existed {
		e = &LocalEntry{IsImage: isImage}
		l.entries[key] = e
		l.order = append(l.order, key)
	}

	barrier, needed := DeriveBarrier(&e.State, req)
	emit := needed && !fresh
	if emit {
		e.HadBarrier = true
	}

	if !e.HadBarrier {
		e.ExpectedSyncReq.Masks.StageMask |= req.Masks.StageMask
		e.ExpectedSyncReq.Masks.AccessMask |= req.Masks.AccessMask
		if e.ExpectedSyncReq.Layout == LayoutUndefined {
			e.ExpectedSyncReq.Layout = req.Layout
		}
	}

	return barrier, emit
}

// RecordBatch applies every entry of a committed sync-req batch to the
// local table in deterministic order, invoking emit for every barrier
// that must be recorded into the real command buffer.
func (l *Local) RecordBatch(batch *Batch, emit func(key ResourceKey, isImage bool, b Barrier)) {
	for _, entry := range batch.Entries() {
		if b, needed := l.Record(entry.Key, entry.Req, entry.IsImage); needed {
			emit(entry.Key, entry.IsImage, b)
		}
	}
}

// Entries returns the local table's entries in first-touched order.
func (l *Local) Entries() []struct {
	Key   ResourceKey
	Entry *LocalEntry
} {
	out := make([]struct {
		Key   ResourceKey
		Entry *LocalEntry
	}, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, struct {
			Key   ResourceKey
			Entry *LocalEntry
		}{k, l.entries[k]})
	}
	return out
}

// PatchSubmit implements the submit-time patch-barrier pass (spec
// §4.C10 "Submit-time patch barriers"). For every resource this command
// buffer touched, it compares the expected entry state against the
// resource's current global state (fetched via getGlobal), emits a
// barrier into the auxiliary patch command buffer via emit when needed,
// and merges the command buffer's final local state into global state.
func (l *Local) PatchSubmit(getGlobal func(key ResourceKey) *State, emit func(key ResourceKey, isImage bool, b Barrier)) {
	for _, k := range l.order {
		e := l.entries[k]
		global := getGlobal(k)

		// Compare the resource's true state against what this command
		// buffer assumed on entry: derive a barrier directly against a
		// scratch copy of global state so the real global state is only
		// mutated by the merge step below.
		scratch := *global
		if b, needed := DeriveBarrier(&scratch, e.ExpectedSyncReq); needed {
			emit(k, e.IsImage, b)
		}

		if e.State.LastWriter.AccessMask != 0 {
			*global = e.State
		} else {
			global.ActiveReaders.StageMask |= e.State.ActiveReaders.StageMask
			global.ActiveReaders.AccessMask |= e.State.ActiveReaders.AccessMask
			global.PerStageReadersMask |= e.State.PerStageReadersMask
			if e.IsImage {
				global.Layout = e.State.Layout
			}
		}
	}
}
