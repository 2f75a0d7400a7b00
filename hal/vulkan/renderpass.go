// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/ngfx/types"
)

// renderPassHandle stands in for a paired VkRenderPass/VkFramebuffer:
// this backend caches by the same compat/ops keys a real Vulkan
// backend would, without ever constructing the native objects (see
// package doc for why).
type renderPassHandle struct {
	id     uint64
	compat string
	ops    string
}

// renderPassCache is the C8 render-pass/framebuffer cache. Entries are
// keyed first by compat key — attachment format/sample-count/type/
// resolve-flag, which is what determines VkRenderPass compatibility —
// and then by ops key, the per-attachment load/store pair. Two
// begin/end-render-pass calls against the same target with the same
// ops reuse one entry (testable property 8); a different ops
// combination against the same target gets its own entry without
// disturbing the first.
type renderPassCache struct {
	mu       sync.Mutex
	byCompat map[string]map[string]*renderPassHandle
	next     uint64
}

func newRenderPassCache() *renderPassCache {
	return &renderPassCache{byCompat: make(map[string]map[string]*renderPassHandle)}
}

// compatKeyFor builds the C8 compat key from a render target's
// attachment list.
func compatKeyFor(attachments []types.AttachmentDescription) string {
	var b strings.Builder
	for _, a := range attachments {
		fmt.Fprintf(&b, "%d,%d,%d,%t|", a.Format, a.SampleCount, a.Type, a.IsResolve)
	}
	return b.String()
}

// opsKeyFor builds the C8 ops key from a begin-render-pass call's
// per-attachment load/store ops.
func opsKeyFor(ops []types.AttachmentOps) string {
	var b strings.Builder
	for _, o := range ops {
		fmt.Fprintf(&b, "%d,%d|", o.Load, o.Store)
	}
	return b.String()
}

// LookupOrCreate returns the cached entry for (compat, ops), creating
// one on a miss. created reports whether this call created it.
func (c *renderPassCache) LookupOrCreate(compat, ops string) (handle *renderPassHandle, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byOps, ok := c.byCompat[compat]
	if !ok {
		byOps = make(map[string]*renderPassHandle)
		c.byCompat[compat] = byOps
	}
	if h, ok := byOps[ops]; ok {
		return h, false
	}
	c.next++
	h := &renderPassHandle{id: c.next, compat: compat, ops: ops}
	byOps[ops] = h
	return h, true
}

// Evict drops every ops-key variant cached under compat. Called when
// the render target backing it is destroyed, so a later render target
// that happens to reuse the same attachment description starts with a
// clean cache rather than resurrecting stale entries.
func (c *renderPassCache) Evict(compat string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byCompat, compat)
}

// Len reports the total number of cached (compat, ops) entries.
func (c *renderPassCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, byOps := range c.byCompat {
		n += len(byOps)
	}
	return n
}
