// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package alloc provides the small transient-memory utilities the engine
// relies on (spec §1 "intrusive utilities", §4.C2): a growable bump
// allocator and a fixed-size block pool. Neither is a general-purpose GPU
// memory allocator — that's delegated to a platform allocator per spec's
// Non-goals; these back CPU-side scratch data (a context's per-frame
// scratch arena, the Vulkan backend's per-frame descriptor superpool).
package alloc

const defaultBlockSize = 64 * 1024

// block is one chained allocation unit of a Stack.
type block struct {
	data []byte
	used int
	next *block
}

// Stack is a growable bump allocator. Allocate never fails: when the
// current block is exhausted, a new block is chained and allocation
// continues (spec §4.C2 "allocate a new block, chain it, continue").
// Reset returns to the first block and drops every chained overflow
// block, matching the original's two-tier tmp_store/frame_store design.
type Stack struct {
	first, cur *block
	blockSize  int
}

// NewStack creates a Stack whose blocks are blockSize bytes; blockSize
// <= 0 selects a 64KiB default.
func NewStack(blockSize int) *Stack {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	s := &Stack{blockSize: blockSize}
	s.first = &block{data: make([]byte, 0, blockSize)}
	s.cur = s.first
	return s
}

// Allocate returns size bytes of zeroed scratch space, valid until the
// next Reset.
func (s *Stack) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	if cap(s.cur.data)-len(s.cur.data) < size {
		s.grow(size)
	}
	start := len(s.cur.data)
	s.cur.data = s.cur.data[:start+size]
	for i := start; i < start+size; i++ {
		s.cur.data[i] = 0
	}
	return s.cur.data[start : start+size : start+size]
}

func (s *Stack) grow(size int) {
	blockSize := s.blockSize
	if size > blockSize {
		blockSize = size
	}
	nb := &block{data: make([]byte, 0, blockSize)}
	s.cur.next = nb
	s.cur = nb
}

// Reset discards every allocation, returning the stack to its first,
// now-empty block and dropping any blocks chained past it.
func (s *Stack) Reset() {
	s.first.data = s.first.data[:0]
	s.first.next = nil
	s.cur = s.first
}

// Used returns the number of bytes allocated across every live block,
// for diagnostics/tests.
func (s *Stack) Used() int {
	n := 0
	for b := s.first; b != nil; b = b.next {
		n += len(b.data)
	}
	return n
}
