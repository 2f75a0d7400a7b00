// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package alloc

import "testing"

func TestStackGrowsAndResets(t *testing.T) {
	s := NewStack(16)
	a := s.Allocate(10)
	b := s.Allocate(10) // forces a new chained block
	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("got lens %d, %d, want 10, 10", len(a), len(b))
	}
	if s.Used() != 20 {
		t.Fatalf("Used() = %d, want 20", s.Used())
	}
	s.Reset()
	if s.Used() != 0 {
		t.Fatalf("Used() after Reset = %d, want 0", s.Used())
	}
}

func TestBlockAllocFree(t *testing.T) {
	b := NewBlock(8, 4)
	idx1, slot1 := b.Alloc()
	slot1[0] = 0xAB
	idx2, _ := b.Alloc()
	if idx1 == idx2 {
		t.Fatal("two live allocations got the same slot")
	}
	if b.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", b.Live())
	}
	b.Free(idx1)
	if b.Live() != 1 {
		t.Fatalf("Live() after Free = %d, want 1", b.Live())
	}
}

func TestChunkListAppendAndIterate(t *testing.T) {
	cl := NewChunkList(4)
	cl.Append([]byte{1, 2})
	cl.Append([]byte{3, 4, 5})
	var got []byte
	cl.ForEach(func(d []byte) { got = append(got, d...) })
	if len(got) != 5 {
		t.Fatalf("got %d bytes, want 5", len(got))
	}
	cl.Clear()
	if cl.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", cl.Len())
	}
}
