// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package alloc

// ChunkList is an intrusive linked list of fixed-capacity chunks used as
// a growable append-only byte buffer (spec §4.C2 "Chunk list"). Nothing
// else in this module uses it: the retire queue and the sync-req batch
// keep their own slice and map storage.
type ChunkList struct {
	chunkCap int
	chunks   []*chunk
}

type chunk struct {
	data []byte
}

// NewChunkList creates a ChunkList whose chunks hold chunkCap bytes each.
func NewChunkList(chunkCap int) *ChunkList {
	if chunkCap <= 0 {
		chunkCap = 4096
	}
	return &ChunkList{chunkCap: chunkCap}
}

// Append copies data into the list, allocating a new chunk if the
// current one lacks room. Appends larger than chunkCap get their own
// oversized chunk.
func (c *ChunkList) Append(data []byte) {
	if len(c.chunks) == 0 {
		c.chunks = append(c.chunks, c.newChunk(len(data)))
	}
	last := c.chunks[len(c.chunks)-1]
	if cap(last.data)-len(last.data) < len(data) {
		last = c.newChunk(len(data))
		c.chunks = append(c.chunks, last)
	}
	idx := len(c.chunks) - 1
	c.chunks[idx].data = append(c.chunks[idx].data, data...)
}

func (c *ChunkList) newChunk(minCap int) *chunk {
	cp := c.chunkCap
	if minCap > cp {
		cp = minCap
	}
	return &chunk{data: make([]byte, 0, cp)}
}

// ForEach visits every appended byte span across every chunk, in
// append order.
func (c *ChunkList) ForEach(visit func(chunkData []byte)) {
	for _, ch := range c.chunks {
		visit(ch.data)
	}
}

// Clear drops every chunk, returning the list to empty.
func (c *ChunkList) Clear() { c.chunks = nil }

// Len returns the total number of bytes appended across all chunks.
func (c *ChunkList) Len() int {
	n := 0
	for _, ch := range c.chunks {
		n += len(ch.data)
	}
	return n
}
