// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// VertexFormat is the wire format of one vertex attribute component.
type VertexFormat uint8

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
	VertexFormatUint32x2
	VertexFormatUint32x4
	VertexFormatSint32
)

// VertexStepMode selects whether a vertex buffer advances per-vertex or
// per-instance.
type VertexStepMode uint8

const (
	VertexStepModeVertex VertexStepMode = iota
	VertexStepModeInstance
)

// VertexAttribute is one shader-visible vertex input location.
type VertexAttribute struct {
	ShaderLocation uint32
	Format         VertexFormat
	Offset         uint64
}

// VertexBufferLayout describes one vertex attribute buffer binding.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    VertexStepMode
	Attributes  []VertexAttribute
}

// IndexFormat is the wire width of an index buffer's elements.
type IndexFormat uint8

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)
