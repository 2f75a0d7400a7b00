// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

// StorageClass declares where a buffer's memory lives and which side can
// touch it directly (spec §3 "Buffer").
type StorageClass uint8

const (
	StorageHostWriteable StorageClass = iota
	StorageHostReadable
	StorageHostReadWriteable
	StorageDeviceLocal
	StorageDeviceLocalHostWriteable
	StorageDeviceLocalHostReadWriteable
)

// BufferUsage is a bitmask of the ways a buffer may be bound or
// transferred.
type BufferUsage uint16

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageTexel
	BufferUsageTransferSrc
	BufferUsageTransferDst
)

// BufferInfo describes a buffer to be created.
type BufferInfo struct {
	Label   string
	Size    uint64
	Storage StorageClass
	Usage   BufferUsage
}

// BufferSlice identifies a byte range of a buffer, used as the payload of
// a uniform/storage/texel bind op (spec §6.3).
type BufferSlice struct {
	Buffer BufferID
	Offset uint64
	Range  uint64
}
