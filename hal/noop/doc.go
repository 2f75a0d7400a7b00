// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package noop implements hal.Backend entirely in memory: resource
// creation succeeds unconditionally, command buffers record into a
// slice instead of talking to a GPU, and Submit runs real barrier
// derivation (internal/sync) against that recorded stream without
// emitting anything to hardware.
//
// It exists to drive engine-level tests (sync-engine batching,
// command-buffer state machine, frame lifecycle, retire queue) without
// a GPU or a real Vulkan/Metal driver present, the same role the
// teacher's noop backend played against the WebGPU HAL it used to
// implement.
package noop
