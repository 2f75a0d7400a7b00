// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package metal implements hal.Backend as a thin immediate-mode
// backend over the Metal Obj-C runtime. Metal's MTLResource hazard
// tracking defaults to driver-managed (MTLHazardTrackingModeDefault)
// and a render/compute command encoder already serializes resource
// usage within its own pass, so this backend does not run the
// internal/sync engine: TrackBuffer/TrackImage are accepted and
// ignored, and every encoder call is immediate rather than deferred
// into a recorded stream. Deep Metal support (full resource/pipeline
// translation) is explicitly out of scope — see spec §1 ("out of
// scope: non-Vulkan backend classes in detail") — this backend exists
// so the engine layer has a second, structurally different Backend to
// exercise against.
//
// # Pure Go Approach
//
// objc.go bridges the Objective-C runtime directly via goffi, the
// same FFI layer hal/vulkan uses to probe for the Vulkan loader, so
// no cgo is required on Darwin either.
package metal
