// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ngfx

import "github.com/gogpu/ngfx/hal"

// BeginDebugGroup/EndDebugGroup bracket a span of recorded commands
// with a label a graphics debugger (RenderDoc, Xcode GPU capture,
// Vulkan validation layers' debug-utils) can display. They are thin
// pass-throughs onto the backend's own labeling facility; nesting
// discipline (every Begin needs a matching End before the buffer's End)
// is enforced by the noop and vulkan backends; the metal backend only
// checks that the buffer is recording.
func BeginDebugGroup(buf hal.CmdBuffer, label string) error { return buf.BeginDebugGroup(label) }

func EndDebugGroup(buf hal.CmdBuffer) error { return buf.EndDebugGroup() }
