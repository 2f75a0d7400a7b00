// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package allbackends imports every HAL backend implementation for
// registration side effects:
//
//	import (
//		_ "github.com/gogpu/ngfx/hal/allbackends"
//	)
//
// This registers:
//   - Vulkan (Linux, Windows, macOS via MoltenVK)
//   - Metal (macOS, iOS)
//   - noop (all platforms, for testing)
//
// After importing, use hal.Get or hal.Available to find a backend by
// name; ngfx.Initialize does this automatically.
package allbackends
