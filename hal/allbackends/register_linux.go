// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build linux && !android

package allbackends

import (
	// Vulkan backend - primary backend on Linux.
	_ "github.com/gogpu/ngfx/hal/vulkan"
)
