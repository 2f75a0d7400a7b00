// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package allbackends

import (
	// Vulkan backend - primary backend on Windows.
	_ "github.com/gogpu/ngfx/hal/vulkan"
)
