// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/gogpu/ngfx/hal"
)

func init() { hal.Register("vulkan", Backend{}) }

// Backend is the Vulkan hal.Backend.
type Backend struct{}

func (Backend) Name() string { return "vulkan" }

// loaderNames lists the platform Vulkan loader, most to least specific.
func loaderNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"vulkan-1.dll"}
	case "darwin":
		return []string{"libMoltenVK.dylib", "/usr/local/lib/libMoltenVK.dylib"}
	default:
		return []string{"libvulkan.so.1", "libvulkan.so"}
	}
}

var (
	probeOnce sync.Once
	probeLib  unsafe.Pointer
	probeErr  error
)

// probeLoader attempts to dlopen the platform Vulkan loader exactly
// once per process, mirroring hal/metal's initObjCRuntime pattern.
func probeLoader() (unsafe.Pointer, error) {
	probeOnce.Do(func() {
		var lastErr error
		for _, name := range loaderNames() {
			lib, err := ffi.LoadLibrary(name)
			if err == nil {
				probeLib = lib
				return
			}
			lastErr = err
		}
		probeErr = fmt.Errorf("vulkan: no loader found: %w", lastErr)
	})
	return probeLib, probeErr
}

// OpenDevice probes for a real Vulkan loader on the host and, if found,
// opens a Device. See package doc for the scope of what Device actually
// exercises versus what it simulates.
func (Backend) OpenDevice(opts hal.DeviceOptions) (hal.Device, error) {
	if _, err := probeLoader(); err != nil {
		return nil, fmt.Errorf("%w: %w", hal.ErrBackendNotFound, err)
	}
	return newDevice(opts), nil
}
