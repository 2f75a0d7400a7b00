// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !darwin

package metal

import (
	"errors"

	"github.com/gogpu/ngfx/hal"
)

// Backend is registered on every platform so hal.Available() always
// lists "metal"; OpenDevice fails outside Darwin since there's no
// Metal runtime to bridge to.
type Backend struct{}

func (Backend) Name() string { return "metal" }

func (Backend) OpenDevice(hal.DeviceOptions) (hal.Device, error) {
	return nil, errors.New("metal: backend only available on darwin")
}

func init() { hal.Register("metal", Backend{}) }
