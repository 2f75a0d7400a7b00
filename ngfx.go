// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ngfx is the public entry point: a process-wide Engine
// singleton opened once by Initialize, Contexts bound to it, and the
// typed resource/command-buffer API every operation runs through.
//
// It is a thin orchestration layer over hal.Backend/Device/Context —
// validation and ID bookkeeping live here, automatic synchronization
// and cache reuse live in internal/sync and the backend, reflection
// lives in internal/reflect. Every exported operation returns a Go
// error rather than the out-parameter + Result-code convention the
// design this library generalizes used; *ValidationError and *IDError
// wrap the precise failure. No returned error carries a types.Result
// code: errors.Is(err, types.ResultXxx) does not match any of them.
package ngfx

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ngfx/hal"
	_ "github.com/gogpu/ngfx/hal/allbackends"
	"github.com/gogpu/ngfx/internal/engine"
	"github.com/gogpu/ngfx/internal/reflect"
	"github.com/gogpu/ngfx/types"
)

// InitConfig configures Initialize.
type InitConfig struct {
	// Backend selects the registered hal.Backend by name ("vulkan",
	// "metal", "noop"). Empty selects the first backend available,
	// preferring "vulkan" if registered.
	Backend string

	DeviceOptions hal.DeviceOptions

	// Diagnostics receives every diagnostic message the engine and
	// backend emit, classified by level (spec §7). Nil installs a
	// handler that forwards to log/slog at the matching level.
	Diagnostics func(level types.DiagLevel, format string, args ...any)

	// Logger backs the default diagnostics handler; ignored if
	// Diagnostics is set explicitly.
	Logger *slog.Logger
}

// Engine is the process-wide singleton created by Initialize. Only
// one may be open at a time, mirroring the single global Vulkan
// instance/device the design this library generalizes assumes (spec
// §9 "global mutable state").
type Engine struct {
	backend hal.Backend
	device  hal.Device
	diag    func(level types.DiagLevel, format string, args ...any)

	mu       sync.Mutex
	contexts *engine.Table[ctxMarker, *Context]

	// shaderModules and the two layout maps back the reflection &
	// layout builder (spec §4.C7): CreateShaderModule records the
	// caller-supplied reflection table, and CreateGraphicsPipeline/
	// CreateComputePipeline look it up to run internal/reflect.Build
	// and keep the resulting layout for introspection.
	shaderModules  map[types.ShaderModuleID]types.ShaderModuleInfo
	gfxLayouts     map[types.GraphicsPipelineID]*reflect.PipelineLayout
	computeLayouts map[types.ComputePipelineID]*reflect.PipelineLayout
}

type ctxMarker struct{}

func (ctxMarker) marker() {}

var activeEngine atomic.Pointer[Engine]

// current is the process-wide binding of "the current context" — see
// internal/engine.CurrentContext's doc comment for why this isn't a
// true per-OS-thread TLS in Go.
var current engine.CurrentContext[Context]

// Initialize opens the process-wide Engine. Calling Initialize while
// one is already open returns an error; call Shutdown first.
func Initialize(cfg InitConfig) (*Engine, error) {
	if activeEngine.Load() != nil {
		return nil, newValidationError("Engine", "", "already initialized; call Shutdown first")
	}

	name := cfg.Backend
	if name == "" {
		if _, ok := hal.Get("vulkan"); ok {
			name = "vulkan"
		} else {
			avail := hal.Available()
			if len(avail) == 0 {
				return nil, newValidationError("Engine", "Backend", "no backends registered")
			}
			name = avail[0]
		}
	}
	backend, ok := hal.Get(name)
	if !ok {
		return nil, newValidationErrorf("Engine", "Backend", "backend %q not registered", name)
	}

	dev, err := backend.OpenDevice(cfg.DeviceOptions)
	if err != nil {
		return nil, fmt.Errorf("ngfx: open device: %w", err)
	}

	diag := cfg.Diagnostics
	if diag == nil {
		logger := cfg.Logger
		if logger == nil {
			logger = hal.Logger()
		}
		diag = func(level types.DiagLevel, format string, args ...any) {
			msg := fmt.Sprintf(format, args...)
			switch level {
			case types.DiagWarning:
				logger.Warn(msg)
			case types.DiagError:
				logger.Error(msg)
			default:
				logger.Info(msg)
			}
		}
	}

	e := &Engine{
		backend:        backend,
		device:         dev,
		diag:           diag,
		contexts:       engine.NewTable[ctxMarker, *Context](),
		shaderModules:  make(map[types.ShaderModuleID]types.ShaderModuleInfo),
		gfxLayouts:     make(map[types.GraphicsPipelineID]*reflect.PipelineLayout),
		computeLayouts: make(map[types.ComputePipelineID]*reflect.PipelineLayout),
	}
	activeEngine.Store(e)
	return e, nil
}

// Shutdown releases the device and clears the active engine. It does
// not destroy contexts still open against the engine: shutting down
// with open contexts is a Fatal condition per spec §7 ("destroy-context-
// not-destroyed-before-shutdown"), so Shutdown logs their count at
// DiagError and proceeds rather than leaving the process in a
// half-torn-down state.
func (e *Engine) Shutdown() error {
	if activeEngine.Load() != e {
		return newValidationError("Engine", "", "not the active engine")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.contexts.Len() > 0 {
		e.diag(types.DiagError, "ngfx: shutdown with %d context(s) still open", e.contexts.Len())
	}
	e.device.Destroy()
	activeEngine.Store(nil)
	return nil
}

// EnumerateDevices reports the single device the active backend
// opened. Real multi-adapter enumeration is a backend concern this
// generalized engine doesn't need: each hal.Backend.OpenDevice already
// picks or is told which physical device to use.
func (e *Engine) EnumerateDevices() []hal.DeviceInfo {
	return []hal.DeviceInfo{e.device.Info()}
}

var errNotInitialized = errors.New("ngfx: engine not initialized")

// requireActive reports errNotInitialized if e is not (or is no longer)
// the process-wide active engine, guarding calls made on a *Engine
// retained past Shutdown.
func (e *Engine) requireActive() error {
	if activeEngine.Load() != e {
		return errNotInitialized
	}
	return nil
}
