// Package hal is the Hardware Abstraction Layer the engine drives its
// contexts through.
//
// # Architecture
//
// The HAL is organized around a single capability interface rather than
// the Instance/Adapter/Device/Queue chain of a WebGPU-style HAL:
//
//  1. Backend - factory for devices, registered globally by backend packages
//  2. Device  - physical/logical GPU; creates contexts and resources
//  3. Context - a ngf_context equivalent: owns a frame cycle, a default
//     render target, and the command buffers submitted against it
//  4. CmdBuffer - the state-machine-driven recording/submission unit
//
// # Design Principles
//
// Validation of resource descriptors happens above the HAL, in the
// engine layer; a HAL method only returns an error for conditions the
// backend itself detects (allocation failure, device loss, surface
// invalidation). Automatic synchronization (barrier derivation) is
// entirely internal/sync's responsibility — backends never compute
// barriers themselves, they only translate internal/sync.Barrier
// values into their own pipeline-barrier calls.
//
// # Backend Registration
//
// Backends register themselves from an init() function using Register.
// Importing a backend package for its side effect (as hal/allbackends
// does for every backend) is what makes it available to Get:
//
//	backend, ok := hal.Get("vulkan")
//	if !ok {
//		return fmt.Errorf("vulkan backend not available")
//	}
//	dev, err := backend.OpenDevice(hal.DeviceOptions{})
//
// # Thread Safety
//
// Registration (Register, Get, Available) is safe for concurrent use.
// Device and Context methods are not; callers serialize access to a
// given Context themselves, mirroring the single-threaded-per-context
// contract of the original library this HAL generalizes.
package hal
