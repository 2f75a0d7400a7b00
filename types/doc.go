// Package types defines the backend-agnostic resource and descriptor
// types shared by the public API, the reflection/layout builder, and the
// Vulkan-class and Metal-class backends: buffers, images, samplers,
// shader blobs, render targets, pipelines, and the result/error codes of
// every public entry point.
package types
