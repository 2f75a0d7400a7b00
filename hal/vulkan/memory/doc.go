// Package memory provides the power-of-2 buddy allocator backing
// suballocation of device-memory heaps (spec's "GPU allocator
// adapter", C3).
//
// # Buddy Allocator
//
// Classic buddy allocation:
//   - Memory divided into power-of-2 blocks
//   - Blocks split recursively until the desired size is reached
//   - Adjacent "buddy" blocks merged on free
//   - O(log n) allocation and deallocation
//   - Minimal external fragmentation
//
// BuddyAllocator itself is backend-agnostic: it hands out byte offsets
// within a fixed-size arena, leaving the choice of what backs that
// arena (a real VkDeviceMemory block, an MTLHeap, or a plain Go byte
// slice) to the caller. hal/vulkan uses it to suballocate buffer and
// image placements within its simulated device-memory heaps.
package memory
