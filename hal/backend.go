package hal

import (
	"github.com/gogpu/ngfx/internal/sync"
	"github.com/gogpu/ngfx/types"
)

// Backend is the factory every graphics backend registers under a
// well-known name ("vulkan", "metal", "noop"). initialize() (C0) looks
// a backend up by name and opens a Device from it.
type Backend interface {
	// Name returns the backend's registration name.
	Name() string

	// OpenDevice opens the physical/logical device this backend talks
	// to. Most backends support exactly one device; OpenDevice is the
	// boundary where capability negotiation (features, limits) happens.
	OpenDevice(opts DeviceOptions) (Device, error)
}

// DeviceOptions configures device selection. A zero value selects
// whatever default device the backend finds.
type DeviceOptions struct {
	// PreferDiscrete prefers a discrete GPU over an integrated one
	// when the backend can enumerate more than one.
	PreferDiscrete bool
}

// DeviceInfo describes the opened physical device.
type DeviceInfo struct {
	Name           string
	VendorID       uint32
	DeviceID       uint32
	IsDiscreteGPU  bool
	MaxInflightFrames uint8
}

// Device is the logical GPU device: it creates resources and contexts.
// Device implementations embed exactly the resource model of spec §4 —
// buffers, images, image views, samplers, shader modules, render
// targets, and pipelines all round-trip through typed IDs (types.ID),
// never raw backend handles, so engine code above the HAL never leaks
// backend-specific types.
type Device interface {
	Info() DeviceInfo

	// NewContext creates a context bound to this device (C12). A
	// context owns its own frame cycle and default render target.
	NewContext(info ContextInfo) (Context, error)

	CreateBuffer(info types.BufferInfo) (types.BufferID, error)
	DestroyBuffer(id types.BufferID)

	CreateImage(info types.ImageInfo) (types.ImageID, error)
	DestroyImage(id types.ImageID)

	CreateImageView(info types.ImageViewInfo) (types.ImageViewID, error)
	DestroyImageView(id types.ImageViewID)

	CreateSampler(info types.SamplerInfo) (types.SamplerID, error)
	DestroySampler(id types.SamplerID)

	CreateShaderModule(info types.ShaderModuleInfo) (types.ShaderModuleID, error)
	DestroyShaderModule(id types.ShaderModuleID)

	CreateRenderTarget(info types.RenderTargetInfo) (types.RenderTargetID, error)
	DestroyRenderTarget(id types.RenderTargetID)

	CreateGraphicsPipeline(info types.GraphicsPipelineInfo) (types.GraphicsPipelineID, error)
	DestroyGraphicsPipeline(id types.GraphicsPipelineID)

	CreateComputePipeline(info types.ComputePipelineInfo) (types.ComputePipelineID, error)
	DestroyComputePipeline(id types.ComputePipelineID)

	// ResourceSyncState returns the global hazard-tracking state for a
	// resource, shared by every context that touches it. The address
	// returned is stable for the resource's lifetime; internal/sync
	// treats it as the resource's ResourceKey.
	ResourceSyncState(id types.RawID) *sync.State

	// Map/Unmap/FlushRange expose host access to a host-visible
	// buffer's backing memory (spec supplemented feature, grounded on
	// nicegraf's ngf_buffer_map_range/flush_range/unmap).
	Map(id types.BufferID, offset, size uint64) ([]byte, error)
	FlushRange(id types.BufferID, offset, size uint64) error
	Unmap(id types.BufferID) error

	Destroy()
}

// ContextInfo configures a new Context (C12).
type ContextInfo struct {
	Label          string
	MaxInflight    uint8 // number of frames that may be in flight at once
	RenderTarget   types.RenderTargetID
}

// FrameInfo reports the state of the context's current frame.
type FrameInfo struct {
	Token     uint32 // packed {ctxID,maxInflight,frameID}, see internal/engine.FrameToken
	Suboptimal bool
}

// Context is a ngf_context equivalent (C12): it owns a frame cycle
// (BeginFrame/EndFrame), a default render target, and the retire
// queue that recycles per-frame-slot descriptor/command pools.
type Context interface {
	Info() ContextInfo

	// BeginFrame advances the frame cycle, waiting on the fence for
	// the frame slot about to be reused and running that slot's
	// retire queue before returning.
	BeginFrame() (FrameInfo, error)

	// EndFrame finalizes the frame: backends that own a swapchain
	// present here; others are a no-op beyond bookkeeping.
	EndFrame() error

	// NewCmdBuffer allocates a command buffer in the NEW state (C11),
	// superpool-backed per spec's descriptor/command superpool design
	// (C5).
	NewCmdBuffer() (CmdBuffer, error)

	// Submit transitions each buffer READY->AWAITING_SUBMIT->PENDING,
	// patches each buffer's assumed entry state against true global
	// state (C10 submit-time patch), and submits to the device queue.
	Submit(buffers ...CmdBuffer) error

	// Resize reconfigures the context's default render target (and,
	// for backends owning a swapchain, the swapchain itself) to a new
	// extent (spec scenario S6). The next BeginFrame reflects the new
	// size.
	Resize(width, height uint32) error

	// DefaultRenderTarget returns the render target a context creates
	// implicitly for its swapchain or offscreen default surface.
	DefaultRenderTarget() types.RenderTargetID

	Destroy()
}

// CmdBufferState is the C11 command-buffer lifecycle.
type CmdBufferState uint8

const (
	CmdBufferNew CmdBufferState = iota
	CmdBufferReady
	CmdBufferRecording
	CmdBufferAwaitingSubmit
	CmdBufferPending
	CmdBufferSubmitted
)

func (s CmdBufferState) String() string {
	switch s {
	case CmdBufferNew:
		return "NEW"
	case CmdBufferReady:
		return "READY"
	case CmdBufferRecording:
		return "RECORDING"
	case CmdBufferAwaitingSubmit:
		return "AWAITING_SUBMIT"
	case CmdBufferPending:
		return "PENDING"
	case CmdBufferSubmitted:
		return "SUBMITTED"
	default:
		return "UNKNOWN"
	}
}

// CmdBuffer is the recording/submission unit (C11). Start/Record/...
// calls must obey the state machine; a backend's implementation
// returns an error wrapping ErrInvalidCmdBufferState when called out
// of order.
type CmdBuffer interface {
	State() CmdBufferState

	// Start transitions READY->RECORDING. Only one CmdBuffer per
	// context may be recording at a time.
	Start() error

	// TrackBuffer/TrackImage request a sync transition for a
	// resource mid-recording (C9/C10): the local tracker derives a
	// barrier against the buffer's own recorded-so-far view of that
	// resource's state and, if needed, the backend emits the
	// corresponding pipeline barrier immediately.
	TrackBuffer(id types.BufferID, req sync.Req) error
	TrackImage(id types.ImageID, req sync.Req) error

	// BeginRenderPass opens a deferred render-command recorder (C9)
	// against target, returning a RenderEncoder whose Cmd* calls
	// append to the buffer's command stream rather than emitting
	// backend calls immediately.
	BeginRenderPass(target types.RenderTargetID, clear []types.ClearValue, ops []types.AttachmentOps) (RenderEncoder, error)

	BeginCompute() (ComputeEncoder, error)

	// CopyBuffer/CopyImage/GenerateMipmaps are the transfer-class
	// operations issued outside a render pass.
	CopyBuffer(src, dst types.BufferID, srcOffset, dstOffset, size uint64) error
	CopyBufferToImage(src types.BufferID, dst types.ImageID, region types.ImageWriteRegion) error
	GenerateMipmaps(id types.ImageID) error

	// End transitions RECORDING->READY, finalizing the command
	// stream so it can be submitted.
	End() error

	// BeginDebugGroup/EndDebugGroup bracket a span of recorded commands
	// with a named label a graphics debugger can display (spec §6.1
	// "cmd_begin_debug_group"/"cmd_end_current_debug_group"). Backends
	// without a native debug-labeling facility may no-op.
	BeginDebugGroup(label string) error
	EndDebugGroup() error
}

// RenderEncoder is the deferred render-command recorder (C9). Every
// method appends a typed command to the buffer's stream; nothing
// reaches the backend until EndRenderPass replays the stream.
type RenderEncoder interface {
	BindGraphicsPipeline(id types.GraphicsPipelineID)
	BindVertexBuffer(slot uint32, buffer types.BufferID, offset uint64)
	BindIndexBuffer(buffer types.BufferID, offset uint64, format types.IndexFormat)
	BindResources(ops []types.ResourceBindOp)
	SetViewport(vp types.Viewport)
	SetScissor(sc types.Scissor)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	EndRenderPass() error
}

// ComputeEncoder drives a compute dispatch. Compute has no equivalent
// deferred-recording requirement (no render-pass framebuffer binding
// to coalesce against), so its calls may be emitted immediately.
type ComputeEncoder interface {
	BindComputePipeline(id types.ComputePipelineID)
	BindResources(ops []types.ResourceBindOp)
	Dispatch(groupsX, groupsY, groupsZ uint32)
	EndCompute() error
}
