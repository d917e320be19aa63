package hwsurface

import (
	"fmt"
	"image"
	"runtime"

	"github.com/gogpu/hwsurface/native"
)

// SurfaceID identifies a surface by its primary native handle: the image
// for off-screen surfaces, the window surface for window surfaces.
type SurfaceID uintptr

// SurfaceKind tells which native representation a surface uses.
type SurfaceKind uint8

const (
	// SurfaceHardwareBuffer is an off-screen surface backed by a hardware
	// buffer, imported as an image and attached to a framebuffer.
	SurfaceHardwareBuffer SurfaceKind = iota + 1

	// SurfaceWindow is a surface bound to a native window.
	SurfaceWindow
)

// String implements fmt.Stringer.
func (k SurfaceKind) String() string {
	switch k {
	case SurfaceHardwareBuffer:
		return "HardwareBuffer"
	case SurfaceWindow:
		return "Window"
	default:
		return fmt.Sprintf("SurfaceKind(%d)", uint8(k))
	}
}

// hardwareBufferObjects are the native objects of an off-screen surface.
type hardwareBufferObjects struct {
	hardwareBuffer native.HardwareBuffer
	image          native.Image
	framebuffer    native.Framebuffer
	texture        native.Texture
	renderbuffers  renderbuffers
}

// windowObjects are the native objects of a window surface.
type windowObjects struct {
	windowSurface native.WindowSurface
}

// Surface is a rendering target owned by a context.
//
// Exactly one of hardwareBuffer and window is set, as told by kind.
//
// A Surface must be released with Device.DestroySurface. A surface that
// becomes unreachable without being destroyed triggers the device's leak
// handler, which panics by default.
type Surface struct {
	contextID ContextID
	size      image.Point
	kind      SurfaceKind

	hardwareBuffer *hardwareBufferObjects
	window         *windowObjects

	destroyed bool
	wrapped   bool
	leak      func(*Surface)
}

// newSurface arms the drop-time check.
func newSurface(s *Surface, leak func(*Surface)) *Surface {
	s.leak = leak
	runtime.SetFinalizer(s, (*Surface).finalize)
	return s
}

// finalize runs when an undestroyed surface is collected.
func (s *Surface) finalize() {
	if s.destroyed {
		return
	}
	Logger().Error("surface dropped without DestroySurface", "surface", s.String(), "context", s.contextID)
	s.leak(s)
}

// markDestroyed records that native teardown is done, or deliberately
// skipped, and disarms the drop-time check.
func (s *Surface) markDestroyed() {
	s.destroyed = true
	runtime.SetFinalizer(s, nil)
}

// panicOnLeak is the default leak handler.
func panicOnLeak(s *Surface) {
	panic(fmt.Sprintf("hwsurface: %v should have been destroyed with DestroySurface", s))
}

// Size returns the surface size in pixels.
func (s *Surface) Size() image.Point {
	return s.size
}

// ContextID returns the id of the context that owns the surface.
func (s *Surface) ContextID() ContextID {
	return s.contextID
}

// Kind returns the native representation of the surface.
func (s *Surface) Kind() SurfaceKind {
	return s.kind
}

// Destroyed reports whether the surface has been destroyed.
func (s *Surface) Destroyed() bool {
	return s.destroyed
}

// ID returns the surface id. Ids are unique among live surfaces; a
// destroyed surface has id 0.
func (s *Surface) ID() SurfaceID {
	switch s.kind {
	case SurfaceHardwareBuffer:
		return SurfaceID(s.hardwareBuffer.image)
	case SurfaceWindow:
		return SurfaceID(s.window.windowSurface)
	default:
		panic("hwsurface: surface has no representation")
	}
}

// String implements fmt.Stringer.
func (s *Surface) String() string {
	return fmt.Sprintf("Surface(%x)", uintptr(s.ID()))
}

// SurfaceInfo describes a live surface.
type SurfaceInfo struct {
	// Size is the surface size in pixels.
	Size image.Point

	// ID is the surface id.
	ID SurfaceID

	// ContextID is the id of the owning context.
	ContextID ContextID

	// Framebuffer is the framebuffer object to render into, or
	// native.DefaultFramebuffer for window surfaces.
	Framebuffer native.Framebuffer
}

// SurfaceAccess is a hint about CPU access to a surface. It is reserved
// for future CPU access policies and currently ignored.
type SurfaceAccess uint8

const (
	// GPUOnly surfaces are never touched by the CPU.
	GPUOnly SurfaceAccess = iota

	// GPUCPU surfaces may be read and written by the CPU.
	GPUCPU

	// GPUCPUWriteCombined surfaces may be written by the CPU through
	// write-combined memory.
	GPUCPUWriteCombined
)

// NativeWidget wraps the native window a window surface presents to.
type NativeWidget struct {
	window native.Window
}

// NewNativeWidget wraps a native window.
func NewNativeWidget(window native.Window) NativeWidget {
	return NativeWidget{window: window}
}

// Window returns the wrapped native window.
func (w NativeWidget) Window() native.Window {
	return w.window
}

// SurfaceType selects the kind of surface CreateSurface makes.
// Use Generic or Widget to build one.
type SurfaceType struct {
	kind   SurfaceKind
	size   image.Point
	widget NativeWidget
}

// Generic selects an off-screen surface of the given size.
func Generic(size image.Point) SurfaceType {
	return SurfaceType{kind: SurfaceHardwareBuffer, size: size}
}

// Widget selects a surface presenting to a native window. The surface
// takes the window's size at creation time.
func Widget(widget NativeWidget) SurfaceType {
	return SurfaceType{kind: SurfaceWindow, widget: widget}
}

// SurfaceDataGuard gives CPU access to surface pixels. No platform
// currently provides one.
type SurfaceDataGuard struct {
	surface *Surface
}

// Surface returns the locked surface.
func (g *SurfaceDataGuard) Surface() *Surface {
	return g.surface
}
