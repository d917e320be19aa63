// Package hwsurface manages GPU-backed rendering surfaces tied to a
// graphics context.
//
// # Overview
//
// A surface is what a renderer draws into. hwsurface creates two kinds:
//
//   - Off-screen surfaces, backed by a hardware buffer that is imported as
//     an image, bound to a texture and attached, with depth and stencil
//     renderbuffers, to a framebuffer.
//   - Window surfaces, bound to a native window and shown by swapping
//     buffers.
//
// An off-screen surface can be imported into a second context as a
// SurfaceTexture. Both contexts then see the same pixels: one renders, the
// other samples, without copies.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/hwsurface"
//	    _ "github.com/gogpu/hwsurface/native/soft" // or a platform binding
//	)
//
//	dev, err := hwsurface.OpenDevice("")
//	ctx, err := dev.CreateContext(hwsurface.ContextAttributes{
//	    Flags: native.ContextDepth | native.ContextStencil,
//	}, nil)
//
//	s, err := dev.CreateSurface(ctx, hwsurface.GPUOnly, hwsurface.Generic(image.Pt(64, 64)))
//	defer dev.DestroySurface(ctx, s)
//
// # Ownership
//
// Native resources are not garbage collected. Every surface must go
// through Device.DestroySurface, on error paths too. A surface collected
// without it faults through the device's leak handler, which panics by
// default, so leaks are loud and point at the surface that leaked.
//
// A surface destroyed with a context that does not own it is leaked on
// purpose and ErrIncompatibleSurface is returned: releasing GL objects with
// the wrong context current would corrupt that context.
//
// Contract violations by the binding (an image that cannot be imported or
// destroyed, a window surface that cannot be created) panic. The binding
// gives no way to recover from them.
//
// # Current Context
//
// GL calls go to the context current on the calling OS thread. Device
// methods that issue them lock the OS thread, make the context current and
// restore the previously current context on every return path.
//
// A Device takes no locks. Serialize operations on a device and its
// contexts.
package hwsurface
