// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "github.com/gogpu/gputypes"

// Enum is a GL enumerant.
type Enum uint32

// GL enumerants used by hwsurface.
const (
	Texture2D           Enum = 0x0DE1
	FramebufferTarget   Enum = 0x8D40
	RenderbufferTarget  Enum = 0x8D41
	FramebufferComplete Enum = 0x8CD5

	ColorAttachment0       Enum = 0x8CE0
	DepthAttachment        Enum = 0x8D00
	StencilAttachment      Enum = 0x8D20
	DepthStencilAttachment Enum = 0x821A

	TextureMinFilter Enum = 0x2801
	TextureMagFilter Enum = 0x2800
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Linear           Enum = 0x2601
	ClampToEdge      Enum = 0x812F

	ColorBufferBit   Enum = 0x4000
	DepthBufferBit   Enum = 0x0100
	StencilBufferBit Enum = 0x0400
)

// Contexts creates native contexts and switches the current one.
//
// The current context is thread-local. Callers lock the OS thread before
// calling MakeCurrent.
type Contexts interface {
	// ChooseConfig resolves attributes to a native config.
	ChooseConfig(attrs ContextAttributes) (Config, error)

	// CreateContext creates a context. share may be NoContext.
	CreateContext(cfg Config, attrs ContextAttributes, share Context) (Context, error)

	// DestroyContext destroys a context that is not current.
	DestroyContext(ctx Context) error

	// MakeCurrent makes ctx current on the calling thread.
	MakeCurrent(ctx Context) error

	// ReleaseCurrent leaves no context current on the calling thread.
	ReleaseCurrent() error

	// CurrentContext returns the context current on the calling thread,
	// or NoContext.
	CurrentContext() Context
}

// Buffers allocates off-screen hardware buffers.
type Buffers interface {
	// AllocateHardwareBuffer allocates a buffer matching desc.
	AllocateHardwareBuffer(desc *HardwareBufferDesc) (HardwareBuffer, error)

	// ReleaseHardwareBuffer drops the caller's reference to buf.
	ReleaseHardwareBuffer(buf HardwareBuffer)
}

// Images imports hardware buffers as image objects.
type Images interface {
	// CreateImage imports buf as a preserved image object. It returns
	// NoImage if the buffer cannot be imported.
	CreateImage(buf HardwareBuffer) Image

	// DestroyImage destroys img and reports whether the binding accepted
	// the call.
	DestroyImage(img Image) bool
}

// Windows manages surfaces bound to native windows.
type Windows interface {
	// CreateWindowSurface creates a surface for win using cfg. It returns
	// NoWindowSurface on failure; no further error detail is available.
	CreateWindowSurface(cfg Config, win Window) WindowSurface

	// DestroyWindowSurface destroys surf.
	DestroyWindowSurface(surf WindowSurface) bool

	// SwapBuffers posts the back buffer of surf to its window.
	SwapBuffers(surf WindowSurface) bool
}

// GL is the subset of GL used to assemble surfaces. Every call requires a
// current context.
type GL interface {
	GenTexture() Texture
	DeleteTexture(tex Texture)
	BindTexture(target Enum, tex Texture)
	TexParameteri(target, pname Enum, param int32)

	// EGLImageTargetTexture2D binds img as the storage of the texture bound
	// to target.
	EGLImageTargetTexture2D(target Enum, img Image)

	GenFramebuffer() Framebuffer
	DeleteFramebuffer(fbo Framebuffer)
	BindFramebuffer(target Enum, fbo Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, tex Texture, level int32)
	CheckFramebufferStatus(target Enum) Enum

	GenRenderbuffer() Renderbuffer
	DeleteRenderbuffer(rb Renderbuffer)
	BindRenderbuffer(target Enum, rb Renderbuffer)
	RenderbufferStorage(target Enum, format gputypes.TextureFormat, width, height int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb Renderbuffer)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	Flush()
	Finish()
}

// Binding is the complete set of capabilities hwsurface needs.
type Binding interface {
	Contexts
	Buffers
	Images
	Windows
	GL

	// Name identifies the binding in logs.
	Name() string
}

// Terminator is implemented by bindings that hold a display connection.
type Terminator interface {
	Terminate() error
}
