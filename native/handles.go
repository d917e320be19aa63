// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

// HardwareBuffer is an off-screen pixel buffer owned by the platform
// allocator (AHardwareBuffer on Android).
type HardwareBuffer uintptr

// Image is a hardware buffer imported into the binding as an image object
// (EGLImageKHR).
type Image uintptr

// WindowSurface is a surface bound to a native window (EGLSurface).
type WindowSurface uintptr

// Context is a native rendering context (EGLContext).
type Context uintptr

// Config is a resolved native context configuration (EGLConfig).
type Config uintptr

// Texture is a GL texture object name.
type Texture uint32

// Framebuffer is a GL framebuffer object name.
type Framebuffer uint32

// Renderbuffer is a GL renderbuffer object name.
type Renderbuffer uint32

// Null handles.
const (
	NoHardwareBuffer HardwareBuffer = 0
	NoImage          Image          = 0
	NoWindowSurface  WindowSurface  = 0
	NoContext        Context        = 0
	NoConfig         Config         = 0
	NoTexture        Texture        = 0
	NoFramebuffer    Framebuffer    = 0
	NoRenderbuffer   Renderbuffer   = 0
)

// DefaultFramebuffer is the framebuffer bound when no framebuffer object is.
const DefaultFramebuffer = NoFramebuffer

// Window is a native on-screen window (ANativeWindow).
//
// The size is queried at window surface creation time; implementations
// may change it between calls.
type Window interface {
	// Width returns the current window width in pixels.
	Width() int32

	// Height returns the current window height in pixels.
	Height() int32
}
