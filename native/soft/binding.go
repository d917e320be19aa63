// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package soft implements native.Binding in pure Go.
//
// Hardware buffers are backed by *image.RGBA, GL objects are entries in
// per-kind tables, and window surfaces blit to a virtual Window on swap.
// Nothing is drawn except clears, which is enough to observe that an
// off-screen buffer shared between two contexts is the same memory.
//
// The binding enforces the contracts a real driver would only punish with
// undefined behavior: GL calls without a current context, or on objects
// that belong to another share group, panic. This makes it the reference
// backend for hwsurface tests.
//
// A Binding tracks a single current context. Like a real GL binding it is
// meant to be driven from one locked OS thread at a time.
package soft

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/hwsurface/native"
)

// Name is the registry name of the software binding.
const Name = "software"

func init() {
	native.Register(native.Driver{
		Name:     Name,
		Priority: 10,
		Open: func() (native.Binding, error) {
			return New(), nil
		},
	})
}

// Binding is a software implementation of native.Binding.
type Binding struct {
	mu sync.Mutex

	nextHandle uintptr
	current    native.Context
	terminated bool

	configs        map[native.ContextAttributes]native.Config
	configAttrs    map[native.Config]native.ContextAttributes
	contexts       map[native.Context]*contextState
	buffers        map[native.HardwareBuffer]*hardwareBuffer
	images         map[native.Image]*imageObject
	textures       map[native.Texture]*textureObject
	framebuffers   map[native.Framebuffer]*framebufferObject
	renderbuffers  map[native.Renderbuffer]*renderbufferObject
	windowSurfaces map[native.WindowSurface]*windowSurface

	swaps  int
	faults faults

	log *slog.Logger
}

// faults are one-shot failures armed by the Fail* methods.
type faults struct {
	allocation    bool
	imageImport   bool
	imageDestroy  bool
	windowSurface bool
	makeCurrent   bool
}

// contextState is the per-context GL state.
type contextState struct {
	config native.Config
	attrs  native.ContextAttributes
	group  native.Context

	framebuffer  native.Framebuffer
	draw         native.WindowSurface
	texture      native.Texture
	renderbuffer native.Renderbuffer
	clearColor   color.RGBA
}

// New creates an empty software binding.
func New() *Binding {
	return &Binding{
		configs:        make(map[native.ContextAttributes]native.Config),
		configAttrs:    make(map[native.Config]native.ContextAttributes),
		contexts:       make(map[native.Context]*contextState),
		buffers:        make(map[native.HardwareBuffer]*hardwareBuffer),
		images:         make(map[native.Image]*imageObject),
		textures:       make(map[native.Texture]*textureObject),
		framebuffers:   make(map[native.Framebuffer]*framebufferObject),
		renderbuffers:  make(map[native.Renderbuffer]*renderbufferObject),
		windowSurfaces: make(map[native.WindowSurface]*windowSurface),
		log:            slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for object lifecycle messages. Pass nil to
// disable logging.
func (b *Binding) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.mu.Lock()
	b.log = l.With("binding", Name)
	b.mu.Unlock()
}

// Name implements native.Binding.
func (b *Binding) Name() string { return Name }

// AdapterInfo describes the binding as a software adapter.
func (b *Binding) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "hwsurface software binding", Type: gpucontext.AdapterTypeSoftware}
}

// Terminate implements native.Terminator. Live objects stay in the tables
// so Stats can still report them.
func (b *Binding) Terminate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return nil
	}
	b.terminated = true
	b.current = native.NoContext
	return nil
}

// handle returns a fresh non-zero handle. Must be called with b.mu held.
func (b *Binding) handle() uintptr {
	b.nextHandle++
	return b.nextHandle
}

// glName returns a fresh non-zero GL object name. Must be called with b.mu held.
func (b *Binding) glName() uint32 {
	//nolint:gosec // G115: handle counts stay far below 2^32 in practice
	return uint32(b.handle())
}

// currentState returns the current context state or panics, as a GL call
// without a current context is a caller bug. Must be called with b.mu held.
func (b *Binding) currentState(call string) *contextState {
	if b.current == native.NoContext {
		panic(fmt.Sprintf("soft: %s called with no current context", call))
	}
	return b.contexts[b.current]
}

// Stats counts live objects per kind.
type Stats struct {
	Contexts        int
	HardwareBuffers int
	Images          int
	Textures        int
	Framebuffers    int
	Renderbuffers   int
	WindowSurfaces  int

	// Swaps is the number of successful SwapBuffers calls.
	Swaps int
}

// Live returns the number of live surface resources: everything except
// contexts and the swap counter.
func (s Stats) Live() int {
	return s.HardwareBuffers + s.Images + s.Textures + s.Framebuffers +
		s.Renderbuffers + s.WindowSurfaces
}

// Stats returns the current object counts.
func (b *Binding) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		Contexts:        len(b.contexts),
		HardwareBuffers: len(b.buffers),
		Images:          len(b.images),
		Textures:        len(b.textures),
		Framebuffers:    len(b.framebuffers),
		Renderbuffers:   len(b.renderbuffers),
		WindowSurfaces:  len(b.windowSurfaces),
		Swaps:           b.swaps,
	}
}

// FailNextAllocation makes the next AllocateHardwareBuffer fail.
func (b *Binding) FailNextAllocation() {
	b.mu.Lock()
	b.faults.allocation = true
	b.mu.Unlock()
}

// FailNextImageImport makes the next CreateImage return NoImage.
func (b *Binding) FailNextImageImport() {
	b.mu.Lock()
	b.faults.imageImport = true
	b.mu.Unlock()
}

// FailNextImageDestroy makes the next DestroyImage report failure. The
// image is still destroyed.
func (b *Binding) FailNextImageDestroy() {
	b.mu.Lock()
	b.faults.imageDestroy = true
	b.mu.Unlock()
}

// FailNextWindowSurface makes the next CreateWindowSurface return
// NoWindowSurface.
func (b *Binding) FailNextWindowSurface() {
	b.mu.Lock()
	b.faults.windowSurface = true
	b.mu.Unlock()
}

// FailNextMakeCurrent makes the next MakeCurrent fail.
func (b *Binding) FailNextMakeCurrent() {
	b.mu.Lock()
	b.faults.makeCurrent = true
	b.mu.Unlock()
}

var (
	_ native.Binding    = (*Binding)(nil)
	_ native.Terminator = (*Binding)(nil)
)
