// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/hwsurface/native"
)

// Window is a virtual native window. Presented frames land in its front
// buffer.
type Window struct {
	mu     sync.Mutex
	width  int32
	height int32
	front  *image.RGBA
	frames int
}

// NewWindow creates a window of the given size.
func NewWindow(width, height int32) *Window {
	w := &Window{}
	w.Resize(width, height)
	return w
}

// Width implements native.Window.
func (w *Window) Width() int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// Height implements native.Window.
func (w *Window) Height() int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// Resize changes the window size. The front buffer is reallocated and
// its contents are lost.
func (w *Window) Resize(width, height int32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.width = max(width, 0)
	w.height = max(height, 0)
	w.front = image.NewRGBA(image.Rect(0, 0, int(w.width), int(w.height)))
}

// Frames returns the number of frames presented to the window.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Snapshot returns a copy of the front buffer.
func (w *Window) Snapshot() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := image.NewRGBA(w.front.Bounds())
	copy(out.Pix, w.front.Pix)
	return out
}

// present copies back into the front buffer, scaling when the window was
// resized after the surface was created.
func (w *Window) present(back *image.RGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if back.Bounds().Eq(w.front.Bounds()) {
		draw.Copy(w.front, image.Point{}, back, back.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(w.front, w.front.Bounds(), back, back.Bounds(), draw.Src, nil)
	}
	w.frames++
}

// windowSurface is the back buffer of a native window.
type windowSurface struct {
	config native.Config
	window native.Window
	back   *image.RGBA
}

// CreateWindowSurface implements native.Windows.
func (b *Binding) CreateWindowSurface(cfg native.Config, win native.Window) native.WindowSurface {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults.windowSurface {
		b.faults.windowSurface = false
		return native.NoWindowSurface
	}
	if b.terminated || win == nil {
		return native.NoWindowSurface
	}
	if _, ok := b.configAttrs[cfg]; !ok {
		return native.NoWindowSurface
	}
	width, height := win.Width(), win.Height()
	if width <= 0 || height <= 0 {
		return native.NoWindowSurface
	}

	surf := native.WindowSurface(b.handle())
	b.windowSurfaces[surf] = &windowSurface{
		config: cfg,
		window: win,
		back:   image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
	}
	b.log.Debug("window surface created", "surface", uintptr(surf), "width", width, "height", height)
	return surf
}

// DestroyWindowSurface implements native.Windows.
func (b *Binding) DestroyWindowSurface(surf native.WindowSurface) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.windowSurfaces[surf]; !ok {
		return false
	}
	delete(b.windowSurfaces, surf)
	for _, cs := range b.contexts {
		if cs.draw == surf {
			cs.draw = native.NoWindowSurface
		}
	}
	return true
}

// MakeCurrentSurface makes ctx current with surf's back buffer as the
// storage of its default framebuffer, so Clear on the default framebuffer
// draws into the next presented frame.
func (b *Binding) MakeCurrentSurface(ctx native.Context, surf native.WindowSurface) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.windowSurfaces[surf]; !ok {
		return fmt.Errorf("%w: %#x", ErrBadSurface, uintptr(surf))
	}
	return b.makeCurrent(ctx, surf)
}

// drawBuffer returns the back buffer bound to the default framebuffer of
// cs, or nil. Must be called with b.mu held.
func (b *Binding) drawBuffer(cs *contextState) *image.RGBA {
	ws, ok := b.windowSurfaces[cs.draw]
	if !ok {
		return nil
	}
	return ws.back
}

// SwapBuffers implements native.Windows. Windows other than *Window only
// count the swap.
func (b *Binding) SwapBuffers(surf native.WindowSurface) bool {
	b.mu.Lock()
	ws, ok := b.windowSurfaces[surf]
	if ok {
		b.swaps++
	}
	b.mu.Unlock()

	if !ok {
		return false
	}
	if w, isSoft := ws.window.(*Window); isSoft {
		w.present(ws.back)
	}
	return true
}

var _ native.Window = (*Window)(nil)
