// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/hwsurface/native"
)

// fixedWindow is a native.Window that is not a *Window.
type fixedWindow struct{ w, h int32 }

func (f fixedWindow) Width() int32  { return f.w }
func (f fixedWindow) Height() int32 { return f.h }

func TestWindowResize(t *testing.T) {
	w := NewWindow(10, 20)
	if w.Width() != 10 || w.Height() != 20 {
		t.Fatalf("size = %dx%d, want 10x20", w.Width(), w.Height())
	}
	w.Resize(-5, 3)
	if w.Width() != 0 || w.Height() != 3 {
		t.Errorf("size after negative resize = %dx%d, want 0x3", w.Width(), w.Height())
	}
	if got := w.Snapshot().Bounds(); got != image.Rect(0, 0, 0, 3) {
		t.Errorf("front buffer bounds = %v", got)
	}
}

func TestWindowSurfaceSwap(t *testing.T) {
	b := New()
	cfg, err := b.ChooseConfig(native.ContextAttributes{})
	if err != nil {
		t.Fatal(err)
	}
	w := NewWindow(4, 4)

	surf := b.CreateWindowSurface(cfg, w)
	if surf == native.NoWindowSurface {
		t.Fatal("CreateWindowSurface() = NoWindowSurface")
	}

	// Paint the back buffer directly and present it.
	ws := b.windowSurfaces[surf]
	ws.back.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	if !b.SwapBuffers(surf) {
		t.Fatal("SwapBuffers() = false")
	}
	if got := w.Frames(); got != 1 {
		t.Errorf("Frames() = %d, want 1", got)
	}
	if got := w.Snapshot().RGBAAt(1, 1); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("front pixel = %v", got)
	}

	// A resized window gets a scaled frame.
	w.Resize(8, 8)
	if !b.SwapBuffers(surf) {
		t.Fatal("SwapBuffers() = false")
	}
	if got := w.Snapshot().Bounds().Size(); got != image.Pt(8, 8) {
		t.Errorf("front size = %v, want 8x8", got)
	}
	if got := b.Stats().Swaps; got != 2 {
		t.Errorf("Stats().Swaps = %d, want 2", got)
	}

	if !b.DestroyWindowSurface(surf) {
		t.Error("DestroyWindowSurface() = false")
	}
	if b.DestroyWindowSurface(surf) {
		t.Error("second DestroyWindowSurface() = true")
	}
	if b.SwapBuffers(surf) {
		t.Error("SwapBuffers on a destroyed surface = true")
	}
}

func TestCreateWindowSurfaceRejects(t *testing.T) {
	b := New()
	cfg, _ := b.ChooseConfig(native.ContextAttributes{})

	tests := []struct {
		name string
		cfg  native.Config
		win  native.Window
	}{
		{"nil window", cfg, nil},
		{"unknown config", native.Config(1234), NewWindow(1, 1)},
		{"empty window", cfg, NewWindow(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CreateWindowSurface(tt.cfg, tt.win); got != native.NoWindowSurface {
				t.Errorf("CreateWindowSurface() = %#x, want NoWindowSurface", got)
			}
		})
	}
}

func TestForeignWindowSwap(t *testing.T) {
	b := New()
	cfg, _ := b.ChooseConfig(native.ContextAttributes{})
	surf := b.CreateWindowSurface(cfg, fixedWindow{w: 2, h: 2})
	if surf == native.NoWindowSurface {
		t.Fatal("CreateWindowSurface() = NoWindowSurface")
	}
	if !b.SwapBuffers(surf) {
		t.Error("SwapBuffers() = false")
	}
	if got := b.Stats().Swaps; got != 1 {
		t.Errorf("Stats().Swaps = %d, want 1", got)
	}
}

func TestClearWindowSurface(t *testing.T) {
	b := New()
	ctx := mustContext(t, b, native.NoContext)
	cfg, _ := b.ChooseConfig(native.ContextAttributes{Flags: native.ContextDepth})
	w := NewWindow(4, 4)
	surf := b.CreateWindowSurface(cfg, w)
	if surf == native.NoWindowSurface {
		t.Fatal("CreateWindowSurface() = NoWindowSurface")
	}
	red := color.RGBA{R: 255, A: 255}

	// Surfaceless: the default framebuffer has no storage.
	if err := b.MakeCurrent(ctx); err != nil {
		t.Fatalf("MakeCurrent() = %v", err)
	}
	b.ClearColor(1, 0, 0, 1)
	b.Clear(native.ColorBufferBit)
	b.SwapBuffers(surf)
	if got := w.Snapshot().RGBAAt(2, 2); got == red {
		t.Error("surfaceless Clear reached the window")
	}

	if err := b.MakeCurrentSurface(ctx, surf); err != nil {
		t.Fatalf("MakeCurrentSurface() = %v", err)
	}
	b.ClearColor(1, 0, 0, 1)
	b.Clear(native.ColorBufferBit)
	if err := b.ReleaseCurrent(); err != nil {
		t.Fatal(err)
	}
	if !b.SwapBuffers(surf) {
		t.Fatal("SwapBuffers() = false")
	}
	if got := w.Snapshot().RGBAAt(2, 2); got != red {
		t.Errorf("front pixel = %v, want %v", got, red)
	}

	if !b.DestroyWindowSurface(surf) {
		t.Fatal("DestroyWindowSurface() = false")
	}
	if got := b.contexts[ctx].draw; got != native.NoWindowSurface {
		t.Errorf("draw surface = %#x after destroy, want none", uintptr(got))
	}
	if err := b.MakeCurrentSurface(ctx, surf); !errors.Is(err, ErrBadSurface) {
		t.Errorf("MakeCurrentSurface(destroyed) = %v, want ErrBadSurface", err)
	}
}
