package hwsurface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/hwsurface/native"
	"github.com/gogpu/hwsurface/native/soft"
)

// clearSurface fills s with c by clearing its framebuffer in ctx.
func clearSurface(t *testing.T, dev *Device, ctx *Context, s *Surface, c color.RGBA) {
	t.Helper()
	guard, err := dev.makeCurrent(ctx)
	if err != nil {
		t.Fatalf("makeCurrent() = %v", err)
	}
	defer guard.Release()

	gl := dev.Binding()
	gl.BindFramebuffer(native.FramebufferTarget, dev.SurfaceInfo(s).Framebuffer)
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	gl.Clear(native.ColorBufferBit | native.DepthBufferBit)
	gl.Finish()
}

func TestSurfaceTextureRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		share bool
	}{
		{"separate contexts", false},
		{"shared contexts", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, b := newTestDevice(t)
			producer := newTestContext(t, dev, native.ContextDepth|native.ContextStencil)
			var share *Context
			if tt.share {
				share = producer
			}
			consumer, err := dev.CreateContext(ContextAttributes{}, share)
			if err != nil {
				t.Fatalf("CreateContext() = %v", err)
			}

			s := mustCreate(t, dev, producer, testSize)
			id := s.ID()
			red := color.RGBA{R: 255, A: 255}
			clearSurface(t, dev, producer, s, red)

			st, err := dev.CreateSurfaceTexture(consumer, s)
			if err != nil {
				t.Fatalf("CreateSurfaceTexture() = %v", err)
			}
			if st.Surface() != s {
				t.Error("Surface() is not the wrapped surface")
			}
			if st.ContextID() != consumer.ID() {
				t.Errorf("ContextID() = %d, want %d", st.ContextID(), consumer.ID())
			}
			if st.GLTexture() == native.NoTexture {
				t.Fatal("GLTexture() = NoTexture")
			}
			if st.GLTexture() == s.hardwareBuffer.texture {
				t.Error("surface texture reuses the producer texture")
			}

			// The consumer sees the producer's pixels.
			pix := b.TexturePixels(st.GLTexture())
			if pix == nil {
				t.Fatal("surface texture has no storage")
			}
			if got := pix.RGBAAt(10, 10); got != red {
				t.Errorf("consumer pixel = %v, want %v", got, red)
			}

			// And later producer writes without a copy.
			blue := color.RGBA{B: 255, A: 255}
			clearSurface(t, dev, producer, s, blue)
			if got := b.TexturePixels(st.GLTexture()).RGBAAt(63, 63); got != blue {
				t.Errorf("consumer pixel after redraw = %v, want %v", got, blue)
			}

			back, err := dev.DestroySurfaceTexture(consumer, st)
			if err != nil {
				t.Fatalf("DestroySurfaceTexture() = %v", err)
			}
			if back != s {
				t.Fatal("DestroySurfaceTexture returned a different surface")
			}
			if st.GLTexture() != native.NoTexture {
				t.Error("texture handle not zeroed")
			}
			if s.Destroyed() {
				t.Error("surface destroyed along with its texture")
			}
			if back.ID() != id || back.ContextID() != producer.ID() {
				t.Errorf("returned surface is %v of context %d, want id %#x of context %d",
					back, back.ContextID(), uintptr(id), producer.ID())
			}
			stats := b.Stats()
			if stats.HardwareBuffers != 1 || stats.Images != 1 || stats.Textures != 1 {
				t.Errorf("Stats() after texture destroy = %+v, want the surface objects only", stats)
			}

			mustDestroy(t, dev, producer, back)
			if got := b.Stats().Live(); got != 0 {
				t.Errorf("Stats().Live() = %d, want 0 (%+v)", got, b.Stats())
			}
			if b.CurrentContext() != native.NoContext {
				t.Error("a context was left current")
			}
		})
	}
}

func TestCreateSurfaceTextureFromWindow(t *testing.T) {
	dev, b := newTestDevice(t)
	ctx := newTestContext(t, dev, 0)
	win := soft.NewWindow(320, 240)

	s, err := dev.CreateSurface(ctx, GPUOnly, Widget(NewNativeWidget(win)))
	if err != nil {
		t.Fatalf("CreateSurface() = %v", err)
	}
	before := b.Stats()

	st, err := dev.CreateSurfaceTexture(ctx, s)
	if !errors.Is(err, ErrWidgetAttached) {
		t.Fatalf("CreateSurfaceTexture() = %v, want ErrWidgetAttached", err)
	}
	if st != nil {
		t.Error("CreateSurfaceTexture() returned a texture")
	}
	if after := b.Stats(); after != before {
		t.Errorf("native objects changed: before %+v, after %+v", before, after)
	}

	// The caller still owns the surface.
	if s.Destroyed() {
		t.Fatal("surface consumed by a failed CreateSurfaceTexture")
	}
	if err := dev.PresentSurface(ctx, s); err != nil {
		t.Errorf("PresentSurface() = %v", err)
	}
	mustDestroy(t, dev, ctx, s)
}

func TestSurfaceInUse(t *testing.T) {
	dev, _ := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture() = %v", err)
	}

	if err := dev.DestroySurface(producer, s); !errors.Is(err, ErrSurfaceInUse) {
		t.Errorf("DestroySurface() while wrapped = %v, want ErrSurfaceInUse", err)
	}
	if _, err := dev.CreateSurfaceTexture(consumer, s); !errors.Is(err, ErrSurfaceInUse) {
		t.Errorf("second CreateSurfaceTexture() = %v, want ErrSurfaceInUse", err)
	}

	if _, err := dev.DestroySurfaceTexture(consumer, st); err != nil {
		t.Fatalf("DestroySurfaceTexture() = %v", err)
	}
	mustDestroy(t, dev, producer, s)
}

func TestCreateSurfaceTextureDestroyedSurface(t *testing.T) {
	dev, _ := newTestDevice(t)
	ctx := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, ctx, testSize)
	mustDestroy(t, dev, ctx, s)

	if _, err := dev.CreateSurfaceTexture(ctx, s); !errors.Is(err, ErrSurfaceDestroyed) {
		t.Errorf("CreateSurfaceTexture(destroyed) = %v, want ErrSurfaceDestroyed", err)
	}
}

func TestCreateSurfaceTextureMakeCurrentFailure(t *testing.T) {
	dev, b := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	defer mustDestroy(t, dev, producer, s)

	b.FailNextMakeCurrent()
	if _, err := dev.CreateSurfaceTexture(consumer, s); !errors.Is(err, ErrMakeCurrentFailed) {
		t.Fatalf("CreateSurfaceTexture() = %v, want ErrMakeCurrentFailed", err)
	}
	if got := b.Stats().Images; got != 1 {
		t.Errorf("Stats().Images = %d, want 1", got)
	}
}

func TestDestroySurfaceTextureImageDestroyFailurePanics(t *testing.T) {
	dev, b := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture() = %v", err)
	}

	b.FailNextImageDestroy()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("DestroySurfaceTexture did not panic on a failed image destroy")
			}
		}()
		_, _ = dev.DestroySurfaceTexture(consumer, st)
	}()
	if b.CurrentContext() != native.NoContext {
		t.Error("context left current after panic")
	}

	// The consumer objects are gone; the surface itself is intact.
	s.wrapped = false
	mustDestroy(t, dev, producer, s)
	if got := b.Stats().Live(); got != 0 {
		t.Errorf("Stats().Live() = %d, want 0 (%+v)", got, b.Stats())
	}
}

func TestDestroyWrappedSurfaceWithConsumerContext(t *testing.T) {
	dev, b := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture() = %v", err)
	}

	if err := dev.DestroySurface(consumer, s); !errors.Is(err, ErrIncompatibleSurface) {
		t.Errorf("DestroySurface(consumer) = %v, want ErrIncompatibleSurface", err)
	}
	if s.Destroyed() {
		t.Fatal("wrapped surface marked destroyed by the wrong context")
	}
	if dev.LiveSurfaces() != 1 {
		t.Errorf("LiveSurfaces() = %d, want 1", dev.LiveSurfaces())
	}

	back, err := dev.DestroySurfaceTexture(consumer, st)
	if err != nil {
		t.Fatalf("DestroySurfaceTexture() = %v", err)
	}
	if back.Destroyed() {
		t.Fatal("DestroySurfaceTexture returned a destroyed surface")
	}
	mustDestroy(t, dev, producer, back)
	if got := b.Stats().Live(); got != 0 {
		t.Errorf("Stats().Live() = %d, want 0 (%+v)", got, b.Stats())
	}
}

func TestDestroySurfaceTextureMakeCurrentFailure(t *testing.T) {
	dev, b := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture() = %v", err)
	}

	b.FailNextMakeCurrent()
	back, err := dev.DestroySurfaceTexture(consumer, st)
	if err != nil {
		t.Fatalf("DestroySurfaceTexture() = %v", err)
	}
	if back != s || back.Destroyed() {
		t.Fatalf("DestroySurfaceTexture() = %v (destroyed %v), want the live surface", back, back.Destroyed())
	}
	if st.GLTexture() != native.NoTexture {
		t.Error("texture handle not zeroed")
	}
	if b.CurrentContext() != native.NoContext {
		t.Error("a context was left current")
	}

	// The image is gone; the consumer texture is leaked with its context.
	stats := b.Stats()
	if stats.Images != 1 || stats.Textures != 2 {
		t.Errorf("Stats() = %+v, want 1 image and 2 textures", stats)
	}

	mustDestroy(t, dev, producer, back)
	if got := b.Stats().Live(); got != 1 {
		t.Errorf("Stats().Live() = %d, want 1 leaked texture (%+v)", got, b.Stats())
	}
}

func TestDestroySurfaceTextureTwice(t *testing.T) {
	dev, b := newTestDevice(t)
	producer := newTestContext(t, dev, 0)
	consumer := newTestContext(t, dev, 0)

	s := mustCreate(t, dev, producer, testSize)
	st, err := dev.CreateSurfaceTexture(consumer, s)
	if err != nil {
		t.Fatalf("CreateSurfaceTexture() = %v", err)
	}
	if _, err := dev.DestroySurfaceTexture(consumer, st); err != nil {
		t.Fatalf("DestroySurfaceTexture() = %v", err)
	}

	back, err := dev.DestroySurfaceTexture(consumer, st)
	if !errors.Is(err, ErrSurfaceDestroyed) {
		t.Errorf("second DestroySurfaceTexture() = %v, want ErrSurfaceDestroyed", err)
	}
	if back != nil {
		t.Error("second DestroySurfaceTexture returned a surface")
	}

	mustDestroy(t, dev, producer, s)
	if got := b.Stats().Live(); got != 0 {
		t.Errorf("Stats().Live() = %d, want 0 (%+v)", got, b.Stats())
	}
}
