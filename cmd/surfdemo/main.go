// Command surfdemo walks a surface through its lifecycle: it renders into
// an off-screen surface in one context, samples it from a second context
// and presents a window surface.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/hwsurface"
	"github.com/gogpu/hwsurface/native"
	"github.com/gogpu/hwsurface/native/soft"
)

// pixelReader is implemented by bindings that can read texture storage
// back without a current context.
type pixelReader interface {
	TexturePixels(native.Texture) *image.RGBA
}

func init() {
	// GL contexts are current per OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		binding = flag.String("binding", soft.Name, "native binding (empty for best available)")
		width   = flag.Int("width", 256, "surface width")
		height  = flag.Int("height", 256, "surface height")
		frames  = flag.Int("frames", 3, "frames to present to the window")
		output  = flag.String("output", "", "write the shared surface to this PNG file")
		verbose = flag.Bool("v", false, "log native object lifecycle")
		list    = flag.Bool("list", false, "list registered drivers and exit")
	)
	flag.Parse()

	if *list {
		listDrivers()
		return
	}

	if *verbose {
		hwsurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dev, err := hwsurface.OpenDevice(*binding, hwsurface.WithLabel("surfdemo"))
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Destroy()

	producer, err := dev.CreateContext(hwsurface.ContextAttributes{
		Version: native.GLVersion{Major: 3, Minor: 0},
		Flags:   native.ContextDepth | native.ContextStencil,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create producer context: %v", err)
	}
	consumer, err := dev.CreateContext(hwsurface.ContextAttributes{
		Version: native.GLVersion{Major: 3, Minor: 0},
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create consumer context: %v", err)
	}

	if err := shareSurface(dev, producer, consumer, image.Pt(*width, *height), *output); err != nil {
		log.Fatalf("Shared surface: %v", err)
	}
	if err := presentWindow(dev, producer, *width, *height, *frames); err != nil {
		log.Fatalf("Window surface: %v", err)
	}

	for _, ctx := range []*hwsurface.Context{consumer, producer} {
		if err := dev.DestroyContext(ctx); err != nil {
			log.Fatalf("Failed to destroy %v: %v", ctx, err)
		}
	}
	if b, ok := dev.Binding().(*soft.Binding); ok {
		log.Printf("Native objects left: %+v", b.Stats())
	}
}

func listDrivers() {
	for _, d := range native.Drivers() {
		status := "usable"
		if d.Check != nil {
			if err := d.Check(); err != nil {
				status = err.Error()
			}
		}
		log.Printf("%-10s priority %3d  %s", d.Name, d.Priority, status)
	}
}

// shareSurface clears an off-screen surface in producer and reads it back
// through a surface texture in consumer.
func shareSurface(dev *hwsurface.Device, producer, consumer *hwsurface.Context, size image.Point, output string) error {
	surface, err := dev.CreateSurface(producer, hwsurface.GPUOnly, hwsurface.Generic(size))
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.DestroySurface(producer, surface); err != nil {
			log.Printf("Failed to destroy %v: %v", surface, err)
		}
	}()
	log.Printf("Created %v (%dx%d)", surface, size.X, size.Y)

	if err := fillSurface(dev, producer, surface); err != nil {
		return err
	}

	st, err := dev.CreateSurfaceTexture(consumer, surface)
	if err != nil {
		return err
	}
	log.Printf("Imported into %v as %v", consumer, st)

	if r, ok := dev.Binding().(pixelReader); ok && output != "" {
		if err := savePNG(output, r.TexturePixels(st.GLTexture())); err != nil {
			log.Printf("Failed to save: %v", err)
		} else {
			log.Printf("Shared surface saved to %s", output)
		}
	}

	if _, err := dev.DestroySurfaceTexture(consumer, st); err != nil {
		return err
	}
	return nil
}

// fillSurface fills surface with a solid color in its own context.
func fillSurface(dev *hwsurface.Device, ctx *hwsurface.Context, surface *hwsurface.Surface) error {
	b := dev.Binding()
	prev := b.CurrentContext()
	if err := b.MakeCurrent(ctx.Native()); err != nil {
		return err
	}
	defer func() {
		if prev == native.NoContext {
			_ = b.ReleaseCurrent()
		} else {
			_ = b.MakeCurrent(prev)
		}
	}()

	b.BindFramebuffer(native.FramebufferTarget, dev.SurfaceInfo(surface).Framebuffer)
	b.ClearColor(0.2, 0.4, 0.8, 1)
	b.Clear(native.ColorBufferBit | native.DepthBufferBit | native.StencilBufferBit)
	dev.Poll(true)
	b.BindFramebuffer(native.FramebufferTarget, native.DefaultFramebuffer)
	return nil
}

// presentWindow presents frames to a virtual window.
func presentWindow(dev *hwsurface.Device, ctx *hwsurface.Context, width, height, frames int) error {
	//nolint:gosec // G115: flag values are small
	win := soft.NewWindow(int32(width), int32(height))
	surface, err := dev.CreateSurface(ctx, hwsurface.GPUOnly,
		hwsurface.Widget(hwsurface.NewNativeWidget(win)))
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.DestroySurface(ctx, surface); err != nil {
			log.Printf("Failed to destroy %v: %v", surface, err)
		}
	}()

	b, _ := dev.Binding().(*soft.Binding)
	for i := range frames {
		if b != nil {
			if err := clearWindow(b, ctx, surface, float32(i+1)/float32(frames)); err != nil {
				return err
			}
		}
		if err := dev.PresentSurface(ctx, surface); err != nil {
			return err
		}
	}
	log.Printf("Presented %d frames to %v, last pixel %v", win.Frames(), surface, win.Snapshot().RGBAAt(0, 0))
	return nil
}

// clearWindow clears the back buffer of a window surface to a shade of
// blue.
func clearWindow(b *soft.Binding, ctx *hwsurface.Context, surface *hwsurface.Surface, shade float32) error {
	if err := b.MakeCurrentSurface(ctx.Native(), native.WindowSurface(surface.ID())); err != nil {
		return err
	}
	defer func() { _ = b.ReleaseCurrent() }()

	b.ClearColor(0, 0, shade, 1)
	b.Clear(native.ColorBufferBit)
	b.Finish()
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
