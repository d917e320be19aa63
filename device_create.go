package hwsurface

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwsurface/native"
)

var (
	errInvalidSurfaceType = errors.New("hwsurface: invalid surface type")
	errInvalidSize        = errors.New("invalid size")
	errNilWindow          = errors.New("nil native window")
)

// CreateSurface creates a surface owned by ctx.
//
// For Generic surface types ctx is made current for the duration of the
// call and the previous context is restored afterwards. The access hint is
// reserved and currently ignored.
//
// A binding that accepts the allocation but then fails to import the buffer
// or to create a window surface breaks its contract; CreateSurface panics
// in that case.
func (d *Device) CreateSurface(ctx *Context, access SurfaceAccess, typ SurfaceType) (*Surface, error) {
	_ = access

	switch typ.kind {
	case SurfaceHardwareBuffer:
		return d.createGenericSurface(ctx, typ.size)
	case SurfaceWindow:
		return d.createWindowSurface(ctx, typ.widget)
	default:
		return nil, errInvalidSurfaceType
	}
}

func (d *Device) createGenericSurface(ctx *Context, size image.Point) (*Surface, error) {
	if size.X < 0 || size.Y < 0 || size.X > math.MaxInt32 || size.Y > math.MaxInt32 {
		return nil, &SurfaceCreationError{Size: size, Err: errInvalidSize}
	}

	guard, err := d.makeCurrent(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	//nolint:gosec // G115: size is validated above
	width, height := uint32(size.X), uint32(size.Y)
	desc := &native.HardwareBufferDesc{
		Format: SurfaceFormat,
		Size: gputypes.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Usage:     gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment,
		CPUAccess: native.CPUReadNever | native.CPUWriteNever,
	}
	buf, err := d.binding.AllocateHardwareBuffer(desc)
	if err != nil {
		return nil, &SurfaceCreationError{Size: size, Err: err}
	}

	gl := d.binding
	img := d.createImage(buf)
	tex := bindImageToTexture(gl, img)

	fbo := gl.GenFramebuffer()
	gl.BindFramebuffer(native.FramebufferTarget, fbo)
	gl.FramebufferTexture2D(native.FramebufferTarget, native.ColorAttachment0,
		surfaceTextureTarget, tex, 0)

	rbs := newRenderbuffers(gl, size, ctx.attrs)
	rbs.bindToCurrentFramebuffer(gl)

	if status := gl.CheckFramebufferStatus(native.FramebufferTarget); status != native.FramebufferComplete {
		panic(fmt.Sprintf("hwsurface: framebuffer %d incomplete (status %#x)", fbo, uint32(status)))
	}

	s := newSurface(&Surface{
		contextID: ctx.id,
		size:      size,
		kind:      SurfaceHardwareBuffer,
		hardwareBuffer: &hardwareBufferObjects{
			hardwareBuffer: buf,
			image:          img,
			framebuffer:    fbo,
			texture:        tex,
			renderbuffers:  rbs,
		},
	}, d.leak)
	d.live.Add(1)
	d.logger().Debug("surface created", "surface", s.String(), "kind", s.kind,
		"context", ctx.id, "width", size.X, "height", size.Y)
	return s, nil
}

func (d *Device) createWindowSurface(ctx *Context, widget NativeWidget) (*Surface, error) {
	if ctx.destroyed {
		return nil, ErrContextDestroyed
	}
	win := widget.window
	if win == nil {
		return nil, &SurfaceCreationError{Err: errNilWindow}
	}
	size := image.Pt(int(win.Width()), int(win.Height()))

	surf := d.binding.CreateWindowSurface(ctx.config, win)
	if surf == native.NoWindowSurface {
		panic(fmt.Sprintf("hwsurface: binding %s returned no window surface for a %dx%d window",
			d.binding.Name(), size.X, size.Y))
	}

	s := newSurface(&Surface{
		contextID: ctx.id,
		size:      size,
		kind:      SurfaceWindow,
		window:    &windowObjects{windowSurface: surf},
	}, d.leak)
	d.live.Add(1)
	d.logger().Debug("surface created", "surface", s.String(), "kind", s.kind,
		"context", ctx.id, "width", size.X, "height", size.Y)
	return s, nil
}

// createImage imports buf as an image in the current context.
func (d *Device) createImage(buf native.HardwareBuffer) native.Image {
	img := d.binding.CreateImage(buf)
	if img == native.NoImage {
		panic(fmt.Sprintf("hwsurface: binding %s could not import hardware buffer %#x",
			d.binding.Name(), uintptr(buf)))
	}
	return img
}

// bindImageToTexture creates a texture in the current context whose storage
// is img. The texture is left unbound.
func bindImageToTexture(gl native.GL, img native.Image) native.Texture {
	tex := gl.GenTexture()
	gl.BindTexture(surfaceTextureTarget, tex)
	gl.EGLImageTargetTexture2D(surfaceTextureTarget, img)
	gl.TexParameteri(surfaceTextureTarget, native.TextureMagFilter, int32(native.Linear))
	gl.TexParameteri(surfaceTextureTarget, native.TextureMinFilter, int32(native.Linear))
	gl.TexParameteri(surfaceTextureTarget, native.TextureWrapS, int32(native.ClampToEdge))
	gl.TexParameteri(surfaceTextureTarget, native.TextureWrapT, int32(native.ClampToEdge))
	gl.BindTexture(surfaceTextureTarget, native.NoTexture)
	return tex
}
