package hwsurface

import (
	"fmt"

	"github.com/gogpu/hwsurface/native"
)

// SurfaceTexture is an off-screen surface imported into a second context
// as a sampleable texture. The pixels are shared, not copied.
//
// The SurfaceTexture owns the surface until DestroySurfaceTexture hands it
// back.
type SurfaceTexture struct {
	surface   *Surface
	image     native.Image
	texture   native.Texture
	contextID ContextID
}

// Surface returns the wrapped surface. It must not be destroyed while the
// SurfaceTexture is alive.
func (st *SurfaceTexture) Surface() *Surface {
	return st.surface
}

// GLTexture returns the texture object, valid in the consuming context.
func (st *SurfaceTexture) GLTexture() native.Texture {
	return st.texture
}

// ContextID returns the id of the consuming context.
func (st *SurfaceTexture) ContextID() ContextID {
	return st.contextID
}

// String implements fmt.Stringer.
func (st *SurfaceTexture) String() string {
	return fmt.Sprintf("SurfaceTexture(%v, texture %d)", st.surface, st.texture)
}

// CreateSurfaceTexture imports the hardware buffer of surface into ctx and
// returns a texture over it. ctx is usually not the context that owns the
// surface; both see the same pixels.
//
// Window surfaces cannot become textures: CreateSurfaceTexture returns
// ErrWidgetAttached and the caller keeps ownership of surface.
func (d *Device) CreateSurfaceTexture(ctx *Context, surface *Surface) (*SurfaceTexture, error) {
	switch surface.kind {
	case SurfaceWindow:
		return nil, ErrWidgetAttached
	case SurfaceHardwareBuffer:
	default:
		panic("hwsurface: surface has no representation")
	}
	if surface.destroyed {
		return nil, ErrSurfaceDestroyed
	}
	if surface.wrapped {
		return nil, ErrSurfaceInUse
	}

	guard, err := d.makeCurrent(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	img := d.createImage(surface.hardwareBuffer.hardwareBuffer)
	tex := bindImageToTexture(d.binding, img)

	surface.wrapped = true
	st := &SurfaceTexture{
		surface:   surface,
		image:     img,
		texture:   tex,
		contextID: ctx.id,
	}
	d.logger().Debug("surface texture created", "surface", surface.String(),
		"context", ctx.id, "texture", tex)
	return st, nil
}

// DestroySurfaceTexture deletes the texture and image made in ctx and
// returns the wrapped surface, still alive and still owned by its original
// context.
//
// Failing to make ctx current is logged, not returned: the texture belongs
// to ctx and is leaked, the image is display-wide and is still destroyed,
// and the surface goes back to the caller either way.
//
// Destroying a SurfaceTexture twice returns ErrSurfaceDestroyed.
func (d *Device) DestroySurfaceTexture(ctx *Context, st *SurfaceTexture) (*Surface, error) {
	if st.surface == nil {
		return nil, ErrSurfaceDestroyed
	}

	guard, err := d.makeCurrent(ctx)
	if err != nil {
		d.logger().Warn("leaking surface texture: context cannot be made current",
			"context", ctx.id, "texture", st.texture, "err", err)
	} else {
		defer guard.Release()
		d.binding.DeleteTexture(st.texture)
	}
	st.texture = native.NoTexture

	if !d.binding.DestroyImage(st.image) {
		panic(fmt.Sprintf("hwsurface: binding %s failed to destroy image %#x",
			d.binding.Name(), uintptr(st.image)))
	}
	st.image = native.NoImage

	surface := st.surface
	st.surface = nil
	surface.wrapped = false
	d.logger().Debug("surface texture destroyed", "surface", surface.String(), "context", ctx.id)
	return surface, nil
}
