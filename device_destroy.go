package hwsurface

import (
	"fmt"

	"github.com/gogpu/hwsurface/native"
)

// DestroySurface releases every native resource of surface.
//
// The surface must belong to ctx. If it does not, nothing is released:
// destroying GL objects with the wrong context current is undefined, so the
// surface is leaked, marked destroyed so it no longer faults when dropped,
// and ErrIncompatibleSurface is returned. A surface owned by a live
// SurfaceTexture is left untouched in that case.
//
// Destroying a destroyed surface is a no-op.
func (d *Device) DestroySurface(ctx *Context, surface *Surface) error {
	if surface.destroyed {
		return nil
	}
	if ctx.id != surface.contextID {
		// Owned by a live SurfaceTexture: not leaked.
		if surface.wrapped {
			return ErrIncompatibleSurface
		}
		d.logger().Warn("leaking surface destroyed with the wrong context",
			"surface", surface.String(), "owner", surface.contextID, "context", ctx.id)
		surface.markDestroyed()
		d.live.Add(-1)
		return ErrIncompatibleSurface
	}
	if surface.wrapped {
		return ErrSurfaceInUse
	}

	id := surface.String()
	switch surface.kind {
	case SurfaceHardwareBuffer:
		guard, err := d.makeCurrent(ctx)
		if err != nil {
			return err
		}
		defer guard.Release()
		d.destroyHardwareBufferObjects(surface.hardwareBuffer)
	case SurfaceWindow:
		d.destroyWindowObjects(surface.window)
	default:
		panic("hwsurface: surface has no representation")
	}

	surface.markDestroyed()
	d.live.Add(-1)
	d.logger().Debug("surface destroyed", "surface", id, "context", ctx.id)
	return nil
}

// destroyHardwareBufferObjects tears an off-screen surface down in
// dependency order. The owning context must be current.
func (d *Device) destroyHardwareBufferObjects(objs *hardwareBufferObjects) {
	gl := d.binding

	gl.BindFramebuffer(native.FramebufferTarget, native.DefaultFramebuffer)
	gl.DeleteFramebuffer(objs.framebuffer)
	objs.framebuffer = native.NoFramebuffer

	objs.renderbuffers.destroy(gl)

	gl.DeleteTexture(objs.texture)
	objs.texture = native.NoTexture

	if !d.binding.DestroyImage(objs.image) {
		panic(fmt.Sprintf("hwsurface: binding %s failed to destroy image %#x",
			d.binding.Name(), uintptr(objs.image)))
	}
	objs.image = native.NoImage

	d.binding.ReleaseHardwareBuffer(objs.hardwareBuffer)
	objs.hardwareBuffer = native.NoHardwareBuffer
}

func (d *Device) destroyWindowObjects(objs *windowObjects) {
	d.binding.DestroyWindowSurface(objs.windowSurface)
	objs.windowSurface = native.NoWindowSurface
}

// PresentSurface swaps the buffers of a window surface, making the
// rendered frame visible. Off-screen surfaces return ErrNoWidgetAttached.
//
// ctx is not made current: swapping only needs the window surface.
func (d *Device) PresentSurface(ctx *Context, surface *Surface) error {
	_ = ctx
	return d.presentSurfaceWithoutContext(surface)
}

func (d *Device) presentSurfaceWithoutContext(surface *Surface) error {
	switch surface.kind {
	case SurfaceWindow:
		if surface.destroyed {
			return ErrSurfaceDestroyed
		}
		if !d.binding.SwapBuffers(surface.window.windowSurface) {
			d.logger().Warn("swap buffers failed", "surface", surface.String())
		}
		return nil
	case SurfaceHardwareBuffer:
		return ErrNoWidgetAttached
	default:
		panic("hwsurface: surface has no representation")
	}
}

// SurfaceInfo describes a live surface.
func (d *Device) SurfaceInfo(surface *Surface) SurfaceInfo {
	info := SurfaceInfo{
		Size:      surface.size,
		ID:        surface.ID(),
		ContextID: surface.contextID,
	}
	if surface.kind == SurfaceHardwareBuffer {
		info.Framebuffer = surface.hardwareBuffer.framebuffer
	}
	return info
}

// LockSurfaceData would give the CPU direct access to surface pixels. No
// binding supports it yet; it always returns ErrUnimplemented.
func (d *Device) LockSurfaceData(surface *Surface) (*SurfaceDataGuard, error) {
	_ = surface
	return nil, ErrUnimplemented
}
