package hwsurface

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwsurface/native"
)

// renderbuffers are the depth and stencil attachments of an off-screen
// surface. A context with both depth and stencil gets one combined
// renderbuffer; otherwise each requested attachment gets its own.
type renderbuffers struct {
	combined bool
	depth    native.Renderbuffer
	stencil  native.Renderbuffer
}

// newRenderbuffers allocates attachments of the given size for attrs. The
// caller's context must be current.
func newRenderbuffers(gl native.GL, size image.Point, attrs ContextAttributes) renderbuffers {
	if attrs.Has(native.ContextDepth | native.ContextStencil) {
		rb := allocRenderbuffer(gl, size, gputypes.TextureFormatDepth24PlusStencil8)
		return renderbuffers{combined: true, depth: rb, stencil: rb}
	}

	var rbs renderbuffers
	if attrs.Has(native.ContextDepth) {
		rbs.depth = allocRenderbuffer(gl, size, gputypes.TextureFormatDepth24Plus)
	}
	if attrs.Has(native.ContextStencil) {
		rbs.stencil = allocRenderbuffer(gl, size, gputypes.TextureFormatStencil8)
	}
	return rbs
}

func allocRenderbuffer(gl native.GL, size image.Point, format gputypes.TextureFormat) native.Renderbuffer {
	rb := gl.GenRenderbuffer()
	gl.BindRenderbuffer(native.RenderbufferTarget, rb)
	//nolint:gosec // G115: surface sizes are validated to fit int32
	gl.RenderbufferStorage(native.RenderbufferTarget, format, int32(size.X), int32(size.Y))
	gl.BindRenderbuffer(native.RenderbufferTarget, native.NoRenderbuffer)
	return rb
}

// bindToCurrentFramebuffer attaches the renderbuffers to the bound
// framebuffer.
func (r *renderbuffers) bindToCurrentFramebuffer(gl native.GL) {
	if r.combined {
		gl.FramebufferRenderbuffer(native.FramebufferTarget, native.DepthStencilAttachment,
			native.RenderbufferTarget, r.depth)
		return
	}
	if r.depth != native.NoRenderbuffer {
		gl.FramebufferRenderbuffer(native.FramebufferTarget, native.DepthAttachment,
			native.RenderbufferTarget, r.depth)
	}
	if r.stencil != native.NoRenderbuffer {
		gl.FramebufferRenderbuffer(native.FramebufferTarget, native.StencilAttachment,
			native.RenderbufferTarget, r.stencil)
	}
}

// destroy deletes the renderbuffers and zeroes the handles.
func (r *renderbuffers) destroy(gl native.GL) {
	if r.depth != native.NoRenderbuffer {
		gl.DeleteRenderbuffer(r.depth)
	}
	if r.stencil != native.NoRenderbuffer && !r.combined {
		gl.DeleteRenderbuffer(r.stencil)
	}
	*r = renderbuffers{}
}
