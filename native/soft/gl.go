// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwsurface/native"
)

// Framebuffer statuses returned besides native.FramebufferComplete.
const (
	FramebufferIncompleteAttachment        native.Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment native.Enum = 0x8CD7
	FramebufferUndefined                   native.Enum = 0x8219
)

type textureObject struct {
	group  native.Context
	image  native.Image
	params map[native.Enum]int32
}

type framebufferObject struct {
	group   native.Context
	color   native.Texture
	depth   native.Renderbuffer
	stencil native.Renderbuffer
}

type renderbufferObject struct {
	group         native.Context
	format        gputypes.TextureFormat
	width, height int32
}

// GenTexture implements native.GL.
func (b *Binding) GenTexture() native.Texture {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("GenTexture")
	tex := native.Texture(b.glName())
	b.textures[tex] = &textureObject{group: cs.group, params: make(map[native.Enum]int32)}
	return tex
}

// DeleteTexture implements native.GL. Deleting a texture detaches it from
// every framebuffer of the share group.
func (b *Binding) DeleteTexture(tex native.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("DeleteTexture")
	if tex == native.NoTexture {
		return
	}
	b.texture(cs, tex, "DeleteTexture")
	delete(b.textures, tex)
	for _, fb := range b.framebuffers {
		if fb.group == cs.group && fb.color == tex {
			fb.color = native.NoTexture
		}
	}
	if cs.texture == tex {
		cs.texture = native.NoTexture
	}
}

// BindTexture implements native.GL.
func (b *Binding) BindTexture(target native.Enum, tex native.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("BindTexture")
	checkTarget(target, native.Texture2D, "BindTexture")
	if tex != native.NoTexture {
		b.texture(cs, tex, "BindTexture")
	}
	cs.texture = tex
}

// TexParameteri implements native.GL.
func (b *Binding) TexParameteri(target, pname native.Enum, param int32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("TexParameteri")
	checkTarget(target, native.Texture2D, "TexParameteri")
	b.boundTexture(cs, "TexParameteri").params[pname] = param
}

// EGLImageTargetTexture2D implements native.GL.
func (b *Binding) EGLImageTargetTexture2D(target native.Enum, img native.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("EGLImageTargetTexture2D")
	checkTarget(target, native.Texture2D, "EGLImageTargetTexture2D")
	if _, ok := b.images[img]; !ok {
		panic(fmt.Sprintf("soft: EGLImageTargetTexture2D with unknown image %#x", uintptr(img)))
	}
	b.boundTexture(cs, "EGLImageTargetTexture2D").image = img
}

// GenFramebuffer implements native.GL.
func (b *Binding) GenFramebuffer() native.Framebuffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("GenFramebuffer")
	fbo := native.Framebuffer(b.glName())
	b.framebuffers[fbo] = &framebufferObject{group: cs.group}
	return fbo
}

// DeleteFramebuffer implements native.GL.
func (b *Binding) DeleteFramebuffer(fbo native.Framebuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("DeleteFramebuffer")
	if fbo == native.NoFramebuffer {
		return
	}
	b.framebuffer(cs, fbo, "DeleteFramebuffer")
	delete(b.framebuffers, fbo)
	if cs.framebuffer == fbo {
		cs.framebuffer = native.DefaultFramebuffer
	}
}

// BindFramebuffer implements native.GL.
func (b *Binding) BindFramebuffer(target native.Enum, fbo native.Framebuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("BindFramebuffer")
	checkTarget(target, native.FramebufferTarget, "BindFramebuffer")
	if fbo != native.DefaultFramebuffer {
		b.framebuffer(cs, fbo, "BindFramebuffer")
	}
	cs.framebuffer = fbo
}

// FramebufferTexture2D implements native.GL.
func (b *Binding) FramebufferTexture2D(target, attachment, texTarget native.Enum, tex native.Texture, level int32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("FramebufferTexture2D")
	checkTarget(target, native.FramebufferTarget, "FramebufferTexture2D")
	checkTarget(texTarget, native.Texture2D, "FramebufferTexture2D")
	if attachment != native.ColorAttachment0 || level != 0 {
		panic(fmt.Sprintf("soft: FramebufferTexture2D attachment %#x level %d unsupported", uint32(attachment), level))
	}
	if tex != native.NoTexture {
		b.texture(cs, tex, "FramebufferTexture2D")
	}
	b.boundFramebuffer(cs, "FramebufferTexture2D").color = tex
}

// CheckFramebufferStatus implements native.GL.
func (b *Binding) CheckFramebufferStatus(target native.Enum) native.Enum {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("CheckFramebufferStatus")
	checkTarget(target, native.FramebufferTarget, "CheckFramebufferStatus")
	if cs.framebuffer == native.DefaultFramebuffer {
		return FramebufferUndefined
	}
	return b.framebufferStatus(b.framebuffers[cs.framebuffer])
}

// framebufferStatus must be called with b.mu held.
func (b *Binding) framebufferStatus(fb *framebufferObject) native.Enum {
	if fb.color == native.NoTexture {
		return FramebufferIncompleteMissingAttachment
	}
	tex, ok := b.textures[fb.color]
	if !ok {
		return FramebufferIncompleteAttachment
	}
	pix := b.imagePixels(tex.image)
	if pix == nil {
		return FramebufferIncompleteAttachment
	}
	size := pix.Bounds().Size()
	for _, rb := range []native.Renderbuffer{fb.depth, fb.stencil} {
		if rb == native.NoRenderbuffer {
			continue
		}
		obj, ok := b.renderbuffers[rb]
		if !ok || int(obj.width) != size.X || int(obj.height) != size.Y {
			return FramebufferIncompleteAttachment
		}
	}
	return native.FramebufferComplete
}

// GenRenderbuffer implements native.GL.
func (b *Binding) GenRenderbuffer() native.Renderbuffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("GenRenderbuffer")
	rb := native.Renderbuffer(b.glName())
	b.renderbuffers[rb] = &renderbufferObject{group: cs.group}
	return rb
}

// DeleteRenderbuffer implements native.GL.
func (b *Binding) DeleteRenderbuffer(rb native.Renderbuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("DeleteRenderbuffer")
	if rb == native.NoRenderbuffer {
		return
	}
	b.renderbuffer(cs, rb, "DeleteRenderbuffer")
	delete(b.renderbuffers, rb)
	for _, fb := range b.framebuffers {
		if fb.group != cs.group {
			continue
		}
		if fb.depth == rb {
			fb.depth = native.NoRenderbuffer
		}
		if fb.stencil == rb {
			fb.stencil = native.NoRenderbuffer
		}
	}
	if cs.renderbuffer == rb {
		cs.renderbuffer = native.NoRenderbuffer
	}
}

// BindRenderbuffer implements native.GL.
func (b *Binding) BindRenderbuffer(target native.Enum, rb native.Renderbuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("BindRenderbuffer")
	checkTarget(target, native.RenderbufferTarget, "BindRenderbuffer")
	if rb != native.NoRenderbuffer {
		b.renderbuffer(cs, rb, "BindRenderbuffer")
	}
	cs.renderbuffer = rb
}

// RenderbufferStorage implements native.GL.
func (b *Binding) RenderbufferStorage(target native.Enum, format gputypes.TextureFormat, width, height int32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("RenderbufferStorage")
	checkTarget(target, native.RenderbufferTarget, "RenderbufferStorage")
	if cs.renderbuffer == native.NoRenderbuffer {
		panic("soft: RenderbufferStorage with no renderbuffer bound")
	}
	obj := b.renderbuffers[cs.renderbuffer]
	obj.format = format
	obj.width = width
	obj.height = height
}

// FramebufferRenderbuffer implements native.GL.
func (b *Binding) FramebufferRenderbuffer(target, attachment, rbTarget native.Enum, rb native.Renderbuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("FramebufferRenderbuffer")
	checkTarget(target, native.FramebufferTarget, "FramebufferRenderbuffer")
	checkTarget(rbTarget, native.RenderbufferTarget, "FramebufferRenderbuffer")
	if rb != native.NoRenderbuffer {
		b.renderbuffer(cs, rb, "FramebufferRenderbuffer")
	}
	fb := b.boundFramebuffer(cs, "FramebufferRenderbuffer")
	switch attachment {
	case native.DepthAttachment:
		fb.depth = rb
	case native.StencilAttachment:
		fb.stencil = rb
	case native.DepthStencilAttachment:
		fb.depth = rb
		fb.stencil = rb
	default:
		panic(fmt.Sprintf("soft: FramebufferRenderbuffer attachment %#x unsupported", uint32(attachment)))
	}
}

// ClearColor implements native.GL.
func (b *Binding) ClearColor(r, g, bl, a float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("ClearColor")
	cs.clearColor = color.RGBA{R: unorm8(r), G: unorm8(g), B: unorm8(bl), A: unorm8(a)}
}

// Clear implements native.GL. Only color is stored: the color attachment
// of a framebuffer object, or for the default framebuffer the back buffer
// bound by MakeCurrentSurface. Without one Clear is a no-op.
func (b *Binding) Clear(mask native.Enum) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs := b.currentState("Clear")
	if mask&native.ColorBufferBit == 0 {
		return
	}
	var pix *image.RGBA
	if cs.framebuffer == native.DefaultFramebuffer {
		pix = b.drawBuffer(cs)
	} else if tex, ok := b.textures[b.framebuffers[cs.framebuffer].color]; ok {
		pix = b.imagePixels(tex.image)
	}
	if pix == nil {
		return
	}
	c := cs.clearColor
	for i := 0; i < len(pix.Pix); i += 4 {
		pix.Pix[i+0] = c.R
		pix.Pix[i+1] = c.G
		pix.Pix[i+2] = c.B
		pix.Pix[i+3] = c.A
	}
}

// Flush implements native.GL.
func (b *Binding) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.currentState("Flush")
}

// Finish implements native.GL.
func (b *Binding) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.currentState("Finish")
}

// TexturePixels returns a copy of the pixels backing tex, or nil if the
// texture has no image storage. It does not need a current context.
func (b *Binding) TexturePixels(tex native.Texture) *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()

	obj, ok := b.textures[tex]
	if !ok {
		return nil
	}
	pix := b.imagePixels(obj.image)
	if pix == nil {
		return nil
	}
	out := image.NewRGBA(pix.Bounds())
	copy(out.Pix, pix.Pix)
	return out
}

// FramebufferStatus reports the completeness of fbo without a current
// context.
func (b *Binding) FramebufferStatus(fbo native.Framebuffer) native.Enum {
	b.mu.Lock()
	defer b.mu.Unlock()

	fb, ok := b.framebuffers[fbo]
	if !ok {
		return FramebufferUndefined
	}
	return b.framebufferStatus(fb)
}

// RenderbufferFormat returns the storage format and size of rb.
func (b *Binding) RenderbufferFormat(rb native.Renderbuffer) (gputypes.TextureFormat, image.Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	obj, ok := b.renderbuffers[rb]
	if !ok {
		return gputypes.TextureFormatUndefined, image.Point{}, false
	}
	return obj.format, image.Pt(int(obj.width), int(obj.height)), true
}

// texture looks up tex in the current share group.
// Must be called with b.mu held.
func (b *Binding) texture(cs *contextState, tex native.Texture, call string) *textureObject {
	obj, ok := b.textures[tex]
	if !ok || obj.group != cs.group {
		panic(fmt.Sprintf("soft: %s: texture %d does not belong to the current context", call, tex))
	}
	return obj
}

func (b *Binding) framebuffer(cs *contextState, fbo native.Framebuffer, call string) *framebufferObject {
	obj, ok := b.framebuffers[fbo]
	if !ok || obj.group != cs.group {
		panic(fmt.Sprintf("soft: %s: framebuffer %d does not belong to the current context", call, fbo))
	}
	return obj
}

func (b *Binding) renderbuffer(cs *contextState, rb native.Renderbuffer, call string) *renderbufferObject {
	obj, ok := b.renderbuffers[rb]
	if !ok || obj.group != cs.group {
		panic(fmt.Sprintf("soft: %s: renderbuffer %d does not belong to the current context", call, rb))
	}
	return obj
}

func (b *Binding) boundTexture(cs *contextState, call string) *textureObject {
	if cs.texture == native.NoTexture {
		panic(fmt.Sprintf("soft: %s with no texture bound", call))
	}
	return b.textures[cs.texture]
}

func (b *Binding) boundFramebuffer(cs *contextState, call string) *framebufferObject {
	if cs.framebuffer == native.DefaultFramebuffer {
		panic(fmt.Sprintf("soft: %s on the default framebuffer", call))
	}
	return b.framebuffers[cs.framebuffer]
}

func checkTarget(got, want native.Enum, call string) {
	if got != want {
		panic(fmt.Sprintf("soft: %s: target %#x, want %#x", call, uint32(got), uint32(want)))
	}
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
