// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwsurface/native"
)

// ErrAllocationRefused is returned when a hardware buffer cannot be allocated.
var ErrAllocationRefused = errors.New("soft: hardware buffer allocation refused")

// maxBufferDimension mirrors the usual GPU texture limit.
const maxBufferDimension = 16384

// hardwareBuffer is a refcounted pixel page. The allocation holds one
// reference and every image imported from it holds another.
type hardwareBuffer struct {
	desc native.HardwareBufferDesc
	pix  *image.RGBA
	refs int
}

// imageObject is an imported hardware buffer.
type imageObject struct {
	buffer native.HardwareBuffer
}

// AllocateHardwareBuffer implements native.Buffers.
func (b *Binding) AllocateHardwareBuffer(desc *native.HardwareBufferDesc) (native.HardwareBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return native.NoHardwareBuffer, ErrTerminated
	}
	if b.faults.allocation {
		b.faults.allocation = false
		return native.NoHardwareBuffer, ErrAllocationRefused
	}
	if err := validateDesc(desc); err != nil {
		return native.NoHardwareBuffer, err
	}

	buf := native.HardwareBuffer(b.handle())
	b.buffers[buf] = &hardwareBuffer{
		desc: *desc,
		pix:  image.NewRGBA(image.Rect(0, 0, int(desc.Size.Width), int(desc.Size.Height))),
		refs: 1,
	}
	b.log.Debug("hardware buffer allocated", "buffer", uintptr(buf),
		"width", desc.Size.Width, "height", desc.Size.Height, "format", desc.Format)
	return buf, nil
}

func validateDesc(desc *native.HardwareBufferDesc) error {
	if desc == nil {
		return fmt.Errorf("%w: nil descriptor", ErrAllocationRefused)
	}
	switch desc.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return fmt.Errorf("%w: unsupported format %v", ErrAllocationRefused, desc.Format)
	}
	w, h := desc.Size.Width, desc.Size.Height
	if w == 0 || h == 0 || w > maxBufferDimension || h > maxBufferDimension {
		return fmt.Errorf("%w: bad size %dx%d", ErrAllocationRefused, w, h)
	}
	if desc.Size.DepthOrArrayLayers != 1 {
		return fmt.Errorf("%w: %d layers", ErrAllocationRefused, desc.Size.DepthOrArrayLayers)
	}
	return nil
}

// ReleaseHardwareBuffer implements native.Buffers.
func (b *Binding) ReleaseHardwareBuffer(buf native.HardwareBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unref(buf)
}

// unref drops one buffer reference. Must be called with b.mu held.
func (b *Binding) unref(buf native.HardwareBuffer) {
	hb, ok := b.buffers[buf]
	if !ok {
		panic(fmt.Sprintf("soft: release of unknown hardware buffer %#x", uintptr(buf)))
	}
	hb.refs--
	if hb.refs == 0 {
		delete(b.buffers, buf)
		b.log.Debug("hardware buffer freed", "buffer", uintptr(buf))
	}
}

// CreateImage implements native.Images.
func (b *Binding) CreateImage(buf native.HardwareBuffer) native.Image {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults.imageImport {
		b.faults.imageImport = false
		return native.NoImage
	}
	hb, ok := b.buffers[buf]
	if !ok || b.terminated {
		return native.NoImage
	}
	hb.refs++
	img := native.Image(b.handle())
	b.images[img] = &imageObject{buffer: buf}
	return img
}

// DestroyImage implements native.Images.
func (b *Binding) DestroyImage(img native.Image) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	obj, ok := b.images[img]
	if !ok {
		return false
	}
	delete(b.images, img)
	b.unref(obj.buffer)

	if b.faults.imageDestroy {
		b.faults.imageDestroy = false
		return false
	}
	return true
}

// BufferDesc returns the descriptor buf was allocated with.
func (b *Binding) BufferDesc(buf native.HardwareBuffer) (native.HardwareBufferDesc, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hb, ok := b.buffers[buf]
	if !ok {
		return native.HardwareBufferDesc{}, false
	}
	return hb.desc, true
}

// imagePixels returns the pixel page behind img, or nil.
// Must be called with b.mu held.
func (b *Binding) imagePixels(img native.Image) *image.RGBA {
	obj, ok := b.images[img]
	if !ok {
		return nil
	}
	hb, ok := b.buffers[obj.buffer]
	if !ok {
		return nil
	}
	return hb.pix
}
