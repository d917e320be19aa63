// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "github.com/gogpu/gputypes"

// CPUAccess describes how the CPU may touch a hardware buffer.
// These flags can be combined with bitwise OR.
type CPUAccess uint32

const (
	// CPUReadNever forbids CPU reads.
	CPUReadNever CPUAccess = 1 << iota

	// CPUWriteNever forbids CPU writes.
	CPUWriteNever

	// CPUReadOften allows frequent CPU reads.
	CPUReadOften

	// CPUWriteOften allows frequent CPU writes.
	CPUWriteOften
)

// HardwareBufferDesc describes a hardware buffer allocation.
type HardwareBufferDesc struct {
	// Format is the pixel format of the buffer.
	Format gputypes.TextureFormat

	// Size is the buffer extent. DepthOrArrayLayers is the layer count.
	Size gputypes.Extent3D

	// Usage lists the GPU usages the buffer must support.
	// TextureBinding maps to sampled-image usage, RenderAttachment to
	// framebuffer usage.
	Usage gputypes.TextureUsage

	// CPUAccess restricts CPU access to the buffer.
	CPUAccess CPUAccess
}

// ContextFlags are boolean context attributes.
type ContextFlags uint8

const (
	// ContextAlpha requests an alpha channel.
	ContextAlpha ContextFlags = 1 << iota

	// ContextDepth requests a depth buffer.
	ContextDepth

	// ContextStencil requests a stencil buffer.
	ContextStencil

	// ContextCompatibility requests a compatibility profile.
	ContextCompatibility
)

// GLVersion is a GL or GLES API version.
type GLVersion struct {
	Major uint8
	Minor uint8
}

// ContextAttributes are the attributes a context is created with.
type ContextAttributes struct {
	Version GLVersion
	Flags   ContextFlags
}

// Has reports whether all of f are set.
func (a ContextAttributes) Has(f ContextFlags) bool {
	return a.Flags&f == f
}
