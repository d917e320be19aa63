package hwsurface

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwsurface/native"
)

// SurfaceFormat is the pixel format of every off-screen surface.
const SurfaceFormat = gputypes.TextureFormatRGBA8Unorm

// surfaceTextureTarget is the texture target surfaces are bound to.
const surfaceTextureTarget = native.Texture2D

// Device creates, presents and destroys surfaces on top of a binding.
//
// Device takes no locks. Callers serialize operations on a Device and its
// contexts, which matches the one-current-context-per-thread model of GL.
type Device struct {
	binding native.Binding
	label   string
	leak    func(*Surface)

	// live counts surfaces created and not yet destroyed or leaked.
	live atomic.Int64

	destroyed bool
}

// NewDevice creates a device on top of binding.
func NewDevice(binding native.Binding, opts ...DeviceOption) (*Device, error) {
	if binding == nil {
		return nil, ErrNilBinding
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Device{
		binding: binding,
		label:   o.label,
		leak:    o.leak,
	}
	propagateLogger(binding, Logger())
	d.logger().Info("device opened", "binding", binding.Name())
	return d, nil
}

// OpenDevice opens the named driver from the native registry and creates
// a device on it. An empty name selects the preferred usable driver.
func OpenDevice(name string, opts ...DeviceOption) (*Device, error) {
	b, err := native.Open(name)
	if err != nil {
		return nil, err
	}
	return NewDevice(b, opts...)
}

// Binding returns the binding the device runs on.
func (d *Device) Binding() native.Binding {
	return d.binding
}

// LiveSurfaces returns the number of surfaces created by the device that
// were neither destroyed nor leaked.
func (d *Device) LiveSurfaces() int {
	return int(d.live.Load())
}

// SurfaceGLTextureTarget returns the texture target surface textures are
// bound to.
func (d *Device) SurfaceGLTextureTarget() native.Enum {
	return surfaceTextureTarget
}

func (d *Device) logger() *slog.Logger {
	l := Logger()
	if d.label != "" {
		l = l.With("device", d.label)
	}
	return l
}

// Poll flushes, or with wait finishes, the context current on the calling
// thread. With no current context there is nothing to do.
func (d *Device) Poll(wait bool) {
	if d.binding.CurrentContext() == native.NoContext {
		return
	}
	if wait {
		d.binding.Finish()
	} else {
		d.binding.Flush()
	}
}

// Destroy terminates the binding if it holds a display connection.
// Surfaces still alive are reported, not destroyed: their contexts may not
// be current here.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	if n := d.LiveSurfaces(); n > 0 {
		d.logger().Warn("device destroyed with live surfaces", "surfaces", n)
	}
	if t, ok := d.binding.(native.Terminator); ok {
		if err := t.Terminate(); err != nil {
			d.logger().Warn("binding terminate failed", "err", err)
		}
	}
	d.logger().Info("device closed", "binding", d.binding.Name())
}

// Provider returns the device as a gpucontext.DeviceProvider so hosts in
// the gogpu ecosystem can share it. Device() on the provider returns the
// *Device itself.
func (d *Device) Provider() gpucontext.DeviceProvider {
	return deviceProvider{device: d}
}

// deviceProvider adapts Device to gpucontext.DeviceProvider.
type deviceProvider struct {
	device *Device
}

// Device returns the underlying device.
func (p deviceProvider) Device() gpucontext.Device { return p.device }

// Queue returns nil: commands go to the current context, not a queue.
func (p deviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil: adapter enumeration belongs to the binding.
func (p deviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the off-screen surface format.
func (p deviceProvider) SurfaceFormat() gputypes.TextureFormat { return SurfaceFormat }

// adapterDescriber is implemented by bindings that know their adapter.
type adapterDescriber interface {
	AdapterInfo() gpucontext.AdapterInfo
}

// AdapterInfo returns the binding's adapter description, or the binding
// name with AdapterTypeUnknown.
func (p deviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	b := p.device.binding
	if ad, ok := b.(adapterDescriber); ok {
		return ad.AdapterInfo()
	}
	return gpucontext.AdapterInfo{Name: b.Name(), Type: gpucontext.AdapterTypeUnknown}
}

var _ gpucontext.DeviceProvider = deviceProvider{}
