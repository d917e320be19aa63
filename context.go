package hwsurface

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/hwsurface/native"
)

// ContextAttributes are the attributes a context is created with. Depth
// and stencil flags decide which renderbuffers off-screen surfaces get.
type ContextAttributes = native.ContextAttributes

// ContextID uniquely identifies a context within the process.
type ContextID uint64

// nextContextID is shared by all devices so ids never collide.
var nextContextID atomic.Uint64

// Context is a rendering context created by a Device.
//
// A Context is not safe for concurrent use. It can move between
// goroutines, but only one may use it at a time.
type Context struct {
	id        ContextID
	handle    native.Context
	config    native.Config
	attrs     ContextAttributes
	destroyed bool
}

// ID returns the context id.
func (c *Context) ID() ContextID {
	return c.id
}

// Attributes returns the attributes the context was created with.
func (c *Context) Attributes() ContextAttributes {
	return c.attrs
}

// Native returns the native context handle.
func (c *Context) Native() native.Context {
	return c.handle
}

// String implements fmt.Stringer.
func (c *Context) String() string {
	return fmt.Sprintf("Context(%d)", c.id)
}

// CreateContext creates a context with attrs. If share is non-nil the new
// context shares GL objects with it.
func (d *Device) CreateContext(attrs ContextAttributes, share *Context) (*Context, error) {
	shareHandle := native.NoContext
	if share != nil {
		if share.destroyed {
			return nil, ErrContextDestroyed
		}
		shareHandle = share.handle
	}

	cfg, err := d.binding.ChooseConfig(attrs)
	if err != nil {
		return nil, fmt.Errorf("hwsurface: choose config: %w", err)
	}
	handle, err := d.binding.CreateContext(cfg, attrs, shareHandle)
	if err != nil {
		return nil, fmt.Errorf("hwsurface: create context: %w", err)
	}

	ctx := &Context{
		id:     ContextID(nextContextID.Add(1)),
		handle: handle,
		config: cfg,
		attrs:  attrs,
	}
	d.logger().Debug("context created", "context", ctx.id, "flags", attrs.Flags)
	return ctx, nil
}

// DestroyContext destroys ctx. Destroying a destroyed context is a no-op.
//
// If ctx is current on the calling thread it is released first.
func (d *Device) DestroyContext(ctx *Context) error {
	if ctx.destroyed {
		return nil
	}
	if d.binding.CurrentContext() == ctx.handle {
		if err := d.binding.ReleaseCurrent(); err != nil {
			return fmt.Errorf("hwsurface: release current: %w", err)
		}
	}
	if err := d.binding.DestroyContext(ctx.handle); err != nil {
		return fmt.Errorf("hwsurface: destroy context: %w", err)
	}
	ctx.destroyed = true
	ctx.handle = native.NoContext
	d.logger().Debug("context destroyed", "context", ctx.id)
	return nil
}
