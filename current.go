package hwsurface

import (
	"fmt"
	"runtime"

	"github.com/gogpu/hwsurface/native"
)

// currentGuard restores the previously current context when released.
type currentGuard struct {
	binding  native.Contexts
	previous native.Context
	switched bool
	released bool
}

// makeCurrent makes ctx current on the calling goroutine's OS thread and
// returns a guard that restores the previous context. The OS thread stays
// locked until the guard is released. Callers defer Release immediately:
//
//	guard, err := d.makeCurrent(ctx)
//	if err != nil {
//	    return err
//	}
//	defer guard.Release()
func (d *Device) makeCurrent(ctx *Context) (*currentGuard, error) {
	if ctx.destroyed {
		return nil, ErrContextDestroyed
	}

	// GL contexts are current per OS thread.
	runtime.LockOSThread()

	g := &currentGuard{
		binding:  d.binding,
		previous: d.binding.CurrentContext(),
	}
	if g.previous == ctx.handle {
		return g, nil
	}
	if err := d.binding.MakeCurrent(ctx.handle); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: %s: %w", ErrMakeCurrentFailed, ctx, err)
	}
	g.switched = true
	return g, nil
}

// Release restores the previous context and unlocks the OS thread. It is
// safe to call more than once.
func (g *currentGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	defer runtime.UnlockOSThread()

	if !g.switched {
		return
	}
	var err error
	if g.previous == native.NoContext {
		err = g.binding.ReleaseCurrent()
	} else {
		err = g.binding.MakeCurrent(g.previous)
	}
	if err != nil {
		Logger().Warn("hwsurface: failed to restore previous context", "err", err)
	}
}
