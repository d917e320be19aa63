// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"fmt"

	"github.com/gogpu/hwsurface/native"
)

var (
	// ErrTerminated is returned after Terminate.
	ErrTerminated = errors.New("soft: binding terminated")

	// ErrBadContext is returned for unknown contexts.
	ErrBadContext = errors.New("soft: bad context")

	// ErrBadConfig is returned for unknown configs.
	ErrBadConfig = errors.New("soft: bad config")

	// ErrContextCurrent is returned when destroying the current context.
	ErrContextCurrent = errors.New("soft: context is current")

	// ErrMakeCurrent is returned by an injected MakeCurrent failure.
	ErrMakeCurrent = errors.New("soft: make current failed")

	// ErrBadSurface is returned for unknown window surfaces.
	ErrBadSurface = errors.New("soft: bad window surface")
)

// ChooseConfig implements native.Contexts. Equal attributes resolve to the
// same config.
func (b *Binding) ChooseConfig(attrs native.ContextAttributes) (native.Config, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return native.NoConfig, ErrTerminated
	}
	if cfg, ok := b.configs[attrs]; ok {
		return cfg, nil
	}
	cfg := native.Config(b.handle())
	b.configs[attrs] = cfg
	b.configAttrs[cfg] = attrs
	return cfg, nil
}

// CreateContext implements native.Contexts.
func (b *Binding) CreateContext(cfg native.Config, attrs native.ContextAttributes, share native.Context) (native.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return native.NoContext, ErrTerminated
	}
	if _, ok := b.configAttrs[cfg]; !ok {
		return native.NoContext, fmt.Errorf("%w: %#x", ErrBadConfig, uintptr(cfg))
	}

	ctx := native.Context(b.handle())
	group := ctx
	if share != native.NoContext {
		s, ok := b.contexts[share]
		if !ok {
			return native.NoContext, fmt.Errorf("%w: share context %#x", ErrBadContext, uintptr(share))
		}
		group = s.group
	}
	b.contexts[ctx] = &contextState{config: cfg, attrs: attrs, group: group}
	return ctx, nil
}

// DestroyContext implements native.Contexts.
func (b *Binding) DestroyContext(ctx native.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.contexts[ctx]; !ok {
		return fmt.Errorf("%w: %#x", ErrBadContext, uintptr(ctx))
	}
	if b.current == ctx {
		return ErrContextCurrent
	}
	delete(b.contexts, ctx)
	return nil
}

// MakeCurrent implements native.Contexts.
// The default framebuffer of ctx has no storage until MakeCurrentSurface.
func (b *Binding) MakeCurrent(ctx native.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.makeCurrent(ctx, native.NoWindowSurface)
}

// makeCurrent must be called with b.mu held.
func (b *Binding) makeCurrent(ctx native.Context, draw native.WindowSurface) error {
	if b.terminated {
		return ErrTerminated
	}
	if b.faults.makeCurrent {
		b.faults.makeCurrent = false
		return ErrMakeCurrent
	}
	if _, ok := b.contexts[ctx]; !ok {
		return fmt.Errorf("%w: %#x", ErrBadContext, uintptr(ctx))
	}
	b.current = ctx
	b.contexts[ctx].draw = draw
	return nil
}

// ReleaseCurrent implements native.Contexts.
func (b *Binding) ReleaseCurrent() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = native.NoContext
	return nil
}

// CurrentContext implements native.Contexts.
func (b *Binding) CurrentContext() native.Context {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}
