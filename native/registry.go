// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// BindingFactory opens a new Binding.
// Implementations should connect to the display and return descriptive errors.
type BindingFactory func() (Binding, error)

// Driver is a registered binding implementation.
type Driver struct {
	// Name identifies the driver, e.g. "egl" or "software".
	Name string

	// Priority orders drivers when none is named (higher = preferred).
	//   - 100: platform bindings (EGL + AHardwareBuffer)
	//   - 10: the pure Go software binding
	Priority int

	// Open connects to the display and returns a binding.
	Open BindingFactory

	// Check reports why the driver cannot run on this system, or nil if
	// it can. A nil Check means always usable.
	Check func() error
}

// usable runs the check.
func (d Driver) usable() error {
	if d.Check == nil {
		return nil
	}
	return d.Check()
}

// Registry holds the drivers a process can open bindings from.
//
// Drivers register themselves from init:
//
//	func init() {
//	    native.Register(native.Driver{Name: "egl", Priority: 100, Open: open, Check: check})
//	}
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

// defaultRegistry backs the package-level functions.
var defaultRegistry Registry

// Register adds d to the default registry, replacing a driver of the same
// name.
func Register(d Driver) { defaultRegistry.Register(d) }

// Drivers returns the drivers of the default registry, preferred first.
func Drivers() []Driver { return defaultRegistry.Drivers() }

// Open opens a binding from the default registry. An empty name opens the
// preferred usable driver.
func Open(name string) (Binding, error) { return defaultRegistry.Open(name) }

// Register adds d, replacing a driver of the same name.
func (r *Registry) Register(d Driver) {
	if d.Name == "" || d.Open == nil {
		panic("native: Register needs a driver name and an Open func")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.drivers == nil {
		r.drivers = make(map[string]Driver)
	}
	r.drivers[d.Name] = d
}

// Drivers returns all drivers ordered by priority, then name.
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	out := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Driver) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Open opens the named driver, or with an empty name the preferred driver
// that checks usable and opens. When every candidate fails the errors are
// joined.
func (r *Registry) Open(name string) (Binding, error) {
	if name != "" {
		r.mu.RLock()
		d, ok := r.drivers[name]
		r.mu.RUnlock()
		if !ok {
			return nil, &BindingNotFoundError{Name: name}
		}
		return open(d)
	}

	drivers := r.Drivers()
	if len(drivers) == 0 {
		return nil, ErrNoBindingAvailable
	}
	var errs []error
	for _, d := range drivers {
		b, err := open(d)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBindingAvailable, errors.Join(errs...))
}

func open(d Driver) (Binding, error) {
	if err := d.usable(); err != nil {
		return nil, &BindingUnavailableError{Name: d.Name, Err: err}
	}
	b, err := d.Open()
	if err != nil {
		return nil, fmt.Errorf("native: open %s: %w", d.Name, err)
	}
	return b, nil
}

// ErrNoBindingAvailable is returned when no driver could be opened.
var ErrNoBindingAvailable = errors.New("native: no binding available")

// BindingNotFoundError indicates a named driver is not registered.
type BindingNotFoundError struct {
	Name string
}

func (e *BindingNotFoundError) Error() string {
	return "native: binding not found: " + e.Name
}

// BindingUnavailableError indicates a driver whose check failed.
type BindingUnavailableError struct {
	Name string
	Err  error
}

func (e *BindingUnavailableError) Error() string {
	return "native: binding unavailable: " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the check error.
func (e *BindingUnavailableError) Unwrap() error { return e.Err }
