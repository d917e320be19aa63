// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native defines the binding layer consumed by hwsurface.
//
// hwsurface never talks to EGL, GLES or the platform buffer allocator
// directly. Everything it needs is expressed as a small set of capability
// interfaces, grouped into [Binding]:
//
//   - [Contexts]: config selection, context creation, make-current
//   - [Buffers]: off-screen hardware buffer allocation and release
//   - [Images]: importing a hardware buffer as an image object
//   - [Windows]: window surface creation, destruction and buffer swap
//   - [GL]: the handful of rendering calls used to wire textures,
//     framebuffers and renderbuffers together
//
// Handles are opaque integers. The zero value of every handle type is the
// null handle.
//
// # Registry
//
// Bindings register a Driver by name and priority:
//
//	func init() {
//	    native.Register(native.Driver{Name: "egl", Priority: 100, Open: openEGL, Check: eglAvailable})
//	}
//
//	b, err := native.Open("")    // best usable driver
//	b, err := native.Open("egl") // a specific one
//
// The software binding in native/soft registers itself as "software".
package native
