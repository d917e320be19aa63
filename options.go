package hwsurface

// DeviceOption configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	// Default: leaked surfaces panic
//	dev, err := hwsurface.NewDevice(binding)
//
//	// Labelled device that counts leaks instead of panicking
//	dev, err := hwsurface.NewDevice(binding,
//	    hwsurface.WithLabel("compositor"),
//	    hwsurface.WithLeakHandler(func(s *hwsurface.Surface) { leaks.Add(1) }),
//	)
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	label string
	leak  func(*Surface)
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		leak: panicOnLeak,
	}
}

// WithLabel sets a label attached to every log record of the device.
func WithLabel(label string) DeviceOption {
	return func(o *deviceOptions) {
		o.label = label
	}
}

// WithLeakHandler replaces the handler run when a surface created by the
// device is garbage collected without DestroySurface. The default handler
// panics, which crashes the program: leaking native resources is a bug.
//
// The handler runs on the finalizer goroutine with no context current. It
// must not call Device methods. Passing nil keeps the default.
func WithLeakHandler(fn func(*Surface)) DeviceOption {
	return func(o *deviceOptions) {
		if fn != nil {
			o.leak = fn
		}
	}
}
