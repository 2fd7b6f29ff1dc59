package resolver

import "go.trai.ch/devshell/internal/core/domain"

type options struct {
	venvDir string
	hooks   domain.Hooks
}

// Option configures a single resolution.
type Option func(*options)

// WithVenvDir sets the virtual environment directory. Empty values are ignored.
func WithVenvDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.venvDir = dir
		}
	}
}

// WithHooks appends user hooks after the default hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.hooks.Setup = append(o.hooks.Setup, hooks.Setup...)
		o.hooks.Activate = append(o.hooks.Activate, hooks.Activate...)
	}
}

func applyOptions(opts []Option) options {
	o := options{venvDir: domain.DefaultVenvDir}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
