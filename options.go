package singleton

// Option mutates Config when constructing a holder.
type Option func(Config) Config

// WithName overrides the diagnostic name of the held value.
func WithName(name string) Option {
	return func(cfg Config) Config {
		cfg.Name = name
		return cfg
	}
}

// WithObserver attaches an observer to receive holder events.
func WithObserver(o Observer) Option {
	return func(cfg Config) Config {
		cfg.Observer = o
		return cfg
	}
}

// WithGuard claims g before the constructor runs.
func WithGuard(g *Guard) Option {
	return func(cfg Config) Config {
		cfg.Guard = g
		return cfg
	}
}

func buildConfig[T any](opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}
	return cfg.withDefaults(typeName[T]())
}
