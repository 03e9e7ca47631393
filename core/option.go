package core

import (
	"errors"
	"log/slog"
)

// Option is a function that configures the Resolver.
// Options return errors to enable validation during construction.
type Option func(*Resolver) error

// New creates a Resolver with the provided options.
//
// Without options the resolver logs through slog.Default() and reports to no
// observer.
//
// Example:
//
//	resolver, err := core.New(
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sub, _, err := core.Resolve(ctx, resolver, r.Header.Get("Authorization"), core.String("sub"))
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// WithLogger sets the logger used to report payload decode and coercion
// failures, which are otherwise invisible to callers.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	resolver, _ := core.New(core.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// WithObserver sets an observer notified with the result of every claim resolution.
func WithObserver(observer Observer) Option {
	return func(r *Resolver) error {
		if observer == nil {
			return errors.New("observer cannot be nil")
		}
		r.observer = observer
		return nil
	}
}
