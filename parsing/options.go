package parsing

import "context"

// ParseOptions configures one load.
type ParseOptions struct {
	debug bool
	dry   bool
	ctx   context.Context
}

// ParseOption mutates ParseOptions.
type ParseOption func(*ParseOptions)

// WithDebug keeps debug entries in the load log.
func WithDebug() ParseOption {
	return func(o *ParseOptions) { o.debug = true }
}

// WithDry parses without side effects: triggers are built but not
// registered with the event bus and addon hooks are skipped.
func WithDry() ParseOption {
	return func(o *ParseOptions) { o.dry = true }
}

// WithContext bounds the load; cancellation makes pending pattern matches
// fail as non-matches.
func WithContext(ctx context.Context) ParseOption {
	return func(o *ParseOptions) { o.ctx = ctx }
}

func buildOptions(opts []ParseOption) ParseOptions {
	var o ParseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
