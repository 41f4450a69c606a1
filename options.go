package segtab

import (
	"github.com/fracturedlabs/segtab/segment"
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	indexName   string
	defaultKind segment.Kind
	cursor      *Cursor
}

// Option configures Table constructor behavior.
//
// Configuration enters exclusively through options; there is no ambient
// process-wide state.
type Option func(*options)

// WithLogger configures the structured logger used for diagnostic
// notices (duplicate-row dropping during distribution, cursor resets).
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metrics = c
	}
}

// WithIndexName configures the name of the row-label column in
// materialized views. Defaults to "index".
func WithIndexName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.indexName = name
		}
	}
}

// WithDefaultKind configures the scratch segment kind that columns
// absent from the column spec are routed to. Defaults to segment.Cache.
func WithDefaultKind(k segment.Kind) Option {
	return func(o *options) {
		if k.Known() {
			o.defaultKind = k
		}
	}
}

// WithCursor pre-positions the focus cursor instead of deriving it from
// the first available row, column and selector. Dimensions that do not
// validate against the constructed table are reset to unset.
func WithCursor(c Cursor) Option {
	return func(o *options) {
		o.cursor = &c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		indexName:   "index",
		defaultKind: segment.Cache,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
