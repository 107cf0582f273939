package search

import "time"

type queryOptions struct {
	now func() time.Time
}

// Option customizes query compilation.
type Option func(*queryOptions)

// WithClock sets the clock used by relative filters such as recent=yes.
func WithClock(now func() time.Time) Option {
	return func(o *queryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) queryOptions {
	o := queryOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
