package render

// Option configures a chart.
type Option func(*options)

type options struct {
	width  int
	height int
	bins   int
}

func defaults() options {
	return options{width: 960, height: 480, bins: 25}
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithBins bounds the number of histogram bars.
func WithBins(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bins = n
		}
	}
}

func apply(opts []Option) options {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
