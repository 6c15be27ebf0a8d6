package source

// Option configures a Source.
type Option func(*settings)

type settings struct {
	onSkip func(line int, err error)
}

// WithSkipHook is called for every malformed row that is dropped.
func WithSkipHook(fn func(line int, err error)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onSkip = fn
		}
	}
}
