package multipart

import "context"

const (
	defaultMaxHeaderSize = 8 << 10   // 8192 bytes
	defaultMaxFileSize   = 1<<31 - 1 // 2^31-1 bytes
)

// parserConfig holds the resolved per-session limits and context: a plain
// struct of defaults, mutated in place by a slice of functional options.
type parserConfig struct {
	maxHeaderSize int
	maxFileSize   int64
	ctx           context.Context
}

func defaultParserConfig() parserConfig {
	return parserConfig{
		maxHeaderSize: defaultMaxHeaderSize,
		maxFileSize:   defaultMaxFileSize,
		ctx:           context.Background(),
	}
}

// Option configures a parse Session. Each Option is a closure over the
// config struct that silently ignores an out-of-range override rather than
// returning an error, since these are tuning knobs, not correctness
// parameters.
type Option func(*parserConfig)

// WithMaxHeaderSize overrides the maximum number of bytes a part's header
// block may occupy before HeaderTooLarge is raised. Default 8192.
func WithMaxHeaderSize(n int) Option {
	return func(cfg *parserConfig) {
		if n > 0 {
			cfg.maxHeaderSize = n
		}
	}
}

// WithMaxFileSize overrides the maximum number of payload bytes a single
// part may contain before PartTooLarge is raised. Default 2^31-1.
func WithMaxFileSize(n int64) Option {
	return func(cfg *parserConfig) {
		if n > 0 {
			cfg.maxFileSize = n
		}
	}
}

// WithContext sets the context used for the pulls made while reading a
// PartStream's Body (and so Bytes, Text and WriteTo). Cancelling it makes
// the next such pull fail. Session.Next and Session.ForEach do not use it;
// their pulls use the context passed to them.
func WithContext(ctx context.Context) Option {
	return func(cfg *parserConfig) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}
