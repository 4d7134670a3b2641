package amf3

import (
	"time"

	"github.com/flexwire/amf3/internal/options"
	"github.com/flexwire/amf3/registry"
)

// Config carries the codec's configuration knobs, plus the alias Registry
// a Decoder/Encoder consults for Object traits.
type Config struct {
	// UseProxies, when true, encodes lists as ArrayCollection proxies and
	// dicts as ObjectProxy proxies; on decode, unwraps through the
	// proxy callback.
	UseProxies bool

	// StringReferences, when false, emits every string inline and never
	// interns it — useful for debugging or producing canonical forms.
	StringReferences bool

	// Strict, when true, makes an unknown class alias fatal at decode
	// time; when false, a synthetic TypedObject alias is produced.
	Strict bool

	// TimezoneOffset, when non-zero, shifts emitted/received Date values
	// by this offset to reconcile local/UTC.
	TimezoneOffset time.Duration

	// Registry resolves class aliases for Object encoding/decoding. A
	// nil Registry is valid: Object decode then treats every named class
	// as unknown (TypedObject fallback, or an error in strict mode), and Object encode
	// fails with errs.ErrNoAliasForType for any non-builtin value.
	Registry *registry.Registry
}

// DefaultConfig returns the Config used when no Options are supplied:
// string references on, proxies off, strict off, no timezone shift, no
// registry.
func DefaultConfig() *Config {
	return &Config{
		StringReferences: true,
	}
}

// Option configures a Config via the functional-options pattern.
type Option = options.Option[*Config]

// WithProxies enables ArrayCollection/ObjectProxy wrapping.
func WithProxies() Option {
	return options.NoError(func(c *Config) {
		c.UseProxies = true
	})
}

// WithStringReferences toggles string interning. Pass false to force every
// string to be emitted inline.
func WithStringReferences(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.StringReferences = enabled
	})
}

// WithStrictMode toggles fatal treatment of unknown class aliases on
// decode.
func WithStrictMode(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.Strict = enabled
	})
}

// WithTimezoneOffset sets the Date adjustment applied on read (added) and
// write (subtracted), matching original_source/pyamf/amf3.py's
// readDate/writeDate symmetry.
func WithTimezoneOffset(offset time.Duration) Option {
	return options.NoError(func(c *Config) {
		c.TimezoneOffset = offset
	})
}

// WithRegistry supplies the class-alias directory used to resolve Object
// traits.
func WithRegistry(r *registry.Registry) Option {
	return options.NoError(func(c *Config) {
		c.Registry = r
	})
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
