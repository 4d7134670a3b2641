// Package errs collects the sentinel errors shared by every amf3 package.
//
// Callers should match on these values with errors.Is rather than string
// comparison; wrapping call sites use fmt.Errorf("...: %w", errs.ErrXxx) so
// the sentinel survives any amount of context added on top.
package errs

import (
	"errors"
	"io"
)

var (
	// ErrOverflow is returned when a U29 value falls outside the range the
	// variable-length integer encoding can represent.
	ErrOverflow = errors.New("amf3: value out of range for U29 encoding")

	// ErrEmptyDictKey is returned when encoding a mapping that contains an
	// empty string key. AMF3 has no way to distinguish an empty associative
	// key from the dense-array terminator, so this is always a hard error.
	ErrEmptyDictKey = errors.New("amf3: dict keys must not be empty strings")

	// ErrTimeOnlyValue is returned when asked to encode a time-of-day value
	// with no date component. AMF3 has no wire type for this.
	ErrTimeOnlyValue = errors.New("amf3: AMF3 has no type for time-only values")

	// ErrUnknownEncoding is returned when an object trait header names an
	// object-encoding kind outside {Static, External, Dynamic, Proxy}.
	ErrUnknownEncoding = errors.New("amf3: unknown object encoding")

	// ErrUnresolvedReference is returned when a decoded reference index has
	// no corresponding entry in the relevant reference table.
	ErrUnresolvedReference = errors.New("amf3: unresolved reference index")

	// ErrUnknownClassAlias is returned in strict decode mode when a class
	// name in the stream has no registered alias.
	ErrUnknownClassAlias = errors.New("amf3: unknown class alias")

	// ErrExternalizableRequired is returned when an object trait declares
	// the External encoding but the resolved alias has no externalizable
	// callbacks.
	ErrExternalizableRequired = errors.New("amf3: class is not externalizable")

	// ErrNoAliasForType is returned when the encoder cannot find a
	// registered alias for a host value's concrete type.
	ErrNoAliasForType = errors.New("amf3: no registered alias for type")
)

// EOStream is the sentinel signaling a clean end of the element stream.
// It is exactly io.EOF: non-fatal at the top level, caught only by a
// batch-decode helper looping over readElement, which is precisely the
// contract Go already attaches to io.EOF.
var EOStream = io.EOF
