package asset

import "errors"

// Error taxonomy shared by the tree, the accessors, and the tlv codec.
// Callers match with errors.Is; operations wrap these with context via
// fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound reports an asset, instance, or field absent from the
	// tree, or a missing model definition.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports an explicit instance id collision.
	ErrDuplicate = errors.New("duplicate instance id")

	// ErrFault reports a contract violation: type mismatch on access, a
	// malformed record stream, a value too large to encode, or execute on
	// a non-executable field.
	ErrFault = errors.New("fault")

	// ErrOverflow reports a destination buffer too small. Recoverable by
	// retrying with a larger buffer; any partial output must be discarded.
	ErrOverflow = errors.New("buffer overflow")

	// ErrUnavailable reports a synchronous read deferred to an
	// asynchronous path; the value arrives later via a separate write.
	ErrUnavailable = errors.New("value unavailable")
)
