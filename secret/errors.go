package secret

import "errors"

var (
	// ErrNotFound indicates the backend has no secret by that name.
	ErrNotFound = errors.New("secret: not found")

	// ErrAccessDenied indicates the backend refused the caller's credentials.
	ErrAccessDenied = errors.New("secret: access denied")

	// ErrClientUnavailable indicates the backend client could not be built.
	ErrClientUnavailable = errors.New("secret: client unavailable")

	// ErrUnsupported indicates the backend cannot perform the operation.
	ErrUnsupported = errors.New("secret: unsupported operation")

	// ErrInvalidName indicates an empty or malformed secret name.
	ErrInvalidName = errors.New("secret: invalid name")

	// ErrEmptyValue indicates an attempt to store an empty value.
	ErrEmptyValue = errors.New("secret: empty value")

	// ErrUnknownKind indicates an unrecognised backend name.
	ErrUnknownKind = errors.New("secret: unknown provider kind")

	// ErrInvalidConfig indicates a Config that cannot build its backend.
	ErrInvalidConfig = errors.New("secret: invalid config")

	// ErrClosed indicates use of a closed resolver.
	ErrClosed = errors.New("secret: resolver closed")
)

// terminal reports whether retrying err cannot help.
func terminal(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrClientUnavailable) ||
		errors.Is(err, ErrUnsupported)
}

func isClientUnavailable(err error) bool {
	return errors.Is(err, ErrClientUnavailable)
}
