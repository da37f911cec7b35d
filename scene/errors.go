package scene

import "errors"

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("scene: validation failed")

	// ErrDuplicateObjectID indicates two objects in one spec share an object_id.
	ErrDuplicateObjectID = errors.New("scene: duplicate object_id")
)

// ValidationError names the field that failed validation.
// Field is a JSON path such as "objects[1].material.reflectivity".
type ValidationError struct {
	Field  string
	Reason string

	cause error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return ErrValidation.Error() + ": " + e.Reason
	}
	return ErrValidation.Error() + ": " + e.Field + ": " + e.Reason
}

// Unwrap exposes ErrValidation and, for duplicates, ErrDuplicateObjectID.
func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrValidation, e.cause}
	}
	return []error{ErrValidation}
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// under prefixes the field path of a nested error.
func under(prefix string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := *ve
	if out.Field == "" {
		out.Field = prefix
	} else if out.Field[0] == '[' {
		out.Field = prefix + out.Field
	} else {
		out.Field = prefix + "." + out.Field
	}
	return &out
}
