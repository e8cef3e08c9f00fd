package wavefront

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidIndex is returned when a face references a vertex that does not
// exist in the pool at the point the face is declared.
var ErrInvalidIndex = errors.New("Invalid index")

// errNoMatch signals that a rule does not apply at the current position.
// Combinators backtrack on it; every other error aborts the parse.
var errNoMatch = errors.New("wavefront: no match")

// LeftoverError reports input that no record rule could consume.
type LeftoverError struct {
	Remaining string
}

func (e *LeftoverError) Error() string {
	return fmt.Sprintf("parser error: failed parsing everything, leftover: %q", e.Remaining)
}

// IlluminationError reports an illum directive outside the known models.
type IlluminationError struct {
	Value int
}

func (e *IlluminationError) Error() string {
	return fmt.Sprintf("illegal illumination model %d (want 0..%d)", e.Value, len(illuminationNames)-1)
}

// ValidationError collects every field problem found in one material block.
type ValidationError struct {
	Material string
	errs     error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, 4)
	for _, err := range multierr.Errors(e.errs) {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.errs)
}

// Field errors reported by material validation.
var (
	ErrNameNotFound          = errors.New("Name not found")
	ErrAmbientNotFound       = errors.New("Ambient color not found")
	ErrDiffuseNotFound       = errors.New("Diffuse color not found")
	ErrSpecularNotFound      = errors.New("Specular color not found")
	ErrDuplicateName         = errors.New("Duplicate names found")
	ErrDuplicateAmbient      = errors.New("Duplicate ambient colors found")
	ErrDuplicateDiffuse      = errors.New("Duplicate diffuse colors found")
	ErrDuplicateSpecular     = errors.New("Duplicate specular colors found")
	ErrDuplicateTransmission = errors.New("Duplicate transmission colors found")
	ErrDuplicateEmissive     = errors.New("Duplicate emissive colors found")
	ErrDuplicateIllumination = errors.New("Duplicate illuminations found")
	ErrDuplicateAlpha        = errors.New("Duplicate alphas found")
	ErrDuplicateSpecularExp  = errors.New("Duplicate specular coefficients found")
	ErrDuplicateDensity      = errors.New("Duplicate optical densities found")
)
