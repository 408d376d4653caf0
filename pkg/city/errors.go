package city

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/validation"
)

var (
	// ErrNotBuilt is returned by queries on a layout that is not Built.
	ErrNotBuilt = errors.New("city layout not built")
	// ErrAlreadyGenerated is returned by Generate on a layout that already ran.
	ErrAlreadyGenerated = errors.New("city layout already generated")
)

// InvariantViolation reports a generated layout that failed validation.
// It points at a generator bug, not at bad input.
type InvariantViolation struct {
	Entity  string
	Message string
	Report  *validation.Report
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("layout invariant violated by %s: %s", e.Entity, e.Message)
}
