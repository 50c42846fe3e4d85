package gen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID returns a unique identifier generated from a UUID, using the last 12 characters.
func ID() string {
	id := uuid.NewString()

	return strings.ToUpper(id[len(id)-12:])
}

// Number returns a prefixed document number, e.g. Number("INV") -> "INV-3F2A9C1B04D7".
// Used for invoice and service bill numbers when the operator does not supply one.
func Number(prefix string) string {
	return fmt.Sprintf("%s-%s", strings.ToUpper(prefix), ID())
}
