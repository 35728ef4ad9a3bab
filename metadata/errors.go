package metadata

import (
	"errors"
	"fmt"
)

// ErrNoMetadata is reported when a type exposes no discoverable constraint
// metadata at all. This is different from a type with zero constraints.
var ErrNoMetadata = errors.New("no constraint metadata")

// MetadataExtractionError is returned when constraints of a target cannot be
// extracted. It is never retried: metadata is static.
type MetadataExtractionError struct {
	Target string
	Err    error
}

func (e *MetadataExtractionError) Error() string {
	return fmt.Sprintf("extract constraints of %s: %s", e.Target, e.Err)
}

func (e *MetadataExtractionError) Unwrap() error {
	return e.Err
}
