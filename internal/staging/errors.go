package staging

import "errors"

// Staging area errors.
var (
	// ErrAreaExists is returned when creating an area over an existing
	// directory. Each pass must get a fresh directory; hitting this means
	// the coordinator handed out the same path twice.
	ErrAreaExists = errors.New("staging directory already exists")

	// ErrUnknownCharset is returned when a file declares an encoding the
	// decoder does not recognize.
	ErrUnknownCharset = errors.New("unknown charset")
)
