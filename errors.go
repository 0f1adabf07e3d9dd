package leafmark

// Error classification for per-pair and per-node failure isolation. All of
// these are recovered at the pair level; one bad input never aborts a batch.

import "errors"

var (
	// ErrParse marks a hierarchy document that is not well-formed markup or
	// does not have the expected root element. The whole pair is skipped.
	ErrParse = errors.New("malformed hierarchy document")

	// ErrSchema marks a single node whose bounds attribute is malformed.
	// The node is skipped and traversal continues.
	ErrSchema = errors.New("invalid bounds attribute")

	// ErrPairing marks an input file with no matching counterpart.
	ErrPairing = errors.New("no matching counterpart")

	// ErrIO marks a canvas that cannot be read or an output that cannot be
	// written. The pair is marked failed.
	ErrIO = errors.New("canvas I/O failed")
)
