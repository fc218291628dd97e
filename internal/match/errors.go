package match

import "errors"

var (
	// ErrLowQualityQuestion rejects store requests that fail the high-quality
	// rule (more than five words and a literal '?').
	ErrLowQualityQuestion = errors.New("question must have more than 5 words and contain '?'")

	// ErrCorruptState reports that the question store and the vector index
	// disagree on how many entries exist. The two are written in lock-step;
	// a mismatch means a snapshot is stale or a write was torn, and the
	// engine refuses to serve from it.
	ErrCorruptState = errors.New("question store and vector index counts differ")
)
