package scanco

// Read/write state machines. Each Reader/Writer instance tracks the
// single sequential path its one operation must follow; calls out of
// order fail with KindSequence rather than silently re-reading or
// double-writing the stream.

type readState int

const (
	readUnread readState = iota
	readHeaderDone
	readPixelsDone
)

type writeState int

const (
	writeUnwritten writeState = iota
	writeHeaderDone
	writePixelsDone
)
