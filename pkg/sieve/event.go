package sieve

// FileEvent is broadcast to subscribers after each processing attempt.
// Err is nil when the file was filtered and its source removed.
type FileEvent struct {
	Err    error
	Path   string // Source path in the raw directory.
	Name   string // Base file name, shared by source and destination.
	Result Result
}
