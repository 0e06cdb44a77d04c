//go:build windows

package sieve

// newline is the host platform's line terminator, appended to every
// retained line.
const newline = "\r\n"
