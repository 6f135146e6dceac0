// Package exitcodes defines the process exit codes of qunit-acceptor.
package exitcodes

// A run that passed or was entirely skipped exits with Success. A run in
// which modules failed or errored exits with TestFailure. RuntimeErr is
// used when no results could be produced: bad configuration, an unknown
// preset, an unreachable hub or a panic.
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
