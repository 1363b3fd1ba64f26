// Package logging defines the verbosity levels used with logr throughout
// the evolver. Levels follow the usual logr convention: higher is noisier.
package logging

const (
	// INFO is the default level for run-lifecycle messages.
	INFO = 0

	// DEBUG is for per-iteration and per-edge propagation detail.
	DEBUG = 1

	// TRACE is for per-solve detail, including problem sizes and bounds.
	TRACE = 2
)
