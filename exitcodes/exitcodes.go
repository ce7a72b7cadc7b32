// Package exitcodes defines the standard exit codes used by devsuite.
package exitcodes

// Exit code constants:
//
// * Success (0): all configured test types passed
// * TestFailure (1): one or more configured test types failed
// * RuntimeErr (2): runtime errors such as bad configuration or panics
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
