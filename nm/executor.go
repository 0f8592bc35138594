package nm

import "strings"

// Result is the uninterpreted outcome of a single tool invocation.
type Result struct {
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
}

// OK reports whether the tool exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Executor runs the network-management tool with the given arguments.
//
// Run returns the exit code and the combined stdout and stderr. A non-zero
// exit is not an error; the returned error is reserved for failures to
// launch the tool at all.
type Executor interface {
	Run(args ...string) (Result, error)
}

// CommandString renders args the way they would be typed after the binary name.
func CommandString(args []string) string {
	return strings.Join(args, " ")
}
