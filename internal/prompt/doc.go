// Package prompt asks the operator for the output mode and, for a compiled
// output, the segment order. It is only used when neither flags nor config
// decide the plan and stdin is a terminal.
package prompt
