package assembler

import "fmt"

// LineError reports a failure to assemble a source line.
type LineError struct {
	Line int    // 1-based line number
	Text string // trimmed line content
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d '%s': %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
