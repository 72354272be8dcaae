package texast

import "fmt"

// Diagnostic is one parse failure located by line.
type Diagnostic struct {
	// Line is 1-based; 0 means the failure has no known line.
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

// String formats the diagnostic as "line N: message".
func (d Diagnostic) String() string {
	if d.Line <= 0 {
		return d.Message
	}
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}
