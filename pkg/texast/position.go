package texast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int `json:"start" yaml:"start"`

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int `json:"end" yaml:"end"`
}
