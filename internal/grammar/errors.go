package grammar

import "fmt"

// ParseError reports source text a grammar parser could not accept. Unlike
// the generic line-oriented path, grammar-aware parsing requires valid
// syntax; the error propagates to the caller unmodified.
type ParseError struct {
	Language string
	Line     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s source is not syntactically valid (line %d)", e.Language, e.Line)
}

// Skippable marks the error as tolerable for lenient batch processing.
func (e *ParseError) Skippable() bool {
	return true
}
