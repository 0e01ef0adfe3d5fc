// Package output writes user-facing text with semantic styling. The same
// printer serves the host console and the in-game terminal; the terminal
// always gets plain text since it draws glyphs, not escape sequences.
package output

// StyleProvider supplies a TextStyle per semantic type.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type such as "info" or "error".
	GetStyle(semantic string) TextStyle

	// IsAvailable reports whether styles can be used right now. The printer
	// falls back to plain text when it is false.
	IsAvailable() bool
}

// TextStyle renders text.
type TextStyle interface {
	Render(text string) string
}

// SemanticType is the meaning of a piece of output.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"
)
