package output

// PlainTextStyle renders text with an optional prefix and no escape codes.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a new plain text style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

// Render implements TextStyle.
func (p *PlainTextStyle) Render(text string) string {
	return p.prefix + text
}

// PlainStyleProvider marks errors with an ASCII prefix, which every bitmap
// font can draw.
type PlainStyleProvider struct{}

var plainStyles = NewPlainStyleProvider()

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle implements StyleProvider.
func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticError:
		return NewPlainTextStyle("error: ")
	default:
		return NewPlainTextStyle("")
	}
}

// IsAvailable implements StyleProvider.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}
